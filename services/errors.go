package services

import (
	"errors"
	"fmt"

	"github.com/Dosada05/swiss-tournament/brackets"
)

// Errors shared by the services and the HTTP error mapping.
var (
	ErrNotFound           = errors.New("not found")
	ErrTournamentNotFound = fmt.Errorf("tournament %w", ErrNotFound)
	ErrPlayerNotFound     = fmt.Errorf("player %w", ErrNotFound)

	ErrValidationFailed       = errors.New("validation failed")
	ErrTournamentNameRequired = fmt.Errorf("%w: tournament name is required", ErrValidationFailed)
	ErrPlayerNameRequired     = fmt.Errorf("%w: player name is required", ErrValidationFailed)
	ErrNameTooLong            = fmt.Errorf("%w: name is too long", ErrValidationFailed)
	ErrInvalidPlayerID        = fmt.Errorf("%w: player id must be positive", ErrValidationFailed)
	ErrSelfMatch              = fmt.Errorf("%w: a player cannot be paired against themselves", ErrValidationFailed)
	ErrByeNotRequired         = fmt.Errorf("%w: the active field is even, no bye is needed", ErrValidationFailed)
	ErrPlayerWithdrawn        = fmt.Errorf("%w: player has already withdrawn", ErrValidationFailed)

	// Round-fatal conditions; they need a manual fix of the tournament state.
	ErrExhaustedByes  = brackets.ErrExhaustedByes
	ErrNoValidPairing = brackets.ErrNoValidPairing

	// ErrStoreFailure wraps any other error coming from the record store.
	ErrStoreFailure = errors.New("record store operation failed")
)
