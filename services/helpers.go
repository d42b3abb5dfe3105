package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Dosada05/swiss-tournament/repositories"
)

const maxNameLength = 200

// handleRepositoryError translates store errors into service errors.
func handleRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrPlayerNotFound),
		errors.Is(err, repositories.ErrScoreRecordNotFound):
		return ErrPlayerNotFound
	case errors.Is(err, repositories.ErrMatchPlayersInvalid):
		return ErrSelfMatch
	default:
		return fmt.Errorf("%w: %w", ErrStoreFailure, err)
	}
}

func normalizeName(name string, required error) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", required
	}
	if utf8.RuneCountInString(name) > maxNameLength {
		return "", ErrNameTooLong
	}
	return name, nil
}
