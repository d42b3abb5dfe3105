package brackets

import (
	"context"

	"github.com/Dosada05/swiss-tournament/models"
)

type GenerateRoundParams struct {
	TournamentID int
	Standings    []models.Standing // ranked, withdrawn players included
	History      *MatchHistory
}

// RoundPlan is what a generator proposes for the next round. Nothing in it
// has been written to the store yet.
type RoundPlan struct {
	Bye      *models.Standing
	Pairings []models.Pairing
}

type RoundGenerator interface {
	GenerateRound(ctx context.Context, params GenerateRoundParams) (*RoundPlan, error)

	GetName() string
}
