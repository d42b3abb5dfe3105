package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
	"github.com/google/uuid"
)

// RoundSheet is the published document of a paired round.
type RoundSheet struct {
	TournamentID int               `json:"tournament_id"`
	GeneratedAt  time.Time         `json:"generated_at"`
	Bye          *models.Standing  `json:"bye,omitempty"`
	Pairings     []models.Pairing  `json:"pairings"`
	Standings    []models.Standing `json:"standings"`
}

// RoundSheetPublisher uploads round sheets as JSON objects.
type RoundSheetPublisher struct {
	uploader FileUploader
	now      func() time.Time
	newKeyID func() string
}

func NewRoundSheetPublisher(uploader FileUploader) *RoundSheetPublisher {
	return &RoundSheetPublisher{
		uploader: uploader,
		now:      time.Now,
		newKeyID: uuid.NewString,
	}
}

// Publish returns the public URL of the uploaded sheet.
func (p *RoundSheetPublisher) Publish(ctx context.Context, round *models.Round) (string, error) {
	sheet := RoundSheet{
		TournamentID: round.TournamentID,
		GeneratedAt:  p.now().UTC(),
		Bye:          round.Bye,
		Pairings:     round.Pairings,
		Standings:    round.Standings,
	}
	body, err := json.Marshal(sheet)
	if err != nil {
		return "", fmt.Errorf("failed to encode round sheet: %w", err)
	}

	key := fmt.Sprintf("tournaments/%d/rounds/%s.json", round.TournamentID, p.newKeyID())
	result, err := p.uploader.Upload(ctx, key, "application/json", bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	return result.Location, nil
}
