package models

import "time"

// PlayerStatus mirrors the status column of the players table.
type PlayerStatus string

const (
	PlayerStatusActive    PlayerStatus = "active"
	PlayerStatusWithdrawn PlayerStatus = "withdrawn"
)

// Player is registered in exactly one tournament.
type Player struct {
	ID           int          `json:"id" db:"id"`
	TournamentID int          `json:"tournament_id" db:"tournament_id"`
	Name         string       `json:"name" db:"name"`
	Status       PlayerStatus `json:"status" db:"status"`
	CreatedAt    time.Time    `json:"created_at" db:"created_at"`
}

func (p *Player) IsActive() bool {
	return p.Status != PlayerStatusWithdrawn
}
