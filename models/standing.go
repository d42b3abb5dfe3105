package models

// ScoreRecord is the per (tournament, player) score card.
// Matches counts every recorded match row plus every bye.
type ScoreRecord struct {
	TournamentID int `json:"tournament_id" db:"tournament_id"`
	PlayerID     int `json:"player_id" db:"player_id"`
	Score        int `json:"score" db:"score"`
	Matches      int `json:"matches" db:"matches"`
	Byes         int `json:"byes" db:"byes"`
}

// Standing is derived on every request and never persisted.
type Standing struct {
	PlayerID  int    `json:"player_id"`
	Name      string `json:"name"`
	Score     int    `json:"score"`
	Matches   int    `json:"matches"`
	Byes      int    `json:"byes"`
	OMW       *int   `json:"omw"` // nil until the player has an opponent
	Withdrawn bool   `json:"withdrawn,omitempty"`
}
