package models

import "time"

// Points awarded per result. A bye is worth a win.
const (
	PointsWin  = 2
	PointsDraw = 1
	PointsLoss = 0
	PointsBye  = PointsWin
)

// MatchRecord is one row of match history. For a draw WinnerID and LoserID
// only name the two sides.
type MatchRecord struct {
	ID           int       `json:"id" db:"id"`
	TournamentID int       `json:"tournament_id" db:"tournament_id"`
	WinnerID     int       `json:"winner_id" db:"winner_id"`
	LoserID      int       `json:"loser_id" db:"loser_id"`
	Draw         bool      `json:"draw" db:"draw"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// MatchResult is the input of a result report.
type MatchResult struct {
	WinnerID int  `json:"winner_id"`
	LoserID  int  `json:"loser_id"`
	Draw     bool `json:"draw"`
}

// Points returns the score deltas for winner and loser.
func (r MatchResult) Points() (winner, loser int) {
	if r.Draw {
		return PointsDraw, PointsDraw
	}
	return PointsWin, PointsLoss
}

// Pairing is one board of the next round, in discovery order.
type Pairing struct {
	Player1ID   int    `json:"id1"`
	Player1Name string `json:"name1"`
	Player2ID   int    `json:"id2"`
	Player2Name string `json:"name2"`
}

// Round is the outcome of a pairing request. Standings is the ranking the
// round was paired from and does not include the bye credit; Bye carries the
// recipient's values after it.
type Round struct {
	TournamentID int        `json:"tournament_id"`
	Bye          *Standing  `json:"bye,omitempty"`
	Pairings     []Pairing  `json:"pairings"`
	Standings    []Standing `json:"standings"`
	SheetURL     string     `json:"sheet_url,omitempty"`
}
