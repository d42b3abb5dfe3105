package brackets

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/Dosada05/swiss-tournament/models"
)

// DefaultBacktrackLimit caps how many pairs the search may undo per round.
const DefaultBacktrackLimit = 10000

var (
	ErrExhaustedByes  = errors.New("every active player has already received a bye")
	ErrNoValidPairing = errors.New("no rematch-free pairing exists for the remaining players")
	ErrOddField       = errors.New("cannot pair an odd number of players")
)

type SwissGenerator struct {
	backtrackLimit int
}

func NewSwissGenerator(backtrackLimit int) RoundGenerator {
	if backtrackLimit <= 0 {
		backtrackLimit = DefaultBacktrackLimit
	}
	return &SwissGenerator{backtrackLimit: backtrackLimit}
}

func (g *SwissGenerator) GetName() string {
	return "Swiss"
}

// GenerateRound drops withdrawn players, picks a bye when the active field is
// odd and pairs everybody else.
func (g *SwissGenerator) GenerateRound(ctx context.Context, params GenerateRoundParams) (*RoundPlan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	field := ActiveStandings(params.Standings)
	plan := &RoundPlan{}

	if len(field)%2 != 0 {
		idx, err := SelectBye(field)
		if err != nil {
			return nil, fmt.Errorf("tournament %d: %w", params.TournamentID, err)
		}
		bye := field[idx]
		plan.Bye = &bye
		field = slices.Delete(slices.Clone(field), idx, idx+1)
	}

	pairings, err := PairStandings(field, params.History, g.backtrackLimit)
	if err != nil {
		return nil, fmt.Errorf("tournament %d: %w", params.TournamentID, err)
	}
	plan.Pairings = pairings
	return plan, nil
}

// ActiveStandings keeps the order of standings and skips withdrawn players.
func ActiveStandings(standings []models.Standing) []models.Standing {
	active := make([]models.Standing, 0, len(standings))
	for _, s := range standings {
		if !s.Withdrawn {
			active = append(active, s)
		}
	}
	return active
}

// SelectBye returns the index of the highest ranked player without a bye.
func SelectBye(standings []models.Standing) (int, error) {
	for i := range standings {
		if standings[i].Byes == 0 {
			return i, nil
		}
	}
	return -1, ErrExhaustedByes
}

type board struct {
	p1, p2 int
}

// PairStandings pairs ranked players top-down. Each unpaired player takes the
// nearest player below it that it has not met yet. When some player has no
// such partner left the most recent board is undone and its first player moves
// on to the next candidate. At most limit boards are undone.
//
// The bye recipient must already be removed: an odd field fails with ErrOddField.
func PairStandings(standings []models.Standing, history *MatchHistory, limit int) ([]models.Pairing, error) {
	n := len(standings)
	if n%2 != 0 {
		return nil, fmt.Errorf("%w: %d players left after the bye", ErrOddField, n)
	}
	used := make([]bool, n)
	boards := make([]board, 0, n/2)

	nextPartner := func(p1, after int) int {
		for k := after + 1; k < n; k++ {
			if used[k] {
				continue
			}
			if history.Played(standings[p1].PlayerID, standings[k].PlayerID) {
				continue
			}
			return k
		}
		return -1
	}
	firstUnpaired := func() int {
		for i := 0; i < n; i++ {
			if !used[i] {
				return i
			}
		}
		return -1
	}

	undone := 0
	for unpaired := n; unpaired >= 2; unpaired -= 2 {
		p1 := firstUnpaired()
		p2 := nextPartner(p1, p1)
		for p2 < 0 {
			if len(boards) == 0 {
				return nil, fmt.Errorf("%w: player %d has met every remaining candidate",
					ErrNoValidPairing, standings[p1].PlayerID)
			}
			undone++
			if limit > 0 && undone > limit {
				return nil, fmt.Errorf("%w: gave up after undoing %d boards", ErrNoValidPairing, limit)
			}
			last := boards[len(boards)-1]
			boards = boards[:len(boards)-1]
			used[last.p1], used[last.p2] = false, false
			unpaired += 2
			p1 = last.p1
			p2 = nextPartner(p1, last.p2)
		}
		used[p1], used[p2] = true, true
		boards = append(boards, board{p1: p1, p2: p2})
	}

	pairings := make([]models.Pairing, 0, len(boards))
	for _, b := range boards {
		s1, s2 := standings[b.p1], standings[b.p2]
		pairings = append(pairings, models.Pairing{
			Player1ID:   s1.PlayerID,
			Player1Name: s1.Name,
			Player2ID:   s2.PlayerID,
			Player2Name: s2.Name,
		})
	}
	return pairings, nil
}
