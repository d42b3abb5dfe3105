package brackets

import (
	"sort"

	"github.com/Dosada05/swiss-tournament/models"
)

type pairKey struct {
	low, high int
}

func newPairKey(a, b int) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// MatchHistory answers "have these two met" in either direction.
type MatchHistory struct {
	played    map[pairKey]struct{}
	opponents map[int]map[int]struct{}
}

func NewMatchHistory(matches []*models.MatchRecord) *MatchHistory {
	h := &MatchHistory{
		played:    make(map[pairKey]struct{}, len(matches)),
		opponents: make(map[int]map[int]struct{}),
	}
	for _, m := range matches {
		if m == nil {
			continue
		}
		h.played[newPairKey(m.WinnerID, m.LoserID)] = struct{}{}
		h.addOpponent(m.WinnerID, m.LoserID)
		h.addOpponent(m.LoserID, m.WinnerID)
	}
	return h
}

func (h *MatchHistory) addOpponent(playerID, opponentID int) {
	set, ok := h.opponents[playerID]
	if !ok {
		set = make(map[int]struct{})
		h.opponents[playerID] = set
	}
	set[opponentID] = struct{}{}
}

func (h *MatchHistory) Played(a, b int) bool {
	if h == nil {
		return false
	}
	_, ok := h.played[newPairKey(a, b)]
	return ok
}

// Opponents returns the distinct opponents of playerID in ascending id order.
func (h *MatchHistory) Opponents(playerID int) []int {
	if h == nil {
		return nil
	}
	set := h.opponents[playerID]
	ids := make([]int, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

// RankStandings builds the standings table: score desc, OMW desc, matches asc,
// player id asc. OMW is the sum of the current scores of every distinct
// opponent; a player without opponents has a nil OMW, ranked below any value.
func RankStandings(players []*models.Player, scores []*models.ScoreRecord, history *MatchHistory) []models.Standing {
	cards := make(map[int]*models.ScoreRecord, len(scores))
	for _, sc := range scores {
		if sc != nil {
			cards[sc.PlayerID] = sc
		}
	}

	standings := make([]models.Standing, 0, len(players))
	for _, p := range players {
		if p == nil {
			continue
		}
		s := models.Standing{
			PlayerID:  p.ID,
			Name:      p.Name,
			Withdrawn: !p.IsActive(),
		}
		if card, ok := cards[p.ID]; ok {
			s.Score = card.Score
			s.Matches = card.Matches
			s.Byes = card.Byes
		}
		if opponents := history.Opponents(p.ID); len(opponents) > 0 {
			omw := 0
			for _, id := range opponents {
				if card, ok := cards[id]; ok {
					omw += card.Score
				}
			}
			s.OMW = &omw
		}
		standings = append(standings, s)
	}

	sort.Slice(standings, func(i, j int) bool {
		return standingLess(standings[i], standings[j])
	})
	return standings
}

func standingLess(a, b models.Standing) bool {
	if a.Score != b.Score {
		return a.Score > b.Score
	}
	if c := compareOMW(a.OMW, b.OMW); c != 0 {
		return c > 0
	}
	if a.Matches != b.Matches {
		return a.Matches < b.Matches
	}
	return a.PlayerID < b.PlayerID
}

func compareOMW(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	case *a > *b:
		return 1
	case *a < *b:
		return -1
	}
	return 0
}
