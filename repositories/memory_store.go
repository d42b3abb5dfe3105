package repositories

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Dosada05/swiss-tournament/models"
)

// memorySwissStore keeps everything in maps behind one mutex, so every
// method is atomic. Returned values are copies.
type memorySwissStore struct {
	mu sync.Mutex

	lastTournamentID int
	lastPlayerID     int
	lastMatchID      int

	tournaments map[int]models.Tournament
	players     map[int]models.Player
	scoreCards  map[int]models.ScoreRecord // keyed by player id
	matches     map[int][]models.MatchRecord

	now func() time.Time
}

func NewMemorySwissStore() SwissStore {
	return &memorySwissStore{
		tournaments: make(map[int]models.Tournament),
		players:     make(map[int]models.Player),
		scoreCards:  make(map[int]models.ScoreRecord),
		matches:     make(map[int][]models.MatchRecord),
		now:         time.Now,
	}
}

func (s *memorySwissStore) CreateTournament(ctx context.Context, name string) (*models.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastTournamentID++
	t := models.Tournament{ID: s.lastTournamentID, Name: name, CreatedAt: s.now()}
	s.tournaments[t.ID] = t
	return &t, nil
}

func (s *memorySwissStore) GetTournament(ctx context.Context, tournamentID int) (*models.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tournaments[tournamentID]
	if !ok {
		return nil, ErrTournamentNotFound
	}
	return &t, nil
}

func (s *memorySwissStore) ListTournaments(ctx context.Context) ([]*models.Tournament, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tournaments := make([]*models.Tournament, 0, len(s.tournaments))
	for _, t := range s.tournaments {
		t := t
		tournaments = append(tournaments, &t)
	}
	sort.Slice(tournaments, func(i, j int) bool { return tournaments[i].ID < tournaments[j].ID })
	return tournaments, nil
}

func (s *memorySwissStore) ResetTournament(ctx context.Context, tournamentID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[tournamentID]; !ok {
		return ErrTournamentNotFound
	}
	for id, p := range s.players {
		if p.TournamentID == tournamentID {
			delete(s.players, id)
			delete(s.scoreCards, id)
		}
	}
	delete(s.matches, tournamentID)
	return nil
}

func (s *memorySwissStore) RegisterPlayer(ctx context.Context, tournamentID int, name string) (*models.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[tournamentID]; !ok {
		return nil, ErrTournamentNotFound
	}
	s.lastPlayerID++
	p := models.Player{
		ID:           s.lastPlayerID,
		TournamentID: tournamentID,
		Name:         name,
		Status:       models.PlayerStatusActive,
		CreatedAt:    s.now(),
	}
	s.players[p.ID] = p
	s.scoreCards[p.ID] = models.ScoreRecord{TournamentID: tournamentID, PlayerID: p.ID}
	return &p, nil
}

func (s *memorySwissStore) WithdrawPlayer(ctx context.Context, tournamentID, playerID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok || p.TournamentID != tournamentID {
		return ErrPlayerNotFound
	}
	p.Status = models.PlayerStatusWithdrawn
	s.players[playerID] = p
	return nil
}

func (s *memorySwissStore) ListPlayers(ctx context.Context, tournamentID int) ([]*models.Player, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	players := make([]*models.Player, 0)
	for _, p := range s.players {
		if p.TournamentID == tournamentID {
			p := p
			players = append(players, &p)
		}
	}
	sort.Slice(players, func(i, j int) bool { return players[i].ID < players[j].ID })
	return players, nil
}

func (s *memorySwissStore) GetPlayerName(ctx context.Context, playerID int) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.players[playerID]
	if !ok {
		return "", ErrPlayerNotFound
	}
	return p.Name, nil
}

func (s *memorySwissStore) GetScoreRecord(ctx context.Context, tournamentID, playerID int) (*models.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scoreCards[playerID]
	if !ok || sc.TournamentID != tournamentID {
		return nil, ErrScoreRecordNotFound
	}
	return &sc, nil
}

func (s *memorySwissStore) ListScoreRecords(ctx context.Context, tournamentID int) ([]*models.ScoreRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	cards := make([]*models.ScoreRecord, 0)
	for _, sc := range s.scoreCards {
		if sc.TournamentID == tournamentID {
			sc := sc
			cards = append(cards, &sc)
		}
	}
	sort.Slice(cards, func(i, j int) bool { return cards[i].PlayerID < cards[j].PlayerID })
	return cards, nil
}

func (s *memorySwissStore) ListMatches(ctx context.Context, tournamentID int) ([]*models.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.matches[tournamentID]
	matches := make([]*models.MatchRecord, 0, len(rows))
	for _, m := range rows {
		m := m
		matches = append(matches, &m)
	}
	return matches, nil
}

func (s *memorySwissStore) ApplyByeCredit(ctx context.Context, tournamentID, playerID int) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.scoreCards[playerID]
	if !ok || sc.TournamentID != tournamentID {
		return ErrPlayerNotFound
	}
	sc.Score += models.PointsBye
	sc.Matches++
	sc.Byes++
	s.scoreCards[playerID] = sc
	return nil
}

func (s *memorySwissStore) ApplyMatchResult(ctx context.Context, tournamentID int, result models.MatchResult) (*models.MatchRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tournaments[tournamentID]; !ok {
		return nil, ErrTournamentNotFound
	}
	if result.WinnerID == result.LoserID {
		return nil, ErrMatchPlayersInvalid
	}
	winner, okWinner := s.scoreCards[result.WinnerID]
	loser, okLoser := s.scoreCards[result.LoserID]
	if !okWinner || !okLoser || winner.TournamentID != tournamentID || loser.TournamentID != tournamentID {
		return nil, ErrPlayerNotFound
	}

	winnerPoints, loserPoints := result.Points()
	winner.Score += winnerPoints
	winner.Matches++
	loser.Score += loserPoints
	loser.Matches++

	s.lastMatchID++
	record := models.MatchRecord{
		ID:           s.lastMatchID,
		TournamentID: tournamentID,
		WinnerID:     result.WinnerID,
		LoserID:      result.LoserID,
		Draw:         result.Draw,
		CreatedAt:    s.now(),
	}
	s.scoreCards[result.WinnerID] = winner
	s.scoreCards[result.LoserID] = loser
	s.matches[tournamentID] = append(s.matches[tournamentID], record)
	return &record, nil
}
