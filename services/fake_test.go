package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

func intPtr(v int) *int { return &v }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testEntry(id, tournamentID int, picks [models.RosterSize]string) models.Entry {
	return models.Entry{
		ID:            id,
		ParticipantID: id,
		TournamentID:  tournamentID,
		Player1ID:     picks[0],
		Player2ID:     picks[1],
		Player3ID:     picks[2],
		Player4ID:     picks[3],
		Player5ID:     picks[4],
		Player6ID:     picks[5],
	}
}

func testRow(playerID, position, status string) golfdata.LeaderboardRow {
	return golfdata.LeaderboardRow{
		PlayerID: playerID,
		Position: position,
		Status:   status,
	}
}

// In-memory repository fakes shared by the service tests.

type fakeTournamentRepo struct {
	mu          sync.Mutex
	tournaments map[int]models.Tournament
	nextID      int
}

func newFakeTournamentRepo() *fakeTournamentRepo {
	return &fakeTournamentRepo{tournaments: make(map[int]models.Tournament), nextID: 1}
}

func (f *fakeTournamentRepo) Create(_ context.Context, t *models.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.tournaments {
		if existing.Year == t.Year && existing.ExternalID == t.ExternalID {
			return repositories.ErrTournamentConflict
		}
	}
	t.ID = f.nextID
	f.nextID++
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt
	f.tournaments[t.ID] = *t
	return nil
}

func (f *fakeTournamentRepo) GetByID(_ context.Context, id int) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.tournaments[id]
	if !ok {
		return nil, repositories.ErrTournamentNotFound
	}
	return &t, nil
}

func (f *fakeTournamentRepo) GetByExternalID(_ context.Context, year int, externalID string) (*models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tournaments {
		if t.Year == year && t.ExternalID == externalID {
			t := t
			return &t, nil
		}
	}
	return nil, repositories.ErrTournamentNotFound
}

func (f *fakeTournamentRepo) List(_ context.Context, year *int) ([]models.Tournament, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Tournament, 0, len(f.tournaments))
	for _, t := range f.tournaments {
		if year == nil || t.Year == *year {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTournamentRepo) UpdateFromProvider(_ context.Context, _ repositories.SQLExecutor, t *models.Tournament) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tournaments[t.ID]; !ok {
		return repositories.ErrTournamentNotFound
	}
	f.tournaments[t.ID] = *t
	return nil
}

type fakeEntryRepo struct {
	mu      sync.Mutex
	entries map[int]models.Entry
	nextID  int
}

func newFakeEntryRepo() *fakeEntryRepo {
	return &fakeEntryRepo{entries: make(map[int]models.Entry), nextID: 1}
}

func (f *fakeEntryRepo) add(e models.Entry) models.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	if e.ID == 0 {
		e.ID = f.nextID
		f.nextID++
	} else if e.ID >= f.nextID {
		f.nextID = e.ID + 1
	}
	f.entries[e.ID] = e
	return e
}

func (f *fakeEntryRepo) Create(_ context.Context, e *models.Entry) error {
	*e = f.add(*e)
	return nil
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id int) (*models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[id]
	if !ok {
		return nil, repositories.ErrEntryNotFound
	}
	e.Rebuys = append([]models.Rebuy(nil), e.Rebuys...)
	return &e, nil
}

func (f *fakeEntryRepo) ListByTournament(_ context.Context, tournamentID int) ([]models.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Entry, 0)
	for id := 1; id < f.nextID; id++ {
		if e, ok := f.entries[id]; ok && e.TournamentID == tournamentID {
			e.Rebuys = append([]models.Rebuy(nil), e.Rebuys...)
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEntryRepo) AddRebuy(_ context.Context, rebuy *models.Rebuy) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[rebuy.EntryID]
	if !ok {
		return repositories.ErrEntryNotFound
	}
	rebuy.ID = len(e.Rebuys) + 1
	rebuy.CreatedAt = time.Now()
	e.Rebuys = append(e.Rebuys, *rebuy)
	f.entries[rebuy.EntryID] = e
	return nil
}

func (f *fakeEntryRepo) SetWeekendBonus(_ context.Context, _ repositories.SQLExecutor, entryID int, earned, forfeited bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.entries[entryID]
	if !ok {
		return repositories.ErrEntryNotFound
	}
	e.WeekendBonusEarned = earned
	e.WeekendBonusForfeited = forfeited
	f.entries[entryID] = e
	return nil
}

type scoreKey struct {
	entryID int
	roundID int
}

type fakeScoreRepo struct {
	mu      sync.Mutex
	scores  map[scoreKey]models.DailyScore
	nextID  int
	failFor map[int]bool // entry IDs whose upserts fail
}

func newFakeScoreRepo() *fakeScoreRepo {
	return &fakeScoreRepo{scores: make(map[scoreKey]models.DailyScore), nextID: 1, failFor: make(map[int]bool)}
}

func (f *fakeScoreRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, score *models.DailyScore) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failFor[score.EntryID] {
		return fmt.Errorf("storage failure for entry %d", score.EntryID)
	}
	key := scoreKey{score.EntryID, score.RoundID}
	if existing, ok := f.scores[key]; ok {
		score.ID = existing.ID
	} else {
		score.ID = f.nextID
		f.nextID++
	}
	score.CalculatedAt = time.Now()
	f.scores[key] = *score
	return nil
}

func (f *fakeScoreRepo) GetByEntryRound(_ context.Context, entryID, roundID int) (*models.DailyScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	score, ok := f.scores[scoreKey{entryID, roundID}]
	if !ok {
		return nil, repositories.ErrDailyScoreNotFound
	}
	return &score, nil
}

func (f *fakeScoreRepo) ListByEntry(_ context.Context, entryID int) ([]models.DailyScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DailyScore, 0)
	for key, score := range f.scores {
		if key.entryID == entryID {
			out = append(out, score)
		}
	}
	return out, nil
}

func (f *fakeScoreRepo) ListByTournament(_ context.Context, _ int) ([]models.DailyScore, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.DailyScore, 0, len(f.scores))
	for _, score := range f.scores {
		out = append(out, score)
	}
	return out, nil
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots []models.ResultSnapshot
	nextID    int
	latestErr error // forced read failure when set
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{nextID: 1}
}

func (f *fakeSnapshotRepo) Insert(_ context.Context, _ repositories.SQLExecutor, s *models.ResultSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = f.nextID
	f.nextID++
	s.FetchedAt = time.Now()
	f.snapshots = append(f.snapshots, *s)
	return nil
}

func (f *fakeSnapshotRepo) LatestByRound(_ context.Context, tournamentID, roundID int) (*models.ResultSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latestErr != nil {
		return nil, f.latestErr
	}
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		s := f.snapshots[i]
		if s.TournamentID == tournamentID && s.RoundID == roundID {
			return &s, nil
		}
	}
	return nil, repositories.ErrResultSnapshotNotFound
}

func (f *fakeSnapshotRepo) Latest(_ context.Context, tournamentID int) (*models.ResultSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.snapshots) - 1; i >= 0; i-- {
		if f.snapshots[i].TournamentID == tournamentID {
			s := f.snapshots[i]
			return &s, nil
		}
	}
	return nil, repositories.ErrResultSnapshotNotFound
}

type fakeBonusRepo struct {
	mu     sync.Mutex
	awards map[int]models.BonusPoint
	nextID int
}

func newFakeBonusRepo() *fakeBonusRepo {
	return &fakeBonusRepo{awards: make(map[int]models.BonusPoint), nextID: 1}
}

func (f *fakeBonusRepo) Create(_ context.Context, bp *models.BonusPoint) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	bp.ID = f.nextID
	f.nextID++
	bp.AwardedAt = time.Now()
	f.awards[bp.ID] = *bp
	return nil
}

func (f *fakeBonusRepo) GetByID(_ context.Context, id int) (*models.BonusPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	bp, ok := f.awards[id]
	if !ok {
		return nil, repositories.ErrBonusPointNotFound
	}
	return &bp, nil
}

func (f *fakeBonusRepo) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.awards[id]; !ok {
		return repositories.ErrBonusPointNotFound
	}
	delete(f.awards, id)
	return nil
}

func (f *fakeBonusRepo) List(_ context.Context, filter repositories.ListBonusPointsFilter) ([]models.BonusPoint, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.BonusPoint, 0)
	for id := 1; id < f.nextID; id++ {
		bp, ok := f.awards[id]
		if !ok || bp.TournamentID != filter.TournamentID {
			continue
		}
		if filter.RoundID != nil && bp.RoundID != *filter.RoundID {
			continue
		}
		if filter.PlayerID != nil && bp.PlayerID != *filter.PlayerID {
			continue
		}
		out = append(out, bp)
	}
	return out, nil
}

type fakeRankingRepo struct {
	mu        sync.Mutex
	snapshots []models.RankingSnapshot
	nextID    int
	clock     time.Time
}

func newFakeRankingRepo() *fakeRankingRepo {
	return &fakeRankingRepo{nextID: 1, clock: time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)}
}

func (f *fakeRankingRepo) BatchInsert(_ context.Context, _ repositories.SQLExecutor, snapshots []models.RankingSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clock = f.clock.Add(time.Minute)
	for _, s := range snapshots {
		s.ID = f.nextID
		f.nextID++
		s.RecordedAt = f.clock
		f.snapshots = append(f.snapshots, s)
	}
	return nil
}

func (f *fakeRankingRepo) List(_ context.Context, filter repositories.ListRankingSnapshotsFilter) ([]models.RankingSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RankingSnapshot, 0)
	for _, s := range f.snapshots {
		if s.TournamentID != filter.TournamentID {
			continue
		}
		if filter.EntryID != nil && s.EntryID != *filter.EntryID {
			continue
		}
		if filter.RoundID != nil && s.RoundID != *filter.RoundID {
			continue
		}
		out = append(out, s)
		if filter.Limit > 0 && len(out) == filter.Limit {
			break
		}
	}
	return out, nil
}

type fakeParticipantRepo struct {
	mu           sync.Mutex
	participants map[int]models.Participant
	nextID       int
}

func newFakeParticipantRepo() *fakeParticipantRepo {
	return &fakeParticipantRepo{participants: make(map[int]models.Participant), nextID: 1}
}

func (f *fakeParticipantRepo) Create(_ context.Context, p *models.Participant) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.nextID
	f.nextID++
	p.CreatedAt = time.Now()
	f.participants[p.ID] = *p
	return nil
}

func (f *fakeParticipantRepo) GetByID(_ context.Context, id int) (*models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return nil, repositories.ErrParticipantNotFound
	}
	return &p, nil
}

func (f *fakeParticipantRepo) List(_ context.Context) ([]models.Participant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Participant, 0, len(f.participants))
	for id := 1; id < f.nextID; id++ {
		if p, ok := f.participants[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeParticipantRepo) SetPaid(_ context.Context, id int, paid bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.participants[id]
	if !ok {
		return repositories.ErrParticipantNotFound
	}
	p.Paid = paid
	f.participants[id] = p
	return nil
}

type fakePlayerRepo struct {
	mu      sync.Mutex
	players map[string]models.Player
	nextID  int
}

func newFakePlayerRepo() *fakePlayerRepo {
	return &fakePlayerRepo{players: make(map[string]models.Player), nextID: 1}
}

func (f *fakePlayerRepo) Upsert(_ context.Context, _ repositories.SQLExecutor, p *models.Player) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.players[p.ExternalID]; ok {
		p.ID = existing.ID
	} else {
		p.ID = f.nextID
		f.nextID++
	}
	p.UpdatedAt = time.Now()
	f.players[p.ExternalID] = *p
	return nil
}

func (f *fakePlayerRepo) GetByExternalID(_ context.Context, externalID string) (*models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.players[externalID]
	if !ok {
		return nil, repositories.ErrPlayerNotFound
	}
	return &p, nil
}

func (f *fakePlayerRepo) ListByExternalIDs(_ context.Context, externalIDs []string) ([]models.Player, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.Player, 0, len(externalIDs))
	for _, id := range externalIDs {
		if p, ok := f.players[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeProvider struct {
	mu         sync.Mutex
	info       golfdata.TournamentInfo
	board      golfdata.Leaderboard
	scorecards map[string][]golfdata.Scorecard
	failAll    bool
	calls      int
}

func (f *fakeProvider) TournamentInfo(_ context.Context, _, _ string, _ int) (*golfdata.TournamentInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll {
		return nil, fmt.Errorf("connection refused")
	}
	info := f.info
	return &info, nil
}

func (f *fakeProvider) Leaderboard(_ context.Context, _, _ string, _ int) (*golfdata.Leaderboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll {
		return nil, fmt.Errorf("connection refused")
	}
	board := f.board
	return &board, nil
}

func (f *fakeProvider) PlayerScorecards(_ context.Context, _, _ string, _ int, playerID string) ([]golfdata.Scorecard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.failAll {
		return nil, fmt.Errorf("connection refused")
	}
	cards, ok := f.scorecards[playerID]
	if !ok {
		return nil, fmt.Errorf("no scorecard for player %s", playerID)
	}
	return cards, nil
}
