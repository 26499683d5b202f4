package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/fairwayfive/golf-pool/repositories"
)

// Mover is one entry's signed position change across a queried window.
// Negative delta means the entry climbed (position 3 to 1 is -2).
type Mover struct {
	EntryID       int `json:"entry_id"`
	FirstPosition int `json:"first_position"`
	LastPosition  int `json:"last_position"`
	Delta         int `json:"delta"`
}

// PositionCount is the number of distinct entries that ever held a position.
type PositionCount struct {
	Position int `json:"position"`
	Entries  int `json:"entries"`
}

// LeadTime is the accumulated wall-clock time an entry spent at position 1.
type LeadTime struct {
	EntryID int           `json:"entry_id"`
	Held    time.Duration `json:"-"`
	Seconds float64       `json:"seconds"`
}

// RankingAnalytics is the full derived view over a tournament's snapshot
// ledger. Computed on read, never stored.
type RankingAnalytics struct {
	TournamentID int             `json:"tournament_id"`
	Movers       []Mover         `json:"biggest_movers"`
	Distribution []PositionCount `json:"position_distribution"`
	TimeInLead   []LeadTime      `json:"time_in_lead"`
}

// HistoryService owns the append-only ranking snapshot ledger and the
// analytics derived from it.
type HistoryService struct {
	snapshotRepo repositories.RankingSnapshotRepository
	scoreRepo    repositories.DailyScoreRepository
	logger       *slog.Logger
}

func NewHistoryService(
	snapshotRepo repositories.RankingSnapshotRepository,
	scoreRepo repositories.DailyScoreRepository,
	logger *slog.Logger,
) *HistoryService {
	return &HistoryService{snapshotRepo: snapshotRepo, scoreRepo: scoreRepo, logger: logger}
}

// RecordStandings appends one snapshot per scored entry, ranked by cumulative
// total points descending with ties broken by entry ID ascending. Called once
// per successful recalculation; callers hold the tournament lock, so snapshot
// writes are already serialized.
func (s *HistoryService) RecordStandings(ctx context.Context, tournamentID, roundID int) error {
	scores, err := s.scoreRepo.ListByTournament(ctx, tournamentID)
	if err != nil {
		return fmt.Errorf("list scores: %w", err)
	}
	if len(scores) == 0 {
		return nil
	}

	totals := make(map[int]float64)
	for _, score := range scores {
		totals[score.EntryID] += score.TotalPoints
	}

	ranked := rankStandings(totals)
	leaderTotal := totals[ranked[0]]

	snapshots := make([]models.RankingSnapshot, 0, len(ranked))
	for i, entryID := range ranked {
		snapshots = append(snapshots, models.RankingSnapshot{
			TournamentID:       tournamentID,
			EntryID:            entryID,
			RoundID:            roundID,
			Position:           i + 1,
			TotalPoints:        totals[entryID],
			PointsBehindLeader: leaderTotal - totals[entryID],
		})
	}

	if err := s.snapshotRepo.BatchInsert(ctx, nil, snapshots); err != nil {
		return fmt.Errorf("insert ranking snapshots: %w", err)
	}
	s.logger.Debug("standings recorded",
		slog.Int("tournament_id", tournamentID),
		slog.Int("round_id", roundID),
		slog.Int("entries", len(snapshots)))
	return nil
}

// rankStandings orders entry IDs by total points descending, entry ID
// ascending on ties. Deterministic: identical inputs always produce the same
// permutation.
func rankStandings(totals map[int]float64) []int {
	ids := make([]int, 0, len(totals))
	for id := range totals {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if totals[ids[i]] != totals[ids[j]] {
			return totals[ids[i]] > totals[ids[j]]
		}
		return ids[i] < ids[j]
	})
	return ids
}

// History returns the ordered snapshot ledger, optionally filtered by round
// and entry.
func (s *HistoryService) History(ctx context.Context, tournamentID int, roundID, entryID *int) ([]models.RankingSnapshot, error) {
	return s.snapshotRepo.List(ctx, repositories.ListRankingSnapshotsFilter{
		TournamentID: tournamentID,
		RoundID:      roundID,
		EntryID:      entryID,
	})
}

// Analytics derives movers, position distribution and time in lead from the
// full snapshot ledger of a tournament. A tournament with no snapshots yet
// yields empty analytics rather than an error.
func (s *HistoryService) Analytics(ctx context.Context, tournamentID int) (*RankingAnalytics, error) {
	snapshots, err := s.snapshotRepo.List(ctx, repositories.ListRankingSnapshotsFilter{TournamentID: tournamentID})
	if err != nil {
		return nil, err
	}

	return &RankingAnalytics{
		TournamentID: tournamentID,
		Movers:       biggestMovers(snapshots),
		Distribution: positionDistribution(snapshots),
		TimeInLead:   timeInLead(snapshots),
	}, nil
}

func biggestMovers(snapshots []models.RankingSnapshot) []Mover {
	first := make(map[int]int)
	last := make(map[int]int)
	for _, snap := range snapshots {
		if _, seen := first[snap.EntryID]; !seen {
			first[snap.EntryID] = snap.Position
		}
		last[snap.EntryID] = snap.Position
	}

	movers := make([]Mover, 0, len(first))
	for entryID, firstPos := range first {
		movers = append(movers, Mover{
			EntryID:       entryID,
			FirstPosition: firstPos,
			LastPosition:  last[entryID],
			Delta:         last[entryID] - firstPos,
		})
	}
	sort.Slice(movers, func(i, j int) bool {
		di, dj := abs(movers[i].Delta), abs(movers[j].Delta)
		if di != dj {
			return di > dj
		}
		return movers[i].EntryID < movers[j].EntryID
	})
	return movers
}

func positionDistribution(snapshots []models.RankingSnapshot) []PositionCount {
	occupants := make(map[int]map[int]bool)
	for _, snap := range snapshots {
		if occupants[snap.Position] == nil {
			occupants[snap.Position] = make(map[int]bool)
		}
		occupants[snap.Position][snap.EntryID] = true
	}

	positions := make([]int, 0, len(occupants))
	for pos := range occupants {
		positions = append(positions, pos)
	}
	sort.Ints(positions)

	distribution := make([]PositionCount, 0, len(positions))
	for _, pos := range positions {
		distribution = append(distribution, PositionCount{Position: pos, Entries: len(occupants[pos])})
	}
	return distribution
}

// timeInLead sums, per entry, the gaps between consecutive recordings during
// which the entry held position 1 at the start of the gap. The final
// snapshot opens no interval.
func timeInLead(snapshots []models.RankingSnapshot) []LeadTime {
	times := make([]time.Time, 0, len(snapshots))
	seen := make(map[time.Time]bool)
	leaderAt := make(map[time.Time]int)
	for _, snap := range snapshots {
		if !seen[snap.RecordedAt] {
			seen[snap.RecordedAt] = true
			times = append(times, snap.RecordedAt)
		}
		if snap.Position == 1 {
			leaderAt[snap.RecordedAt] = snap.EntryID
		}
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	held := make(map[int]time.Duration)
	for i := 0; i+1 < len(times); i++ {
		if leader, ok := leaderAt[times[i]]; ok {
			held[leader] += times[i+1].Sub(times[i])
		}
	}

	leads := make([]LeadTime, 0, len(held))
	for entryID, d := range held {
		leads = append(leads, LeadTime{EntryID: entryID, Held: d, Seconds: d.Seconds()})
	}
	sort.Slice(leads, func(i, j int) bool {
		if leads[i].Held != leads[j].Held {
			return leads[i].Held > leads[j].Held
		}
		return leads[i].EntryID < leads[j].EntryID
	})
	return leads
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
