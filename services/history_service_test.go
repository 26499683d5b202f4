package services

import (
	"context"
	"testing"
	"time"

	"github.com/fairwayfive/golf-pool/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRankStandings(t *testing.T) {
	totals := map[int]float64{
		1: 12,
		2: 30,
		3: 12,
		4: 7,
	}

	ranked := rankStandings(totals)
	assert.Equal(t, []int{2, 1, 3, 4}, ranked, "points descending, ties by entry id ascending")

	// Deterministic across invocations despite map iteration order.
	for i := 0; i < 20; i++ {
		assert.Equal(t, ranked, rankStandings(totals))
	}
}

func TestRecordStandings(t *testing.T) {
	scores := newFakeScoreRepo()
	rankings := newFakeRankingRepo()
	svc := NewHistoryService(rankings, scores, testLogger())

	seed := []models.DailyScore{
		{EntryID: 1, RoundID: 1, TotalPoints: 10},
		{EntryID: 1, RoundID: 2, TotalPoints: 5},
		{EntryID: 2, RoundID: 1, TotalPoints: 8},
		{EntryID: 3, RoundID: 1, TotalPoints: 20},
	}
	for i := range seed {
		require.NoError(t, scores.Upsert(context.Background(), nil, &seed[i]))
	}

	require.NoError(t, svc.RecordStandings(context.Background(), 1, 2))

	require.Len(t, rankings.snapshots, 3)
	byEntry := make(map[int]models.RankingSnapshot)
	for _, snap := range rankings.snapshots {
		byEntry[snap.EntryID] = snap
		assert.Equal(t, 1, snap.TournamentID)
		assert.Equal(t, 2, snap.RoundID)
		assert.Equal(t, rankings.snapshots[0].RecordedAt, snap.RecordedAt)
	}

	assert.Equal(t, 1, byEntry[3].Position)
	assert.Equal(t, 20.0, byEntry[3].TotalPoints)
	assert.Zero(t, byEntry[3].PointsBehindLeader)

	assert.Equal(t, 2, byEntry[1].Position)
	assert.Equal(t, 15.0, byEntry[1].TotalPoints)
	assert.Equal(t, 5.0, byEntry[1].PointsBehindLeader)

	assert.Equal(t, 3, byEntry[2].Position)
	assert.Equal(t, 12.0, byEntry[2].PointsBehindLeader)
}

func TestRecordStandingsWithoutScores(t *testing.T) {
	rankings := newFakeRankingRepo()
	svc := NewHistoryService(rankings, newFakeScoreRepo(), testLogger())

	require.NoError(t, svc.RecordStandings(context.Background(), 1, 1))
	assert.Empty(t, rankings.snapshots)
}

func TestBiggestMovers(t *testing.T) {
	snapshots := []models.RankingSnapshot{
		{EntryID: 1, Position: 3},
		{EntryID: 2, Position: 1},
		{EntryID: 3, Position: 2},
		{EntryID: 1, Position: 1},
		{EntryID: 2, Position: 4},
		{EntryID: 3, Position: 2},
	}

	movers := biggestMovers(snapshots)
	require.Len(t, movers, 3)

	assert.Equal(t, Mover{EntryID: 2, FirstPosition: 1, LastPosition: 4, Delta: 3}, movers[0])
	assert.Equal(t, Mover{EntryID: 1, FirstPosition: 3, LastPosition: 1, Delta: -2}, movers[1])
	assert.Equal(t, Mover{EntryID: 3, FirstPosition: 2, LastPosition: 2, Delta: 0}, movers[2])
}

func TestPositionDistribution(t *testing.T) {
	snapshots := []models.RankingSnapshot{
		{EntryID: 1, Position: 1},
		{EntryID: 2, Position: 2},
		{EntryID: 2, Position: 1},
		{EntryID: 1, Position: 2},
		{EntryID: 1, Position: 1},
		{EntryID: 3, Position: 3},
	}

	distribution := positionDistribution(snapshots)
	assert.Equal(t, []PositionCount{
		{Position: 1, Entries: 2},
		{Position: 2, Entries: 2},
		{Position: 3, Entries: 1},
	}, distribution)
}

func TestTimeInLead(t *testing.T) {
	t0 := time.Date(2026, 4, 9, 12, 0, 0, 0, time.UTC)
	t1 := t0.Add(10 * time.Minute)
	t2 := t1.Add(30 * time.Minute)

	snapshots := []models.RankingSnapshot{
		{EntryID: 1, Position: 1, RecordedAt: t0},
		{EntryID: 2, Position: 2, RecordedAt: t0},
		{EntryID: 1, Position: 1, RecordedAt: t1},
		{EntryID: 2, Position: 2, RecordedAt: t1},
		{EntryID: 2, Position: 1, RecordedAt: t2},
		{EntryID: 1, Position: 2, RecordedAt: t2},
	}

	leads := timeInLead(snapshots)
	require.Len(t, leads, 1, "the final snapshot opens no interval")
	assert.Equal(t, 1, leads[0].EntryID)
	assert.Equal(t, 40*time.Minute, leads[0].Held)
	assert.Equal(t, (40 * time.Minute).Seconds(), leads[0].Seconds)
}

func TestTimeInLeadChanges(t *testing.T) {
	t0 := time.Date(2026, 4, 10, 9, 0, 0, 0, time.UTC)
	times := []time.Time{t0, t0.Add(time.Hour), t0.Add(90 * time.Minute), t0.Add(2 * time.Hour)}
	leaders := []int{1, 2, 2, 1}

	snapshots := make([]models.RankingSnapshot, 0, len(times))
	for i, at := range times {
		snapshots = append(snapshots, models.RankingSnapshot{EntryID: leaders[i], Position: 1, RecordedAt: at})
	}

	leads := timeInLead(snapshots)
	require.Len(t, leads, 2)
	assert.Equal(t, LeadTime{EntryID: 1, Held: time.Hour, Seconds: 3600}, leads[0])
	assert.Equal(t, LeadTime{EntryID: 2, Held: time.Hour, Seconds: 3600}, leads[1])
}

func TestAnalyticsWithoutSnapshots(t *testing.T) {
	svc := NewHistoryService(newFakeRankingRepo(), newFakeScoreRepo(), testLogger())

	// A tournament that has never been scored still answers with an empty
	// payload rather than an error.
	analytics, err := svc.Analytics(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, analytics.TournamentID)
	assert.Empty(t, analytics.Movers)
	assert.Empty(t, analytics.Distribution)
	assert.Empty(t, analytics.TimeInLead)
}

func TestHistoryFilters(t *testing.T) {
	rankings := newFakeRankingRepo()
	svc := NewHistoryService(rankings, newFakeScoreRepo(), testLogger())

	require.NoError(t, rankings.BatchInsert(context.Background(), nil, []models.RankingSnapshot{
		{TournamentID: 1, EntryID: 1, RoundID: 1, Position: 1},
		{TournamentID: 1, EntryID: 2, RoundID: 1, Position: 2},
	}))
	require.NoError(t, rankings.BatchInsert(context.Background(), nil, []models.RankingSnapshot{
		{TournamentID: 1, EntryID: 1, RoundID: 2, Position: 2},
		{TournamentID: 1, EntryID: 2, RoundID: 2, Position: 1},
	}))

	all, err := svc.History(context.Background(), 1, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 4)

	roundTwo, err := svc.History(context.Background(), 1, intPtr(2), nil)
	require.NoError(t, err)
	assert.Len(t, roundTwo, 2)

	entryOne, err := svc.History(context.Background(), 1, nil, intPtr(1))
	require.NoError(t, err)
	require.Len(t, entryOne, 2)
	for _, snap := range entryOne {
		assert.Equal(t, 1, snap.EntryID)
	}
}
