package services

import (
	"context"
	"testing"
	"time"

	"github.com/fairwayfive/golf-pool/golfdata"
	"github.com/fairwayfive/golf-pool/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type syncFixture struct {
	*calcFixture
	players  *fakePlayerRepo
	provider *fakeProvider
	sync     *SyncService
}

func newSyncFixture(t *testing.T, currentRound int) *syncFixture {
	t.Helper()
	f := &syncFixture{
		calcFixture: newCalcFixture(t, currentRound),
		players:     newFakePlayerRepo(),
		provider: &fakeProvider{
			scorecards: make(map[string][]golfdata.Scorecard),
		},
	}
	f.provider.info = golfdata.TournamentInfo{
		ExternalID:   "014",
		OrgID:        "1",
		Name:         "The Masters",
		Year:         2026,
		Status:       "In Progress",
		CurrentRound: currentRound,
		StartDate:    time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
		EndDate:      time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC),
	}
	f.sync = NewSyncService(f.provider, f.tournaments, f.players, f.entries, f.snapshots, testLogger())
	return f
}

func TestSyncLocked(t *testing.T) {
	f := newSyncFixture(t, 2)
	entry := testEntry(1, f.tournamentID, [models.RosterSize]string{"p1", "p2", "p3", "p4", "p5", "p6"})
	entry.Rebuys = []models.Rebuy{{
		EntryID:             1,
		OriginalPlayerID:    "p6",
		ReplacementPlayerID: "p7",
		Reason:              models.RebuyMissedCut,
		EffectiveRound:      3,
	}}
	f.entries.add(entry)

	f.provider.board = golfdata.Leaderboard{Rows: []golfdata.LeaderboardRow{
		{PlayerID: "p1", FirstName: "Scottie", LastName: "Scheffler", Position: "1", Status: golfdata.StatusActive},
		{PlayerID: "p99", FirstName: "Rory", LastName: "McIlroy", Position: "2", Status: golfdata.StatusActive},
	}}
	for _, id := range []string{"p1", "p2", "p3", "p4", "p5", "p6", "p7"} {
		f.provider.scorecards[id] = []golfdata.Scorecard{{RoundID: 2, Holes: map[string]golfdata.Hole{"1": {Par: 4, Score: 4}}}}
	}
	// Not rostered by anyone; its scorecard must not be fetched.
	f.provider.scorecards["p99"] = []golfdata.Scorecard{{RoundID: 2}}

	snapshot, err := f.sync.syncLocked(context.Background(), f.tournamentID)
	require.NoError(t, err)

	assert.Equal(t, 2, snapshot.RoundID)
	assert.Len(t, snapshot.Leaderboard.Rows, 2)

	// Picks plus rebuy replacements, nothing else.
	assert.Len(t, snapshot.Scorecards, 7)
	assert.Contains(t, snapshot.Scorecards, "p7")
	assert.NotContains(t, snapshot.Scorecards, "p99")

	tournament, err := f.tournaments.GetByID(context.Background(), f.tournamentID)
	require.NoError(t, err)
	assert.Equal(t, models.TournamentInProgress, tournament.Status)
	assert.Equal(t, 2, tournament.CurrentRound)
	assert.Equal(t, f.provider.info.StartDate, tournament.StartDate)

	cached, err := f.players.GetByExternalID(context.Background(), "p99")
	require.NoError(t, err)
	assert.Equal(t, "Rory McIlroy", cached.FullName)
}

func TestSyncLockedKeepsDatesWhenProviderOmitsThem(t *testing.T) {
	f := newSyncFixture(t, 1)
	start := time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC)
	tournament, err := f.tournaments.GetByID(context.Background(), f.tournamentID)
	require.NoError(t, err)
	tournament.StartDate = start
	require.NoError(t, f.tournaments.UpdateFromProvider(context.Background(), nil, tournament))

	f.provider.info.StartDate = time.Time{}
	f.provider.info.EndDate = time.Time{}

	_, err = f.sync.syncLocked(context.Background(), f.tournamentID)
	require.NoError(t, err)

	got, err := f.tournaments.GetByID(context.Background(), f.tournamentID)
	require.NoError(t, err)
	assert.Equal(t, start, got.StartDate)
}

func TestSyncLockedUpstreamFailure(t *testing.T) {
	f := newSyncFixture(t, 1)
	f.provider.failAll = true

	_, err := f.sync.syncLocked(context.Background(), f.tournamentID)
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
	assert.Empty(t, f.snapshots.snapshots)
}

func TestSyncLockedUnknownTournament(t *testing.T) {
	f := newSyncFixture(t, 1)

	_, err := f.sync.syncLocked(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}

func TestSyncLockedToleratesScorecardFailures(t *testing.T) {
	f := newSyncFixture(t, 1)
	f.entries.add(testEntry(1, f.tournamentID, [models.RosterSize]string{"p1", "p2", "p3", "p4", "p5", "p6"}))
	f.provider.board = golfdata.Leaderboard{Rows: []golfdata.LeaderboardRow{
		testRow("p1", "1", golfdata.StatusActive),
	}}
	// The provider has a card for one pick only; the others fail and are
	// skipped without sinking the cycle.
	f.provider.scorecards["p1"] = []golfdata.Scorecard{{RoundID: 1, Holes: map[string]golfdata.Hole{"1": {Par: 4, Score: 4}}}}

	snapshot, err := f.sync.syncLocked(context.Background(), f.tournamentID)
	require.NoError(t, err)
	assert.Len(t, snapshot.Scorecards, 1)
	assert.Contains(t, snapshot.Scorecards, "p1")
}
