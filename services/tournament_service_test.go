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

func TestCreateFromProvider(t *testing.T) {
	repo := newFakeTournamentRepo()
	provider := &fakeProvider{info: golfdata.TournamentInfo{
		ExternalID:   "014",
		OrgID:        "1",
		Name:         "The Masters",
		Year:         2026,
		Status:       "Scheduled",
		CurrentRound: 1,
		StartDate:    time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC),
	}}
	svc := NewTournamentService(provider, repo, testLogger())

	tournament, err := svc.CreateFromProvider(context.Background(), 2026, "014", "")
	require.NoError(t, err)

	assert.NotZero(t, tournament.ID)
	assert.Equal(t, "The Masters", tournament.Name)
	assert.Equal(t, "1", tournament.OrgID, "org defaults to the PGA Tour")
	assert.Equal(t, models.TournamentScheduled, tournament.Status, "provider status is normalized to lower case")
	assert.Equal(t, 1, tournament.CurrentRound)
}

func TestCreateFromProviderValidation(t *testing.T) {
	svc := NewTournamentService(&fakeProvider{}, newFakeTournamentRepo(), testLogger())

	_, err := svc.CreateFromProvider(context.Background(), 1999, "014", "1")
	assert.ErrorIs(t, err, ErrValidationFailed)

	_, err = svc.CreateFromProvider(context.Background(), 2026, "", "1")
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestCreateFromProviderConflict(t *testing.T) {
	repo := newFakeTournamentRepo()
	provider := &fakeProvider{info: golfdata.TournamentInfo{Name: "The Masters", Status: "Scheduled"}}
	svc := NewTournamentService(provider, repo, testLogger())

	_, err := svc.CreateFromProvider(context.Background(), 2026, "014", "1")
	require.NoError(t, err)

	_, err = svc.CreateFromProvider(context.Background(), 2026, "014", "1")
	assert.ErrorIs(t, err, ErrTournamentConflict)
}

func TestCreateFromProviderUpstreamFailure(t *testing.T) {
	svc := NewTournamentService(&fakeProvider{failAll: true}, newFakeTournamentRepo(), testLogger())

	_, err := svc.CreateFromProvider(context.Background(), 2026, "014", "1")
	assert.ErrorIs(t, err, ErrUpstreamUnavailable)
}

func TestTournamentGetAndList(t *testing.T) {
	repo := newFakeTournamentRepo()
	svc := NewTournamentService(&fakeProvider{}, repo, testLogger())

	created := &models.Tournament{Year: 2026, ExternalID: "014", OrgID: "1", Name: "The Masters", Status: models.TournamentScheduled}
	require.NoError(t, repo.Create(context.Background(), created))

	got, err := svc.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "The Masters", got.Name)

	_, err = svc.Get(context.Background(), 999)
	assert.ErrorIs(t, err, ErrTournamentNotFound)

	year := 2026
	list, err := svc.List(context.Background(), &year)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	other := 2025
	empty, err := svc.List(context.Background(), &other)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
