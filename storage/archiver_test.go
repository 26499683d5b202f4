package storage

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/fairwayfive/golf-pool/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeUploader struct {
	key         string
	contentType string
	body        []byte
	err         error
}

func (f *fakeUploader) Upload(_ context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	f.key = key
	f.contentType = contentType
	f.body = body
	return &UploadResult{Key: key}, nil
}

func TestArchiveCycle(t *testing.T) {
	uploader := &fakeUploader{}
	archive := NewCycleArchive(uploader, testLogger())

	board := &services.PoolLeaderboard{TournamentID: 3}
	require.NoError(t, archive.ArchiveCycle(context.Background(), 3, "run-1", board))

	assert.Equal(t, "tournaments/3/cycles/run-1.json", uploader.key)
	assert.Equal(t, "application/json", uploader.contentType)

	var stored services.PoolLeaderboard
	require.NoError(t, json.Unmarshal(uploader.body, &stored))
	assert.Equal(t, 3, stored.TournamentID)
}

func TestArchiveCycleUploadFailure(t *testing.T) {
	uploader := &fakeUploader{err: errors.New("bucket unavailable")}
	archive := NewCycleArchive(uploader, testLogger())

	err := archive.ArchiveCycle(context.Background(), 3, "run-1", &services.PoolLeaderboard{})
	assert.ErrorContains(t, err, "bucket unavailable")
}

func TestPublicURL(t *testing.T) {
	u := &cloudflareR2Uploader{publicBaseURL: "https://cdn.example.com/"}

	assert.Equal(t, "https://cdn.example.com/tournaments/3/cycles/run-1.json",
		u.publicURL("tournaments/3/cycles/run-1.json"))
	assert.Equal(t, "", u.publicURL(""))
	assert.Equal(t, "", (&cloudflareR2Uploader{}).publicURL("key"))
}
