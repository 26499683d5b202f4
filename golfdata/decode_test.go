package golfdata

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTournamentInfoDecodePlain(t *testing.T) {
	raw := `{
		"tournId": "014",
		"orgId": "1",
		"name": "The Masters",
		"year": 2026,
		"status": "In Progress",
		"currentRound": 3,
		"date": {"start": "2026-04-09", "end": "2026-04-12T00:00:00Z"}
	}`

	var info TournamentInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.Equal(t, "014", info.ExternalID)
	assert.Equal(t, "1", info.OrgID)
	assert.Equal(t, "The Masters", info.Name)
	assert.Equal(t, 2026, info.Year)
	assert.Equal(t, "In Progress", info.Status)
	assert.Equal(t, 3, info.CurrentRound)
	assert.Equal(t, time.Date(2026, 4, 9, 0, 0, 0, 0, time.UTC), info.StartDate)
	assert.Equal(t, time.Date(2026, 4, 12, 0, 0, 0, 0, time.UTC), info.EndDate)
}

func TestTournamentInfoDecodeExtendedJSON(t *testing.T) {
	// Older provider endpoints serve MongoDB extended JSON.
	raw := `{
		"tournId": "033",
		"orgId": "1",
		"name": "The Players Championship",
		"year": {"$numberInt": "2026"},
		"status": "Official",
		"currentRound": {"$numberInt": "4"},
		"date": {
			"start": {"$date": {"$numberLong": "1772236800000"}},
			"end": {"$date": {"$numberLong": "1772496000000"}}
		}
	}`

	var info TournamentInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))

	assert.Equal(t, 2026, info.Year)
	assert.Equal(t, 4, info.CurrentRound)
	assert.Equal(t, time.UnixMilli(1772236800000).UTC(), info.StartDate)
	assert.Equal(t, time.UnixMilli(1772496000000).UTC(), info.EndDate)
}

func TestTournamentInfoDecodeStringNumbers(t *testing.T) {
	raw := `{"tournId": "014", "year": "2026", "currentRound": "2"}`

	var info TournamentInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))
	assert.Equal(t, 2026, info.Year)
	assert.Equal(t, 2, info.CurrentRound)
}

func TestTournamentInfoDefaultsCurrentRound(t *testing.T) {
	raw := `{"tournId": "014", "year": 2026, "status": "Scheduled"}`

	var info TournamentInfo
	require.NoError(t, json.Unmarshal([]byte(raw), &info))
	assert.Equal(t, 1, info.CurrentRound)
	assert.True(t, info.StartDate.IsZero())
}

func TestScorecardDecode(t *testing.T) {
	raw := `{
		"roundId": {"$numberInt": "2"},
		"holes": {
			"1": {"par": {"$numberInt": "4"}, "holeScore": {"$numberInt": "3"}},
			"2": {"par": 5, "holeScore": 5},
			"3": {"par": "3", "holeScore": "1"}
		}
	}`

	var card Scorecard
	require.NoError(t, json.Unmarshal([]byte(raw), &card))

	assert.Equal(t, 2, card.RoundID)
	require.Len(t, card.Holes, 3)
	assert.Equal(t, Hole{Par: 4, Score: 3}, card.Holes["1"])
	assert.Equal(t, Hole{Par: 5, Score: 5}, card.Holes["2"])
	assert.Equal(t, Hole{Par: 3, Score: 1}, card.Holes["3"])
}

func TestScorecardDecodeRejectsGarbageHole(t *testing.T) {
	raw := `{"roundId": 1, "holes": {"1": {"par": true}}}`

	var card Scorecard
	err := json.Unmarshal([]byte(raw), &card)
	assert.Error(t, err)
}

func TestFlexIntRejectsNonNumericString(t *testing.T) {
	var v flexInt
	assert.Error(t, v.UnmarshalJSON([]byte(`"soon"`)))
}

func TestFlexTimeRejectsUnknownEncoding(t *testing.T) {
	var v flexTime
	assert.Error(t, v.UnmarshalJSON([]byte(`42`)))
	assert.Error(t, v.UnmarshalJSON([]byte(`"next thursday"`)))
}
