package golfdata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePosition(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"1", 1, true},
		{"T2", 2, true},
		{"t15", 15, true},
		{" 5 ", 5, true},
		{"cut", 0, false},
		{"CUT", 0, false},
		{"wd", 0, false},
		{"dq", 0, false},
		{"", 0, false},
		{"-", 0, false},
		{"0", 0, false},
		{"-3", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePosition(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseRelativeScore(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"E", 0, false},
		{"e", 0, false},
		{"+2", 2, false},
		{"-5", -5, false},
		{"0", 0, false},
		{"", 0, true},
		{"abc", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRelativeScore(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLeaderboardRow(t *testing.T) {
	lb := Leaderboard{Rows: []LeaderboardRow{
		{PlayerID: "p1", Position: "1"},
		{PlayerID: "p2", Position: "T2"},
	}}

	row := lb.Row("p2")
	require.NotNil(t, row)
	assert.Equal(t, "T2", row.Position)

	assert.Nil(t, lb.Row("p9"))
}

func TestLeaderboardWinner(t *testing.T) {
	t.Run("no winner while the leader is on the course", func(t *testing.T) {
		lb := Leaderboard{Rows: []LeaderboardRow{
			{PlayerID: "p1", Position: "1", Status: StatusActive},
		}}
		assert.Empty(t, lb.Winner())
	})

	t.Run("winner with a complete final round", func(t *testing.T) {
		lb := Leaderboard{Rows: []LeaderboardRow{
			{PlayerID: "p2", Position: "2", Status: StatusComplete},
			{PlayerID: "p1", Position: "1", Status: "Complete"},
		}}
		assert.Equal(t, "p1", lb.Winner())
	})
}
