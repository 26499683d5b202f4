package golfdata

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// The provider serves values in several encodings depending on endpoint age:
// plain numbers, numeric strings, and MongoDB extended JSON objects. flexInt
// and flexTime absorb all of them.

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	var n int
	if err := json.Unmarshal(data, &n); err == nil {
		*f = flexInt(n)
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		v, err := strconv.Atoi(s)
		if err != nil {
			return fmt.Errorf("numeric string expected, got %q", s)
		}
		*f = flexInt(v)
		return nil
	}
	var ext struct {
		Int  *string `json:"$numberInt"`
		Long *string `json:"$numberLong"`
	}
	if err := json.Unmarshal(data, &ext); err != nil {
		return fmt.Errorf("unsupported integer encoding: %s", data)
	}
	raw := ext.Int
	if raw == nil {
		raw = ext.Long
	}
	if raw == nil {
		return fmt.Errorf("unsupported integer encoding: %s", data)
	}
	v, err := strconv.Atoi(*raw)
	if err != nil {
		return err
	}
	*f = flexInt(v)
	return nil
}

type flexTime time.Time

func (f *flexTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			// Some endpoints serve bare dates.
			t, err = time.Parse("2006-01-02", s)
			if err != nil {
				return fmt.Errorf("unparseable time %q", s)
			}
		}
		*f = flexTime(t)
		return nil
	}
	var ext struct {
		Date json.RawMessage `json:"$date"`
	}
	if err := json.Unmarshal(data, &ext); err != nil || ext.Date == nil {
		return fmt.Errorf("unsupported time encoding: %s", data)
	}
	var ms flexInt
	if err := ms.UnmarshalJSON(ext.Date); err != nil {
		return err
	}
	*f = flexTime(time.UnixMilli(int64(ms)).UTC())
	return nil
}

func (t *TournamentInfo) UnmarshalJSON(data []byte) error {
	var raw struct {
		TournID      string  `json:"tournId"`
		OrgID        string  `json:"orgId"`
		Name         string  `json:"name"`
		Year         flexInt `json:"year"`
		Status       string  `json:"status"`
		CurrentRound flexInt `json:"currentRound"`
		Date         struct {
			Start flexTime `json:"start"`
			End   flexTime `json:"end"`
		} `json:"date"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	t.ExternalID = raw.TournID
	t.OrgID = raw.OrgID
	t.Name = raw.Name
	t.Year = int(raw.Year)
	t.Status = raw.Status
	t.CurrentRound = int(raw.CurrentRound)
	if t.CurrentRound == 0 {
		t.CurrentRound = 1
	}
	t.StartDate = time.Time(raw.Date.Start)
	t.EndDate = time.Time(raw.Date.End)
	return nil
}

func (s *Scorecard) UnmarshalJSON(data []byte) error {
	var raw struct {
		RoundID flexInt                    `json:"roundId"`
		Holes   map[string]json.RawMessage `json:"holes"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.RoundID = int(raw.RoundID)
	s.Holes = make(map[string]Hole, len(raw.Holes))
	for num, h := range raw.Holes {
		var hole struct {
			Par   flexInt `json:"par"`
			Score flexInt `json:"holeScore"`
		}
		if err := json.Unmarshal(h, &hole); err != nil {
			return fmt.Errorf("hole %s: %w", num, err)
		}
		s.Holes[num] = Hole{Par: int(hole.Par), Score: int(hole.Score)}
	}
	return nil
}
