package nba

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentSeason(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected string
	}{
		{name: "october starts the new season", date: time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC), expected: "2025-26"},
		{name: "december is mid-season", date: time.Date(2025, time.December, 25, 0, 0, 0, 0, time.UTC), expected: "2025-26"},
		{name: "spring belongs to the prior start year", date: time.Date(2026, time.March, 10, 0, 0, 0, 0, time.UTC), expected: "2025-26"},
		{name: "september is still last season", date: time.Date(2025, time.September, 30, 0, 0, 0, 0, time.UTC), expected: "2024-25"},
		{name: "decade rollover", date: time.Date(2029, time.November, 1, 0, 0, 0, 0, time.UTC), expected: "2029-30"},
		{name: "century short year", date: time.Date(1999, time.November, 1, 0, 0, 0, 0, time.UTC), expected: "1999-00"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CurrentSeason(tt.date))
		})
	}
}

func TestPreviousSeason(t *testing.T) {
	assert.Equal(t, "2024-25", previousSeason("2025-26"))
	assert.Equal(t, "bogus", previousSeason("bogus"))
}
