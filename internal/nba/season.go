package nba

import (
	"fmt"
	"time"
)

// CurrentSeason derives the NBA season label for a point in time. Seasons run
// October through June and are labeled "2025-26"; from October onward the new
// season is current.
func CurrentSeason(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.October {
		return formatSeason(year)
	}
	return formatSeason(year - 1)
}

// formatSeason renders the label for the season starting in startYear.
func formatSeason(startYear int) string {
	return fmt.Sprintf("%d-%02d", startYear, (startYear+1)%100)
}
