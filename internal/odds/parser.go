package odds

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// MatchOdds is the bookmaker view of one game: decimal win odds per side and
// the posted total line when present.
type MatchOdds struct {
	HomeTeam string   `json:"home_team"`
	AwayTeam string   `json:"away_team"`
	HomeOdds float64  `json:"home_odds"`
	AwayOdds float64  `json:"away_odds"`
	Total    *float64 `json:"total,omitempty"`
}

// FavoriteOdds returns the shorter of the two prices, 0 when neither parsed.
func (m *MatchOdds) FavoriteOdds() float64 {
	switch {
	case m.HomeOdds == 0:
		return m.AwayOdds
	case m.AwayOdds == 0 || m.HomeOdds <= m.AwayOdds:
		return m.HomeOdds
	default:
		return m.AwayOdds
	}
}

// decimalOddsPattern matches prices like 1.25 or 1,25. Bounded to one leading
// digit group to skip scores and totals.
var decimalOddsPattern = regexp.MustCompile(`\b(\d{1,2}[.,]\d{2})\b`)

// totalLinePattern matches posted totals like "O/U 221.5" or "Total 221,5".
var totalLinePattern = regexp.MustCompile(`(?i)(?:o/u|total|toplam)\s*:?\s*(\d{3}[.,]?5?)`)

// ParseMatchOdds extracts odds from a rendered search result. Structure
// varies between bookmaker widgets, so it tries card selectors first and
// falls back to scanning text. Nil when nothing odds-like appears.
func ParseMatchOdds(doc *goquery.Document, homeTeam, awayTeam string) *MatchOdds {
	odds := &MatchOdds{HomeTeam: homeTeam, AwayTeam: awayTeam}

	// Strategy 1: odds table cells in the sports widget.
	var prices []float64
	doc.Find("td.odds-cell, div[class*='odds']").Each(func(i int, s *goquery.Selection) {
		text := strings.TrimSpace(s.Text())
		if v, ok := ParseDecimal(text); ok && plausibleOdds(v) {
			prices = append(prices, v)
		}
	})

	// Strategy 2: scan the page text for decimal price pairs.
	if len(prices) < 2 {
		prices = prices[:0]
		for _, m := range decimalOddsPattern.FindAllStringSubmatch(doc.Text(), 20) {
			if v, ok := ParseDecimal(m[1]); ok && plausibleOdds(v) {
				prices = append(prices, v)
			}
			if len(prices) == 2 {
				break
			}
		}
	}

	if len(prices) >= 2 {
		odds.HomeOdds, odds.AwayOdds = prices[0], prices[1]
	} else if len(prices) == 1 {
		odds.HomeOdds = prices[0]
	}

	if m := totalLinePattern.FindStringSubmatch(doc.Text()); len(m) == 2 {
		if v, ok := ParseDecimal(m[1]); ok {
			odds.Total = &v
		}
	}

	if odds.HomeOdds == 0 && odds.AwayOdds == 0 && odds.Total == nil {
		return nil
	}
	return odds
}

// ParseDecimal reads a decimal number accepting both dot and comma
// separators, the way betting sites in different locales print them.
func ParseDecimal(s string) (float64, bool) {
	s = strings.TrimSpace(strings.ReplaceAll(s, ",", "."))
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// plausibleOdds filters out numbers that cannot be a decimal price. Anything
// at or under 1.0 pays nothing and triple digits is a score, not a price.
func plausibleOdds(v float64) bool {
	return v > 1.0 && v < 100
}
