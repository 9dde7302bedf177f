package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fortuna/propscout/internal/odds"
)

// FlexFloat accepts a JSON number, a numeric string, or a numeric string with
// a comma decimal separator. Clients paste thresholds straight out of
// bookmaker UIs, which in some locales render "22,5".
type FlexFloat struct {
	Value float64
	Set   bool
}

// UnmarshalJSON implements lenient numeric decoding.
func (f *FlexFloat) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		return nil
	}

	var n float64
	if err := json.Unmarshal(data, &n); err == nil {
		f.Value = n
		f.Set = true
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return fmt.Errorf("invalid numeric value %s", s)
	}
	v, ok := odds.ParseDecimal(str)
	if !ok {
		return fmt.Errorf("invalid numeric value %q", str)
	}
	f.Value = v
	f.Set = true
	return nil
}

// MarshalJSON round-trips the value as a plain number.
func (f FlexFloat) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Ptr returns the value as a *float64, nil when unset.
func (f FlexFloat) Ptr() *float64 {
	if !f.Set {
		return nil
	}
	v := f.Value
	return &v
}

// ValidationError marks a request rejected before any analysis ran.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// PlayerRequest is the inbound payload for a player threshold analysis.
type PlayerRequest struct {
	PlayerName  string    `json:"player_name"`
	Threshold   FlexFloat `json:"threshold"`
	Combination string    `json:"combination"`
	Venue       string    `json:"venue"`
	Season      string    `json:"season"`
	Odds        FlexFloat `json:"odds"`

	// Optional matchup context. When odds are not supplied and a scraper is
	// configured, these drive the bookmaker lookup.
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`

	RequestedBy string `json:"requested_by"`
}

// Validate checks the required fields.
func (r *PlayerRequest) Validate() error {
	if strings.TrimSpace(r.PlayerName) == "" {
		return &ValidationError{Field: "player_name", Reason: "is required"}
	}
	if !r.Threshold.Set {
		return &ValidationError{Field: "threshold", Reason: "is required"}
	}
	if r.Threshold.Value < 0 {
		return &ValidationError{Field: "threshold", Reason: "must not be negative"}
	}
	return nil
}

// MatchupRequest is the inbound payload for a team total analysis.
type MatchupRequest struct {
	HomeTeam  string    `json:"home_team"`
	AwayTeam  string    `json:"away_team"`
	Threshold FlexFloat `json:"threshold"`
	Model     string    `json:"model"`
	Side      string    `json:"side"`
	Season    string    `json:"season"`

	RequestedBy string `json:"requested_by"`
}

// Validate checks the required fields.
func (r *MatchupRequest) Validate() error {
	if strings.TrimSpace(r.HomeTeam) == "" {
		return &ValidationError{Field: "home_team", Reason: "is required"}
	}
	if strings.TrimSpace(r.AwayTeam) == "" {
		return &ValidationError{Field: "away_team", Reason: "is required"}
	}
	return nil
}
