package store

import (
	"encoding/json"
	"time"
)

// PlayerAnalysis is one persisted player threshold analysis. The result column
// keeps the full engine output as JSONB; the flat columns exist for querying.
type PlayerAnalysis struct {
	ID          int64           `json:"id" db:"id"`
	RequestedBy string          `json:"requested_by" db:"requested_by"`
	PlayerName  string          `json:"player_name" db:"player_name"`
	Combination string          `json:"combination" db:"combination"`
	Threshold   float64         `json:"threshold" db:"threshold"`
	Season      string          `json:"season" db:"season"`
	Result      json.RawMessage `json:"result" db:"result"`
	RiskLabel   string          `json:"risk_label" db:"risk_label"`
	Confidence  int             `json:"confidence" db:"confidence"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}

// MatchupAnalysis is one persisted team total analysis.
type MatchupAnalysis struct {
	ID          int64           `json:"id" db:"id"`
	RequestedBy string          `json:"requested_by" db:"requested_by"`
	HomeTeam    string          `json:"home_team" db:"home_team"`
	AwayTeam    string          `json:"away_team" db:"away_team"`
	Model       string          `json:"model" db:"model"`
	Threshold   *float64        `json:"threshold,omitempty" db:"threshold"`
	Season      string          `json:"season" db:"season"`
	Result      json.RawMessage `json:"result" db:"result"`
	Decision    string          `json:"decision" db:"decision"`
	CreatedAt   time.Time       `json:"created_at" db:"created_at"`
}
