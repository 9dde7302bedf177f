package engine

import "strings"

// GameRow is one played game for one player or team. Rows are immutable once
// fetched and owned by the analysis call that requested them.
type GameRow struct {
	GameDate      string  `json:"game_date"`
	Matchup       string  `json:"matchup"`
	Points        int     `json:"points"`
	Rebounds      int     `json:"rebounds"`
	OffRebounds   int     `json:"off_rebounds"`
	DefRebounds   int     `json:"def_rebounds"`
	Assists       int     `json:"assists"`
	Steals        int     `json:"steals"`
	Blocks        int     `json:"blocks"`
	Turnovers     int     `json:"turnovers"`
	PersonalFouls int     `json:"personal_fouls"`
	Minutes       float64 `json:"minutes"`
	FGM           int     `json:"fgm"`
	FGA           int     `json:"fga"`
	FG3M          int     `json:"fg3m"`
	FG3A          int     `json:"fg3a"`
	FTM           int     `json:"ftm"`
	FTA           int     `json:"fta"`
	FGPct         float64 `json:"fg_pct"`
	FG3Pct        float64 `json:"fg3_pct"`
	FTPct         float64 `json:"ft_pct"`
	PlusMinus     float64 `json:"plus_minus"`
}

// IsHome reports whether the matchup string follows the "TEAM vs. OPP"
// home convention. Away games use "TEAM @ OPP".
func (g GameRow) IsHome() bool {
	return strings.Contains(g.Matchup, "vs.")
}

// IsAway reports whether the matchup string follows the "@" away convention.
func (g GameRow) IsAway() bool {
	return strings.Contains(g.Matchup, "@")
}

// SeasonAggregate holds summed season totals for a player plus a games-played
// count. Per-game rates are derived by dividing by GamesPlayed (0 when the
// count is 0).
type SeasonAggregate struct {
	GamesPlayed int
	Minutes     float64
	Points      float64
	Rebounds    float64
	Assists     float64
}

// PlayerRef identifies a player returned by a name search.
type PlayerRef struct {
	ID       int    `json:"id"`
	FullName string `json:"full_name"`
}

// PlayerDetail carries the roster context needed for tempo lookups.
type PlayerDetail struct {
	TeamName         string
	TeamAbbreviation string
	Position         string
}

// TeamRef identifies a team resolved by name, nickname or abbreviation.
type TeamRef struct {
	ID           int    `json:"id"`
	FullName     string `json:"full_name"`
	Nickname     string `json:"nickname"`
	Abbreviation string `json:"abbreviation"`
}

// TeamSeasonStats holds per-game season scoring rates for a team.
type TeamSeasonStats struct {
	PointsPerGame    float64
	OppPointsPerGame float64
}

// TeamAdvanced holds the advanced rate stats used by the projection models.
type TeamAdvanced struct {
	Pace      float64
	OffRating float64
	DefRating float64
}

// TeamLastFive summarizes a team's recent form over its last five games.
type TeamLastFive struct {
	Games         int
	PointsFor     float64
	PointsAgainst float64
	FGPct         float64
	FG3Pct        float64
	TotalScore    float64
	AvgMargin     float64
}

// Venue is the caller-supplied home/away context for a player analysis.
type Venue int

const (
	VenueUnknown Venue = iota
	VenueHome
	VenueAway
)

// ParseVenue maps the request strings to a Venue; anything unrecognized is
// treated as unknown, by the same leniency the rest of the input gets.
func ParseVenue(s string) Venue {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "home":
		return VenueHome
	case "away":
		return VenueAway
	default:
		return VenueUnknown
	}
}

func (v Venue) String() string {
	switch v {
	case VenueHome:
		return "home"
	case VenueAway:
		return "away"
	default:
		return "unknown"
	}
}

// ThresholdQuery is the per-request input to the player threshold engine.
// It is never persisted.
type ThresholdQuery struct {
	PlayerName  string
	Threshold   float64
	Combination StatCombination
	Venue       Venue
	Odds        *float64
	Season      string // empty means current season
}

// PredictionResult is the flat, append-only result shape returned to callers.
// Consumers serialize it as-is, so fields are only ever added, never renamed.
type PredictionResult struct {
	Player   string `json:"player"`
	Team     string `json:"team"`
	Position string `json:"position"`
	Season   string `json:"season"`

	GamesPlayed  int     `json:"games_played"`
	AvgMinutes   float64 `json:"avg_minutes"`
	MinutesLevel string  `json:"minutes_level"`

	SeasonAvg  float64 `json:"season_avg"`
	Last5Avg   float64 `json:"last5_avg"`
	BlendedAvg float64 `json:"blended_avg"`
	TempoBonus float64 `json:"tempo_bonus"`
	Projection float64 `json:"projection"`

	Threshold       float64 `json:"threshold"`
	Combination     string  `json:"combination"`
	Venue           string  `json:"venue"`
	SeasonPassRate  float64 `json:"season_pass_rate"`
	SeasonPassCount int     `json:"season_pass_count"`
	SeasonGameCount int     `json:"season_game_count"`
	Last5PassRate   float64 `json:"last5_pass_rate"`
	Last5PassCount  int     `json:"last5_pass_count"`
	Last5GameCount  int     `json:"last5_game_count"`

	HomeAvg      float64 `json:"home_avg"`
	AwayAvg      float64 `json:"away_avg"`
	HomeAwayDiff float64 `json:"home_away_diff"`

	TeamPace      *float64 `json:"team_pace,omitempty"`
	TeamOffRating *float64 `json:"team_off_rating,omitempty"`

	StdDev             float64 `json:"std_dev"`
	RiskLabel          string  `json:"risk_label"`
	RiskBand           string  `json:"risk_band"`
	Confidence         int     `json:"confidence"`
	ConsistencyNote    string  `json:"consistency_note,omitempty"`
	SuggestedThreshold float64 `json:"suggested_threshold"`

	Odds               *float64 `json:"odds,omitempty"`
	GarbageTimeWarning string   `json:"garbage_time_warning,omitempty"`
	GarbageTimePenalty float64  `json:"garbage_time_penalty,omitempty"`
}

// TeamMatchupContext is the request-scoped bundle of both teams' stats,
// built once per matchup analysis call.
type TeamMatchupContext struct {
	Home TeamRef
	Away TeamRef

	Season string

	HomeSeason TeamSeasonStats
	AwaySeason TeamSeasonStats

	HomeAdvanced TeamAdvanced
	AwayAdvanced TeamAdvanced

	HomeLast5 TeamLastFive
	AwayLast5 TeamLastFive
}

// Decision is the over/under verdict against a supplied total line.
type Decision int

const (
	DecisionNone Decision = iota
	DecisionOver
	DecisionUnder
	DecisionPass
)

func (d Decision) String() string {
	switch d {
	case DecisionOver:
		return "OVER"
	case DecisionUnder:
		return "UNDER"
	case DecisionPass:
		return "PASS"
	default:
		return ""
	}
}

// TeamPrediction is the flat matchup result shape. Like PredictionResult it
// is append-only for consumers.
type TeamPrediction struct {
	HomeTeam string `json:"home_team"`
	AwayTeam string `json:"away_team"`
	Season   string `json:"season"`
	Model    string `json:"model"`

	Total     float64  `json:"total"`
	Threshold *float64 `json:"threshold,omitempty"`
	Margin    float64  `json:"margin"`

	Decision   string `json:"decision,omitempty"`
	Confidence string `json:"confidence,omitempty"`
	RiskBand   string `json:"risk_band,omitempty"`
	Reason     string `json:"reason,omitempty"`

	BaseTotal        float64 `json:"base_total"`
	TempoEffect      float64 `json:"tempo_effect"`
	EfficiencyEffect float64 `json:"efficiency_effect"`
	FormEffect       float64 `json:"form_effect"`
	ShootingEffect   float64 `json:"shooting_effect"`
	DefensePenalty   float64 `json:"defense_penalty"`
	HomeCourtBump    float64 `json:"home_court_bump"`
	RawTotal         float64 `json:"raw_total"`

	RegressionRatio      float64 `json:"regression_ratio"`
	RegressionMultiplier float64 `json:"regression_multiplier"`
	FineAdjustment       float64 `json:"fine_adjustment"`

	AvgPace   float64 `json:"avg_pace"`
	TempoNote string  `json:"tempo_note"`

	HomeSeasonAvg float64 `json:"home_season_avg"`
	AwaySeasonAvg float64 `json:"away_season_avg"`
	HomeLast5Avg  float64 `json:"home_last5_avg"`
	AwayLast5Avg  float64 `json:"away_last5_avg"`

	HomeOffRating float64 `json:"home_off_rating"`
	HomeDefRating float64 `json:"home_def_rating"`
	AwayOffRating float64 `json:"away_off_rating"`
	AwayDefRating float64 `json:"away_def_rating"`

	HomeFGPct  float64 `json:"home_fg_pct"`
	HomeFG3Pct float64 `json:"home_fg3_pct"`
	AwayFGPct  float64 `json:"away_fg_pct"`
	AwayFG3Pct float64 `json:"away_fg3_pct"`

	// Legacy-model extras.
	FirstHalfTotal float64 `json:"first_half_total,omitempty"`
	SuggestedLine  float64 `json:"suggested_line,omitempty"`
	StdDev         float64 `json:"std_dev,omitempty"`
	ConfidencePct  int     `json:"confidence_pct,omitempty"`
	Verdict        string  `json:"verdict,omitempty"`
	HomeProjection float64 `json:"home_projection,omitempty"`
	AwayProjection float64 `json:"away_projection,omitempty"`

	LineSuggestions []LineSuggestion `json:"line_suggestions,omitempty"`
}

// LineSuggestion is one candidate total line with its estimated chance of the
// game landing over it.
type LineSuggestion struct {
	Line       float64 `json:"line"`
	OverChance int     `json:"over_chance"`
	Note       string  `json:"note"`
}
