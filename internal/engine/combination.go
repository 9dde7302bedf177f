package engine

import "strings"

// StatCombination selects which box-score fields are summed to produce the
// value compared against a threshold.
type StatCombination int

const (
	// CombinationPAR is points + assists + rebounds (the "SAR" combo).
	CombinationPAR StatCombination = iota
	CombinationPoints
	CombinationAssists
	CombinationRebounds
)

// ParseCombination maps request codes to a StatCombination. Unrecognized
// codes fall back to the combined stat, matching the original default.
func ParseCombination(code string) StatCombination {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "PTS":
		return CombinationPoints
	case "AST":
		return CombinationAssists
	case "REB":
		return CombinationRebounds
	case "PAR", "SAR":
		return CombinationPAR
	default:
		return CombinationPAR
	}
}

func (c StatCombination) String() string {
	switch c {
	case CombinationPoints:
		return "PTS"
	case CombinationAssists:
		return "AST"
	case CombinationRebounds:
		return "REB"
	default:
		return "PAR"
	}
}

// Value extracts the combined stat value from a single game.
func (c StatCombination) Value(g GameRow) float64 {
	switch c {
	case CombinationPoints:
		return float64(g.Points)
	case CombinationAssists:
		return float64(g.Assists)
	case CombinationRebounds:
		return float64(g.Rebounds)
	default:
		return float64(g.Points + g.Assists + g.Rebounds)
	}
}

// SeasonAverage derives the per-game rate of the combination from season
// totals, guarding the zero games-played case.
func (c StatCombination) SeasonAverage(agg SeasonAggregate) float64 {
	gp := float64(agg.GamesPlayed)
	switch c {
	case CombinationPoints:
		return safeDiv(agg.Points, gp)
	case CombinationAssists:
		return safeDiv(agg.Assists, gp)
	case CombinationRebounds:
		return safeDiv(agg.Rebounds, gp)
	default:
		return safeDiv(agg.Points+agg.Assists+agg.Rebounds, gp)
	}
}
