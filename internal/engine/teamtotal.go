package engine

import (
	"context"
	"fmt"
)

// Model selects which scoring policy the team total engine applies. Both
// models share the same data-fetch path and diverge only in scoring.
type Model int

const (
	// ModelRegression is the preferred model: additive adjustment terms
	// with a regression-to-season-mean correction.
	ModelRegression Model = iota

	// ModelLegacy is the earlier, simpler additive model. Kept as an
	// alternate projection for comparison; not intended for extension.
	ModelLegacy
)

func (m Model) String() string {
	if m == ModelLegacy {
		return "legacy"
	}
	return "regression"
}

// ParseModel maps request strings; anything unrecognized means regression.
func ParseModel(s string) Model {
	if s == "legacy" {
		return ModelLegacy
	}
	return ModelRegression
}

// BetSide is the caller's declared side for the legacy model's ladder.
type BetSide int

const (
	SideAuto BetSide = iota
	SideOver
	SideUnder
)

// ParseBetSide maps request strings; anything unrecognized means auto.
func ParseBetSide(s string) BetSide {
	switch s {
	case "over", "OVER":
		return SideOver
	case "under", "UNDER":
		return SideUnder
	default:
		return SideAuto
	}
}

// MatchupQuery is the per-request input to the team total engine.
type MatchupQuery struct {
	HomeTeam  string
	AwayTeam  string
	Season    string
	Threshold *float64
	Model     Model
	Side      BetSide
}

// TeamTotalEngine projects the combined score of a matchup and classifies it
// against a supplied total line.
type TeamTotalEngine struct {
	teams TeamSource
}

// NewTeamTotalEngine creates a team total engine over the given data source.
func NewTeamTotalEngine(teams TeamSource) *TeamTotalEngine {
	return &TeamTotalEngine{teams: teams}
}

// Analyze resolves both teams, builds the matchup context and scores it with
// the requested model.
func (e *TeamTotalEngine) Analyze(ctx context.Context, q MatchupQuery) (*TeamPrediction, error) {
	mc, err := e.buildContext(ctx, q)
	if err != nil {
		return nil, err
	}

	if q.Model == ModelLegacy {
		return scoreLegacy(mc, q.Threshold, q.Side), nil
	}
	return scoreRegression(mc, q.Threshold), nil
}

// buildContext fetches season, advanced and last-5 stats for both sides.
// Shared by both models so they always see identical inputs.
func (e *TeamTotalEngine) buildContext(ctx context.Context, q MatchupQuery) (*TeamMatchupContext, error) {
	home, err := e.teams.FindTeam(ctx, q.HomeTeam)
	if err != nil || home == nil {
		return nil, fmt.Errorf("home team %q: %w", q.HomeTeam, ErrTeamNotFound)
	}
	away, err := e.teams.FindTeam(ctx, q.AwayTeam)
	if err != nil || away == nil {
		return nil, fmt.Errorf("away team %q: %w", q.AwayTeam, ErrTeamNotFound)
	}

	mc := &TeamMatchupContext{Home: *home, Away: *away, Season: q.Season}

	homeSeason, err := e.teams.TeamSeasonStats(ctx, home.ID, q.Season)
	if err != nil || homeSeason == nil {
		return nil, fmt.Errorf("season stats for %s: %w", home.FullName, ErrNoData)
	}
	awaySeason, err := e.teams.TeamSeasonStats(ctx, away.ID, q.Season)
	if err != nil || awaySeason == nil {
		return nil, fmt.Errorf("season stats for %s: %w", away.FullName, ErrNoData)
	}
	mc.HomeSeason, mc.AwaySeason = *homeSeason, *awaySeason

	// Advanced stats degrade to league-typical defaults, same as the
	// season-stat fallbacks the data feed occasionally forces.
	mc.HomeAdvanced = advancedOrDefault(e.teams, ctx, home.ID, q.Season)
	mc.AwayAdvanced = advancedOrDefault(e.teams, ctx, away.ID, q.Season)

	homeLast5, err := e.teams.TeamLastFive(ctx, home.ID, q.Season)
	if err != nil || homeLast5 == nil || homeLast5.Games == 0 {
		return nil, fmt.Errorf("recent games for %s: %w", home.FullName, ErrNoData)
	}
	awayLast5, err := e.teams.TeamLastFive(ctx, away.ID, q.Season)
	if err != nil || awayLast5 == nil || awayLast5.Games == 0 {
		return nil, fmt.Errorf("recent games for %s: %w", away.FullName, ErrNoData)
	}
	mc.HomeLast5, mc.AwayLast5 = *homeLast5, *awayLast5

	return mc, nil
}

func advancedOrDefault(src TeamSource, ctx context.Context, teamID int, season string) TeamAdvanced {
	adv, err := src.TeamAdvancedStats(ctx, teamID, season)
	if err != nil || adv == nil {
		return TeamAdvanced{Pace: 100, OffRating: 110, DefRating: 110}
	}
	return *adv
}

// scoreRegression is the regression-corrected model: five additive terms on a
// last-5 base, a bucketed regression multiplier pulling hot or cold samples
// back toward season form, and three independent fine adjustments.
func scoreRegression(mc *TeamMatchupContext, threshold *float64) *TeamPrediction {
	homeSeasonPts := mc.HomeSeason.PointsPerGame
	awaySeasonPts := mc.AwaySeason.PointsPerGame
	homeLast5Pts := mc.HomeLast5.PointsFor
	awayLast5Pts := mc.AwayLast5.PointsFor

	avgPace := (mc.HomeAdvanced.Pace + mc.AwayAdvanced.Pace) / 2

	base := homeLast5Pts + awayLast5Pts
	tempo := (avgPace - 98) * 0.9

	// Efficiency is asymmetric: each offense measured against the defense
	// it actually faces.
	efficiency := ((mc.HomeAdvanced.OffRating - mc.AwayAdvanced.DefRating) +
		(mc.AwayAdvanced.OffRating - mc.HomeAdvanced.DefRating)) * 0.35

	form := ((homeLast5Pts - homeSeasonPts) + (awayLast5Pts - awaySeasonPts)) * 0.5

	avgShooting := (mc.HomeLast5.FGPct + mc.AwayLast5.FGPct + mc.HomeLast5.FG3Pct + mc.AwayLast5.FG3Pct) / 4
	shooting := (avgShooting - 45) * 0.6

	defPenalty := ((mc.HomeAdvanced.DefRating + mc.AwayAdvanced.DefRating) - 226) * 0.5

	homeBump := 1.0
	if avgPace < 98 {
		homeBump = 1.5
	}

	raw := base + tempo + efficiency + form + shooting - defPenalty + homeBump

	// Regression to the season mean: a hot last-5 sample gets shrunk,
	// a cold one lifted, in fixed buckets.
	ratio := safeDiv(homeSeasonPts+awaySeasonPts, homeLast5Pts+awayLast5Pts)
	multiplier := regressionMultiplier(ratio)
	if homeLast5Pts+awayLast5Pts == 0 {
		ratio, multiplier = 1.0, 1.0
	}

	total := raw * multiplier

	var fine float64
	if mc.HomeAdvanced.DefRating < 112 && mc.AwayAdvanced.DefRating < 112 {
		fine -= 4 // two strong defenses
	}
	formDivergence := (homeLast5Pts - homeSeasonPts) - (awayLast5Pts - awaySeasonPts)
	if abs(formDivergence) > 15 {
		fine -= 6 // lopsided form, blowout risk
	}
	if awayLast5Pts > 118 {
		fine += 2
	}
	total += fine

	pred := &TeamPrediction{
		HomeTeam: mc.Home.FullName,
		AwayTeam: mc.Away.FullName,
		Season:   mc.Season,
		Model:    ModelRegression.String(),

		Total: total,

		BaseTotal:        base,
		TempoEffect:      tempo,
		EfficiencyEffect: efficiency,
		FormEffect:       form,
		ShootingEffect:   shooting,
		DefensePenalty:   defPenalty,
		HomeCourtBump:    homeBump,
		RawTotal:         raw,

		RegressionRatio:      ratio,
		RegressionMultiplier: multiplier,
		FineAdjustment:       fine,

		AvgPace:   avgPace,
		TempoNote: tempoNote(avgPace),

		HomeSeasonAvg: homeSeasonPts,
		AwaySeasonAvg: awaySeasonPts,
		HomeLast5Avg:  homeLast5Pts,
		AwayLast5Avg:  awayLast5Pts,

		HomeOffRating: mc.HomeAdvanced.OffRating,
		HomeDefRating: mc.HomeAdvanced.DefRating,
		AwayOffRating: mc.AwayAdvanced.OffRating,
		AwayDefRating: mc.AwayAdvanced.DefRating,

		HomeFGPct:  mc.HomeLast5.FGPct,
		HomeFG3Pct: mc.HomeLast5.FG3Pct,
		AwayFGPct:  mc.AwayLast5.FGPct,
		AwayFG3Pct: mc.AwayLast5.FG3Pct,
	}

	if threshold != nil {
		pred.Threshold = threshold
		margin := total - *threshold
		pred.Margin = margin

		// Inside ±3 of the line is a deliberate no-bet zone.
		switch {
		case margin >= 3:
			pred.Decision = DecisionOver.String()
			pred.Confidence = marginConfidence(margin)
			pred.RiskBand = "green"
		case margin <= -3:
			pred.Decision = DecisionUnder.String()
			pred.Confidence = marginConfidence(margin)
			pred.RiskBand = "green"
		default:
			pred.Decision = DecisionPass.String()
			pred.Confidence = "low"
			pred.RiskBand = "red"
			pred.Reason = "projection too close to the line, no bet"
		}
		if pred.Reason == "" {
			pred.Reason = regressionReason(ratio, base, homeSeasonPts+awaySeasonPts, multiplier)
		}
	}

	return pred
}

func regressionMultiplier(r float64) float64 {
	switch {
	case r < 0.90:
		return 0.90
	case r < 0.94:
		return 0.93
	case r > 1.08:
		return 1.05
	case r > 1.04:
		return 1.02
	default:
		return 1.00
	}
}

func marginConfidence(margin float64) string {
	if abs(margin) >= 5 {
		return "high"
	}
	return "medium"
}

func tempoNote(avgPace float64) string {
	switch {
	case avgPace > 102:
		return fmt.Sprintf("fast game expected (pace %.1f)", avgPace)
	case avgPace < 98:
		return fmt.Sprintf("slow, defense-heavy game expected (pace %.1f)", avgPace)
	default:
		return fmt.Sprintf("normal tempo (pace %.1f)", avgPace)
	}
}

func regressionReason(ratio, last5Base, seasonBase, multiplier float64) string {
	pct := (multiplier - 1) * 100
	switch {
	case ratio < 0.95:
		return fmt.Sprintf("last-5 base (%.1f) runs above season form (%.1f); regression trimmed %.1f%%", last5Base, seasonBase, abs(pct))
	case ratio > 1.05:
		return fmt.Sprintf("last-5 base (%.1f) runs below season form (%.1f); regression added %.1f%%", last5Base, seasonBase, abs(pct))
	default:
		return "recent and season form are balanced"
	}
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
