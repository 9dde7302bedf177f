package engine

import "fmt"

// The legacy total model. A plain additive projection with a fixed game
// standard deviation, kept as an alternate read on the same matchup data.
// Term weights and ladder cutoffs are frozen; new ideas go into the
// regression model instead.

// legacyStdDev is the assumed standard deviation of an NBA game total.
const legacyStdDev = 4.5

func scoreLegacy(mc *TeamMatchupContext, threshold *float64, side BetSide) *TeamPrediction {
	homeSeasonPts := mc.HomeSeason.PointsPerGame
	awaySeasonPts := mc.AwaySeason.PointsPerGame
	homeLast5Pts := mc.HomeLast5.PointsFor
	awayLast5Pts := mc.AwayLast5.PointsFor

	avgPace := (mc.HomeAdvanced.Pace + mc.AwayAdvanced.Pace) / 2
	tempoFactor := avgPace / 100

	// Per-team side projections: season scoring lifted by the opposing
	// defense's weakness, plus a flat home-court bump, scaled by tempo.
	const homeCourtPoints = 3.5
	homeProjection := (homeSeasonPts + (mc.AwayAdvanced.DefRating-110)*0.3 + homeCourtPoints) * tempoFactor
	awayProjection := (awaySeasonPts + (mc.HomeAdvanced.DefRating-110)*0.3) * tempoFactor

	base := homeLast5Pts + awayLast5Pts
	tempo := (avgPace - 100) * 0.5

	avgOff := (mc.HomeAdvanced.OffRating + mc.AwayAdvanced.OffRating) / 2
	avgDef := (mc.HomeAdvanced.DefRating + mc.AwayAdvanced.DefRating) / 2
	efficiency := (avgOff - avgDef) * 0.3

	// Form is a percent change against the season rate, averaged across
	// both teams and clamped at +-5; a mild reading counts at half weight.
	homeFormPct := safeDiv(homeLast5Pts-homeSeasonPts, homeSeasonPts) * 100
	awayFormPct := safeDiv(awayLast5Pts-awaySeasonPts, awaySeasonPts) * 100
	avgFormPct := (homeFormPct + awayFormPct) / 2
	var form float64
	switch {
	case avgFormPct > 5:
		form = 5
	case avgFormPct < -5:
		form = -5
	default:
		form = avgFormPct / 2
	}

	// Home-edge terms only fire past a 5-point deviation: a home offense
	// running hot, or an away defense leaking more than the away side scores.
	var homeEdge float64
	if d := homeLast5Pts - homeSeasonPts; d > 5 {
		homeEdge += d * 0.3
	}
	if d := mc.AwayLast5.PointsAgainst - awaySeasonPts; d > 5 {
		homeEdge += d * 0.3
	}

	avgFG := (mc.HomeLast5.FGPct + mc.AwayLast5.FGPct) / 2
	avgFG3 := (mc.HomeLast5.FG3Pct + mc.AwayLast5.FG3Pct) / 2
	var shooting float64
	switch {
	case avgFG > 48 && avgFG3 > 38:
		shooting = 3
	case avgFG < 43 || avgFG3 < 32:
		shooting = -3
	}

	total := base + tempo + efficiency + form + homeEdge + shooting

	pred := &TeamPrediction{
		HomeTeam: mc.Home.FullName,
		AwayTeam: mc.Away.FullName,
		Season:   mc.Season,
		Model:    ModelLegacy.String(),

		Total: total,

		BaseTotal:        base,
		TempoEffect:      tempo,
		EfficiencyEffect: efficiency,
		FormEffect:       form,
		HomeCourtBump:    homeEdge,
		ShootingEffect:   shooting,
		RawTotal:         total,

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

		StdDev:         legacyStdDev,
		FirstHalfTotal: total * 0.48,
		SuggestedLine:  total - 3,
		HomeProjection: homeProjection,
		AwayProjection: awayProjection,
	}

	if threshold == nil {
		pred.LineSuggestions = suggestLines(total)
		return pred
	}

	pred.Threshold = threshold
	margin := total - *threshold
	pred.Margin = margin

	if side == SideAuto {
		// Inside +-2 of the line there is no bet to make.
		if abs(margin) < 2 {
			pred.Decision = DecisionPass.String()
			pred.Confidence = "low"
			pred.ConfidencePct = 45
			pred.RiskBand = "yellow"
			pred.Reason = fmt.Sprintf("line %.1f is too close to the projection %.1f, no bet", *threshold, total)
			return pred
		}
		if margin > 0 {
			side = SideOver
		} else {
			side = SideUnder
		}
	}

	verdict, pct, band, reason := sideLadder(side, margin, total, *threshold)
	if side == SideOver {
		pred.Decision = DecisionOver.String()
	} else {
		pred.Decision = DecisionUnder.String()
	}
	pred.Verdict = verdict
	pred.ConfidencePct = pct
	pred.Confidence = confidenceWord(pct)
	pred.RiskBand = band
	pred.Reason = reason
	return pred
}

// sideLadder grades a chosen side against the line. The OVER ladder reads the
// margin directly; the UNDER ladder is its mirror image.
func sideLadder(side BetSide, margin, total, line float64) (verdict string, pct int, band, reason string) {
	m := margin
	if side == SideUnder {
		m = -margin
	}

	switch {
	case m > 10:
		return "very safe", 95, "green",
			fmt.Sprintf("projection %.1f clears the line %.1f by %.1f", total, line, abs(margin))
	case m > 5:
		return "safe", 85, "green",
			fmt.Sprintf("projection %.1f is %.1f past the line, comfortable margin", total, abs(margin))
	case m > 2:
		return "lean", 70, "green",
			"projection is past the line but close, reasonable risk"
	case m > -2:
		return "borderline", 50, "yellow",
			"projection sits on the line, too risky"
	case m > -5:
		return "against", 25, "red",
			"projection lands on the wrong side of the line"
	default:
		return "strongly against", 10, "red",
			fmt.Sprintf("projection %.1f is %.1f on the wrong side of the line %.1f", total, abs(margin), line)
	}
}

func confidenceWord(pct int) string {
	switch {
	case pct >= 80:
		return "high"
	case pct >= 60:
		return "medium"
	default:
		return "low"
	}
}

// suggestLines offers candidate lines around the projection with the chance
// of the game going over each, from the fixed-sigma normal approximation.
func suggestLines(total float64) []LineSuggestion {
	offsets := []struct {
		delta float64
		note  string
	}{
		{-5, "very safe over"},
		{-2.5, "safe over"},
		{0, "coin flip"},
		{2.5, "safe under"},
		{5, "very safe under"},
	}

	out := make([]LineSuggestion, 0, len(offsets))
	for _, o := range offsets {
		line := total + o.delta
		out = append(out, LineSuggestion{
			Line:       line,
			OverChance: overChance(line, total),
			Note:       o.note,
		})
	}
	return out
}

// overChance buckets the z-score of a line into a coarse probability ladder.
func overChance(line, total float64) int {
	z := (line - total) / legacyStdDev
	switch {
	case z < -2:
		return 95
	case z < -1:
		return 85
	case z < -0.5:
		return 75
	case z < 0:
		return 65
	case z < 0.5:
		return 45
	case z < 1:
		return 30
	default:
		return 15
	}
}
