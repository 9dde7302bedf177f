package engine

// RiskTier is the closed, ordered set of risk verdicts. Tiers are evaluated
// top-down; exactly one applies to any (diff, last5 pass rate, std dev) triple.
type RiskTier int

const (
	TierVerySafe RiskTier = iota
	TierSafe
	TierMediumRisk
	TierHighRisk
	TierRisky
	TierAvoid
)

func (t RiskTier) String() string {
	switch t {
	case TierVerySafe:
		return "Very Safe"
	case TierSafe:
		return "Safe"
	case TierMediumRisk:
		return "Medium Risk"
	case TierHighRisk:
		return "High Risk"
	case TierRisky:
		return "Risky"
	default:
		return "Avoid"
	}
}

// Band returns the color band associated with the tier.
func (t RiskTier) Band() string {
	switch t {
	case TierVerySafe, TierSafe:
		return "green"
	case TierMediumRisk:
		return "yellow"
	case TierHighRisk, TierRisky:
		return "orange"
	default:
		return "red"
	}
}

// Classification is the output of the risk table: a tier, its display label,
// a clamped 0-100 confidence score and an optional consistency note.
type Classification struct {
	Tier            RiskTier
	Label           string
	Band            string
	Confidence      int
	ConsistencyNote string
}

// consistencyCoefficient scales confidence by game-to-game variability.
// Highly volatile players get punished, very steady ones get a bonus.
func consistencyCoefficient(stdDev float64) (float64, string) {
	switch {
	case stdDev > 10:
		return 0.6, "very volatile"
	case stdDev > 7:
		return 0.75, "volatile"
	case stdDev > 5:
		return 0.9, ""
	case stdDev < 4:
		return 1.15, "consistent"
	default:
		return 1.0, ""
	}
}

// Classify runs the ordered risk table against a projection. The last-5 pass
// rate dominates the form coefficient (0.7 weight vs 0.3 season), and a pass
// rate under 60% shaves the projection-threshold gap before both the tier
// check and the confidence score see it.
//
// A threshold of 0 or less is flagged invalid: no gap is divided and the
// result carries confidence 0 so callers never mistake it for a real verdict.
func Classify(projection, threshold, seasonPassRate, last5PassRate, stdDev float64) Classification {
	if threshold <= 0 {
		return Classification{
			Tier:            TierAvoid,
			Label:           TierAvoid.String(),
			Band:            TierAvoid.Band(),
			Confidence:      0,
			ConsistencyNote: "invalid threshold",
		}
	}

	diff := projection - threshold

	consistency, note := consistencyCoefficient(stdDev)
	form := (last5PassRate*0.7 + seasonPassRate*0.3) / 100

	if last5PassRate < 60 {
		diff -= (60 - last5PassRate) * 0.1
	}

	raw := diff / threshold * 100
	confidence := clampInt(int(raw*consistency*form), 0, 100)

	var tier RiskTier
	switch {
	case diff >= 5 && last5PassRate >= 80 && stdDev < 6:
		tier = TierVerySafe
		confidence = max(85, confidence)
	case diff >= 4 && last5PassRate >= 70 && stdDev < 7:
		tier = TierSafe
		confidence = max(75, confidence)
	case diff >= 3 && last5PassRate >= 60:
		tier = TierMediumRisk
		if stdDev > 7 {
			confidence = max(60, confidence)
		} else {
			confidence = max(65, confidence)
		}
	case diff >= 1.5 && last5PassRate >= 50:
		tier = TierHighRisk
		confidence = max(50, confidence)
	case diff >= 0 && last5PassRate >= 40:
		tier = TierRisky
		confidence = max(40, confidence)
	default:
		tier = TierAvoid
		confidence = min(30, confidence)
	}

	return Classification{
		Tier:            tier,
		Label:           tier.String(),
		Band:            tier.Band(),
		Confidence:      confidence,
		ConsistencyNote: note,
	}
}

// SuggestedThreshold proposes a safer line half a standard deviation under
// the projection, floored at 0.
func SuggestedThreshold(projection, stdDev float64) float64 {
	s := projection - stdDev*0.5
	if s < 0 {
		return 0
	}
	return s
}
