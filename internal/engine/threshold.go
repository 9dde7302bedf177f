package engine

import (
	"context"
	"fmt"
)

// PlayerSource is the data-acquisition contract the threshold engine consumes.
// Implementations own retry, rate limiting and caching; by the time a call
// returns here it either succeeded or is a terminal absence for this request.
type PlayerSource interface {
	// FindPlayers returns players whose name contains the query,
	// case-insensitively. An empty slice means no match.
	FindPlayers(ctx context.Context, name string) ([]PlayerRef, error)

	// PlayerDetail returns roster context (team, position) for a player.
	PlayerDetail(ctx context.Context, playerID int) (*PlayerDetail, error)

	// SeasonAggregate returns season totals plus the season actually
	// resolved (the provider may fall back to the most recent season that
	// has data). season may be empty for "current".
	SeasonAggregate(ctx context.Context, playerID int, season string) (*SeasonAggregate, string, error)

	// GameLog returns the player's games for a season, most recent first.
	GameLog(ctx context.Context, playerID int, season string) ([]GameRow, error)
}

// TeamSource is the team-side data contract, shared by the threshold engine
// (tempo lookups, blowout form) and the team total engine.
type TeamSource interface {
	// FindTeam matches a team by full name, nickname or abbreviation.
	FindTeam(ctx context.Context, name string) (*TeamRef, error)

	TeamSeasonStats(ctx context.Context, teamID int, season string) (*TeamSeasonStats, error)
	TeamAdvancedStats(ctx context.Context, teamID int, season string) (*TeamAdvanced, error)
	TeamLastFive(ctx context.Context, teamID int, season string) (*TeamLastFive, error)
}

// ThresholdEngine runs the player prop threshold analysis:
// fetch, baseline, variability, weighted blend, risk classification and the
// optional garbage-time adjustment.
type ThresholdEngine struct {
	players PlayerSource
	teams   TeamSource
}

// NewThresholdEngine creates a threshold engine. teams may be nil, in which
// case tempo bonuses and blowout form are skipped.
func NewThresholdEngine(players PlayerSource, teams TeamSource) *ThresholdEngine {
	return &ThresholdEngine{players: players, teams: teams}
}

// lastFiveWindow is how many recent games weigh into the form metrics.
const lastFiveWindow = 5

// Analyze runs the full threshold analysis for one query. The result is a
// pure function of the fetched data: identical inputs produce identical
// results.
func (e *ThresholdEngine) Analyze(ctx context.Context, q ThresholdQuery) (*PredictionResult, error) {
	// Resolve by fuzzy name match: first match wins. Ambiguous names are
	// not disambiguated; this mirrors the behavior callers already rely on.
	matches, err := e.players.FindPlayers(ctx, q.PlayerName)
	if err != nil {
		return nil, fmt.Errorf("searching player %q: %w", q.PlayerName, err)
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("player %q: %w", q.PlayerName, ErrPlayerNotFound)
	}
	player := matches[0]

	// Roster detail is best-effort; without it we only lose the tempo bonus.
	detail, err := e.players.PlayerDetail(ctx, player.ID)
	if err != nil {
		detail = nil
	}

	agg, season, err := e.players.SeasonAggregate(ctx, player.ID, q.Season)
	if err != nil {
		return nil, fmt.Errorf("season aggregate for %s: %w", player.FullName, err)
	}
	if agg == nil || agg.GamesPlayed == 0 {
		return nil, fmt.Errorf("player %s: %w", player.FullName, ErrNoSeasonData)
	}

	log, err := e.players.GameLog(ctx, player.ID, season)
	if err != nil {
		return nil, fmt.Errorf("game log for %s: %w", player.FullName, err)
	}
	if len(log) == 0 {
		return nil, fmt.Errorf("player %s: %w", player.FullName, ErrNoGameLog)
	}

	values := make([]float64, len(log))
	for i, g := range log {
		values[i] = q.Combination.Value(g)
	}

	seasonAvg := q.Combination.SeasonAverage(*agg)
	seasonRate, seasonPassed := passRate(values, q.Threshold)

	last5 := values
	if len(last5) > lastFiveWindow {
		last5 = last5[:lastFiveWindow]
	}
	last5Rate, last5Passed := passRate(last5, q.Threshold)
	last5Avg := mean(last5)

	stdDev := sampleStdDev(values)

	homeAvg, awayAvg := homeAwaySplit(log, q.Combination)

	// Weighted blend: with a known venue the matching split average
	// dominates; otherwise the season average blends with recent form.
	var blended float64
	switch q.Venue {
	case VenueHome:
		blended = homeAvg*0.7 + seasonAvg*0.3
	case VenueAway:
		blended = awayAvg*0.7 + seasonAvg*0.3
	default:
		blended = seasonAvg*0.6 + last5Avg*0.4
	}

	pace, offRating, teamRef := e.teamTempo(ctx, detail, season)

	var tempoBonus float64
	if pace != nil && *pace > 100 {
		tempoBonus = (*pace - 100) * 0.3
	}
	projection := blended + tempoBonus

	cls := Classify(projection, q.Threshold, seasonRate, last5Rate, stdDev)
	confidence := cls.Confidence

	// The safer-threshold suggestion is based on the unpenalized projection.
	suggested := SuggestedThreshold(projection, stdDev)

	result := &PredictionResult{
		Player:      player.FullName,
		Season:      season,
		GamesPlayed: agg.GamesPlayed,
		AvgMinutes:  safeDiv(agg.Minutes, float64(agg.GamesPlayed)),

		SeasonAvg:  seasonAvg,
		Last5Avg:   last5Avg,
		BlendedAvg: blended,
		TempoBonus: tempoBonus,
		Projection: projection,

		Threshold:       q.Threshold,
		Combination:     q.Combination.String(),
		Venue:           q.Venue.String(),
		SeasonPassRate:  seasonRate,
		SeasonPassCount: seasonPassed,
		SeasonGameCount: len(values),
		Last5PassRate:   last5Rate,
		Last5PassCount:  last5Passed,
		Last5GameCount:  len(last5),

		HomeAvg:      homeAvg,
		AwayAvg:      awayAvg,
		HomeAwayDiff: homeAvg - awayAvg,

		TeamPace:      pace,
		TeamOffRating: offRating,

		StdDev:             stdDev,
		SuggestedThreshold: suggested,
	}
	result.MinutesLevel = minutesLevel(result.AvgMinutes)
	if detail != nil {
		result.Team = teamDisplayName(detail)
		result.Position = detail.Position
	}

	if q.Odds != nil {
		result.Odds = q.Odds

		blowout := e.blowoutForm(ctx, teamRef, season)
		adj := ApplyGarbageTimePenalty(projection, confidence, *q.Odds, blowout)
		if adj.Applied {
			projection = adj.Projection
			// Re-classify against the shrunk projection; the table's own
			// confidence for the new gap supersedes the scaled score.
			cls = Classify(projection, q.Threshold, seasonRate, last5Rate, stdDev)
			confidence = cls.Confidence

			result.Projection = projection
			result.GarbageTimeWarning = adj.Assessment.Recommendation
			result.GarbageTimePenalty = adj.Assessment.PenaltyFactor
		}
	}

	result.RiskLabel = cls.Label
	result.RiskBand = cls.Band
	result.Confidence = confidence
	result.ConsistencyNote = cls.ConsistencyNote

	return result, nil
}

// teamTempo resolves the player's team and pulls pace and offensive rating.
// Every failure along the way degrades to "no tempo data".
func (e *ThresholdEngine) teamTempo(ctx context.Context, detail *PlayerDetail, season string) (pace, offRating *float64, team *TeamRef) {
	if e.teams == nil || detail == nil {
		return nil, nil, nil
	}
	name := teamDisplayName(detail)
	if name == "" {
		return nil, nil, nil
	}

	ref, err := e.teams.FindTeam(ctx, name)
	if err != nil || ref == nil {
		return nil, nil, nil
	}

	adv, err := e.teams.TeamAdvancedStats(ctx, ref.ID, season)
	if err != nil || adv == nil {
		return nil, nil, ref
	}

	p, o := adv.Pace, adv.OffRating
	return &p, &o, ref
}

// blowoutForm fetches the team's recent margin data for the garbage-time
// module; absence is fine and simply skips the extra penalty.
func (e *ThresholdEngine) blowoutForm(ctx context.Context, team *TeamRef, season string) *TeamLastFive {
	if e.teams == nil || team == nil {
		return nil
	}
	last5, err := e.teams.TeamLastFive(ctx, team.ID, season)
	if err != nil {
		return nil
	}
	return last5
}

// passRate counts games at or above the threshold and returns the rate as a
// percentage plus the raw success count.
func passRate(values []float64, threshold float64) (float64, int) {
	if len(values) == 0 {
		return 0, 0
	}
	passed := 0
	for _, v := range values {
		if v >= threshold {
			passed++
		}
	}
	return float64(passed) / float64(len(values)) * 100, passed
}

// homeAwaySplit partitions the log by the matchup-string convention and
// averages the combined stat per group.
func homeAwaySplit(log []GameRow, comb StatCombination) (homeAvg, awayAvg float64) {
	var home, away []float64
	for _, g := range log {
		v := comb.Value(g)
		switch {
		case g.IsHome():
			home = append(home, v)
		case g.IsAway():
			away = append(away, v)
		}
	}
	return mean(home), mean(away)
}

// minutesLevel bands average floor time: 32+ is a full starter's load.
func minutesLevel(avgMinutes float64) string {
	switch {
	case avgMinutes >= 32:
		return "high"
	case avgMinutes >= 25:
		return "medium"
	default:
		return "low"
	}
}

func teamDisplayName(d *PlayerDetail) string {
	if d.TeamName != "" {
		return d.TeamName
	}
	return d.TeamAbbreviation
}
