package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// matchupTeamSource keys canned teams by name.
type matchupTeamSource struct {
	teams    map[string]*TeamRef
	season   map[int]*TeamSeasonStats
	advanced map[int]*TeamAdvanced
	last5    map[int]*TeamLastFive
}

func (s *matchupTeamSource) FindTeam(ctx context.Context, name string) (*TeamRef, error) {
	for key, ref := range s.teams {
		if strings.EqualFold(key, name) {
			return ref, nil
		}
	}
	return nil, nil
}

func (s *matchupTeamSource) TeamSeasonStats(ctx context.Context, teamID int, season string) (*TeamSeasonStats, error) {
	return s.season[teamID], nil
}

func (s *matchupTeamSource) TeamAdvancedStats(ctx context.Context, teamID int, season string) (*TeamAdvanced, error) {
	return s.advanced[teamID], nil
}

func (s *matchupTeamSource) TeamLastFive(ctx context.Context, teamID int, season string) (*TeamLastFive, error) {
	return s.last5[teamID], nil
}

// twinTeams builds a source where both teams have identical, steady numbers:
// last-5 scoring equals the season rate and pace sits exactly at 98.
func twinTeams() *matchupTeamSource {
	return &matchupTeamSource{
		teams: map[string]*TeamRef{
			"Lakers":  {ID: 1, FullName: "Los Angeles Lakers"},
			"Celtics": {ID: 2, FullName: "Boston Celtics"},
		},
		season: map[int]*TeamSeasonStats{
			1: {PointsPerGame: 112, OppPointsPerGame: 110},
			2: {PointsPerGame: 112, OppPointsPerGame: 110},
		},
		advanced: map[int]*TeamAdvanced{
			1: {Pace: 98, OffRating: 113, DefRating: 113},
			2: {Pace: 98, OffRating: 113, DefRating: 113},
		},
		last5: map[int]*TeamLastFive{
			1: {Games: 5, PointsFor: 112, PointsAgainst: 110, FGPct: 46, FG3Pct: 36},
			2: {Games: 5, PointsFor: 112, PointsAgainst: 110, FGPct: 46, FG3Pct: 36},
		},
	}
}

func TestTeamTotalUnknownTeam(t *testing.T) {
	engine := NewTeamTotalEngine(twinTeams())

	_, err := engine.Analyze(context.Background(), MatchupQuery{HomeTeam: "Lakers", AwayTeam: "Sonics"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTeamNotFound)
}

func TestTeamTotalMissingStats(t *testing.T) {
	src := twinTeams()
	delete(src.season, 2)
	engine := NewTeamTotalEngine(src)

	_, err := engine.Analyze(context.Background(), MatchupQuery{HomeTeam: "Lakers", AwayTeam: "Celtics"})
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRegressionModelSteadyTwins(t *testing.T) {
	// With identical steady teams every adjustment term is computable by
	// hand: base 224, no tempo effect at pace 98, efficiency 0, form 0,
	// shooting (41-45)*0.6 = -2.4, defense penalty 0, home bump 1.0,
	// regression ratio exactly 1 so no multiplier.
	engine := NewTeamTotalEngine(twinTeams())

	pred, err := engine.Analyze(context.Background(), MatchupQuery{HomeTeam: "Lakers", AwayTeam: "Celtics"})
	require.NoError(t, err)

	assert.Equal(t, "regression", pred.Model)
	assert.InDelta(t, 224.0, pred.BaseTotal, 1e-9)
	assert.Zero(t, pred.TempoEffect)
	assert.Zero(t, pred.EfficiencyEffect)
	assert.Zero(t, pred.FormEffect)
	assert.InDelta(t, -2.4, pred.ShootingEffect, 1e-9)
	assert.Zero(t, pred.DefensePenalty)
	assert.InDelta(t, 1.0, pred.HomeCourtBump, 1e-9)
	assert.InDelta(t, 1.0, pred.RegressionRatio, 1e-9)
	assert.InDelta(t, 1.0, pred.RegressionMultiplier, 1e-9)
	assert.Zero(t, pred.FineAdjustment)
	assert.InDelta(t, 224-2.4+1.0, pred.Total, 1e-9)
}

func TestRegressionModelDecision(t *testing.T) {
	engine := NewTeamTotalEngine(twinTeams())

	tests := []struct {
		name       string
		threshold  float64
		decision   string
		confidence string
		band       string
	}{
		{name: "clear over", threshold: 215.5, decision: "OVER", confidence: "high", band: "green"},
		{name: "narrow over", threshold: 219.0, decision: "OVER", confidence: "medium", band: "green"},
		{name: "too close to call", threshold: 222.0, decision: "PASS", confidence: "low", band: "red"},
		{name: "clear under", threshold: 231.5, decision: "UNDER", confidence: "high", band: "green"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := engine.Analyze(context.Background(), MatchupQuery{
				HomeTeam:  "Lakers",
				AwayTeam:  "Celtics",
				Threshold: &tt.threshold,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.decision, pred.Decision)
			assert.Equal(t, tt.confidence, pred.Confidence)
			assert.Equal(t, tt.band, pred.RiskBand)
		})
	}
}

func TestRegressionMultiplierBuckets(t *testing.T) {
	tests := []struct {
		ratio      float64
		multiplier float64
	}{
		{ratio: 0.85, multiplier: 0.90},
		{ratio: 0.92, multiplier: 0.93},
		{ratio: 1.00, multiplier: 1.00},
		{ratio: 1.06, multiplier: 1.02},
		{ratio: 1.12, multiplier: 1.05},
	}

	for _, tt := range tests {
		assert.InDelta(t, tt.multiplier, regressionMultiplier(tt.ratio), 1e-9)
	}
}

func TestRegressionFineAdjustments(t *testing.T) {
	t.Run("two strong defenses", func(t *testing.T) {
		src := twinTeams()
		src.advanced[1].DefRating = 108
		src.advanced[2].DefRating = 109

		pred, err := NewTeamTotalEngine(src).Analyze(context.Background(), MatchupQuery{HomeTeam: "Lakers", AwayTeam: "Celtics"})
		require.NoError(t, err)
		assert.InDelta(t, -4.0, pred.FineAdjustment, 1e-9)
	})

	t.Run("lopsided form", func(t *testing.T) {
		src := twinTeams()
		src.last5[1].PointsFor = 130 // +18 over season, away flat

		pred, err := NewTeamTotalEngine(src).Analyze(context.Background(), MatchupQuery{HomeTeam: "Lakers", AwayTeam: "Celtics"})
		require.NoError(t, err)
		assert.InDelta(t, -6.0, pred.FineAdjustment, 1e-9)
	})

	t.Run("hot away offense", func(t *testing.T) {
		src := twinTeams()
		src.last5[2].PointsFor = 119
		src.season[2].PointsPerGame = 119 // keep form terms quiet

		pred, err := NewTeamTotalEngine(src).Analyze(context.Background(), MatchupQuery{HomeTeam: "Lakers", AwayTeam: "Celtics"})
		require.NoError(t, err)
		assert.InDelta(t, 2.0, pred.FineAdjustment, 1e-9)
	})
}

func TestLegacyModelSteadyTwins(t *testing.T) {
	engine := NewTeamTotalEngine(twinTeams())

	pred, err := engine.Analyze(context.Background(), MatchupQuery{
		HomeTeam: "Lakers",
		AwayTeam: "Celtics",
		Model:    ModelLegacy,
	})
	require.NoError(t, err)

	assert.Equal(t, "legacy", pred.Model)

	// base 224, tempo (98-100)*0.5 = -1, efficiency 0, form 0, no home
	// edge, shooting 0 (46/36 sits in the neutral band).
	assert.InDelta(t, 224.0, pred.BaseTotal, 1e-9)
	assert.InDelta(t, -1.0, pred.TempoEffect, 1e-9)
	assert.Zero(t, pred.EfficiencyEffect)
	assert.Zero(t, pred.FormEffect)
	assert.Zero(t, pred.HomeCourtBump)
	assert.Zero(t, pred.ShootingEffect)
	assert.InDelta(t, 223.0, pred.Total, 1e-9)

	assert.InDelta(t, 223.0*0.48, pred.FirstHalfTotal, 1e-9)
	assert.InDelta(t, 220.0, pred.SuggestedLine, 1e-9)
	assert.InDelta(t, legacyStdDev, pred.StdDev, 1e-9)

	// No line supplied: the candidate ladder comes back instead.
	require.Len(t, pred.LineSuggestions, 5)
	assert.InDelta(t, 218.0, pred.LineSuggestions[0].Line, 1e-9)
	assert.Equal(t, 85, pred.LineSuggestions[0].OverChance)
	assert.Equal(t, 45, pred.LineSuggestions[2].OverChance)
	assert.Equal(t, 30, pred.LineSuggestions[3].OverChance)
}

func TestLegacyModelSideLadder(t *testing.T) {
	engine := NewTeamTotalEngine(twinTeams())
	// Legacy projection for the twins is 223.

	tests := []struct {
		name      string
		threshold float64
		side      BetSide
		decision  string
		pct       int
		band      string
	}{
		{name: "over with huge cushion", threshold: 210.5, side: SideOver, decision: "OVER", pct: 95, band: "green"},
		{name: "over with cushion", threshold: 216.5, side: SideOver, decision: "OVER", pct: 85, band: "green"},
		{name: "over barely clears", threshold: 220.5, side: SideOver, decision: "OVER", pct: 70, band: "green"},
		{name: "over on the line", threshold: 223.5, side: SideOver, decision: "OVER", pct: 50, band: "yellow"},
		{name: "over against the read", threshold: 226.5, side: SideOver, decision: "OVER", pct: 25, band: "red"},
		{name: "over hopeless", threshold: 234.5, side: SideOver, decision: "OVER", pct: 10, band: "red"},
		{name: "under mirrors", threshold: 234.5, side: SideUnder, decision: "UNDER", pct: 95, band: "green"},
		{name: "under against the read", threshold: 219.5, side: SideUnder, decision: "UNDER", pct: 25, band: "red"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pred, err := engine.Analyze(context.Background(), MatchupQuery{
				HomeTeam:  "Lakers",
				AwayTeam:  "Celtics",
				Model:     ModelLegacy,
				Threshold: &tt.threshold,
				Side:      tt.side,
			})
			require.NoError(t, err)
			assert.Equal(t, tt.decision, pred.Decision)
			assert.Equal(t, tt.pct, pred.ConfidencePct)
			assert.Equal(t, tt.band, pred.RiskBand)
		})
	}
}

func TestLegacyModelAutoSide(t *testing.T) {
	engine := NewTeamTotalEngine(twinTeams())

	t.Run("close line means no bet", func(t *testing.T) {
		line := 222.5
		pred, err := engine.Analyze(context.Background(), MatchupQuery{
			HomeTeam:  "Lakers",
			AwayTeam:  "Celtics",
			Model:     ModelLegacy,
			Threshold: &line,
		})
		require.NoError(t, err)
		assert.Equal(t, "PASS", pred.Decision)
		assert.Equal(t, "yellow", pred.RiskBand)
	})

	t.Run("clear gap picks the side", func(t *testing.T) {
		line := 216.5
		pred, err := engine.Analyze(context.Background(), MatchupQuery{
			HomeTeam:  "Lakers",
			AwayTeam:  "Celtics",
			Model:     ModelLegacy,
			Threshold: &line,
		})
		require.NoError(t, err)
		assert.Equal(t, "OVER", pred.Decision)
		assert.Equal(t, 85, pred.ConfidencePct)
	})
}
