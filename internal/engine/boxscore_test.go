package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAssistTurnoverRatio(t *testing.T) {
	tests := []struct {
		name     string
		ast, tov int
		expected float64
	}{
		{name: "normal ratio", ast: 6, tov: 3, expected: 2.0},
		{name: "zero turnovers reports raw assists", ast: 5, tov: 0, expected: 5.0},
		{name: "both zero", ast: 0, tov: 0, expected: 0},
		{name: "zero assists with turnovers", ast: 0, tov: 4, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, AssistTurnoverRatio(tt.ast, tt.tov), 1e-9)
		})
	}
}

func TestTrueShootingPct(t *testing.T) {
	// 30 points on 20 FGA and 10 FTA: 30 / (2 * (20 + 4.4)) = 0.6147...
	assert.InDelta(t, 30.0/(2*(20+4.4)), TrueShootingPct(30, 20, 10), 1e-9)
	assert.Zero(t, TrueShootingPct(0, 0, 0))
}

func TestEffectiveFGPct(t *testing.T) {
	// 10 makes, 4 threes on 20 attempts: (10 + 2) / 20 = 0.6.
	assert.InDelta(t, 0.6, EffectiveFGPct(10, 4, 20), 1e-9)
	assert.Zero(t, EffectiveFGPct(0, 0, 0))
}

func TestDoubleAndTripleDouble(t *testing.T) {
	tests := []struct {
		name                    string
		pts, reb, ast, stl, blk int
		dd, td                  bool
	}{
		{name: "points and rebounds", pts: 25, reb: 12, ast: 4, dd: true},
		{name: "triple double", pts: 25, reb: 12, ast: 10, dd: true, td: true},
		{name: "steals count too", pts: 8, reb: 10, ast: 3, stl: 10, dd: true},
		{name: "single category", pts: 40, reb: 5, ast: 5},
		{name: "exactly ten", pts: 10, reb: 10, dd: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.dd, IsDoubleDouble(tt.pts, tt.reb, tt.ast, tt.stl, tt.blk))
			assert.Equal(t, tt.td, IsTripleDouble(tt.pts, tt.reb, tt.ast, tt.stl, tt.blk))
		})
	}
}

func TestEnrichRow(t *testing.T) {
	row := GameRow{
		Points: 24, Rebounds: 11, Assists: 10,
		FGM: 9, FGA: 18, FG3M: 2, FTM: 4, FTA: 5,
		Turnovers: 2,
	}

	enriched := EnrichRow(row)
	assert.True(t, enriched.TripleDouble)
	assert.True(t, enriched.DoubleDouble)
	assert.InDelta(t, 5.0, enriched.AstTovRatio, 1e-9)
	assert.InDelta(t, (9+0.5*2)/18.0, enriched.EFGPct, 1e-9)
}

func TestSeasonRollup(t *testing.T) {
	t.Run("empty log", func(t *testing.T) {
		assert.Nil(t, SeasonRollup(nil))
	})

	t.Run("averages and counts", func(t *testing.T) {
		rows := []GameRow{
			{Points: 20, Rebounds: 10, Assists: 10, Minutes: 34, FGM: 8, FGA: 16, FG3M: 2, FG3A: 6},
			{Points: 30, Rebounds: 4, Assists: 2, Minutes: 36, FGM: 11, FGA: 20, FG3M: 4, FG3A: 10},
		}

		stats := SeasonRollup(rows)
		require.NotNil(t, stats)

		assert.Equal(t, 2, stats.TotalGames)
		assert.InDelta(t, 25.0, stats.AvgPoints, 1e-9)
		assert.InDelta(t, 7.0, stats.AvgRebounds, 1e-9)
		assert.InDelta(t, 35.0, stats.AvgMinutes, 1e-9)
		assert.Equal(t, 1, stats.DoubleDoubles)
		assert.Equal(t, 1, stats.TripleDoubles)
		assert.InDelta(t, 50.0, stats.DoubleDoublePct, 1e-9)

		// Two-point split: game one 6/10, game two 7/10.
		assert.InDelta(t, 6.5, stats.AvgFG2M, 1e-9)
		assert.InDelta(t, 10.0, stats.AvgFG2A, 1e-9)
		assert.InDelta(t, 0.65, stats.AvgFG2Pct, 1e-9)
	})
}

func TestSampleStdDev(t *testing.T) {
	assert.Zero(t, sampleStdDev(nil))
	assert.Zero(t, sampleStdDev([]float64{5}))

	// Sample variance of {2,4,4,4,5,5,7,9} is 4.571..., stddev 2.138...
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.13808993, sampleStdDev(values), 1e-6)
}
