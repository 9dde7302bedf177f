package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAssessGarbageTime(t *testing.T) {
	t.Run("underdog odds carry no risk", func(t *testing.T) {
		a := AssessGarbageTime(1.85, nil)
		assert.False(t, a.Risky)
		assert.Zero(t, a.PenaltyFactor)
	})

	t.Run("heavy favorite gets base penalty", func(t *testing.T) {
		a := AssessGarbageTime(1.22, nil)
		assert.True(t, a.Risky)
		assert.InDelta(t, 0.08, a.PenaltyFactor, 1e-9)
	})

	t.Run("threshold is inclusive", func(t *testing.T) {
		a := AssessGarbageTime(1.25, nil)
		assert.True(t, a.Risky)
	})

	t.Run("blowout form raises the penalty", func(t *testing.T) {
		blowout := &TeamLastFive{Games: 5, AvgMargin: 12.4}
		a := AssessGarbageTime(1.20, blowout)
		assert.True(t, a.Risky)
		assert.InDelta(t, 0.13, a.PenaltyFactor, 1e-9)
	})

	t.Run("modest margin keeps base penalty", func(t *testing.T) {
		blowout := &TeamLastFive{Games: 5, AvgMargin: 6.0}
		a := AssessGarbageTime(1.20, blowout)
		assert.InDelta(t, 0.08, a.PenaltyFactor, 1e-9)
	})

	t.Run("penalty never exceeds the cap", func(t *testing.T) {
		blowout := &TeamLastFive{Games: 5, AvgMargin: 25.0}
		a := AssessGarbageTime(1.05, blowout)
		assert.LessOrEqual(t, a.PenaltyFactor, maxGarbagePenalty)
	})
}

func TestApplyGarbageTimePenalty(t *testing.T) {
	t.Run("no risk passes through", func(t *testing.T) {
		adj := ApplyGarbageTimePenalty(35, 80, 1.85, nil)
		assert.False(t, adj.Applied)
		assert.InDelta(t, 35.0, adj.Projection, 1e-9)
		assert.Equal(t, 80, adj.Confidence)
	})

	t.Run("penalty shrinks projection and confidence", func(t *testing.T) {
		adj := ApplyGarbageTimePenalty(35, 80, 1.22, nil)
		assert.True(t, adj.Applied)

		// Projection loses the full 8%, confidence 80% of it:
		// int(80 * (1 - 0.064)) = 74.
		assert.InDelta(t, 35*0.92, adj.Projection, 1e-9)
		assert.Equal(t, 74, adj.Confidence)

		assert.InDelta(t, 35.0, adj.OriginalProjection, 1e-9)
		assert.Equal(t, 80, adj.OriginalConfidence)
	})
}
