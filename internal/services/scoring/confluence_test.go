package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func confluenceEngine(weights map[string]float64) *config.Engine {
	var e config.Engine
	e.AlignmentWeights = weights
	e.SpreadAnalysis.Cointegration.SignificanceLevel = 0.05
	return &e
}

func bonuses(points map[string]int) map[string]config.BonusRule {
	out := make(map[string]config.BonusRule, len(points))
	for k, v := range points {
		out[k] = config.BonusRule{Points: v}
	}
	return out
}

func TestConfluenceScoreBuySide(t *testing.T) {
	s := NewConfluenceScorer(confluenceEngine(map[string]float64{
		"rsi": 1.0, "adx": 1.5, "macd": 1.0,
	}))

	row := &models.IndicatorRow{
		IsOutright:    true,
		RSI:           models.Ptr(25.0),  // oversold, aligns with buy
		ADX:           models.Ptr(30.0),  // strong trend
		MACDHistogram: models.Ptr(-1.0),  // against the buy
	}
	got := s.Score(CheckContext{Row: row, Direction: models.DirectionBuy}, bonuses(map[string]int{
		"rsi_aligned":            10,
		"adx_strong":             10,
		"macd_histogram_aligned": 7,
	}))

	assert.Equal(t, 20, got.Total)
	// failed checks stay in the breakdown at zero
	assert.Equal(t, map[string]int{
		"rsi_aligned":            10,
		"adx_strong":             10,
		"macd_histogram_aligned": 0,
	}, got.Breakdown)
	// passed weight 2.5 of 3.5 total
	assert.Equal(t, 71.4, got.AlignmentScore)
}

func TestConfluenceSpreadOnlyChecksSkippedForOutrights(t *testing.T) {
	s := NewConfluenceScorer(confluenceEngine(map[string]float64{"correlation": 1.0}))

	row := &models.IndicatorRow{
		IsOutright:  true,
		Correlation: models.Ptr(0.95),
	}
	got := s.Score(CheckContext{Row: row, Direction: models.DirectionBuy},
		bonuses(map[string]int{"correlation_high": 5}))

	assert.Zero(t, got.Total)
	assert.Equal(t, 0, got.Breakdown["correlation_high"])
}

func TestConfluenceSpreadChecks(t *testing.T) {
	s := NewConfluenceScorer(confluenceEngine(map[string]float64{
		"correlation": 1.0, "cointegration": 1.0,
	}))

	row := &models.IndicatorRow{
		Correlation:         models.Ptr(0.85),
		CointegrationPValue: models.Ptr(0.01),
	}
	got := s.Score(CheckContext{Row: row, Direction: models.DirectionSell},
		bonuses(map[string]int{"correlation_high": 5, "cointegration": 7}))

	assert.Equal(t, 12, got.Total)
	assert.Equal(t, 100.0, got.AlignmentScore)
}

func TestConfluenceBothExhaustedFlag(t *testing.T) {
	s := NewConfluenceScorer(confluenceEngine(map[string]float64{"rsi": 1.0}))
	row := &models.IndicatorRow{IsOutright: true}

	ctx := CheckContext{Row: row, Direction: models.DirectionBuy, BothExhausted: true}
	got := s.Score(ctx, bonuses(map[string]int{"both_indicators_exhausted": 15}))
	assert.Equal(t, 15, got.Total)

	ctx.BothExhausted = false
	got = s.Score(ctx, bonuses(map[string]int{"both_indicators_exhausted": 15}))
	assert.Zero(t, got.Total)
}

func TestConfluenceMissingValuesScoreZero(t *testing.T) {
	s := NewConfluenceScorer(confluenceEngine(map[string]float64{"rsi": 1.0}))
	row := &models.IndicatorRow{IsOutright: true}

	got := s.Score(CheckContext{Row: row, Direction: models.DirectionBuy},
		bonuses(map[string]int{"rsi_aligned": 10, "stochastic_aligned": 8}))

	assert.Zero(t, got.Total)
	assert.Len(t, got.Breakdown, 2)
}

func TestConfluenceNoWeightsNoAlignment(t *testing.T) {
	s := NewConfluenceScorer(confluenceEngine(nil))
	row := &models.IndicatorRow{IsOutright: true, RSI: models.Ptr(20.0)}

	got := s.Score(CheckContext{Row: row, Direction: models.DirectionBuy},
		bonuses(map[string]int{"rsi_aligned": 10}))

	assert.Equal(t, 10, got.Total)
	assert.Zero(t, got.AlignmentScore)
}
