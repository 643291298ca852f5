package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func riskEngine(stop, target float64) *config.Engine {
	var e config.Engine
	e.ATRMultipliers.Stop = models.Ptr(stop)
	e.ATRMultipliers.Target = models.Ptr(target)
	e.PositionSizing.Method = "inverse_atr_pct"
	e.PositionSizing.BaseSize = models.Ptr(100.0)
	e.PositionSizing.TargetATRPct = 5.0
	return &e
}

func TestRiskApplyBuyLevels(t *testing.T) {
	r := NewRiskCalculator(riskEngine(0.56, 0.83))

	sig := &models.Signal{Direction: models.DirectionBuy, EntryPrice: 1.00}
	row := &models.IndicatorRow{ATR: models.Ptr(0.05)}
	r.Apply(sig, row)

	require.NotNil(t, sig.StopPrice)
	require.NotNil(t, sig.TargetPrice)
	assert.Equal(t, 0.972, *sig.StopPrice)
	assert.Equal(t, 1.0415, *sig.TargetPrice)
	assert.Equal(t, 0.05, *sig.ATR)
	assert.Equal(t, -2.8, *sig.StopPct)
	assert.Equal(t, 4.15, *sig.TargetPct)
}

func TestRiskApplySellMirrors(t *testing.T) {
	r := NewRiskCalculator(riskEngine(0.56, 0.83))

	sig := &models.Signal{Direction: models.DirectionSell, EntryPrice: 1.00}
	r.Apply(sig, &models.IndicatorRow{ATR: models.Ptr(0.05)})

	require.NotNil(t, sig.StopPrice)
	assert.Equal(t, 1.028, *sig.StopPrice)
	assert.Equal(t, 0.9585, *sig.TargetPrice)
	assert.Equal(t, 2.8, *sig.StopPct)
	assert.Equal(t, -4.15, *sig.TargetPct)
}

func TestRiskApplyMissingATR(t *testing.T) {
	r := NewRiskCalculator(riskEngine(1.5, 2.5))

	sig := &models.Signal{Direction: models.DirectionBuy, EntryPrice: 50}
	r.Apply(sig, &models.IndicatorRow{})

	assert.Nil(t, sig.ATR)
	assert.Nil(t, sig.StopPrice)
	assert.Nil(t, sig.TargetPrice)
	assert.Nil(t, sig.StopPct)
	assert.Nil(t, sig.TargetPct)
	// sizing falls back to base size
	assert.Equal(t, 100.0, sig.PositionSizePct)
}

func TestPositionSizeInverseATR(t *testing.T) {
	r := NewRiskCalculator(riskEngine(1, 1))

	cases := []struct {
		name   string
		atrPct *float64
		want   float64
	}{
		{"target over actual halves size", models.Ptr(10.0), 50.0},
		{"quiet contract clamps high", models.Ptr(1.0), 200.0},
		{"violent contract clamps low", models.Ptr(100.0), 10.0},
		{"missing atr pct", nil, 100.0},
		{"zero atr pct", models.Ptr(0.0), 100.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sig := &models.Signal{Direction: models.DirectionBuy, EntryPrice: 10}
			r.Apply(sig, &models.IndicatorRow{ATRPctOfPrice: tc.atrPct})
			assert.Equal(t, tc.want, sig.PositionSizePct)
		})
	}
}

func TestPositionSizeFixedMethod(t *testing.T) {
	e := riskEngine(1, 1)
	e.PositionSizing.Method = "fixed"
	r := NewRiskCalculator(e)

	sig := &models.Signal{Direction: models.DirectionBuy, EntryPrice: 10}
	r.Apply(sig, &models.IndicatorRow{ATRPctOfPrice: models.Ptr(10.0)})
	assert.Equal(t, 100.0, sig.PositionSizePct)
}
