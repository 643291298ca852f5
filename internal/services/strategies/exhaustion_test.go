package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func exhaustionConfig() *config.MACDRSIExhaustion {
	var c config.MACDRSIExhaustion
	c.EntryConditions.MACDExhaustion.Buy.PercentileThreshold = 20
	c.EntryConditions.MACDExhaustion.Sell.PercentileThreshold = 80
	c.EntryConditions.RSIExhaustion.Buy.PercentileThreshold = 20
	c.EntryConditions.RSIExhaustion.Buy.AbsoluteThreshold = 30
	c.EntryConditions.RSIExhaustion.Sell.PercentileThreshold = 80
	c.EntryConditions.RSIExhaustion.Sell.AbsoluteThreshold = 70
	return &c
}

func TestExhaustionMACDBuy(t *testing.T) {
	s := NewMACDRSIExhaustion(exhaustionConfig())

	// MACD at a low percentile with the line still below zero
	cur := &models.IndicatorRow{
		MACDLinePercentile: models.Ptr(10.0),
		MACDLine:           models.Ptr(-0.5),
	}
	det, ok := s.Detect(cur, &models.IndicatorRow{})
	require.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.Equal(t, models.TriggerExhaustion, det.Trigger)
	assert.True(t, det.MACDExhausted)
	assert.False(t, det.RSIExhausted)
}

func TestExhaustionRSISellNeedsTurn(t *testing.T) {
	s := NewMACDRSIExhaustion(exhaustionConfig())

	// overbought but still rising: no signal
	cur := &models.IndicatorRow{RSI: models.Ptr(85.0)}
	prev := &models.IndicatorRow{RSI: models.Ptr(80.0)}
	_, ok := s.Detect(cur, prev)
	assert.False(t, ok)

	// turned down from the extreme
	cur = &models.IndicatorRow{RSI: models.Ptr(78.0)}
	prev = &models.IndicatorRow{RSI: models.Ptr(85.0)}
	det, ok := s.Detect(cur, prev)
	require.True(t, ok)
	assert.Equal(t, models.DirectionSell, det.Direction)
	assert.True(t, det.RSIExhausted)
	assert.False(t, det.MACDExhausted)
}

func TestExhaustionBothIndicators(t *testing.T) {
	s := NewMACDRSIExhaustion(exhaustionConfig())

	cur := &models.IndicatorRow{
		MACDLinePercentile: models.Ptr(10.0),
		MACDLine:           models.Ptr(-0.5),
		RSI:                models.Ptr(28.0),
	}
	prev := &models.IndicatorRow{RSI: models.Ptr(25.0)}

	det, ok := s.Detect(cur, prev)
	require.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.True(t, det.MACDExhausted)
	assert.True(t, det.RSIExhausted)
}

func TestExhaustionMACDSellNeedsConfirmation(t *testing.T) {
	s := NewMACDRSIExhaustion(exhaustionConfig())

	// high percentile but line negative and no cross: not exhausted
	cur := &models.IndicatorRow{
		MACDLinePercentile: models.Ptr(90.0),
		MACDLine:           models.Ptr(-0.1),
	}
	_, ok := s.Detect(cur, &models.IndicatorRow{})
	assert.False(t, ok)

	// cross back down through the signal line confirms
	cur.MACDSignal = models.Ptr(0.0)
	prev := &models.IndicatorRow{
		MACDLine:   models.Ptr(0.3),
		MACDSignal: models.Ptr(0.1),
	}
	det, ok := s.Detect(cur, prev)
	require.True(t, ok)
	assert.Equal(t, models.DirectionSell, det.Direction)
}

func TestExhaustionRSIPercentilePath(t *testing.T) {
	s := NewMACDRSIExhaustion(exhaustionConfig())

	// absolute RSI is unremarkable but its percentile is extreme
	cur := &models.IndicatorRow{
		RSI:           models.Ptr(42.0),
		RSIPercentile: models.Ptr(5.0),
	}
	prev := &models.IndicatorRow{RSI: models.Ptr(40.0)}

	det, ok := s.Detect(cur, prev)
	require.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.True(t, det.RSIExhausted)
}
