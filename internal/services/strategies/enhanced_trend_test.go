package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func enhancedConfig() *config.EnhancedTrendFollowing {
	var c config.EnhancedTrendFollowing
	c.BasePoints = map[string]int{
		models.TriggerEMACrossover: 60,
		models.TriggerSupertrend:   55,
		models.TriggerMACDCross:    50,
		models.TriggerAroonStrong:  45,
	}
	c.EntryTriggers.EMACrossover.FastEMA = 20
	c.EntryTriggers.EMACrossover.SlowEMA = 50
	c.EntryTriggers.AroonStrong.OscillatorThreshold = 50
	c.Confirmations.ADXStrong.MinADX = 25
	c.Confirmations.MomentumRequired = 2
	return &c
}

// confirmedRow carries everything a buy needs to pass confirmation:
// strong ADX, DI+ over DI-, and RSI plus histogram momentum.
func confirmedRow() *models.IndicatorRow {
	return &models.IndicatorRow{
		ADX:           models.Ptr(30.0),
		DIPlus:        models.Ptr(25.0),
		DIMinus:       models.Ptr(15.0),
		RSI:           models.Ptr(60.0),
		MACDHistogram: models.Ptr(0.5),
	}
}

func TestEnhancedEMACrossoverBuy(t *testing.T) {
	s := NewEnhancedTrendFollowing(enhancedConfig())

	cur := confirmedRow()
	cur.Close = models.Ptr(10.5)
	cur.EMA = map[int]float64{20: 10.2, 50: 10.0}
	prev := &models.IndicatorRow{
		Close: models.Ptr(10.0),
		EMA:   map[int]float64{20: 10.1, 50: 10.0},
	}

	det, ok := s.Detect(cur, prev)
	require.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.Equal(t, models.TriggerEMACrossover, det.Trigger)
}

func TestEnhancedHigherBasePointsWins(t *testing.T) {
	s := NewEnhancedTrendFollowing(enhancedConfig())

	// both the supertrend flip (55) and the MACD cross (50) fire
	cur := confirmedRow()
	cur.SupertrendDirection = "up"
	cur.MACDLine = models.Ptr(0.5)
	cur.MACDSignal = models.Ptr(0.3)
	prev := &models.IndicatorRow{
		SupertrendDirection: "down",
		MACDLine:            models.Ptr(-0.2),
		MACDSignal:          models.Ptr(0.1),
	}

	det, ok := s.Detect(cur, prev)
	require.True(t, ok)
	assert.Equal(t, models.TriggerSupertrend, det.Trigger)
}

func TestEnhancedConfirmationADXFloor(t *testing.T) {
	s := NewEnhancedTrendFollowing(enhancedConfig())

	cur := confirmedRow()
	cur.ADX = models.Ptr(20.0) // below floor
	cur.SupertrendDirection = "up"
	prev := &models.IndicatorRow{SupertrendDirection: "down"}

	_, ok := s.Detect(cur, prev)
	assert.False(t, ok)
}

func TestEnhancedConfirmationDIAlignment(t *testing.T) {
	s := NewEnhancedTrendFollowing(enhancedConfig())

	cur := confirmedRow()
	cur.DIPlus = models.Ptr(15.0)
	cur.DIMinus = models.Ptr(25.0) // wrong way for a buy
	cur.SupertrendDirection = "up"
	prev := &models.IndicatorRow{SupertrendDirection: "down"}

	_, ok := s.Detect(cur, prev)
	assert.False(t, ok)
}

func TestEnhancedMomentumQuorum(t *testing.T) {
	s := NewEnhancedTrendFollowing(enhancedConfig())

	// only RSI aligns: one of two required
	cur := confirmedRow()
	cur.MACDHistogram = models.Ptr(-0.5)
	cur.SupertrendDirection = "up"
	prev := &models.IndicatorRow{SupertrendDirection: "down"}

	_, ok := s.Detect(cur, prev)
	assert.False(t, ok)

	// stochastic alignment restores the quorum
	cur.StochK = models.Ptr(80.0)
	cur.StochD = models.Ptr(70.0)
	_, ok = s.Detect(cur, prev)
	assert.True(t, ok)
}

func TestEnhancedAroonStrongSell(t *testing.T) {
	s := NewEnhancedTrendFollowing(enhancedConfig())

	cur := &models.IndicatorRow{
		AroonOscillator:      models.Ptr(-70.0),
		AroonStrongDowntrend: true,
		ADX:                  models.Ptr(30.0),
		DIPlus:               models.Ptr(15.0),
		DIMinus:              models.Ptr(25.0),
		RSI:                  models.Ptr(40.0),
		MACDHistogram:        models.Ptr(-0.5),
	}

	det, ok := s.Detect(cur, nil)
	require.True(t, ok)
	assert.Equal(t, models.DirectionSell, det.Direction)
	assert.Equal(t, models.TriggerAroonStrong, det.Trigger)
}

func TestEnhancedDisabledTrigger(t *testing.T) {
	c := enhancedConfig()
	off := false
	c.EntryTriggers.Supertrend.Enabled = &off
	s := NewEnhancedTrendFollowing(c)

	cur := confirmedRow()
	cur.SupertrendDirection = "up"
	prev := &models.IndicatorRow{SupertrendDirection: "down"}

	_, ok := s.Detect(cur, prev)
	assert.False(t, ok)
}
