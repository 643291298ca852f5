package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func macdRow(line, sig float64) *models.IndicatorRow {
	return &models.IndicatorRow{
		MACDLine:   models.Ptr(line),
		MACDSignal: models.Ptr(sig),
	}
}

func TestTrendFollowingBuyCross(t *testing.T) {
	s := NewTrendFollowing(&config.TrendFollowing{})

	det, ok := s.Detect(macdRow(0.5, 0.3), macdRow(-0.2, 0.1))
	assert.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.Equal(t, models.TriggerMACDCross, det.Trigger)
}

func TestTrendFollowingSellCross(t *testing.T) {
	s := NewTrendFollowing(&config.TrendFollowing{})

	det, ok := s.Detect(macdRow(-0.2, 0.1), macdRow(0.5, 0.3))
	assert.True(t, ok)
	assert.Equal(t, models.DirectionSell, det.Direction)
}

func TestTrendFollowingNoCross(t *testing.T) {
	s := NewTrendFollowing(&config.TrendFollowing{})

	// line stays above signal on both rows
	_, ok := s.Detect(macdRow(0.5, 0.3), macdRow(0.4, 0.3))
	assert.False(t, ok)

	// touching is not a strict cross
	_, ok = s.Detect(macdRow(0.3, 0.3), macdRow(0.2, 0.3))
	assert.False(t, ok)
}

func TestTrendFollowingNeedsPrevRow(t *testing.T) {
	s := NewTrendFollowing(&config.TrendFollowing{})

	_, ok := s.Detect(macdRow(0.5, 0.3), nil)
	assert.False(t, ok)
}

func TestTrendFollowingMissingValues(t *testing.T) {
	s := NewTrendFollowing(&config.TrendFollowing{})

	cur := macdRow(0.5, 0.3)
	prev := &models.IndicatorRow{MACDLine: models.Ptr(-0.2)}
	_, ok := s.Detect(cur, prev)
	assert.False(t, ok)
}
