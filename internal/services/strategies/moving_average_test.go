package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func TestMovingAverageDetect(t *testing.T) {
	s := NewMovingAverage(&config.MovingAverage{EMAPeriod: 20})

	det, ok := s.Detect(&models.IndicatorRow{
		Close: models.Ptr(10.5),
		EMA:   map[int]float64{20: 10.0},
	}, nil)
	assert.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.Equal(t, models.TriggerPriceEMACross, det.Trigger)

	det, ok = s.Detect(&models.IndicatorRow{
		Close: models.Ptr(9.5),
		EMA:   map[int]float64{20: 10.0},
	}, nil)
	assert.True(t, ok)
	assert.Equal(t, models.DirectionSell, det.Direction)

	_, ok = s.Detect(&models.IndicatorRow{
		Close: models.Ptr(10.0),
		EMA:   map[int]float64{20: 10.0},
	}, nil)
	assert.False(t, ok)

	_, ok = s.Detect(&models.IndicatorRow{Close: models.Ptr(10.0)}, nil)
	assert.False(t, ok)
}

func TestMovingAverageOffByDefault(t *testing.T) {
	var c config.MovingAverage
	assert.False(t, c.IsEnabled())

	on := true
	c.Enabled = &on
	assert.True(t, c.IsEnabled())
}
