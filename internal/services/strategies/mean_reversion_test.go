package strategies

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func meanReversionConfig() *config.MeanReversion {
	var c config.MeanReversion
	c.Entry.BuyPercentile = 25
	c.Entry.SellPercentile = 75
	return &c
}

func TestMeanReversionBuyAtLowExtreme(t *testing.T) {
	s := NewMeanReversion(meanReversionConfig())

	det, ok := s.Detect(&models.IndicatorRow{PricePercentile: models.Ptr(10.0)}, nil)
	assert.True(t, ok)
	assert.Equal(t, models.DirectionBuy, det.Direction)
	assert.Equal(t, models.TriggerPricePercentile, det.Trigger)
}

func TestMeanReversionSellAtHighExtreme(t *testing.T) {
	s := NewMeanReversion(meanReversionConfig())

	det, ok := s.Detect(&models.IndicatorRow{PricePercentile: models.Ptr(80.0)}, nil)
	assert.True(t, ok)
	assert.Equal(t, models.DirectionSell, det.Direction)
}

func TestMeanReversionMidRangeIsQuiet(t *testing.T) {
	s := NewMeanReversion(meanReversionConfig())

	for _, pct := range []float64{25, 50, 75} {
		_, ok := s.Detect(&models.IndicatorRow{PricePercentile: models.Ptr(pct)}, nil)
		assert.False(t, ok, "percentile %v should not fire", pct)
	}
}

func TestMeanReversionMissingPercentile(t *testing.T) {
	s := NewMeanReversion(meanReversionConfig())

	_, ok := s.Detect(&models.IndicatorRow{}, nil)
	assert.False(t, ok)
}
