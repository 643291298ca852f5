package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func penaltyConfig() *config.ExhaustionPenalty {
	p := &config.ExhaustionPenalty{Enabled: true, MaxPenalty: 15}
	p.Penalties.RSIExtreme = &struct {
		Points        int     `yaml:"points" default:"10"`
		BuyThreshold  float64 `yaml:"buy_threshold" default:"75"`
		SellThreshold float64 `yaml:"sell_threshold" default:"25"`
	}{Points: 10, BuyThreshold: 75, SellThreshold: 25}
	p.Penalties.PriceDistanceFromEMA = &struct {
		Points          int     `yaml:"points" default:"5"`
		EMAPeriod       int     `yaml:"ema_period" default:"50"`
		DistancePercent float64 `yaml:"distance_percent" default:"5"`
	}{Points: 5, EMAPeriod: 50, DistancePercent: 5}
	p.Penalties.BollingerExtreme = &struct {
		Points int `yaml:"points" default:"5"`
	}{Points: 5}
	return p
}

func TestPenaltyDisabled(t *testing.T) {
	p := NewExhaustionPenalizer(nil)
	assert.False(t, p.Enabled())

	got := p.Score(&models.IndicatorRow{RSI: models.Ptr(90.0)}, models.DirectionBuy)
	assert.Zero(t, got.Total)
}

func TestPenaltySinglePenalty(t *testing.T) {
	p := NewExhaustionPenalizer(penaltyConfig())

	// overbought entry into a buy
	row := &models.IndicatorRow{RSI: models.Ptr(80.0)}
	got := p.Score(row, models.DirectionBuy)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, map[string]int{"rsi_extreme": 10}, got.Breakdown)

	// the same RSI is fine for a sell
	got = p.Score(row, models.DirectionSell)
	assert.Zero(t, got.Total)
}

func TestPenaltyCapScalesDown(t *testing.T) {
	p := NewExhaustionPenalizer(penaltyConfig())

	// all three fire: 10 + 5 + 5 = 20, capped to 15 proportionally
	row := &models.IndicatorRow{
		RSI:     models.Ptr(80.0),
		Close:   models.Ptr(10.6),
		BBUpper: models.Ptr(10.5),
		EMA:     map[int]float64{50: 10.0},
	}
	got := p.Score(row, models.DirectionBuy)
	assert.Equal(t, 15, got.Total)
	assert.Equal(t, map[string]int{
		"rsi_extreme":             8,
		"price_distance_from_ema": 4,
		"bollinger_extreme":       4,
	}, got.Breakdown)
}

func TestPenaltySellSide(t *testing.T) {
	p := NewExhaustionPenalizer(penaltyConfig())

	row := &models.IndicatorRow{
		RSI:     models.Ptr(20.0),
		Close:   models.Ptr(9.4),
		BBLower: models.Ptr(9.5),
		EMA:     map[int]float64{50: 10.0},
	}
	got := p.Score(row, models.DirectionSell)
	// 10 + 5 + 5 capped at 15
	assert.Equal(t, 15, got.Total)
}
