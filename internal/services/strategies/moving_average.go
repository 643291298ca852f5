package strategies

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// MovingAverage is a deliberately simple close-versus-EMA strategy kept
// for pipeline diagnostics: it fires on every row that has both values,
// which makes it useful for exercising the scoring path end to end. It
// is disabled unless explicitly enabled in config.
type MovingAverage struct {
	cfg *config.MovingAverage
}

func NewMovingAverage(cfg *config.MovingAverage) *MovingAverage {
	return &MovingAverage{cfg: cfg}
}

func (m *MovingAverage) Name() string { return NameMovingAverage }

func (m *MovingAverage) Config() *config.StrategyConfig { return &m.cfg.StrategyConfig }

func (m *MovingAverage) Detect(cur, _ *models.IndicatorRow) (Detection, bool) {
	close, ok1 := models.Float(cur.Close)
	ema, ok2 := cur.EMAValue(m.cfg.EMAPeriod)
	if !ok1 || !ok2 {
		return Detection{}, false
	}
	switch {
	case close > ema:
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerPriceEMACross}, true
	case close < ema:
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerPriceEMACross}, true
	}
	return Detection{}, false
}
