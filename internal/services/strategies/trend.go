package strategies

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// TrendFollowing fires on a MACD line/signal crossover between the
// previous and current row.
type TrendFollowing struct {
	cfg *config.TrendFollowing
}

func NewTrendFollowing(cfg *config.TrendFollowing) *TrendFollowing {
	return &TrendFollowing{cfg: cfg}
}

func (t *TrendFollowing) Name() string { return NameTrendFollowing }

func (t *TrendFollowing) Config() *config.StrategyConfig { return &t.cfg.StrategyConfig }

func (t *TrendFollowing) Detect(cur, prev *models.IndicatorRow) (Detection, bool) {
	if prev == nil {
		return Detection{}, false
	}
	line, ok1 := models.Float(cur.MACDLine)
	sig, ok2 := models.Float(cur.MACDSignal)
	prevLine, ok3 := models.Float(prev.MACDLine)
	prevSig, ok4 := models.Float(prev.MACDSignal)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Detection{}, false
	}

	switch {
	case crossedAbove(prevLine, prevSig, line, sig):
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerMACDCross}, true
	case crossedBelow(prevLine, prevSig, line, sig):
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerMACDCross}, true
	}
	return Detection{}, false
}
