package strategies

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// MeanReversion fires against price extremes: buy when the price
// percentile over the lookback window is below the buy threshold, sell
// when above the sell threshold. No previous row is required.
type MeanReversion struct {
	cfg *config.MeanReversion
}

func NewMeanReversion(cfg *config.MeanReversion) *MeanReversion {
	return &MeanReversion{cfg: cfg}
}

func (m *MeanReversion) Name() string { return NameMeanReversion }

func (m *MeanReversion) Config() *config.StrategyConfig { return &m.cfg.StrategyConfig }

func (m *MeanReversion) Detect(cur, _ *models.IndicatorRow) (Detection, bool) {
	pct, ok := models.Float(cur.PricePercentile)
	if !ok {
		return Detection{}, false
	}
	switch {
	case pct < m.cfg.Entry.BuyPercentile:
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerPricePercentile}, true
	case pct > m.cfg.Entry.SellPercentile:
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerPricePercentile}, true
	}
	return Detection{}, false
}
