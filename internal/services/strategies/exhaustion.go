package strategies

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// MACDRSIExhaustion looks for stretched momentum that has started to
// turn. Two independent sub-checks, either one sufficient: a MACD line
// at a percentile extreme beginning to reverse, or an RSI extreme that
// has ticked back toward the mean. Both firing together is recorded and
// feeds the both_indicators_exhausted confluence check.
type MACDRSIExhaustion struct {
	cfg *config.MACDRSIExhaustion
}

func NewMACDRSIExhaustion(cfg *config.MACDRSIExhaustion) *MACDRSIExhaustion {
	return &MACDRSIExhaustion{cfg: cfg}
}

func (x *MACDRSIExhaustion) Name() string { return NameMACDRSIExhaustion }

func (x *MACDRSIExhaustion) Config() *config.StrategyConfig { return &x.cfg.StrategyConfig }

func (x *MACDRSIExhaustion) Detect(cur, prev *models.IndicatorRow) (Detection, bool) {
	macdBuy, macdSell := x.macdExhausted(cur, prev)
	rsiBuy, rsiSell := x.rsiExhausted(cur, prev)

	switch {
	case macdBuy || rsiBuy:
		return Detection{
			Direction:     models.DirectionBuy,
			Trigger:       models.TriggerExhaustion,
			MACDExhausted: macdBuy,
			RSIExhausted:  rsiBuy,
		}, true
	case macdSell || rsiSell:
		return Detection{
			Direction:     models.DirectionSell,
			Trigger:       models.TriggerExhaustion,
			MACDExhausted: macdSell,
			RSIExhausted:  rsiSell,
		}, true
	}
	return Detection{}, false
}

// macdExhausted checks for a MACD line at a percentile extreme that is
// confirmed by either the zero-line side or a crossover back through
// the signal line.
func (x *MACDRSIExhaustion) macdExhausted(cur, prev *models.IndicatorRow) (buy, sell bool) {
	pct, ok1 := models.Float(cur.MACDLinePercentile)
	line, ok2 := models.Float(cur.MACDLine)
	if !ok1 || !ok2 {
		return false, false
	}

	var crossUp, crossDown bool
	if prev != nil {
		sig, ok3 := models.Float(cur.MACDSignal)
		prevLine, ok4 := models.Float(prev.MACDLine)
		prevSig, ok5 := models.Float(prev.MACDSignal)
		if ok3 && ok4 && ok5 {
			crossUp = crossedAbove(prevLine, prevSig, line, sig)
			crossDown = crossedBelow(prevLine, prevSig, line, sig)
		}
	}

	mc := x.cfg.EntryConditions.MACDExhaustion
	buy = pct < mc.Buy.PercentileThreshold && (line < 0 || crossUp)
	sell = pct > mc.Sell.PercentileThreshold && (line > 0 || crossDown)
	return buy, sell
}

// rsiExhausted checks for an RSI extreme (by percentile or absolute
// level) that has turned back toward the mean versus the previous row.
func (x *MACDRSIExhaustion) rsiExhausted(cur, prev *models.IndicatorRow) (buy, sell bool) {
	if prev == nil {
		return false, false
	}
	rsi, ok1 := models.Float(cur.RSI)
	prevRSI, ok2 := models.Float(prev.RSI)
	if !ok1 || !ok2 {
		return false, false
	}

	rc := x.cfg.EntryConditions.RSIExhaustion
	pct, hasPct := models.Float(cur.RSIPercentile)

	buyExtreme := (hasPct && pct < rc.Buy.PercentileThreshold) || rsi < rc.Buy.AbsoluteThreshold
	sellExtreme := (hasPct && pct > rc.Sell.PercentileThreshold) || rsi > rc.Sell.AbsoluteThreshold

	buy = buyExtreme && rsi > prevRSI
	sell = sellExtreme && rsi < prevRSI
	return buy, sell
}
