package strategies

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// EnhancedTrendFollowing runs four independent entry triggers and keeps
// the one with the highest configured base points, then demands trend
// confirmation (ADX floor, DI alignment, momentum quorum) before
// emitting the signal.
type EnhancedTrendFollowing struct {
	cfg *config.EnhancedTrendFollowing
}

func NewEnhancedTrendFollowing(cfg *config.EnhancedTrendFollowing) *EnhancedTrendFollowing {
	return &EnhancedTrendFollowing{cfg: cfg}
}

func (e *EnhancedTrendFollowing) Name() string { return NameEnhancedTrendFollowing }

func (e *EnhancedTrendFollowing) Config() *config.StrategyConfig { return &e.cfg.StrategyConfig }

func (e *EnhancedTrendFollowing) Detect(cur, prev *models.IndicatorRow) (Detection, bool) {
	best, ok := e.bestTrigger(cur, prev)
	if !ok {
		return Detection{}, false
	}
	if !e.confirmed(cur, best.Direction) {
		return Detection{}, false
	}
	return best, true
}

// bestTrigger evaluates every enabled trigger and keeps the candidate
// with the highest configured base points. Evaluation order breaks ties.
func (e *EnhancedTrendFollowing) bestTrigger(cur, prev *models.IndicatorRow) (Detection, bool) {
	var (
		best       Detection
		bestPoints = -1
	)
	consider := func(d Detection, ok bool) {
		if !ok {
			return
		}
		if pts := e.cfg.BasePointsFor(d.Trigger, 50); pts > bestPoints {
			best, bestPoints = d, pts
		}
	}

	consider(e.emaCrossover(cur, prev))
	consider(e.supertrendFlip(cur, prev))
	consider(e.macdCross(cur, prev))
	consider(e.aroonStrong(cur))

	return best, bestPoints >= 0
}

func enabled(flag *bool) bool { return flag == nil || *flag }

func (e *EnhancedTrendFollowing) emaCrossover(cur, prev *models.IndicatorRow) (Detection, bool) {
	tc := e.cfg.EntryTriggers.EMACrossover
	if !enabled(tc.Enabled) || prev == nil {
		return Detection{}, false
	}
	price, ok1 := models.Float(cur.Close)
	prevPrice, ok2 := models.Float(prev.Close)
	fast, ok3 := cur.EMAValue(tc.FastEMA)
	prevFast, ok4 := prev.EMAValue(tc.FastEMA)
	slow, ok5 := cur.EMAValue(tc.SlowEMA)
	if !ok1 || !ok2 || !ok3 || !ok4 || !ok5 {
		return Detection{}, false
	}
	if prevPrice <= prevFast && price > fast && fast > slow {
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerEMACrossover}, true
	}
	if prevPrice >= prevFast && price < fast && fast < slow {
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerEMACrossover}, true
	}
	return Detection{}, false
}

func (e *EnhancedTrendFollowing) supertrendFlip(cur, prev *models.IndicatorRow) (Detection, bool) {
	if !enabled(e.cfg.EntryTriggers.Supertrend.Enabled) || prev == nil {
		return Detection{}, false
	}
	switch {
	case prev.SupertrendDirection == "down" && cur.SupertrendDirection == "up":
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerSupertrend}, true
	case prev.SupertrendDirection == "up" && cur.SupertrendDirection == "down":
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerSupertrend}, true
	}
	return Detection{}, false
}

func (e *EnhancedTrendFollowing) macdCross(cur, prev *models.IndicatorRow) (Detection, bool) {
	if !enabled(e.cfg.EntryTriggers.MACDCross.Enabled) || prev == nil {
		return Detection{}, false
	}
	line, ok1 := models.Float(cur.MACDLine)
	sig, ok2 := models.Float(cur.MACDSignal)
	prevLine, ok3 := models.Float(prev.MACDLine)
	prevSig, ok4 := models.Float(prev.MACDSignal)
	if !ok1 || !ok2 || !ok3 || !ok4 {
		return Detection{}, false
	}
	if crossedAbove(prevLine, prevSig, line, sig) {
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerMACDCross}, true
	}
	if crossedBelow(prevLine, prevSig, line, sig) {
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerMACDCross}, true
	}
	return Detection{}, false
}

func (e *EnhancedTrendFollowing) aroonStrong(cur *models.IndicatorRow) (Detection, bool) {
	tc := e.cfg.EntryTriggers.AroonStrong
	if !enabled(tc.Enabled) {
		return Detection{}, false
	}
	osc, ok := models.Float(cur.AroonOscillator)
	if !ok {
		return Detection{}, false
	}
	if osc > tc.OscillatorThreshold && cur.AroonStrongUptrend {
		return Detection{Direction: models.DirectionBuy, Trigger: models.TriggerAroonStrong}, true
	}
	if osc < -tc.OscillatorThreshold && cur.AroonStrongDowntrend {
		return Detection{Direction: models.DirectionSell, Trigger: models.TriggerAroonStrong}, true
	}
	return Detection{}, false
}

func (e *EnhancedTrendFollowing) confirmed(cur *models.IndicatorRow, dir models.Direction) bool {
	cc := e.cfg.Confirmations
	buy := dir == models.DirectionBuy

	if enabled(cc.Required.ADXStrong) {
		adx, ok := models.Float(cur.ADX)
		if !ok || adx < cc.ADXStrong.MinADX {
			return false
		}
	}

	if enabled(cc.Required.DIAlignment) {
		plus, ok1 := models.Float(cur.DIPlus)
		minus, ok2 := models.Float(cur.DIMinus)
		if !ok1 || !ok2 {
			return false
		}
		if buy && plus <= minus {
			return false
		}
		if !buy && minus <= plus {
			return false
		}
	}

	return e.momentumQuorum(cur, buy) >= cc.MomentumRequired
}

// momentumQuorum counts short-term momentum indicators agreeing with the
// entry direction. Missing values simply do not count.
func (e *EnhancedTrendFollowing) momentumQuorum(cur *models.IndicatorRow, buy bool) int {
	mi := e.cfg.Confirmations.MomentumIndicators
	var n int

	if enabled(mi.RSIAligned) {
		if rsi, ok := models.Float(cur.RSI); ok {
			if (buy && rsi > 50) || (!buy && rsi < 50) {
				n++
			}
		}
	}
	if enabled(mi.MACDHistogramAligned) {
		if hist, ok := models.Float(cur.MACDHistogram); ok {
			if (buy && hist > 0) || (!buy && hist < 0) {
				n++
			}
		}
	}
	if enabled(mi.StochasticAligned) {
		k, ok1 := models.Float(cur.StochK)
		d, ok2 := models.Float(cur.StochD)
		if ok1 && ok2 {
			if (buy && k > d) || (!buy && k < d) {
				n++
			}
		}
	}
	return n
}
