package scoring

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

const (
	methodInverseATRPct = "inverse_atr_pct"

	minPositionPct = 10
	maxPositionPct = 200
)

// RiskCalculator derives stop/target levels from ATR and sizes the
// position inversely to ATR as a percentage of price, so every entry
// carries roughly the same dollar volatility.
type RiskCalculator struct {
	stopMult     float64
	targetMult   float64
	method       string
	baseSize     float64
	targetATRPct float64
}

func NewRiskCalculator(cfg *config.Engine) *RiskCalculator {
	return &RiskCalculator{
		stopMult:     *cfg.ATRMultipliers.Stop,
		targetMult:   *cfg.ATRMultipliers.Target,
		method:       cfg.PositionSizing.Method,
		baseSize:     *cfg.PositionSizing.BaseSize,
		targetATRPct: cfg.PositionSizing.TargetATRPct,
	}
}

// Apply fills the risk fields of a signal in place. When ATR is missing
// or non-positive all level fields stay nil; sizing then falls back to
// the base size.
func (r *RiskCalculator) Apply(sig *models.Signal, row *models.IndicatorRow) {
	sig.PositionSizePct = r.positionSize(row)

	atr, ok := models.Float(row.ATR)
	if !ok || atr <= 0 {
		return
	}
	entry := sig.EntryPrice

	var stop, target float64
	if sig.Direction == models.DirectionBuy {
		stop = entry - atr*r.stopMult
		target = entry + atr*r.targetMult
	} else {
		stop = entry + atr*r.stopMult
		target = entry - atr*r.targetMult
	}

	sig.ATR = models.Ptr(round4(atr))
	sig.StopPrice = models.Ptr(round4(stop))
	sig.TargetPrice = models.Ptr(round4(target))
	if entry != 0 {
		sig.StopPct = models.Ptr(round2((stop - entry) / entry * 100))
		sig.TargetPct = models.Ptr(round2((target - entry) / entry * 100))
	}
}

func (r *RiskCalculator) positionSize(row *models.IndicatorRow) float64 {
	if r.method != methodInverseATRPct {
		return r.baseSize
	}
	atrPct, ok := models.Float(row.ATRPctOfPrice)
	if !ok || atrPct <= 0 {
		return r.baseSize
	}
	size := r.baseSize * (r.targetATRPct / atrPct)
	if size < minPositionPct {
		size = minPositionPct
	}
	if size > maxPositionPct {
		size = maxPositionPct
	}
	return round2(size)
}
