package scoring

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// PenaltyResult is the capped trend-exhaustion deduction.
type PenaltyResult struct {
	Breakdown map[string]int
	Total     int
}

// ExhaustionPenalizer deducts points from trend entries that print into
// an already stretched move. Only penalties present in the config block
// are evaluated; the total is capped with proportional scale-down.
type ExhaustionPenalizer struct {
	cfg *config.ExhaustionPenalty
}

func NewExhaustionPenalizer(cfg *config.ExhaustionPenalty) *ExhaustionPenalizer {
	return &ExhaustionPenalizer{cfg: cfg}
}

// Enabled reports whether the penalty block exists and is switched on.
func (p *ExhaustionPenalizer) Enabled() bool {
	return p != nil && p.cfg != nil && p.cfg.Enabled
}

// Score evaluates the configured penalties for a row and direction.
func (p *ExhaustionPenalizer) Score(row *models.IndicatorRow, dir models.Direction) PenaltyResult {
	res := PenaltyResult{Breakdown: make(map[string]int, 3)}
	if !p.Enabled() {
		return res
	}
	buy := dir == models.DirectionBuy

	if rp := p.cfg.Penalties.RSIExtreme; rp != nil {
		if rsi, ok := models.Float(row.RSI); ok {
			if (buy && rsi > rp.BuyThreshold) || (!buy && rsi < rp.SellThreshold) {
				res.Breakdown["rsi_extreme"] = rp.Points
			}
		}
	}

	if ep := p.cfg.Penalties.PriceDistanceFromEMA; ep != nil {
		close, ok1 := models.Float(row.Close)
		ema, ok2 := row.EMAValue(ep.EMAPeriod)
		if ok1 && ok2 && ema != 0 {
			dist := (close - ema) / ema * 100
			if (buy && dist > ep.DistancePercent) || (!buy && dist < -ep.DistancePercent) {
				res.Breakdown["price_distance_from_ema"] = ep.Points
			}
		}
	}

	if bp := p.cfg.Penalties.BollingerExtreme; bp != nil {
		if close, ok := models.Float(row.Close); ok {
			if buy {
				if upper, ok := models.Float(row.BBUpper); ok && close >= upper*0.99 {
					res.Breakdown["bollinger_extreme"] = bp.Points
				}
			} else {
				if lower, ok := models.Float(row.BBLower); ok && close <= lower*1.01 {
					res.Breakdown["bollinger_extreme"] = bp.Points
				}
			}
		}
	}

	var sum int
	for _, v := range res.Breakdown {
		sum += v
	}
	if max := p.cfg.MaxPenalty; sum > max {
		for k, v := range res.Breakdown {
			res.Breakdown[k] = scaleToCap(v, sum, max)
		}
		res.Total = max
	} else {
		res.Total = sum
	}

	return res
}
