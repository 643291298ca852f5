package scoring

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// CheckContext carries everything a confluence predicate can look at:
// the indicator row, the trade direction, and detection flags that are
// not part of the row itself.
type CheckContext struct {
	Row       *models.IndicatorRow
	Direction models.Direction

	// BothExhausted is set when both the MACD and RSI legs of the
	// exhaustion strategy fired on the same row.
	BothExhausted bool
}

func (c CheckContext) buy() bool { return c.Direction == models.DirectionBuy }

type confluenceCheck struct {
	name       string
	group      string
	spreadOnly bool
	pred       func(s *ConfluenceScorer, ctx CheckContext) bool
}

// The check table. Each predicate returns false when the inputs it
// needs are missing, so sparse rows degrade to zero bonus rather than
// an error.
var confluenceChecks = []confluenceCheck{
	{name: "rsi_aligned", group: "rsi", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		rsi, ok := models.Float(ctx.Row.RSI)
		if !ok {
			return false
		}
		if ctx.buy() {
			return rsi < 30
		}
		return rsi > 70
	}},
	{name: "rsi_percentile_aligned", group: "rsi", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		p, ok := models.Float(ctx.Row.RSIPercentile)
		if !ok {
			return false
		}
		if ctx.buy() {
			return p < 25
		}
		return p > 75
	}},
	{name: "stochastic_aligned", group: "stochastic", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		k, ok := models.Float(ctx.Row.StochK)
		if !ok {
			return false
		}
		if ctx.buy() {
			return k < 20
		}
		return k > 80
	}},
	{name: "cci_aligned", group: "cci", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		cci, ok := models.Float(ctx.Row.CCI)
		if !ok {
			return false
		}
		if ctx.buy() {
			return cci < -100
		}
		return cci > 100
	}},
	{name: "adx_strong", group: "adx", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		adx, ok := models.Float(ctx.Row.ADX)
		return ok && adx > 25
	}},
	{name: "adx_very_strong", group: "adx", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		adx, ok := models.Float(ctx.Row.ADX)
		return ok && adx >= 30
	}},
	{name: "di_alignment", group: "adx", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		plus, ok1 := models.Float(ctx.Row.DIPlus)
		minus, ok2 := models.Float(ctx.Row.DIMinus)
		if !ok1 || !ok2 {
			return false
		}
		if ctx.buy() {
			return plus > minus
		}
		return minus > plus
	}},
	{name: "bollinger_aligned", group: "bollinger", pred: bollingerTouch},
	{name: "bollinger_extreme", group: "bollinger", pred: bollingerTouch},
	{name: "correlation_high", group: "correlation", spreadOnly: true, pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		corr, ok := models.Float(ctx.Row.Correlation)
		return ok && corr > 0.7
	}},
	{name: "cointegration", group: "cointegration", spreadOnly: true, pred: func(s *ConfluenceScorer, ctx CheckContext) bool {
		p, ok := models.Float(ctx.Row.CointegrationPValue)
		return ok && p < s.significance
	}},
	{name: "macd_reversal", group: "macd", pred: macdHistAligned},
	{name: "macd_histogram_aligned", group: "macd", pred: macdHistAligned},
	{name: "ema_50_aligned", group: "bollinger", pred: emaAligned(50)},
	{name: "ema_100_aligned", group: "bollinger", pred: emaAligned(100)},
	{name: "ema_200_aligned", group: "bollinger", pred: emaAligned(200)},
	{name: "both_indicators_exhausted", group: "", pred: func(_ *ConfluenceScorer, ctx CheckContext) bool {
		return ctx.BothExhausted
	}},
}

func bollingerTouch(_ *ConfluenceScorer, ctx CheckContext) bool {
	close, ok := models.Float(ctx.Row.Close)
	if !ok {
		return false
	}
	if ctx.buy() {
		lower, ok := models.Float(ctx.Row.BBLower)
		return ok && close <= lower*1.02
	}
	upper, ok := models.Float(ctx.Row.BBUpper)
	return ok && close >= upper*0.98
}

func macdHistAligned(_ *ConfluenceScorer, ctx CheckContext) bool {
	hist, ok := models.Float(ctx.Row.MACDHistogram)
	if !ok {
		return false
	}
	if ctx.buy() {
		return hist > 0
	}
	return hist < 0
}

func emaAligned(period int) func(*ConfluenceScorer, CheckContext) bool {
	return func(_ *ConfluenceScorer, ctx CheckContext) bool {
		close, ok := models.Float(ctx.Row.Close)
		if !ok {
			return false
		}
		ema, ok := ctx.Row.EMAValue(period)
		if !ok {
			return false
		}
		if ctx.buy() {
			return close > ema
		}
		return close < ema
	}
}

// ConfluenceResult is the scored bonus table for one signal. Breakdown
// lists every configured check, including the ones that scored zero.
type ConfluenceResult struct {
	Breakdown      map[string]int
	Total          int
	AlignmentScore float64
}

// ConfluenceScorer awards bonus points for independent indicators that
// agree with the entry direction, and summarizes that agreement as a
// weighted alignment percentage.
type ConfluenceScorer struct {
	weights      map[string]float64
	significance float64
}

func NewConfluenceScorer(cfg *config.Engine) *ConfluenceScorer {
	return &ConfluenceScorer{
		weights:      cfg.AlignmentWeights,
		significance: cfg.SpreadAnalysis.Cointegration.SignificanceLevel,
	}
}

func (s *ConfluenceScorer) weight(group string) float64 {
	if group == "" {
		return 1.0
	}
	if w, ok := s.weights[group]; ok {
		return w
	}
	return 1.0
}

// Score evaluates every check named in the strategy's bonus table
// against the row. Spread-only checks are skipped for outrights.
func (s *ConfluenceScorer) Score(ctx CheckContext, bonuses map[string]config.BonusRule) ConfluenceResult {
	res := ConfluenceResult{Breakdown: make(map[string]int, len(bonuses))}

	var passedWeight float64
	for _, chk := range confluenceChecks {
		rule, configured := bonuses[chk.name]
		if !configured {
			continue
		}
		res.Breakdown[chk.name] = 0
		if chk.spreadOnly && ctx.Row.IsOutright {
			continue
		}
		if !chk.pred(s, ctx) {
			continue
		}
		res.Breakdown[chk.name] = rule.Points
		res.Total += rule.Points
		if rule.Points > 0 {
			passedWeight += s.weight(chk.group)
		}
	}

	var totalWeight float64
	for _, w := range s.weights {
		totalWeight += w
	}
	if totalWeight > 0 {
		res.AlignmentScore = round1(passedWeight / totalWeight * 100)
	}

	return res
}
