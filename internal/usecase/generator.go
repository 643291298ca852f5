package usecase

import (
	"sort"
	"time"

	"CurveScout/internal/domain/models"
	"CurveScout/internal/services/scoring"
	"CurveScout/internal/services/strategies"
	"CurveScout/pkg/config"
	"CurveScout/pkg/logger"
)

// Generator runs every enabled strategy over a set of symbol histories
// and produces ranked, scored signals. It is pure in-memory computation:
// no I/O, no shared state across symbols, deterministic for a given
// input and config.
type Generator struct {
	strategies []strategies.Strategy
	confluence *scoring.ConfluenceScorer
	risk       *scoring.RiskCalculator
	tenor      *scoring.TenorScorer
	penalizers map[string]*scoring.ExhaustionPenalizer

	minPoints  int
	maxPerType int

	log *logger.Logger
}

func NewGenerator(cfg *config.Engine, log *logger.Logger) *Generator {
	g := &Generator{
		confluence: scoring.NewConfluenceScorer(cfg),
		risk:       scoring.NewRiskCalculator(cfg),
		tenor:      scoring.NewTenorScorer(&cfg.TenorLiquidityBonus),
		penalizers: make(map[string]*scoring.ExhaustionPenalizer),
		minPoints:  *cfg.MinPointsThreshold,
		maxPerType: *cfg.MaxSignalsPerType,
		log:        log,
	}

	sc := &cfg.Strategies
	if sc.TrendFollowing.IsEnabled() {
		g.strategies = append(g.strategies, strategies.NewTrendFollowing(&sc.TrendFollowing))
	}
	if sc.EnhancedTrendFollowing.IsEnabled() {
		g.strategies = append(g.strategies, strategies.NewEnhancedTrendFollowing(&sc.EnhancedTrendFollowing))
	}
	if sc.MeanReversion.IsEnabled() {
		g.strategies = append(g.strategies, strategies.NewMeanReversion(&sc.MeanReversion))
	}
	if sc.MACDRSIExhaustion.IsEnabled() {
		g.strategies = append(g.strategies, strategies.NewMACDRSIExhaustion(&sc.MACDRSIExhaustion))
	}
	if sc.MovingAverage.IsEnabled() {
		g.strategies = append(g.strategies, strategies.NewMovingAverage(&sc.MovingAverage))
	}

	// The exhaustion penalty only applies to the trend strategies.
	g.penalizers[strategies.NameTrendFollowing] = scoring.NewExhaustionPenalizer(sc.TrendFollowing.TrendExhaustionPenalty)
	g.penalizers[strategies.NameEnhancedTrendFollowing] = scoring.NewExhaustionPenalizer(sc.EnhancedTrendFollowing.TrendExhaustionPenalty)

	return g
}

// Strategies returns the enabled strategy names in evaluation order.
func (g *Generator) Strategies() []string {
	names := make([]string, 0, len(g.strategies))
	for _, st := range g.strategies {
		names = append(names, st.Name())
	}
	return names
}

// Generate evaluates all enabled strategies over the histories. Each
// history is sorted by date descending; its first row is the current
// observation and its second the previous one. When dataDate is
// non-zero, only symbols whose latest row matches it are evaluated.
func (g *Generator) Generate(histories map[string][]*models.IndicatorRow, dataDate time.Time) *models.RunResult {
	res := &models.RunResult{
		DataDate:    dataDate,
		GeneratedAt: time.Now().UTC(),
		Strategies:  make(map[string]*models.StrategyResult, len(g.strategies)),
	}

	// Symbol order fixes tie-breaking in the stable ranking sort.
	symbols := make([]string, 0, len(histories))
	for sym, rows := range histories {
		if len(rows) == 0 {
			continue
		}
		if !dataDate.IsZero() && !rows[0].Date.Equal(dataDate) {
			continue
		}
		symbols = append(symbols, sym)
	}
	sort.Strings(symbols)
	res.TotalSymbols = len(symbols)

	for _, st := range g.strategies {
		var buys, sells []*models.Signal
		for _, sym := range symbols {
			rows := histories[sym]
			cur := rows[0]
			var prev *models.IndicatorRow
			if len(rows) > 1 {
				prev = rows[1]
			}

			sig := g.evaluate(st, cur, prev, dataDate)
			if sig == nil {
				continue
			}
			if sig.Direction == models.DirectionBuy {
				buys = append(buys, sig)
			} else {
				sells = append(sells, sig)
			}
		}

		keptBuys, allBuys := g.rank(buys)
		keptSells, allSells := g.rank(sells)
		res.Strategies[st.Name()] = &models.StrategyResult{
			Strategy:       st.Name(),
			BuySignals:     keptBuys,
			SellSignals:    keptSells,
			AllBuySignals:  allBuys,
			AllSellSignals: allSells,
		}
	}

	return res
}

// evaluate runs detection and the full scoring stack for one symbol and
// strategy. Returns nil when no entry fires or the row has no close.
func (g *Generator) evaluate(st strategies.Strategy, cur, prev *models.IndicatorRow, dataDate time.Time) *models.Signal {
	det, ok := st.Detect(cur, prev)
	if !ok {
		return nil
	}
	close, ok := models.Float(cur.Close)
	if !ok {
		g.log.Warn("signal dropped, row has no close",
			logger.String("symbol", cur.Symbol),
			logger.String("strategy", st.Name()))
		return nil
	}

	sig := &models.Signal{
		Symbol:     cur.Symbol,
		Strategy:   st.Name(),
		Direction:  det.Direction,
		Trigger:    det.Trigger,
		EntryDate:  cur.Date,
		EntryPrice: close,
		BasePoints: st.Config().BasePointsFor(det.Trigger, 50),
		Row:        cur,
	}
	if det.MACDExhausted {
		sig.ExhaustionIndicators = append(sig.ExhaustionIndicators, "MACD")
	}
	if det.RSIExhausted {
		sig.ExhaustionIndicators = append(sig.ExhaustionIndicators, "RSI")
	}

	conf := g.confluence.Score(scoring.CheckContext{
		Row:           cur,
		Direction:     det.Direction,
		BothExhausted: det.MACDExhausted && det.RSIExhausted,
	}, st.Config().ConfluenceBonuses)
	sig.ConfluenceBonus = conf.Total
	sig.ConfluenceBreakdown = conf.Breakdown
	sig.AlignmentScore = conf.AlignmentScore

	g.risk.Apply(sig, cur)

	tb := g.tenor.Score(cur, dataDate, false)
	sig.TenorLiquidityBonus = tb.Total
	sig.TenorLiquidityBreakdown = tb.Breakdown

	if pen := g.penalizers[st.Name()]; pen.Enabled() {
		pr := pen.Score(cur, det.Direction)
		sig.ExhaustionPenalty = pr.Total
		sig.ExhaustionPenaltyBreakdown = pr.Breakdown
	}

	sig.RecomputeTotal()
	return sig
}

// rank sorts candidates by total points descending (stable, so ties keep
// symbol-iteration order), keeps the qualifying top slice, and falls
// back to the single best candidate when nothing qualifies. The second
// return value is the full sorted list, kept for statistics.
func (g *Generator) rank(candidates []*models.Signal) (kept, all []*models.Signal) {
	if len(candidates) == 0 {
		return nil, nil
	}

	all = make([]*models.Signal, len(candidates))
	copy(all, candidates)
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].TotalPoints > all[j].TotalPoints
	})

	for _, s := range all {
		if s.TotalPoints >= g.minPoints {
			kept = append(kept, s)
		}
		if len(kept) == g.maxPerType {
			break
		}
	}
	if len(kept) > 0 {
		return kept, all
	}

	// Nothing qualified: surface the best candidate, flagged. The clone
	// keeps the unfiltered list untouched.
	fb := all[0].Clone()
	fb.IsFallback = true
	return []*models.Signal{fb}, all
}
