package models

import "time"

// Signal is one scored trade candidate. It is assembled by the generator and
// immutable once ranked, with a single exception: the prior-week checker may
// revise TenorLiquidityBonus (adding the PRWK component) and TotalPoints,
// exactly once, through ReapplyPriorWeekBonus.
type Signal struct {
	Symbol    string    `json:"symbol"`
	Strategy  string    `json:"strategy"`
	Direction Direction `json:"direction"`
	Trigger   string    `json:"trigger"`

	EntryDate  time.Time `json:"entry_date"`
	EntryPrice float64   `json:"entry_price"`

	// Risk fields are nil when ATR is missing or non-positive.
	ATR         *float64 `json:"atr"`
	StopPrice   *float64 `json:"stop_price"`
	TargetPrice *float64 `json:"target_price"`
	StopPct     *float64 `json:"stop_pct"`
	TargetPct   *float64 `json:"target_pct"`

	PositionSizePct float64 `json:"position_size_pct"`

	BasePoints                 int            `json:"base_points"`
	ConfluenceBonus            int            `json:"confluence_bonus"`
	ConfluenceBreakdown        map[string]int `json:"confluence_breakdown"`
	TenorLiquidityBonus        int            `json:"tenor_liquidity_bonus"`
	TenorLiquidityBreakdown    map[string]int `json:"tenor_liquidity_breakdown"`
	ExhaustionPenalty          int            `json:"exhaustion_penalty"`
	ExhaustionPenaltyBreakdown map[string]int `json:"exhaustion_penalty_breakdown"`
	TotalPoints                int            `json:"total_points"`

	AlignmentScore float64 `json:"alignment_score"`

	IsFallback         bool `json:"is_fallback"`
	WasActivePriorWeek bool `json:"was_active_prior_week"`

	// Exhaustion strategy only: which sub-checks fired ("MACD", "RSI").
	ExhaustionIndicators []string `json:"exhaustion_indicators,omitempty"`

	// Commentary is filled by the optional alignment commentary client.
	Commentary string `json:"commentary,omitempty"`

	// Row references the originating snapshot for downstream formatting.
	Row *IndicatorRow `json:"-"`
}

// RecomputeTotal re-derives TotalPoints from the component fields. It is
// idempotent and touches no component.
func (s *Signal) RecomputeTotal() {
	s.TotalPoints = s.BasePoints + s.ConfluenceBonus + s.TenorLiquidityBonus - s.ExhaustionPenalty
}

// Clone returns a shallow copy with its own breakdown maps, used when the
// ranker flags a fallback candidate without touching the unfiltered lists.
func (s *Signal) Clone() *Signal {
	c := *s
	c.ConfluenceBreakdown = copyBreakdown(s.ConfluenceBreakdown)
	c.TenorLiquidityBreakdown = copyBreakdown(s.TenorLiquidityBreakdown)
	c.ExhaustionPenaltyBreakdown = copyBreakdown(s.ExhaustionPenaltyBreakdown)
	return &c
}

func copyBreakdown(m map[string]int) map[string]int {
	if m == nil {
		return nil
	}
	out := make(map[string]int, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// StrategyResult holds the ranked shortlists plus the unfiltered candidate
// lists kept for statistics.
type StrategyResult struct {
	Strategy       string    `json:"strategy"`
	BuySignals     []*Signal `json:"buy_signals"`
	SellSignals    []*Signal `json:"sell_signals"`
	AllBuySignals  []*Signal `json:"all_buy_signals"`
	AllSellSignals []*Signal `json:"all_sell_signals"`
}

// RunResult is the output of one full generation pass.
type RunResult struct {
	DataDate     time.Time                  `json:"data_date"`
	GeneratedAt  time.Time                  `json:"generated_at"`
	TotalSymbols int                        `json:"total_symbols"`
	Strategies   map[string]*StrategyResult `json:"strategies"`
}

// ActivityKey identifies a signal across weekly runs.
type ActivityKey struct {
	Symbol    string
	Strategy  string
	Direction Direction
}

// ActivitySet is the (symbol, strategy, direction) lookup built from a
// prior-week run; qualifying and fallback signals both count.
type ActivitySet map[ActivityKey]struct{}

// Collect adds every ranked signal of the result to the set.
func (a ActivitySet) Collect(res *RunResult) {
	if res == nil {
		return
	}
	for name, sr := range res.Strategies {
		for _, s := range sr.BuySignals {
			a[ActivityKey{Symbol: s.Symbol, Strategy: name, Direction: DirectionBuy}] = struct{}{}
		}
		for _, s := range sr.SellSignals {
			a[ActivityKey{Symbol: s.Symbol, Strategy: name, Direction: DirectionSell}] = struct{}{}
		}
	}
}

// Contains reports whether the signal was active in the set's week.
func (a ActivitySet) Contains(s *Signal) bool {
	_, ok := a[ActivityKey{Symbol: s.Symbol, Strategy: s.Strategy, Direction: s.Direction}]
	return ok
}
