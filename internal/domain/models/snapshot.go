package models

import (
	"math"
	"time"
)

// Direction of a trade signal.
type Direction string

const (
	DirectionBuy  Direction = "buy"
	DirectionSell Direction = "sell"
)

// Trigger kinds produced by entry detectors. Base points are configured
// per trigger in the strategy config blocks.
const (
	TriggerMACDCross       = "macd_cross"
	TriggerEMACrossover    = "ema_crossover"
	TriggerSupertrend      = "supertrend"
	TriggerAroonStrong     = "aroon_strong"
	TriggerPricePercentile = "price_percentile_extreme"
	TriggerExhaustion      = "exhaustion_signal"
	TriggerPriceEMACross   = "price_ema_cross"
)

// ContractMeta describes how a symbol maps onto the futures curve.
// For quarterlies ComponentMonths holds the three averaged delivery months,
// the first one being the quarter start used for tenor checks.
type ContractMeta struct {
	Quarterly       bool         `json:"quarterly"`
	ComponentMonths []time.Month `json:"component_months,omitempty"`
}

// IndicatorRow is one weekly indicator snapshot for a symbol. Optional
// indicator fields are pointers: nil means the upstream pipeline did not
// produce the value, which every downstream check treats as "no match"
// rather than an error.
type IndicatorRow struct {
	Symbol string    `json:"symbol"`
	Date   time.Time `json:"date"`
	Close  *float64  `json:"close"`

	MACDLine           *float64 `json:"macd_line"`
	MACDSignal         *float64 `json:"macd_signal"`
	MACDHistogram      *float64 `json:"macd_histogram"`
	MACDLinePercentile *float64 `json:"macd_line_percentile"`

	RSI           *float64 `json:"rsi"`
	RSIPercentile *float64 `json:"rsi_percentile"`

	StochK *float64 `json:"stoch_k"`
	StochD *float64 `json:"stoch_d"`
	CCI    *float64 `json:"cci"`

	ADX     *float64 `json:"adx"`
	DIPlus  *float64 `json:"di_plus"`
	DIMinus *float64 `json:"di_minus"`

	AroonUp              *float64 `json:"aroon_up"`
	AroonDown            *float64 `json:"aroon_down"`
	AroonOscillator      *float64 `json:"aroon_oscillator"`
	AroonStrongUptrend   bool     `json:"aroon_strong_uptrend"`
	AroonStrongDowntrend bool     `json:"aroon_strong_downtrend"`

	BBUpper  *float64 `json:"bb_upper"`
	BBMiddle *float64 `json:"bb_middle"`
	BBLower  *float64 `json:"bb_lower"`

	ATR           *float64 `json:"atr"`
	ATRPctOfPrice *float64 `json:"atr_pct_of_price"`

	// EMA values keyed by period (20, 50, 100, 200, ...).
	EMA map[int]float64 `json:"ema,omitempty"`

	SupertrendValue *float64 `json:"supertrend_value"`
	// SupertrendDirection is "up", "down", or "" when unavailable.
	SupertrendDirection string `json:"supertrend_direction,omitempty"`

	PricePercentile *float64 `json:"price_percentile"`

	// Spread-only statistics between the two legs.
	Correlation         *float64 `json:"correlation,omitempty"`
	CointegrationPValue *float64 `json:"cointegration_pvalue,omitempty"`

	// IsOutright is false for synthetic spreads; spreads carry the leg
	// symbols and per-leg contract metadata.
	IsOutright bool          `json:"is_outright"`
	Symbol1    string        `json:"symbol_1,omitempty"`
	Symbol2    string        `json:"symbol_2,omitempty"`
	Meta       *ContractMeta `json:"meta,omitempty"`
	Leg1Meta   *ContractMeta `json:"leg1_meta,omitempty"`
	Leg2Meta   *ContractMeta `json:"leg2_meta,omitempty"`
}

// EMAValue returns the EMA for a period, ok reports presence.
func (r *IndicatorRow) EMAValue(period int) (float64, bool) {
	if r.EMA == nil {
		return 0, false
	}
	v, ok := r.EMA[period]
	return v, ok
}

// Float dereferences an optional field; ok is false for nil or NaN,
// so missing upstream values never leak into comparisons.
func Float(p *float64) (float64, bool) {
	if p == nil || math.IsNaN(*p) {
		return 0, false
	}
	return *p, true
}

// Ptr is a convenience for building rows and test fixtures.
func Ptr(v float64) *float64 { return &v }
