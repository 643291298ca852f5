package strategies

import (
	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// Strategy names, used as config keys, result keys, and API filters.
const (
	NameTrendFollowing         = "trend_following"
	NameEnhancedTrendFollowing = "enhanced_trend_following"
	NameMeanReversion          = "mean_reversion"
	NameMACDRSIExhaustion      = "macd_rsi_exhaustion"
	NameMovingAverage          = "moving_average"
)

// Detection is the outcome of an entry check on a single row.
type Detection struct {
	Direction models.Direction
	Trigger   string

	// Exhaustion strategy only: which sub-checks fired.
	MACDExhausted bool
	RSIExhausted  bool
}

// Strategy detects entries on one symbol's current row. prev is the
// immediately preceding observation for the same symbol and may be nil
// for the first row of a history.
type Strategy interface {
	Name() string
	Config() *config.StrategyConfig
	Detect(cur, prev *models.IndicatorRow) (Detection, bool)
}

// crossedAbove reports a strict upward cross of a over b between rows.
func crossedAbove(prevA, prevB, curA, curB float64) bool {
	return prevA < prevB && curA > curB
}

func crossedBelow(prevA, prevB, curA, curB float64) bool {
	return prevA > prevB && curA < curB
}
