package config

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// Engine holds everything the scoring pipeline needs: strategy blocks,
// the confluence alignment weights, tenor/liquidity bonus policy, risk
// multipliers, and ranking thresholds. Required scalars are pointers so
// a missing key is distinguishable from an explicit zero.
type Engine struct {
	MinPointsThreshold *int     `yaml:"min_points_threshold" validate:"required,gte=0"`
	MaxSignalsPerType  *int     `yaml:"max_signals_per_type" validate:"required,gte=1"`

	ATRMultipliers struct {
		Stop   *float64 `yaml:"stop" validate:"required,gt=0"`
		Target *float64 `yaml:"target" validate:"required,gt=0"`
	} `yaml:"atr_multipliers"`

	PositionSizing struct {
		Method       string   `yaml:"method" validate:"required,oneof=inverse_atr_pct fixed"`
		BaseSize     *float64 `yaml:"base_size" validate:"required,gt=0"`
		TargetATRPct float64  `yaml:"target_atr_pct" default:"5"`
	} `yaml:"position_sizing"`

	AlignmentWeights map[string]float64 `yaml:"alignment_weights"`

	TenorLiquidityBonus TenorLiquidity `yaml:"tenor_liquidity_bonus"`

	Strategies struct {
		TrendFollowing         TrendFollowing         `yaml:"trend_following"`
		EnhancedTrendFollowing EnhancedTrendFollowing `yaml:"enhanced_trend_following"`
		MeanReversion          MeanReversion          `yaml:"mean_reversion"`
		MACDRSIExhaustion      MACDRSIExhaustion      `yaml:"macd_rsi_exhaustion"`
		MovingAverage          MovingAverage          `yaml:"moving_average"`
	} `yaml:"strategies"`

	SpreadAnalysis struct {
		Cointegration struct {
			SignificanceLevel float64 `yaml:"significance_level" default:"0.05"`
		} `yaml:"cointegration"`
	} `yaml:"spread_analysis"`
}

// StrategyConfig is the block shared by every strategy: base points per
// trigger, the confluence bonus table, and the optional exhaustion penalty.
type StrategyConfig struct {
	Enabled           *bool                `yaml:"enabled"`
	BasePoints        map[string]int       `yaml:"base_points"`
	ConfluenceBonuses map[string]BonusRule `yaml:"confluence_bonuses"`

	TrendExhaustionPenalty *ExhaustionPenalty `yaml:"trend_exhaustion_penalty"`
}

// IsEnabled treats an absent flag as on.
func (s *StrategyConfig) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// BasePointsFor returns the configured base points for a trigger key,
// falling back to def when the key is not configured.
func (s *StrategyConfig) BasePointsFor(key string, def int) int {
	if v, ok := s.BasePoints[key]; ok {
		return v
	}
	return def
}

type BonusRule struct {
	Points int `yaml:"points"`
}

type TrendFollowing struct {
	StrategyConfig `yaml:",inline"`
}

type EnhancedTrendFollowing struct {
	StrategyConfig `yaml:",inline"`

	EntryTriggers struct {
		EMACrossover struct {
			Enabled *bool `yaml:"enabled"`
			FastEMA int   `yaml:"fast_ema" default:"20"`
			SlowEMA int   `yaml:"slow_ema" default:"50"`
		} `yaml:"ema_crossover"`
		Supertrend struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"supertrend"`
		MACDCross struct {
			Enabled *bool `yaml:"enabled"`
		} `yaml:"macd_cross"`
		AroonStrong struct {
			Enabled             *bool   `yaml:"enabled"`
			OscillatorThreshold float64 `yaml:"oscillator_threshold" default:"50"`
		} `yaml:"aroon_strong"`
	} `yaml:"entry_triggers"`

	Confirmations struct {
		Required struct {
			ADXStrong   *bool `yaml:"adx_strong"`
			DIAlignment *bool `yaml:"di_alignment"`
		} `yaml:"required"`
		ADXStrong struct {
			MinADX float64 `yaml:"min_adx" default:"25"`
		} `yaml:"adx_strong"`
		MomentumRequired   int `yaml:"momentum_required" default:"2"`
		MomentumIndicators struct {
			RSIAligned           *bool `yaml:"rsi_aligned"`
			MACDHistogramAligned *bool `yaml:"macd_histogram_aligned"`
			StochasticAligned    *bool `yaml:"stochastic_aligned"`
		} `yaml:"momentum_indicators"`
	} `yaml:"confirmations"`
}

type MeanReversion struct {
	StrategyConfig `yaml:",inline"`

	Entry struct {
		BuyPercentile  float64 `yaml:"buy_percentile" default:"25"`
		SellPercentile float64 `yaml:"sell_percentile" default:"75"`
	} `yaml:"entry"`
}

type MACDRSIExhaustion struct {
	StrategyConfig `yaml:",inline"`

	EntryConditions struct {
		MACDExhaustion struct {
			Buy struct {
				PercentileThreshold float64 `yaml:"percentile_threshold" default:"20"`
			} `yaml:"buy"`
			Sell struct {
				PercentileThreshold float64 `yaml:"percentile_threshold" default:"80"`
			} `yaml:"sell"`
		} `yaml:"macd_exhaustion"`
		RSIExhaustion struct {
			Buy struct {
				PercentileThreshold float64 `yaml:"percentile_threshold" default:"20"`
				AbsoluteThreshold   float64 `yaml:"absolute_threshold" default:"30"`
			} `yaml:"buy"`
			Sell struct {
				PercentileThreshold float64 `yaml:"percentile_threshold" default:"80"`
				AbsoluteThreshold   float64 `yaml:"absolute_threshold" default:"70"`
			} `yaml:"sell"`
		} `yaml:"rsi_exhaustion"`
	} `yaml:"entry_conditions"`
}

// MovingAverage is the simple close-vs-EMA diagnostic strategy. It is
// off unless explicitly enabled.
type MovingAverage struct {
	StrategyConfig `yaml:",inline"`

	EMAPeriod int `yaml:"ema_period" default:"20"`
}

// IsEnabled treats an absent flag as off, unlike the main strategies.
func (m *MovingAverage) IsEnabled() bool {
	return m.Enabled != nil && *m.Enabled
}

// ExhaustionPenalty deducts points from trend-style signals whose entry
// prints into an already stretched move. Each sub-penalty is optional;
// the total deduction never exceeds MaxPenalty.
type ExhaustionPenalty struct {
	Enabled    bool    `yaml:"enabled"`
	MaxPenalty int     `yaml:"max_penalty" default:"15"`
	Penalties  struct {
		RSIExtreme *struct {
			Points        int     `yaml:"points" default:"10"`
			BuyThreshold  float64 `yaml:"buy_threshold" default:"75"`
			SellThreshold float64 `yaml:"sell_threshold" default:"25"`
		} `yaml:"rsi_extreme"`
		PriceDistanceFromEMA *struct {
			Points          int     `yaml:"points" default:"5"`
			EMAPeriod       int     `yaml:"ema_period" default:"50"`
			DistancePercent float64 `yaml:"distance_percent" default:"5"`
		} `yaml:"price_distance_from_ema"`
		BollingerExtreme *struct {
			Points int `yaml:"points" default:"5"`
		} `yaml:"bollinger_extreme"`
	} `yaml:"penalties"`
}

// TenorLiquidity configures the post-score bonus for contracts in the
// tradeable tenor window and in the top liquidity tier.
type TenorLiquidity struct {
	TenorMonths    []int `yaml:"tenor_months"`
	LiquidityTiers struct {
		Tier1 []string `yaml:"tier_1"`
	} `yaml:"liquidity_tiers"`
	BonusPoints struct {
		OneLegInTenor        int `yaml:"one_leg_in_tenor" default:"3"`
		BothLegsInTenor      int `yaml:"both_legs_in_tenor" default:"5"`
		OneLegTier1          int `yaml:"one_leg_tier1" default:"3"`
		BothLegsTier1        int `yaml:"both_legs_tier1" default:"5"`
		Tier1InTenorOneLeg   int `yaml:"tier1_in_tenor_one_leg" default:"2"`
		Tier1InTenorBothLegs int `yaml:"tier1_in_tenor_both_legs" default:"3"`
		PriorWeekActive      int `yaml:"prior_week_active" default:"5"`
	} `yaml:"bonus_points"`
	MaxBonus int `yaml:"max_bonus" default:"10"`
}

// InTenor reports whether a months-ahead value falls inside the window.
func (t *TenorLiquidity) InTenor(monthsAhead int) bool {
	for _, m := range t.TenorMonths {
		if m == monthsAhead {
			return true
		}
	}
	return false
}

// IsTier1 matches a contract root symbol against the tier-1 list.
func (t *TenorLiquidity) IsTier1(root string) bool {
	for _, s := range t.LiquidityTiers.Tier1 {
		if s == root {
			return true
		}
	}
	return false
}

var engineValidate = validator.New()

// Validate enforces the required engine keys eagerly so a broken config
// fails at startup instead of producing a half-scored run.
func (e *Engine) Validate() error {
	if err := engineValidate.Struct(e); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			f := verrs[0]
			return fmt.Errorf("engine config: field '%s' failed '%s' check", f.Namespace(), f.Tag())
		}
		return fmt.Errorf("engine config: %w", err)
	}
	if len(e.TenorLiquidityBonus.TenorMonths) == 0 {
		return fmt.Errorf("engine config: tenor_liquidity_bonus.tenor_months is required")
	}
	for _, m := range e.TenorLiquidityBonus.TenorMonths {
		if m < 1 {
			return fmt.Errorf("engine config: tenor month %d out of range", m)
		}
	}
	if w := e.Strategies.EnhancedTrendFollowing.Confirmations.MomentumRequired; w < 0 || w > 3 {
		return fmt.Errorf("engine config: confirmations.momentum_required must be between 0 and 3, got %d", w)
	}
	return nil
}

// AlignmentWeight resolves the weight for a confluence weight group,
// defaulting to 1 for groups the config does not mention.
func (e *Engine) AlignmentWeight(group string) float64 {
	if w, ok := e.AlignmentWeights[group]; ok {
		return w
	}
	return 1.0
}
