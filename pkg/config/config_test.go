package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const minimalYAML = `
environment: test
engine:
  min_points_threshold: 75
  max_signals_per_type: 5
  atr_multipliers:
    stop: 1.5
    target: 2.5
  position_sizing:
    method: inverse_atr_pct
    base_size: 100
  tenor_liquidity_bonus:
    tenor_months: [2, 3, 4, 5, 6]
`

func TestParseAppliesDefaults(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	assert.Equal(t, 8080, c.Server.Port)
	assert.Equal(t, "info", c.Logging.Level)
	assert.Equal(t, "csv", c.Data.Source)
	assert.Equal(t, "memory", c.Cache.Mode)
	assert.Equal(t, "curvescout.signals", c.Kafka.Topic)
	assert.True(t, c.Metrics.Enabled)

	assert.Equal(t, 5.0, c.Engine.PositionSizing.TargetATRPct)
	assert.Equal(t, 0.05, c.Engine.SpreadAnalysis.Cointegration.SignificanceLevel)
	assert.Equal(t, 10, c.Engine.TenorLiquidityBonus.MaxBonus)
	assert.Equal(t, 2, c.Engine.Strategies.EnhancedTrendFollowing.Confirmations.MomentumRequired)
}

func TestParseMissingRequiredEngineKey(t *testing.T) {
	const bad = `
environment: test
engine:
  max_signals_per_type: 5
  atr_multipliers:
    stop: 1.5
    target: 2.5
  position_sizing:
    method: fixed
    base_size: 100
  tenor_liquidity_bonus:
    tenor_months: [2]
`
	_, err := Parse([]byte(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MinPointsThreshold")
}

func TestParseMissingTenorMonths(t *testing.T) {
	const bad = `
environment: test
engine:
  min_points_threshold: 75
  max_signals_per_type: 5
  atr_multipliers:
    stop: 1.5
    target: 2.5
  position_sizing:
    method: fixed
    base_size: 100
`
	_, err := Parse([]byte(bad))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tenor_months")
}

func TestParseInvalidDataSource(t *testing.T) {
	_, err := Parse([]byte(minimalYAML + "\ndata:\n  source: sqlite\n"))
	require.Error(t, err)
}

func TestParseClickHouseNeedsHost(t *testing.T) {
	_, err := Parse([]byte(minimalYAML + "\ndata:\n  source: clickhouse\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "clickhouse")
}

func TestParseNonMemoryCacheNeedsRedis(t *testing.T) {
	_, err := Parse([]byte(minimalYAML + "\ncache:\n  mode: redis\n"))
	require.Error(t, err)
}

func TestStrategyToggles(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)

	// main strategies default on, moving average defaults off
	assert.True(t, c.Engine.Strategies.TrendFollowing.IsEnabled())
	assert.True(t, c.Engine.Strategies.MeanReversion.IsEnabled())
	assert.False(t, c.Engine.Strategies.MovingAverage.IsEnabled())
}

func TestAlignmentWeightDefault(t *testing.T) {
	c, err := Parse([]byte(minimalYAML))
	require.NoError(t, err)
	assert.Equal(t, 1.0, c.Engine.AlignmentWeight("rsi"))
}
