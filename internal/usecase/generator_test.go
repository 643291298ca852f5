package usecase

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveScout/internal/domain/models"
	"CurveScout/internal/services/strategies"
	"CurveScout/pkg/config"
	"CurveScout/pkg/logger"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

// meanReversionEngine enables only the mean reversion strategy, with a
// small confluence table so the tests control every point source.
func meanReversionEngine(minPoints, maxPerType int) *config.Engine {
	var e config.Engine
	e.MinPointsThreshold = intPtr(minPoints)
	e.MaxSignalsPerType = intPtr(maxPerType)
	e.ATRMultipliers.Stop = models.Ptr(1.5)
	e.ATRMultipliers.Target = models.Ptr(2.5)
	e.PositionSizing.Method = "inverse_atr_pct"
	e.PositionSizing.BaseSize = models.Ptr(100.0)
	e.PositionSizing.TargetATRPct = 5.0
	e.AlignmentWeights = map[string]float64{"rsi": 1.0}
	e.TenorLiquidityBonus.TenorMonths = []int{2, 3, 4, 5, 6}
	e.TenorLiquidityBonus.BonusPoints.OneLegInTenor = 3
	e.TenorLiquidityBonus.BonusPoints.OneLegTier1 = 3
	e.TenorLiquidityBonus.BonusPoints.Tier1InTenorOneLeg = 2
	e.TenorLiquidityBonus.BonusPoints.PriorWeekActive = 5
	e.TenorLiquidityBonus.MaxBonus = 10

	off := false
	e.Strategies.TrendFollowing.Enabled = &off
	e.Strategies.EnhancedTrendFollowing.Enabled = &off
	e.Strategies.MACDRSIExhaustion.Enabled = &off
	e.Strategies.MeanReversion.Entry.BuyPercentile = 25
	e.Strategies.MeanReversion.Entry.SellPercentile = 75
	e.Strategies.MeanReversion.BasePoints = map[string]int{
		models.TriggerPricePercentile: 50,
	}
	e.Strategies.MeanReversion.ConfluenceBonuses = map[string]config.BonusRule{
		"rsi_percentile_aligned": {Points: 30},
	}
	return &e
}

func intPtr(v int) *int { return &v }

func snapshotRow(symbol string, date time.Time, pricePct float64) *models.IndicatorRow {
	return &models.IndicatorRow{
		Symbol:          symbol,
		Date:            date,
		Close:           models.Ptr(10.0),
		PricePercentile: models.Ptr(pricePct),
		IsOutright:      true,
	}
}

var testDate = time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

func TestGeneratorMeanReversionBuy(t *testing.T) {
	g := NewGenerator(meanReversionEngine(75, 5), testLogger(t))
	require.Equal(t, []string{strategies.NameMeanReversion}, g.Strategies())

	row := snapshotRow("%CL Q!", testDate, 10)
	row.RSIPercentile = models.Ptr(5.0)
	histories := map[string][]*models.IndicatorRow{"%CL Q!": {row}}

	res := g.Generate(histories, testDate)
	sr := res.Strategies[strategies.NameMeanReversion]
	require.NotNil(t, sr)
	require.Len(t, sr.BuySignals, 1)

	sig := sr.BuySignals[0]
	assert.Equal(t, models.DirectionBuy, sig.Direction)
	assert.Equal(t, models.TriggerPricePercentile, sig.Trigger)
	assert.Equal(t, 50, sig.BasePoints)
	assert.Equal(t, 30, sig.ConfluenceBonus)
	// contract month Q (August) is two months out: one-leg tenor bonus
	assert.Equal(t, 3, sig.TenorLiquidityBonus)
	assert.Equal(t, 83, sig.TotalPoints)
	assert.False(t, sig.IsFallback)
	assert.Equal(t, 100.0, sig.AlignmentScore)
}

func TestGeneratorTotalPointsInvariant(t *testing.T) {
	g := NewGenerator(meanReversionEngine(0, 10), testLogger(t))

	histories := map[string][]*models.IndicatorRow{
		"%CL Q!":  {snapshotRow("%CL Q!", testDate, 5)},
		"%NBI N!": {snapshotRow("%NBI N!", testDate, 90)},
	}
	res := g.Generate(histories, testDate)

	for _, sr := range res.Strategies {
		for _, s := range append(sr.BuySignals, sr.SellSignals...) {
			assert.Equal(t,
				s.BasePoints+s.ConfluenceBonus+s.TenorLiquidityBonus-s.ExhaustionPenalty,
				s.TotalPoints)
		}
	}
}

func TestGeneratorFallbackWhenNothingQualifies(t *testing.T) {
	g := NewGenerator(meanReversionEngine(200, 5), testLogger(t))

	histories := map[string][]*models.IndicatorRow{
		"%CL Q!":  {snapshotRow("%CL Q!", testDate, 10)},
		"%NBI Q!": {snapshotRow("%NBI Q!", testDate, 12)},
	}
	res := g.Generate(histories, testDate)
	sr := res.Strategies[strategies.NameMeanReversion]

	require.Len(t, sr.BuySignals, 1)
	assert.True(t, sr.BuySignals[0].IsFallback)
	// the unfiltered list keeps both candidates, unflagged
	require.Len(t, sr.AllBuySignals, 2)
	for _, s := range sr.AllBuySignals {
		assert.False(t, s.IsFallback)
	}
}

func TestGeneratorTopNAndThreshold(t *testing.T) {
	g := NewGenerator(meanReversionEngine(50, 2), testLogger(t))

	// three qualifying buys; only the best two survive the cap
	histories := map[string][]*models.IndicatorRow{}
	for _, sym := range []string{"%CL Q!", "%NBI Q!", "%PRL Q!"} {
		histories[sym] = []*models.IndicatorRow{snapshotRow(sym, testDate, 10)}
	}
	// boost one symbol with a confluence hit
	histories["%NBI Q!"][0].RSIPercentile = models.Ptr(5.0)

	res := g.Generate(histories, testDate)
	sr := res.Strategies[strategies.NameMeanReversion]

	require.Len(t, sr.BuySignals, 2)
	assert.Equal(t, "%NBI Q!", sr.BuySignals[0].Symbol)
	// equal totals keep symbol order: %CL before %PRL
	assert.Equal(t, "%CL Q!", sr.BuySignals[1].Symbol)
	require.Len(t, sr.AllBuySignals, 3)
}

func TestGeneratorDeterministic(t *testing.T) {
	g := NewGenerator(meanReversionEngine(0, 10), testLogger(t))

	histories := map[string][]*models.IndicatorRow{}
	for _, sym := range []string{"%PRL Q!", "%CL Q!", "%NBI Q!", "%AFE Q!"} {
		histories[sym] = []*models.IndicatorRow{snapshotRow(sym, testDate, 10)}
	}

	first := g.Generate(histories, testDate)
	for i := 0; i < 5; i++ {
		again := g.Generate(histories, testDate)
		fs := first.Strategies[strategies.NameMeanReversion].BuySignals
		as := again.Strategies[strategies.NameMeanReversion].BuySignals
		require.Equal(t, len(fs), len(as))
		for j := range fs {
			assert.Equal(t, fs[j].Symbol, as[j].Symbol)
		}
	}
}

func TestGeneratorSkipsStaleSymbols(t *testing.T) {
	g := NewGenerator(meanReversionEngine(0, 10), testLogger(t))

	histories := map[string][]*models.IndicatorRow{
		"%CL Q!":  {snapshotRow("%CL Q!", testDate, 10)},
		"%NBI Q!": {snapshotRow("%NBI Q!", testDate.AddDate(0, 0, -7), 10)},
	}
	res := g.Generate(histories, testDate)

	assert.Equal(t, 1, res.TotalSymbols)
	sr := res.Strategies[strategies.NameMeanReversion]
	require.Len(t, sr.BuySignals, 1)
	assert.Equal(t, "%CL Q!", sr.BuySignals[0].Symbol)
}

func TestApplyPriorWeekRaisesTotal(t *testing.T) {
	g := NewGenerator(meanReversionEngine(0, 10), testLogger(t))

	histories := map[string][]*models.IndicatorRow{
		"%CL Q!": {snapshotRow("%CL Q!", testDate, 10)},
	}
	res := g.Generate(histories, testDate)
	sig := res.Strategies[strategies.NameMeanReversion].BuySignals[0]
	before := sig.TotalPoints

	prior := models.ActivitySet{}
	prior[models.ActivityKey{
		Symbol:    "%CL Q!",
		Strategy:  strategies.NameMeanReversion,
		Direction: models.DirectionBuy,
	}] = struct{}{}

	g.ApplyPriorWeek(res, prior, testDate)

	assert.True(t, sig.WasActivePriorWeek)
	assert.Equal(t, before+5, sig.TotalPoints)
	assert.Equal(t, 5, sig.TenorLiquidityBreakdown["PRWK"])

	// reapplying is idempotent: the bonus is recomputed, not stacked
	g.ApplyPriorWeek(res, prior, testDate)
	assert.Equal(t, before+5, sig.TotalPoints)
}

func TestApplyPriorWeekIgnoresOthers(t *testing.T) {
	g := NewGenerator(meanReversionEngine(0, 10), testLogger(t))

	histories := map[string][]*models.IndicatorRow{
		"%CL Q!": {snapshotRow("%CL Q!", testDate, 10)},
	}
	res := g.Generate(histories, testDate)
	sig := res.Strategies[strategies.NameMeanReversion].BuySignals[0]
	before := sig.TotalPoints

	prior := models.ActivitySet{}
	prior[models.ActivityKey{
		Symbol:    "%CL Q!",
		Strategy:  strategies.NameMeanReversion,
		Direction: models.DirectionSell, // wrong direction
	}] = struct{}{}

	g.ApplyPriorWeek(res, prior, testDate)
	assert.False(t, sig.WasActivePriorWeek)
	assert.Equal(t, before, sig.TotalPoints)
}
