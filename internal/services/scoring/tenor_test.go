package scoring

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

func tenorConfig() *config.TenorLiquidity {
	var c config.TenorLiquidity
	c.TenorMonths = []int{2, 3, 4, 5, 6}
	c.LiquidityTiers.Tier1 = []string{"CL", "AFE", "PRL"}
	c.BonusPoints.OneLegInTenor = 3
	c.BonusPoints.BothLegsInTenor = 5
	c.BonusPoints.OneLegTier1 = 3
	c.BonusPoints.BothLegsTier1 = 5
	c.BonusPoints.Tier1InTenorOneLeg = 2
	c.BonusPoints.Tier1InTenorBothLegs = 3
	c.BonusPoints.PriorWeekActive = 5
	c.MaxBonus = 10
	return &c
}

func TestRootCode(t *testing.T) {
	assert.Equal(t, "AFE", RootCode("%AFE F!-IEU"))
	assert.Equal(t, "CL", RootCode("%CL J!"))
	assert.Equal(t, "", RootCode("garbage"))
}

func TestContractMonth(t *testing.T) {
	m, ok := ContractMonth("%CL J!", nil)
	assert.True(t, ok)
	assert.Equal(t, time.April, m)

	// quarterlies use the first component month
	m, ok = ContractMonth("%AFE Q2!", &models.ContractMeta{
		Quarterly:       true,
		ComponentMonths: []time.Month{time.April, time.May, time.June},
	})
	assert.True(t, ok)
	assert.Equal(t, time.April, m)

	_, ok = ContractMonth("unparseable", nil)
	assert.False(t, ok)
}

func TestMonthsAhead(t *testing.T) {
	june := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, 2, MonthsAhead(june, time.August))
	// same month rolls a full year ahead
	assert.Equal(t, 12, MonthsAhead(june, time.June))
	// past months roll into next year
	assert.Equal(t, 10, MonthsAhead(june, time.April))

	dec := time.Date(2025, time.December, 5, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 2, MonthsAhead(dec, time.February))
}

func TestTenorScoreOutright(t *testing.T) {
	s := NewTenorScorer(tenorConfig())
	asOf := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	// August contract, 2 months out, tier-1 root: 3 + 3 + 2 = 8, under cap
	row := &models.IndicatorRow{Symbol: "%CL Q!", IsOutright: true}
	got := s.Score(row, asOf, false)
	assert.Equal(t, 8, got.Total)
	assert.Equal(t, map[string]int{BonusTenor: 3, BonusLiquidity: 5}, got.Breakdown)
}

func TestTenorScoreSpreadCapScalesDown(t *testing.T) {
	s := NewTenorScorer(tenorConfig())
	asOf := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	// both legs in tenor and tier-1: 5 + 5 + 3 = 13, capped to 10 with
	// proportional scale-down (round(5*10/13)=4, round(8*10/13)=6)
	row := &models.IndicatorRow{
		Symbol:  "%CL Q!-%AFE U!",
		Symbol1: "%CL Q!",
		Symbol2: "%AFE U!",
	}
	got := s.Score(row, asOf, false)
	assert.Equal(t, 10, got.Total)
	assert.Equal(t, map[string]int{BonusTenor: 4, BonusLiquidity: 6}, got.Breakdown)
}

func TestTenorScorePriorWeekUncapped(t *testing.T) {
	s := NewTenorScorer(tenorConfig())
	asOf := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	row := &models.IndicatorRow{
		Symbol:  "%CL Q!-%AFE U!",
		Symbol1: "%CL Q!",
		Symbol2: "%AFE U!",
	}
	got := s.Score(row, asOf, true)
	assert.Equal(t, 15, got.Total)
	assert.Equal(t, 5, got.Breakdown[BonusPriorWeek])
}

func TestTenorScoreNothingMatches(t *testing.T) {
	s := NewTenorScorer(tenorConfig())
	asOf := time.Date(2025, time.June, 6, 0, 0, 0, 0, time.UTC)

	// July is 1 month out, outside [2,6]; root not tier-1
	row := &models.IndicatorRow{Symbol: "%NBI N!", IsOutright: true}
	got := s.Score(row, asOf, false)
	assert.Zero(t, got.Total)
	assert.Empty(t, got.Breakdown)
}
