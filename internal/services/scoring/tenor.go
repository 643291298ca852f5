package scoring

import (
	"math"
	"regexp"
	"time"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/config"
)

// Symbols look like "%BRN J!": percent prefix, root code, month code,
// continuous-contract bang. Quarterlies skip parsing and use the first
// component month from the contract metadata instead.
var (
	monthCodeRe = regexp.MustCompile(`%[A-Z]+\s+([FGHJKMNQUVXZ])!`)
	rootRe      = regexp.MustCompile(`%([A-Z]+)`)
)

var monthByCode = map[string]time.Month{
	"F": time.January, "G": time.February, "H": time.March,
	"J": time.April, "K": time.May, "M": time.June,
	"N": time.July, "Q": time.August, "U": time.September,
	"V": time.October, "X": time.November, "Z": time.December,
}

// RootCode extracts the instrument root from a symbol ("" if unparseable).
func RootCode(symbol string) string {
	m := rootRe.FindStringSubmatch(symbol)
	if m == nil {
		return ""
	}
	return m[1]
}

// ContractMonth resolves the delivery month for a leg. Quarterly
// contracts use the first averaged component month.
func ContractMonth(symbol string, meta *models.ContractMeta) (time.Month, bool) {
	if meta != nil && meta.Quarterly {
		if len(meta.ComponentMonths) == 0 {
			return 0, false
		}
		return meta.ComponentMonths[0], true
	}
	m := monthCodeRe.FindStringSubmatch(symbol)
	if m == nil {
		return 0, false
	}
	month, ok := monthByCode[m[1]]
	return month, ok
}

// MonthsAhead counts calendar months from the as-of date to the contract
// month, rolling into next year when the contract month is not strictly
// ahead in the current one.
func MonthsAhead(asOf time.Time, contract time.Month) int {
	dm := int(asOf.Month())
	cm := int(contract)
	if cm > dm {
		return cm - dm
	}
	return (12 - dm) + cm
}

// Tenor/liquidity breakdown keys.
const (
	BonusTenor     = "TNR"
	BonusLiquidity = "LIQ"
	BonusPriorWeek = "PRWK"
)

// TenorBonus is the capped tenor/liquidity award plus the uncapped
// prior-week component.
type TenorBonus struct {
	Breakdown map[string]int
	Total     int
}

// TenorScorer awards bonus points for contracts in the tradeable part of
// the curve and in the top liquidity tier. The tenor and liquidity
// components are jointly capped; the prior-week-active bonus is added on
// top of the cap.
type TenorScorer struct {
	cfg *config.TenorLiquidity
}

func NewTenorScorer(cfg *config.TenorLiquidity) *TenorScorer {
	return &TenorScorer{cfg: cfg}
}

type legStatus struct {
	inTenor bool
	tier1   bool
}

func (t *TenorScorer) legOf(symbol string, meta *models.ContractMeta, asOf time.Time) legStatus {
	var st legStatus
	st.tier1 = t.cfg.IsTier1(RootCode(symbol))
	if m, ok := ContractMonth(symbol, meta); ok {
		st.inTenor = t.cfg.InTenor(MonthsAhead(asOf, m))
	}
	return st
}

// Score computes the bonus for a signal's underlying row as of asOf.
func (t *TenorScorer) Score(row *models.IndicatorRow, asOf time.Time, priorWeekActive bool) TenorBonus {
	var legs []legStatus
	if row.IsOutright {
		legs = []legStatus{t.legOf(row.Symbol, row.Meta, asOf)}
	} else {
		legs = []legStatus{
			t.legOf(row.Symbol1, row.Leg1Meta, asOf),
			t.legOf(row.Symbol2, row.Leg2Meta, asOf),
		}
	}

	var inTenor, tier1, combo int
	for _, l := range legs {
		if l.inTenor {
			inTenor++
		}
		if l.tier1 {
			tier1++
		}
		if l.inTenor && l.tier1 {
			combo++
		}
	}

	bp := t.cfg.BonusPoints
	var tnr, liq int
	switch inTenor {
	case 2:
		tnr = bp.BothLegsInTenor
	case 1:
		tnr = bp.OneLegInTenor
	}
	switch tier1 {
	case 2:
		liq = bp.BothLegsTier1
	case 1:
		liq = bp.OneLegTier1
	}
	switch combo {
	case 2:
		liq += bp.Tier1InTenorBothLegs
	case 1:
		liq += bp.Tier1InTenorOneLeg
	}

	res := TenorBonus{Breakdown: make(map[string]int, 3)}
	sum := tnr + liq
	if max := t.cfg.MaxBonus; sum > max {
		tnr = scaleToCap(tnr, sum, max)
		liq = scaleToCap(liq, sum, max)
		res.Total = max
	} else {
		res.Total = sum
	}
	if tnr > 0 {
		res.Breakdown[BonusTenor] = tnr
	}
	if liq > 0 {
		res.Breakdown[BonusLiquidity] = liq
	}

	if priorWeekActive {
		res.Breakdown[BonusPriorWeek] = bp.PriorWeekActive
		res.Total += bp.PriorWeekActive
	}

	return res
}

func scaleToCap(v, sum, cap int) int {
	return int(math.Round(float64(v) * float64(cap) / float64(sum)))
}
