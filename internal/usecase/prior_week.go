package usecase

import (
	"time"

	"CurveScout/internal/domain/models"
)

// ReapplyPriorWeekBonus performs the one controlled mutation a ranked
// signal can receive: when the same (symbol, strategy, direction) was
// active a week earlier, the tenor/liquidity bonus is recomputed with
// the prior-week component and the total re-derived. Every other field
// is untouched, and calling it again with the same arguments is a no-op
// in effect because the bonus is recomputed from scratch.
func (g *Generator) ReapplyPriorWeekBonus(sig *models.Signal, wasActive bool, asOf time.Time) {
	if !wasActive || sig.Row == nil {
		return
	}
	sig.WasActivePriorWeek = true

	tb := g.tenor.Score(sig.Row, asOf, true)
	sig.TenorLiquidityBonus = tb.Total
	sig.TenorLiquidityBreakdown = tb.Breakdown
	sig.RecomputeTotal()
}

// ApplyPriorWeek marks continuity across the ranked shortlists of a run.
// Qualifying signals share pointers with the unfiltered lists, so those
// reflect the revision too; fallback clones do not, by construction.
func (g *Generator) ApplyPriorWeek(res *models.RunResult, prior models.ActivitySet, asOf time.Time) {
	if len(prior) == 0 {
		return
	}
	for _, sr := range res.Strategies {
		for _, s := range sr.BuySignals {
			g.ReapplyPriorWeekBonus(s, prior.Contains(s), asOf)
		}
		for _, s := range sr.SellSignals {
			g.ReapplyPriorWeekBonus(s, prior.Contains(s), asOf)
		}
	}
}
