package repository

import (
	"sort"
	"strings"
	"time"

	"CurveScout/internal/domain/models"
)

// groupHistories buckets rows by symbol, drops rows newer than asOf
// (when non-zero), and sorts each bucket by date descending.
func groupHistories(rows []*models.IndicatorRow, asOf time.Time) map[string][]*models.IndicatorRow {
	out := make(map[string][]*models.IndicatorRow)
	for _, r := range rows {
		if !asOf.IsZero() && r.Date.After(asOf) {
			continue
		}
		out[r.Symbol] = append(out[r.Symbol], r)
	}
	for sym := range out {
		rs := out[sym]
		sort.Slice(rs, func(i, j int) bool { return rs[i].Date.After(rs[j].Date) })
	}
	return out
}

var monthByName = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// parseComponentMonths decodes a "APR,MAY,JUN" style list into months,
// skipping names it does not recognize.
func parseComponentMonths(s string) []time.Month {
	if s == "" {
		return nil
	}
	var out []time.Month
	for _, part := range strings.Split(s, ",") {
		if m, ok := monthByName[strings.ToUpper(strings.TrimSpace(part))]; ok {
			out = append(out, m)
		}
	}
	return out
}

// contractMeta builds metadata only when there is something to carry.
func contractMeta(quarterly bool, components string) *models.ContractMeta {
	if !quarterly && components == "" {
		return nil
	}
	return &models.ContractMeta{
		Quarterly:       quarterly,
		ComponentMonths: parseComponentMonths(components),
	}
}
