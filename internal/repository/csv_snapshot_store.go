package repository

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"CurveScout/internal/domain/models"
	applogger "CurveScout/pkg/logger"
)

// CSVSnapshotStore implements SnapshotStore over a directory of CSV
// exports, one row per symbol per week, matching the upstream indicator
// pipeline's column names. Intended for local runs and backtests; the
// files are small enough to re-read per run.
type CSVSnapshotStore struct {
	dir string
	l   *applogger.Logger
}

func NewCSVSnapshotStore(dir string, l *applogger.Logger) *CSVSnapshotStore {
	return &CSVSnapshotStore{dir: dir, l: l}
}

func (s *CSVSnapshotStore) LoadHistories(ctx context.Context, asOf time.Time) (map[string][]*models.IndicatorRow, error) {
	files, err := filepath.Glob(filepath.Join(s.dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("list snapshot files: %w", err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no snapshot files in %s", s.dir)
	}

	var all []*models.IndicatorRow
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, err := s.readFile(path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
		}
		all = append(all, rows...)
	}

	out := groupHistories(all, asOf)
	s.l.Info("csv load_histories ok",
		applogger.String("dir", s.dir),
		applogger.Int("files", len(files)),
		applogger.Int("rows", len(all)),
		applogger.Int("symbols", len(out)))
	return out, nil
}

func (s *CSVSnapshotStore) readFile(path string) ([]*models.IndicatorRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return nil, nil
	}

	col := make(map[string]int, len(records[0]))
	for i, name := range records[0] {
		col[strings.ToLower(strings.TrimSpace(name))] = i
	}
	if _, ok := col["symbol"]; !ok {
		return nil, fmt.Errorf("missing symbol column")
	}
	if _, ok := col["date"]; !ok {
		return nil, fmt.Errorf("missing date column")
	}

	out := make([]*models.IndicatorRow, 0, len(records)-1)
	for _, rec := range records[1:] {
		row, err := parseCSVRow(rec, col)
		if err != nil {
			s.l.Warn("skipping malformed snapshot row",
				applogger.String("file", filepath.Base(path)),
				applogger.Error(err))
			continue
		}
		out = append(out, row)
	}
	return out, nil
}

func parseCSVRow(rec []string, col map[string]int) (*models.IndicatorRow, error) {
	field := func(name string) string {
		i, ok := col[name]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}
	opt := func(name string) *float64 {
		v := field(name)
		if v == "" || strings.EqualFold(v, "nan") {
			return nil
		}
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil
		}
		return &f
	}
	flag := func(name string) bool {
		v := strings.ToLower(field(name))
		return v == "true" || v == "1"
	}

	symbol := field("symbol")
	if symbol == "" {
		return nil, fmt.Errorf("empty symbol")
	}
	date, err := time.Parse("2006-01-02", field("date"))
	if err != nil {
		return nil, fmt.Errorf("parse date: %w", err)
	}

	r := &models.IndicatorRow{
		Symbol: symbol,
		Date:   date,

		Close:              opt("close"),
		MACDLine:           opt("macd_line"),
		MACDSignal:         opt("macd_signal"),
		MACDHistogram:      opt("macd_histogram"),
		MACDLinePercentile: opt("macd_line_percentile"),

		RSI:           opt("rsi"),
		RSIPercentile: opt("rsi_percentile"),
		StochK:        opt("stoch_k"),
		StochD:        opt("stoch_d"),
		CCI:           opt("cci"),

		ADX:     opt("adx"),
		DIPlus:  opt("di_plus"),
		DIMinus: opt("di_minus"),

		AroonUp:              opt("aroon_up"),
		AroonDown:            opt("aroon_down"),
		AroonOscillator:      opt("aroon_oscillator"),
		AroonStrongUptrend:   flag("aroon_strong_uptrend"),
		AroonStrongDowntrend: flag("aroon_strong_downtrend"),

		BBUpper:  opt("bb_upper"),
		BBMiddle: opt("bb_middle"),
		BBLower:  opt("bb_lower"),

		ATR:           opt("atr"),
		ATRPctOfPrice: opt("atr_pct_of_price"),

		SupertrendValue:     opt("supertrend_value"),
		SupertrendDirection: strings.ToLower(field("supertrend_direction")),

		PricePercentile:     opt("price_percentile"),
		Correlation:         opt("correlation"),
		CointegrationPValue: opt("cointegration_pvalue"),

		IsOutright: !flag("is_spread"),
		Symbol1:    field("symbol_1"),
		Symbol2:    field("symbol_2"),
	}

	r.EMA = map[int]float64{}
	for _, period := range []int{20, 50, 100, 200} {
		if v := opt(fmt.Sprintf("ema_%d", period)); v != nil {
			r.EMA[period] = *v
		}
	}

	r.Meta = contractMeta(flag("quarterly"), field("component_months"))
	r.Leg1Meta = contractMeta(flag("leg1_quarterly"), field("leg1_components"))
	r.Leg2Meta = contractMeta(flag("leg2_quarterly"), field("leg2_components"))

	return r, nil
}

func (s *CSVSnapshotStore) LatestDate(ctx context.Context) (time.Time, error) {
	histories, err := s.LoadHistories(ctx, time.Time{})
	if err != nil {
		return time.Time{}, err
	}
	var latest time.Time
	for _, rows := range histories {
		if len(rows) > 0 && rows[0].Date.After(latest) {
			latest = rows[0].Date
		}
	}
	if latest.IsZero() {
		return time.Time{}, fmt.Errorf("no dated rows in %s", s.dir)
	}
	return latest, nil
}

func (s *CSVSnapshotStore) Health(ctx context.Context) error {
	info, err := os.Stat(s.dir)
	if err != nil {
		return fmt.Errorf("snapshot dir: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("snapshot path %s is not a directory", s.dir)
	}
	return nil
}

func (s *CSVSnapshotStore) Close() error { return nil }
