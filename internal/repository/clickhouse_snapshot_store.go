package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"CurveScout/internal/domain/models"
	pkgch "CurveScout/pkg/clickhouse"
	applogger "CurveScout/pkg/logger"
)

// CHSnapshotStore implements SnapshotStore backed by a wide ClickHouse
// table of weekly indicator snapshots, one row per symbol per week.
type CHSnapshotStore struct {
	db    *sql.DB
	ch    *pkgch.Client
	table string
	l     *applogger.Logger
}

func NewCHSnapshotStore(ch *pkgch.Client, table string, l *applogger.Logger) *CHSnapshotStore {
	return &CHSnapshotStore{db: ch.DB(), ch: ch, table: table, l: l}
}

const snapshotColumns = `
    symbol, date, close,
    macd_line, macd_signal, macd_histogram, macd_line_percentile,
    rsi, rsi_percentile, stoch_k, stoch_d, cci,
    adx, di_plus, di_minus,
    aroon_up, aroon_down, aroon_oscillator, aroon_strong_uptrend, aroon_strong_downtrend,
    bb_upper, bb_middle, bb_lower,
    atr, atr_pct_of_price,
    ema_20, ema_50, ema_100, ema_200,
    supertrend_value, supertrend_direction,
    price_percentile, correlation, cointegration_pvalue,
    is_outright, symbol_1, symbol_2,
    quarterly, component_months, leg1_quarterly, leg1_components, leg2_quarterly, leg2_components`

func (s *CHSnapshotStore) LoadHistories(ctx context.Context, asOf time.Time) (map[string][]*models.IndicatorRow, error) {
	start := time.Now()

	q := fmt.Sprintf(`SELECT %s FROM %s`, snapshotColumns, s.table)
	var args []interface{}
	if !asOf.IsZero() {
		q += ` WHERE date <= ?`
		args = append(args, asOf)
	}
	q += ` ORDER BY symbol, date DESC`

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		s.l.Error("clickhouse load_histories query error",
			applogger.String("table", s.table),
			applogger.Error(err))
		return nil, fmt.Errorf("load histories: %w", err)
	}
	defer rows.Close()

	var all []*models.IndicatorRow
	for rows.Next() {
		r, err := scanSnapshotRow(rows)
		if err != nil {
			s.l.Error("clickhouse load_histories scan error",
				applogger.String("table", s.table),
				applogger.Error(err))
			return nil, fmt.Errorf("scan snapshot: %w", err)
		}
		all = append(all, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}

	out := groupHistories(all, asOf)
	s.l.Info("clickhouse load_histories ok",
		applogger.String("table", s.table),
		applogger.Int("rows", len(all)),
		applogger.Int("symbols", len(out)),
		applogger.Duration("duration_ms", time.Since(start)))
	return out, nil
}

func scanSnapshotRow(rows *sql.Rows) (*models.IndicatorRow, error) {
	var (
		r models.IndicatorRow

		closeV, macdLine, macdSig, macdHist, macdPct     sql.NullFloat64
		rsi, rsiPct, stochK, stochD, cci                 sql.NullFloat64
		adx, diPlus, diMinus                             sql.NullFloat64
		aroonUp, aroonDown, aroonOsc                     sql.NullFloat64
		aroonStrongUp, aroonStrongDown                   uint8
		bbUpper, bbMiddle, bbLower                       sql.NullFloat64
		atr, atrPct                                      sql.NullFloat64
		ema20, ema50, ema100, ema200                     sql.NullFloat64
		stValue                                          sql.NullFloat64
		stDirection                                      sql.NullString
		pricePct, correlation, cointPValue               sql.NullFloat64
		isOutright, quarterly, leg1Quarterly             uint8
		leg2Quarterly                                    uint8
		symbol1, symbol2, components, leg1Comp, leg2Comp sql.NullString
	)

	err := rows.Scan(
		&r.Symbol, &r.Date, &closeV,
		&macdLine, &macdSig, &macdHist, &macdPct,
		&rsi, &rsiPct, &stochK, &stochD, &cci,
		&adx, &diPlus, &diMinus,
		&aroonUp, &aroonDown, &aroonOsc, &aroonStrongUp, &aroonStrongDown,
		&bbUpper, &bbMiddle, &bbLower,
		&atr, &atrPct,
		&ema20, &ema50, &ema100, &ema200,
		&stValue, &stDirection,
		&pricePct, &correlation, &cointPValue,
		&isOutright, &symbol1, &symbol2,
		&quarterly, &components, &leg1Quarterly, &leg1Comp, &leg2Quarterly, &leg2Comp,
	)
	if err != nil {
		return nil, err
	}

	r.Close = nullableFloat(closeV)
	r.MACDLine = nullableFloat(macdLine)
	r.MACDSignal = nullableFloat(macdSig)
	r.MACDHistogram = nullableFloat(macdHist)
	r.MACDLinePercentile = nullableFloat(macdPct)
	r.RSI = nullableFloat(rsi)
	r.RSIPercentile = nullableFloat(rsiPct)
	r.StochK = nullableFloat(stochK)
	r.StochD = nullableFloat(stochD)
	r.CCI = nullableFloat(cci)
	r.ADX = nullableFloat(adx)
	r.DIPlus = nullableFloat(diPlus)
	r.DIMinus = nullableFloat(diMinus)
	r.AroonUp = nullableFloat(aroonUp)
	r.AroonDown = nullableFloat(aroonDown)
	r.AroonOscillator = nullableFloat(aroonOsc)
	r.AroonStrongUptrend = aroonStrongUp != 0
	r.AroonStrongDowntrend = aroonStrongDown != 0
	r.BBUpper = nullableFloat(bbUpper)
	r.BBMiddle = nullableFloat(bbMiddle)
	r.BBLower = nullableFloat(bbLower)
	r.ATR = nullableFloat(atr)
	r.ATRPctOfPrice = nullableFloat(atrPct)
	r.SupertrendValue = nullableFloat(stValue)
	r.SupertrendDirection = stDirection.String
	r.PricePercentile = nullableFloat(pricePct)
	r.Correlation = nullableFloat(correlation)
	r.CointegrationPValue = nullableFloat(cointPValue)

	r.EMA = map[int]float64{}
	for period, v := range map[int]sql.NullFloat64{20: ema20, 50: ema50, 100: ema100, 200: ema200} {
		if v.Valid {
			r.EMA[period] = v.Float64
		}
	}

	r.IsOutright = isOutright != 0
	r.Symbol1 = symbol1.String
	r.Symbol2 = symbol2.String
	r.Meta = contractMeta(quarterly != 0, components.String)
	r.Leg1Meta = contractMeta(leg1Quarterly != 0, leg1Comp.String)
	r.Leg2Meta = contractMeta(leg2Quarterly != 0, leg2Comp.String)

	return &r, nil
}

func nullableFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	f := v.Float64
	return &f
}

func (s *CHSnapshotStore) LatestDate(ctx context.Context) (time.Time, error) {
	q := fmt.Sprintf(`SELECT max(date) FROM %s`, s.table)
	var latest time.Time
	if err := s.db.QueryRowContext(ctx, q).Scan(&latest); err != nil {
		return time.Time{}, fmt.Errorf("latest date: %w", err)
	}
	return latest, nil
}

func (s *CHSnapshotStore) Health(ctx context.Context) error {
	return s.ch.Health(ctx)
}

func (s *CHSnapshotStore) Close() error {
	return s.ch.Close()
}
