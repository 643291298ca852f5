package repository

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"CurveScout/pkg/logger"
)

func storeLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New(&logger.Config{Level: "error", Format: "console", Output: "stderr"})
	require.NoError(t, err)
	return l
}

const snapshotCSV = `symbol,date,close,rsi,atr,price_percentile,is_spread,symbol_1,symbol_2,quarterly,component_months,supertrend_direction,ema_20,ema_50
%CL Q!,2025-06-06,62.5,28.4,1.2,10.5,false,,,false,,up,61.8,60.2
%CL Q!,2025-05-30,61.0,35.0,nan,15.0,false,,,false,,down,60.9,60.0
%AFE Q2!,2025-06-06,0.52,55.0,0.01,50.0,false,,,true,"APR,MAY,JUN",,,
%CL Q!-%AFE U!,2025-06-06,1.4,,0.05,80.0,true,%CL Q!,%AFE U!,false,,,,
`

func writeSnapshotDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "snapshots.csv"), []byte(snapshotCSV), 0o644)
	require.NoError(t, err)
	return dir
}

func TestCSVStoreLoadHistories(t *testing.T) {
	s := NewCSVSnapshotStore(writeSnapshotDir(t), storeLogger(t))

	histories, err := s.LoadHistories(context.Background(), time.Time{})
	require.NoError(t, err)
	require.Len(t, histories, 3)

	rows := histories["%CL Q!"]
	require.Len(t, rows, 2)
	// newest first
	assert.Equal(t, "2025-06-06", rows[0].Date.Format("2006-01-02"))
	assert.Equal(t, 62.5, *rows[0].Close)
	assert.Equal(t, 28.4, *rows[0].RSI)
	assert.Equal(t, "up", rows[0].SupertrendDirection)
	assert.True(t, rows[0].IsOutright)

	ema, ok := rows[0].EMAValue(20)
	require.True(t, ok)
	assert.Equal(t, 61.8, ema)

	// nan parses to a missing value
	assert.Nil(t, rows[1].ATR)
}

func TestCSVStoreQuarterlyMeta(t *testing.T) {
	s := NewCSVSnapshotStore(writeSnapshotDir(t), storeLogger(t))

	histories, err := s.LoadHistories(context.Background(), time.Time{})
	require.NoError(t, err)

	rows := histories["%AFE Q2!"]
	require.Len(t, rows, 1)
	require.NotNil(t, rows[0].Meta)
	assert.True(t, rows[0].Meta.Quarterly)
	assert.Equal(t, []time.Month{time.April, time.May, time.June}, rows[0].Meta.ComponentMonths)
}

func TestCSVStoreSpreadLegs(t *testing.T) {
	s := NewCSVSnapshotStore(writeSnapshotDir(t), storeLogger(t))

	histories, err := s.LoadHistories(context.Background(), time.Time{})
	require.NoError(t, err)

	rows := histories["%CL Q!-%AFE U!"]
	require.Len(t, rows, 1)
	assert.False(t, rows[0].IsOutright)
	assert.Equal(t, "%CL Q!", rows[0].Symbol1)
	assert.Equal(t, "%AFE U!", rows[0].Symbol2)
	assert.Nil(t, rows[0].RSI)
}

func TestCSVStoreAsOfFilter(t *testing.T) {
	s := NewCSVSnapshotStore(writeSnapshotDir(t), storeLogger(t))

	asOf := time.Date(2025, time.May, 30, 0, 0, 0, 0, time.UTC)
	histories, err := s.LoadHistories(context.Background(), asOf)
	require.NoError(t, err)

	rows := histories["%CL Q!"]
	require.Len(t, rows, 1)
	assert.Equal(t, "2025-05-30", rows[0].Date.Format("2006-01-02"))
}

func TestCSVStoreLatestDate(t *testing.T) {
	s := NewCSVSnapshotStore(writeSnapshotDir(t), storeLogger(t))

	latest, err := s.LatestDate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "2025-06-06", latest.Format("2006-01-02"))
}

func TestCSVStoreEmptyDir(t *testing.T) {
	s := NewCSVSnapshotStore(t.TempDir(), storeLogger(t))

	_, err := s.LoadHistories(context.Background(), time.Time{})
	assert.Error(t, err)
}
