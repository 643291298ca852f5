package repository

import (
	"context"
	"time"

	"CurveScout/internal/domain/models"
)

// SnapshotStore provides read access to weekly indicator snapshots.
// Histories are grouped by symbol and sorted by date descending; when
// asOf is non-zero only rows dated at or before it are returned.
type SnapshotStore interface {
	LoadHistories(ctx context.Context, asOf time.Time) (map[string][]*models.IndicatorRow, error)
	LatestDate(ctx context.Context) (time.Time, error)
	Health(ctx context.Context) error
	Close() error
}

// Publisher emits finished runs to downstream consumers.
type Publisher interface {
	PublishRun(ctx context.Context, res *models.RunResult) error
	Close() error
}

// RunCache stores recent run results keyed by data date.
type RunCache interface {
	StoreRun(ctx context.Context, res *models.RunResult) error
	GetRun(ctx context.Context, dataDate time.Time) (*models.RunResult, bool, error)
	GetLatestRun(ctx context.Context) (*models.RunResult, bool, error)
}

// Metrics records engine observability counters.
type Metrics interface {
	RecordRun(status string, seconds float64)
	RecordSnapshotRows(n int)
	RecordSignals(strategy string, direction string, n int)
	RecordFallback(strategy string)
	RecordPublish(seconds float64, err error)
	RecordError(kind string)
}
