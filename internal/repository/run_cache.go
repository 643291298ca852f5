package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"CurveScout/internal/domain/models"
	"CurveScout/pkg/cache"
)

const (
	runKeyPrefix = "curvescout:run:"
	latestRunKey = "curvescout:run:latest"
)

// CachedRunStore keeps recent run results in the cache service, keyed
// by data date, with a pointer key for the most recent one. Runs are
// regenerated weekly so the TTL simply bounds stale reads.
type CachedRunStore struct {
	cache cache.Service
	ttl   time.Duration
}

func NewCachedRunStore(c cache.Service, ttl time.Duration) *CachedRunStore {
	return &CachedRunStore{cache: c, ttl: ttl}
}

func runKey(dataDate time.Time) string {
	return runKeyPrefix + dataDate.Format("2006-01-02")
}

func (s *CachedRunStore) StoreRun(ctx context.Context, res *models.RunResult) error {
	key := runKey(res.DataDate)
	if err := s.cache.Set(ctx, key, res, s.ttl); err != nil {
		return fmt.Errorf("store run: %w", err)
	}
	if err := s.cache.Set(ctx, latestRunKey, key, s.ttl); err != nil {
		return fmt.Errorf("store latest pointer: %w", err)
	}
	return nil
}

func (s *CachedRunStore) GetRun(ctx context.Context, dataDate time.Time) (*models.RunResult, bool, error) {
	return s.get(ctx, runKey(dataDate))
}

func (s *CachedRunStore) GetLatestRun(ctx context.Context) (*models.RunResult, bool, error) {
	var key string
	if err := s.cache.Get(ctx, latestRunKey, &key); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get latest pointer: %w", err)
	}
	return s.get(ctx, key)
}

func (s *CachedRunStore) get(ctx context.Context, key string) (*models.RunResult, bool, error) {
	var res models.RunResult
	if err := s.cache.Get(ctx, key, &res); err != nil {
		if errors.Is(err, cache.ErrCacheMiss) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get run: %w", err)
	}
	return &res, true, nil
}
