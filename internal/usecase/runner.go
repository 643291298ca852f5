package usecase

import (
	"context"
	"fmt"
	"time"

	"CurveScout/internal/domain/models"
	drepo "CurveScout/internal/domain/repository"
	dsvc "CurveScout/internal/domain/service"
	"CurveScout/pkg/logger"
)

// Runner orchestrates one full weekly run: load histories, generate and
// score signals, run the prior-week pass, attach commentary, then cache
// and publish the result. Publishing and commentary are best-effort; a
// run only fails when data cannot be loaded.
type Runner struct {
	store       drepo.SnapshotStore
	pub         drepo.Publisher
	cache       drepo.RunCache
	metrics     drepo.Metrics
	commentator dsvc.Commentator
	gen         *Generator
	log         *logger.Logger
}

func NewRunner(
	store drepo.SnapshotStore,
	pub drepo.Publisher,
	cache drepo.RunCache,
	metrics drepo.Metrics,
	commentator dsvc.Commentator,
	gen *Generator,
	log *logger.Logger,
) *Runner {
	return &Runner{
		store:       store,
		pub:         pub,
		cache:       cache,
		metrics:     metrics,
		commentator: commentator,
		gen:         gen,
		log:         log,
	}
}

// Run executes the pipeline for a target data date. A zero target means
// "latest available".
func (r *Runner) Run(ctx context.Context, target time.Time) (*models.RunResult, error) {
	start := time.Now()

	res, err := r.run(ctx, target)
	if err != nil {
		r.metrics.RecordRun("error", time.Since(start).Seconds())
		r.metrics.RecordError("run")
		return nil, err
	}
	r.metrics.RecordRun("ok", time.Since(start).Seconds())
	r.observe(res)

	r.log.Info("run complete",
		logger.String("data_date", res.DataDate.Format("2006-01-02")),
		logger.Int("symbols", res.TotalSymbols),
		logger.Duration("took", time.Since(start)))
	return res, nil
}

func (r *Runner) run(ctx context.Context, target time.Time) (*models.RunResult, error) {
	dataDate := target
	if dataDate.IsZero() {
		latest, err := r.store.LatestDate(ctx)
		if err != nil {
			return nil, fmt.Errorf("resolve data date: %w", err)
		}
		dataDate = latest
	}

	histories, err := r.store.LoadHistories(ctx, dataDate)
	if err != nil {
		return nil, fmt.Errorf("load histories: %w", err)
	}
	if len(histories) == 0 {
		return nil, fmt.Errorf("no snapshot data at %s", dataDate.Format("2006-01-02"))
	}
	rows := 0
	for _, h := range histories {
		rows += len(h)
	}
	r.metrics.RecordSnapshotRows(rows)

	res := r.gen.Generate(histories, dataDate)

	// Second pass, one week back, to mark continuity. The prior pass
	// works on its own snapshot subset and never sees current state.
	priorDate := dataDate.AddDate(0, 0, -7)
	priorHist, err := r.store.LoadHistories(ctx, priorDate)
	if err != nil {
		r.log.Warn("prior-week pass skipped", logger.Error(err))
	} else if len(priorHist) > 0 {
		priorRes := r.gen.Generate(priorHist, r.latestIn(priorHist, priorDate))
		active := models.ActivitySet{}
		active.Collect(priorRes)
		r.gen.ApplyPriorWeek(res, active, dataDate)
	}

	r.attachCommentary(ctx, res)

	if err := r.cache.StoreRun(ctx, res); err != nil {
		r.log.Warn("caching run failed", logger.Error(err))
	}
	if r.pub != nil {
		pubStart := time.Now()
		err := r.pub.PublishRun(ctx, res)
		r.metrics.RecordPublish(time.Since(pubStart).Seconds(), err)
		if err != nil {
			r.log.Error("publishing run failed", logger.Error(err))
		}
	}

	return res, nil
}

// latestIn returns the newest row date at or before the bound, so the
// prior-week pass evaluates symbols against what was then current.
func (r *Runner) latestIn(histories map[string][]*models.IndicatorRow, bound time.Time) time.Time {
	var latest time.Time
	for _, rows := range histories {
		if len(rows) > 0 && rows[0].Date.After(latest) && !rows[0].Date.After(bound) {
			latest = rows[0].Date
		}
	}
	return latest
}

func (r *Runner) attachCommentary(ctx context.Context, res *models.RunResult) {
	if r.commentator == nil {
		return
	}
	for _, sr := range res.Strategies {
		for _, s := range append(append([]*models.Signal{}, sr.BuySignals...), sr.SellSignals...) {
			text, err := r.commentator.Comment(ctx, s)
			if err != nil {
				r.log.Warn("commentary failed",
					logger.String("symbol", s.Symbol),
					logger.Error(err))
				continue
			}
			s.Commentary = text
		}
	}
}

func (r *Runner) observe(res *models.RunResult) {
	for name, sr := range res.Strategies {
		r.metrics.RecordSignals(name, string(models.DirectionBuy), len(sr.BuySignals))
		r.metrics.RecordSignals(name, string(models.DirectionSell), len(sr.SellSignals))
		for _, s := range sr.BuySignals {
			if s.IsFallback {
				r.metrics.RecordFallback(name)
			}
		}
		for _, s := range sr.SellSignals {
			if s.IsFallback {
				r.metrics.RecordFallback(name)
			}
		}
	}
}
