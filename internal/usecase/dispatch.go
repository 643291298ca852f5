package usecase

import (
	"context"
	"fmt"
	"time"

	"CurveScout/pkg/logger"
	"CurveScout/pkg/queue"
)

// RunJobType is the queue message type for signal generation runs.
const RunJobType = "signal_run"

// RunPayload is the queued request for one generation run.
type RunPayload struct {
	Date string `json:"date,omitempty"`
}

// RunJob executes queued generation runs on a queue worker.
type RunJob struct {
	runner *Runner
	log    *logger.Logger
}

func NewRunJob(runner *Runner, log *logger.Logger) *RunJob {
	return &RunJob{runner: runner, log: log}
}

func (j *RunJob) Name() string { return "signal-run" }

func (j *RunJob) Type() string { return RunJobType }

func (j *RunJob) Handle(ctx context.Context, payload interface{}) error {
	p, err := queue.ParsePayload[RunPayload](payload)
	if err != nil {
		return fmt.Errorf("parse run payload: %w", err)
	}

	var target time.Time
	if p.Date != "" {
		target, err = time.Parse("2006-01-02", p.Date)
		if err != nil {
			return fmt.Errorf("parse run date %q: %w", p.Date, err)
		}
	}

	_, err = j.runner.Run(ctx, target)
	return err
}

// QueueDispatcher enqueues run requests for the queue workers.
type QueueDispatcher struct {
	queue queue.QueueService
}

func NewQueueDispatcher(q queue.QueueService) *QueueDispatcher {
	return &QueueDispatcher{queue: q}
}

func (d *QueueDispatcher) Dispatch(ctx context.Context, target time.Time) error {
	var p RunPayload
	if !target.IsZero() {
		p.Date = target.Format("2006-01-02")
	}
	return d.queue.PublishMessage(ctx, RunJobType, p)
}

// InlineDispatcher runs synchronously, for deployments without Redis.
type InlineDispatcher struct {
	runner *Runner
}

func NewInlineDispatcher(runner *Runner) *InlineDispatcher {
	return &InlineDispatcher{runner: runner}
}

func (d *InlineDispatcher) Dispatch(ctx context.Context, target time.Time) error {
	_, err := d.runner.Run(ctx, target)
	return err
}
