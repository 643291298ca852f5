package repository

import (
	"context"
	"fmt"

	"CurveScout/internal/domain/models"
	pkgkafka "CurveScout/pkg/kafka"
)

// KafkaPublisher emits each finished run as one summary message plus one
// flat message per ranked signal, keyed by symbol so per-instrument
// consumers keep ordering.
type KafkaPublisher struct {
	producer *pkgkafka.Producer
	topic    string
}

func NewKafkaPublisher(producer *pkgkafka.Producer, topic string) *KafkaPublisher {
	return &KafkaPublisher{producer: producer, topic: topic}
}

type runSummary struct {
	DataDate     string         `json:"data_date"`
	GeneratedAt  string         `json:"generated_at"`
	TotalSymbols int            `json:"total_symbols"`
	SignalCounts map[string]int `json:"signal_counts"`
}

func (p *KafkaPublisher) PublishRun(ctx context.Context, res *models.RunResult) error {
	summary := runSummary{
		DataDate:     res.DataDate.Format("2006-01-02"),
		GeneratedAt:  res.GeneratedAt.Format("2006-01-02T15:04:05Z"),
		TotalSymbols: res.TotalSymbols,
		SignalCounts: make(map[string]int, len(res.Strategies)),
	}

	var msgs []pkgkafka.Message
	for name, sr := range res.Strategies {
		summary.SignalCounts[name] = len(sr.BuySignals) + len(sr.SellSignals)
		for _, s := range append(append([]*models.Signal{}, sr.BuySignals...), sr.SellSignals...) {
			msgs = append(msgs, pkgkafka.Message{Key: []byte(s.Symbol), Value: s})
		}
	}

	key := []byte(summary.DataDate)
	if err := p.producer.Publish(ctx, p.topic, key, summary); err != nil {
		return fmt.Errorf("publish run summary: %w", err)
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := p.producer.PublishBatch(ctx, p.topic, msgs); err != nil {
		return fmt.Errorf("publish signals: %w", err)
	}
	return nil
}

func (p *KafkaPublisher) Close() error {
	return p.producer.Close()
}
