package repository

import (
	"context"

	"TradeFire/internal/domain/models"
	"TradeFire/internal/domain/repository"
)

// Publisher is the subset of pkg/kafka.Producer the report publisher needs.
type Publisher interface {
	Publish(ctx context.Context, topic string, key []byte, value interface{}) error
	Close() error
}

// KafkaReportPublisher writes delivery reports to a topic keyed by symbol.
type KafkaReportPublisher struct {
	producer Publisher
	topic    string
}

var _ repository.ReportPublisher = (*KafkaReportPublisher)(nil)

func NewKafkaReportPublisher(p Publisher, topic string) *KafkaReportPublisher {
	return &KafkaReportPublisher{producer: p, topic: topic}
}

func (p *KafkaReportPublisher) Publish(ctx context.Context, r models.DeliveryReport) error {
	return p.producer.Publish(ctx, p.topic, []byte(r.Symbol), r)
}

func (p *KafkaReportPublisher) Close() error {
	return p.producer.Close()
}

// NopReportPublisher drops reports; used when Kafka is not configured.
type NopReportPublisher struct{}

func (NopReportPublisher) Publish(context.Context, models.DeliveryReport) error { return nil }
func (NopReportPublisher) Close() error                                         { return nil }
