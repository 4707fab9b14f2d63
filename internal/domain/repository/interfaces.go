package repository

import (
	"context"
	"iter"

	"TradeFire/internal/domain/models"
)

// SubscriberRegistry holds subscriber records for the process lifetime.
type SubscriberRegistry interface {
	// Register validates s, assigns a fresh id and stores it.
	Register(ctx context.Context, s models.Subscriber) (string, error)
	// Matching yields active subscribers reachable on channel that follow topic,
	// in registration order. The sequence reads a snapshot taken at call time.
	Matching(channel models.Channel, topic string) iter.Seq[models.Subscriber]
	Get(ctx context.Context, id string) (models.Subscriber, error)
	List(ctx context.Context) []models.Subscriber
	Count() int
}

// ProfileStore holds strategy profiles and enforces the DRAFT -> ACTIVE lifecycle.
type ProfileStore interface {
	Create(ctx context.Context, fields models.ProfileFields) (string, error)
	Activate(ctx context.Context, id string) (models.StrategyProfile, error)
	// Update changes allow-listed fields only.
	Update(ctx context.Context, id string, fields models.ProfileFields) (models.StrategyProfile, error)
	Get(ctx context.Context, id string) (models.StrategyProfile, error)
}

// ChannelSender delivers one message to one destination.
type ChannelSender interface {
	Send(ctx context.Context, destination, subject, body string) error
}

// Senders maps each configured channel to its sender. A missing entry means
// the channel is not configured.
type Senders map[models.Channel]ChannelSender

// ReportStore keeps recent delivery reports for lookup by id.
type ReportStore interface {
	Save(ctx context.Context, r models.DeliveryReport) error
	Get(ctx context.Context, id string) (models.DeliveryReport, error)
}

// ReportPublisher forwards finished delivery reports to downstream consumers.
type ReportPublisher interface {
	Publish(ctx context.Context, r models.DeliveryReport) error
	Close() error
}

type Metrics interface {
	RecordSignal(result string)
	RecordDelivery(channel models.Channel, outcome models.Outcome)
	RecordLatency(op string, seconds float64)
}
