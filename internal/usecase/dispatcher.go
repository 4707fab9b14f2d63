package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	"TradeFire/pkg/logger"
	"TradeFire/pkg/metrics"

	"github.com/sourcegraph/conc/pool"
)

const DefaultWorkers = 8

// Target is one delivery attempt: a subscriber on one channel.
type Target struct {
	Subscriber models.Subscriber
	Channel    models.Channel
}

// Dispatcher fans a message out to targets over a bounded worker pool.
type Dispatcher struct {
	workers int
	metrics domrepo.Metrics
	logger  *logger.Logger
}

func NewDispatcher(workers int, m domrepo.Metrics, l *logger.Logger) *Dispatcher {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	if m == nil {
		m = metrics.Nop{}
	}
	if l == nil {
		l = logger.Nop()
	}
	return &Dispatcher{workers: workers, metrics: m, logger: l}
}

// Dispatch attempts every target at most once and never fails. Results keep
// the order of targets. A channel without a sender yields SKIPPED; a sender
// error or panic yields FAILED and does not affect sibling attempts.
func (d *Dispatcher) Dispatch(ctx context.Context, targets []Target, msg models.Message, senders domrepo.Senders) models.DeliveryReport {
	start := time.Now()
	results := make([]models.DeliveryResult, len(targets))

	p := pool.New().WithMaxGoroutines(d.workers)
	for i, t := range targets {
		sender := senders[t.Channel]
		if sender == nil {
			results[i] = models.DeliveryResult{
				SubscriberID: t.Subscriber.ID,
				Channel:      t.Channel,
				Outcome:      models.OutcomeSkipped,
			}
			continue
		}
		p.Go(func() {
			results[i] = d.attempt(ctx, t, sender, msg)
		})
	}
	p.Wait()

	report := models.DeliveryReport{Results: results}
	seen := make(map[string]struct{}, len(targets))
	for _, r := range results {
		seen[r.SubscriberID] = struct{}{}
		if r.Outcome == models.OutcomeSent {
			report.Delivered++
		}
		d.metrics.RecordDelivery(r.Channel, r.Outcome)
	}
	report.Subscribers = len(seen)
	d.metrics.RecordLatency("dispatch", time.Since(start).Seconds())
	return report
}

// DispatchSubscribers expands each subscriber into one target per alert method.
func (d *Dispatcher) DispatchSubscribers(ctx context.Context, subs []models.Subscriber, msg models.Message, senders domrepo.Senders) models.DeliveryReport {
	var targets []Target
	for _, s := range subs {
		for _, c := range s.AlertMethods {
			targets = append(targets, Target{Subscriber: s, Channel: c})
		}
	}
	return d.Dispatch(ctx, targets, msg, senders)
}

func (d *Dispatcher) attempt(ctx context.Context, t Target, sender domrepo.ChannelSender, msg models.Message) (res models.DeliveryResult) {
	res = models.DeliveryResult{SubscriberID: t.Subscriber.ID, Channel: t.Channel}
	dest := t.Subscriber.Destination(t.Channel)

	defer func() {
		if r := recover(); r != nil {
			res.Outcome = models.OutcomeFailed
			res.Error = fmt.Sprintf("sender panic: %v", r)
			d.logger.Error("delivery panic",
				logger.String("subscriber", t.Subscriber.ID),
				logger.String("channel", string(t.Channel)),
				logger.Any("panic", r),
			)
		}
	}()

	var err error
	if dest == "" {
		err = errors.New("no destination for channel")
	} else {
		err = sender.Send(ctx, dest, msg.Subject, msg.Body)
	}
	if err != nil {
		var de *models.DeliveryError
		if !errors.As(err, &de) {
			de = &models.DeliveryError{Channel: t.Channel, Destination: dest, Err: err}
		}
		d.logger.Warn("delivery failed",
			logger.String("subscriber", t.Subscriber.ID),
			logger.Error(de),
		)
		res.Outcome = models.OutcomeFailed
		res.Error = err.Error()
		return res
	}

	res.Outcome = models.OutcomeSent
	return res
}
