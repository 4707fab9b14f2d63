package usecase

import (
	"context"
	"time"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	"TradeFire/pkg/logger"
	"TradeFire/pkg/metrics"

	"github.com/google/uuid"
)

const reportIDPrefix = "rep_"

// PipelineOption configures AlertPipeline.
type PipelineOption func(*AlertPipeline)

// WithNormalizer replaces the default (price required) normalizer.
func WithNormalizer(n *SignalNormalizer) PipelineOption {
	return func(p *AlertPipeline) { p.normalizer = n }
}

// WithLevels replaces the default 1.5% / 3% level calculator.
func WithLevels(c *LevelCalculator) PipelineOption {
	return func(p *AlertPipeline) { p.levels = c }
}

// WithSubject sets the subject used for every alert.
func WithSubject(s string) PipelineOption {
	return func(p *AlertPipeline) {
		if s != "" {
			p.subject = s
		}
	}
}

// WithReportSink stores and publishes finished reports.
func WithReportSink(store domrepo.ReportStore, pub domrepo.ReportPublisher) PipelineOption {
	return func(p *AlertPipeline) {
		p.reports = store
		p.publisher = pub
	}
}

func WithPipelineMetrics(m domrepo.Metrics) PipelineOption {
	return func(p *AlertPipeline) {
		if m != nil {
			p.metrics = m
		}
	}
}

func WithPipelineLogger(l *logger.Logger) PipelineOption {
	return func(p *AlertPipeline) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithReportClock overrides the report timestamp source.
func WithReportClock(now func() time.Time) PipelineOption {
	return func(p *AlertPipeline) {
		if now != nil {
			p.now = now
		}
	}
}

// AlertPipeline runs one signal event end to end: normalize, compute levels,
// render, match subscribers and dispatch.
type AlertPipeline struct {
	normalizer *SignalNormalizer
	levels     *LevelCalculator
	registry   domrepo.SubscriberRegistry
	dispatcher *Dispatcher
	reports    domrepo.ReportStore
	publisher  domrepo.ReportPublisher
	metrics    domrepo.Metrics
	logger     *logger.Logger
	subject    string
	now        func() time.Time
}

func NewAlertPipeline(registry domrepo.SubscriberRegistry, dispatcher *Dispatcher, opts ...PipelineOption) *AlertPipeline {
	p := &AlertPipeline{
		normalizer: NewSignalNormalizer(PriceRequired, nil),
		levels:     NewLevelCalculator(DefaultStopLossPct, DefaultTakeProfitPct),
		registry:   registry,
		dispatcher: dispatcher,
		metrics:    metrics.Nop{},
		logger:     logger.Nop(),
		subject:    DefaultSubject,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Handle only fails with a ValidationError, before any subscriber is
// contacted. Delivery failures are reported inside the DeliveryReport.
func (p *AlertPipeline) Handle(ctx context.Context, raw models.RawSignal, senders domrepo.Senders) (models.DeliveryReport, error) {
	start := time.Now()

	sig, err := p.normalizer.Normalize(raw)
	if err != nil {
		p.metrics.RecordSignal("invalid")
		return models.DeliveryReport{}, err
	}
	p.metrics.RecordSignal("accepted")

	lv := p.levels.Compute(sig.Direction, sig.Price, sig.StopLoss, sig.TakeProfit)
	msg := RenderMessage(p.subject, sig, lv)

	var targets []Target
	for _, ch := range models.Channels {
		for s := range p.registry.Matching(ch, sig.Indicator) {
			targets = append(targets, Target{Subscriber: s, Channel: ch})
		}
	}

	report := p.dispatcher.Dispatch(ctx, targets, msg, senders)
	report.ID = reportIDPrefix + uuid.NewString()
	report.Symbol = sig.Symbol
	report.Direction = sig.Direction
	report.CreatedAt = p.now().UTC()

	p.logger.Info("signal dispatched",
		logger.String("report_id", report.ID),
		logger.String("symbol", sig.Symbol),
		logger.String("direction", string(sig.Direction)),
		logger.String("indicator", sig.Indicator),
		logger.Int("targets", len(targets)),
		logger.Int("delivered", report.Delivered),
		logger.Int("failed", report.Count(models.OutcomeFailed)),
		logger.Int("skipped", report.Count(models.OutcomeSkipped)),
	)

	p.keep(ctx, report)
	p.metrics.RecordLatency("handle", time.Since(start).Seconds())
	return report, nil
}

// keep stores and publishes the report. Failures are logged only.
func (p *AlertPipeline) keep(ctx context.Context, report models.DeliveryReport) {
	if p.reports != nil {
		if err := p.reports.Save(ctx, report); err != nil {
			p.logger.Warn("save delivery report", logger.String("report_id", report.ID), logger.Error(err))
		}
	}
	if p.publisher != nil {
		if err := p.publisher.Publish(ctx, report); err != nil {
			p.logger.Warn("publish delivery report", logger.String("report_id", report.ID), logger.Error(err))
		}
	}
}
