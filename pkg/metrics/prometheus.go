package metrics

import (
	"TradeFire/internal/domain/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	signalsTotal    *prometheus.CounterVec
	deliveriesTotal *prometheus.CounterVec
	latency         *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder registered on reg.
// A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)
	return &Recorder{
		signalsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradefire_signals_total",
				Help: "Total number of inbound signal events by handling result",
			},
			[]string{"result"},
		),
		deliveriesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tradefire_deliveries_total",
				Help: "Total number of delivery attempts by channel and outcome",
			},
			[]string{"channel", "outcome"},
		),
		latency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "tradefire_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordSignal counts an inbound signal by result (accepted, invalid, unauthorized).
func (r *Recorder) RecordSignal(result string) {
	r.signalsTotal.WithLabelValues(result).Inc()
}

// RecordDelivery counts one delivery attempt.
func (r *Recorder) RecordDelivery(channel models.Channel, outcome models.Outcome) {
	r.deliveriesTotal.WithLabelValues(string(channel), string(outcome)).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}

// Nop discards all measurements.
type Nop struct{}

func (Nop) RecordSignal(string)                           {}
func (Nop) RecordDelivery(models.Channel, models.Outcome) {}
func (Nop) RecordLatency(string, float64)                 {}
