package usecase

import (
	"context"
	"encoding/json"
	"fmt"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	"TradeFire/pkg/kafka"
	"TradeFire/pkg/logger"
)

// KafkaSignalsHandler feeds signal events from a topic into the pipeline.
type KafkaSignalsHandler struct {
	topic    string
	pipeline *AlertPipeline
	senders  domrepo.Senders
	logger   *logger.Logger
}

func NewKafkaSignalsHandler(topic string, pipeline *AlertPipeline, senders domrepo.Senders, l *logger.Logger) *KafkaSignalsHandler {
	if l == nil {
		l = logger.Nop()
	}
	return &KafkaSignalsHandler{topic: topic, pipeline: pipeline, senders: senders, logger: l}
}

func (h *KafkaSignalsHandler) Topic() string { return h.topic }

// Handle returns an error only for undecodable payloads so they reach the
// DLQ. Invalid signals are logged and dropped: replaying them cannot help.
func (h *KafkaSignalsHandler) Handle(ctx context.Context, b []byte) error {
	var raw models.RawSignal
	if err := json.Unmarshal(b, &raw); err != nil {
		return fmt.Errorf("decode signal: %w", err)
	}
	if raw == nil {
		return fmt.Errorf("decode signal: empty payload")
	}

	report, err := h.pipeline.Handle(ctx, raw, h.senders)
	if err != nil {
		if models.IsValidation(err) {
			h.logger.Warn("kafka signal rejected",
				logger.String("topic", h.topic),
				logger.String("signal", describe(raw)),
				logger.Error(err),
			)
			return nil
		}
		return err
	}

	h.logger.Debug("kafka signal handled",
		logger.String("trace_id", kafka.TraceIDFrom(ctx)),
		logger.String("report_id", report.ID),
		logger.Int("delivered", report.Delivered),
	)
	return nil
}

var _ kafka.MessageHandler = (*KafkaSignalsHandler)(nil)
