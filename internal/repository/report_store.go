package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"TradeFire/internal/domain/models"
	"TradeFire/internal/domain/repository"
	"TradeFire/pkg/cache"
)

const reportKeyPrefix = "report"

// CachedReportStore keeps delivery reports in a cache for a limited time.
type CachedReportStore struct {
	cache cache.Service
	ttl   time.Duration
}

var _ repository.ReportStore = (*CachedReportStore)(nil)

func NewCachedReportStore(c cache.Service, ttl time.Duration) *CachedReportStore {
	return &CachedReportStore{cache: c, ttl: ttl}
}

func (s *CachedReportStore) Save(ctx context.Context, r models.DeliveryReport) error {
	if r.ID == "" {
		return models.NewValidationError("report without id", "id")
	}
	if err := s.cache.Set(ctx, cache.GenerateKey(reportKeyPrefix, r.ID), r, s.ttl); err != nil {
		return fmt.Errorf("save report %s: %w", r.ID, err)
	}
	return nil
}

// Get returns the report, or a NotFoundError once it expired.
func (s *CachedReportStore) Get(ctx context.Context, id string) (models.DeliveryReport, error) {
	var r models.DeliveryReport
	err := s.cache.Get(ctx, cache.GenerateKey(reportKeyPrefix, id), &r)
	if errors.Is(err, cache.ErrCacheMiss) {
		return models.DeliveryReport{}, &models.NotFoundError{Kind: "report", ID: id}
	}
	if err != nil {
		return models.DeliveryReport{}, fmt.Errorf("load report %s: %w", id, err)
	}
	return r, nil
}
