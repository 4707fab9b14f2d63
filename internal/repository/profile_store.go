package repository

import (
	"context"
	"maps"
	"slices"
	"sort"
	"sync"

	"TradeFire/internal/domain/models"
	"TradeFire/internal/domain/repository"
)

const profileIDPrefix = "pf_"

// MemoryProfileStore holds strategy profiles for the process lifetime.
type MemoryProfileStore struct {
	mu       sync.RWMutex
	profiles map[string]*models.StrategyProfile
	opts     storeOptions
}

var _ repository.ProfileStore = (*MemoryProfileStore)(nil)

func NewMemoryProfileStore(opts ...Option) *MemoryProfileStore {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemoryProfileStore{profiles: make(map[string]*models.StrategyProfile), opts: o}
}

// Create stores a DRAFT profile holding a copy of fields.
func (s *MemoryProfileStore) Create(_ context.Context, fields models.ProfileFields) (string, error) {
	if len(fields) == 0 {
		return "", models.NewValidationError("empty profile")
	}

	now := s.opts.now()
	p := &models.StrategyProfile{
		ID:        profileIDPrefix + s.opts.newID(),
		Status:    models.ProfileDraft,
		Fields:    maps.Clone(fields),
		CreatedAt: now,
		UpdatedAt: now,
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles[p.ID] = p
	return p.ID, nil
}

// Activate moves a DRAFT profile to ACTIVE. Activating an ACTIVE profile
// refreshes ActivatedAt.
func (s *MemoryProfileStore) Activate(_ context.Context, id string) (models.StrategyProfile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return models.StrategyProfile{}, &models.NotFoundError{Kind: "profile", ID: id}
	}
	now := s.opts.now()
	p.Status = models.ProfileActive
	p.ActivatedAt = &now
	p.UpdatedAt = now
	return p.Clone(), nil
}

// Update merges allow-listed fields into the profile. A single disallowed key
// rejects the whole update.
func (s *MemoryProfileStore) Update(_ context.Context, id string, fields models.ProfileFields) (models.StrategyProfile, error) {
	if len(fields) == 0 {
		return models.StrategyProfile{}, models.NewValidationError("empty update")
	}
	var rejected []string
	for k := range fields {
		if !slices.Contains(models.ProfileWritableFields, k) {
			rejected = append(rejected, k)
		}
	}
	if len(rejected) > 0 {
		sort.Strings(rejected)
		return models.StrategyProfile{}, models.NewValidationError("field not writable", rejected...)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.profiles[id]
	if !ok {
		return models.StrategyProfile{}, &models.NotFoundError{Kind: "profile", ID: id}
	}
	next := maps.Clone(p.Fields)
	if next == nil {
		next = models.ProfileFields{}
	}
	maps.Copy(next, fields)
	p.Fields = next
	p.UpdatedAt = s.opts.now()
	return p.Clone(), nil
}

func (s *MemoryProfileStore) Get(_ context.Context, id string) (models.StrategyProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.profiles[id]
	if !ok {
		return models.StrategyProfile{}, &models.NotFoundError{Kind: "profile", ID: id}
	}
	return p.Clone(), nil
}

// Len returns the number of stored profiles.
func (s *MemoryProfileStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.profiles)
}
