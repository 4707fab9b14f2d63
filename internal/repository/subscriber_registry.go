package repository

import (
	"context"
	"iter"
	"slices"
	"strings"
	"sync"

	"TradeFire/internal/domain/models"
	"TradeFire/internal/domain/repository"
)

const subscriberIDPrefix = "sub_"

// MemorySubscriberRegistry keeps subscribers in registration order for the
// process lifetime. Records are never modified in place, so a slice header
// read under the lock is a consistent snapshot.
type MemorySubscriberRegistry struct {
	mu   sync.RWMutex
	subs []models.Subscriber
	byID map[string]int
	opts storeOptions
}

var _ repository.SubscriberRegistry = (*MemorySubscriberRegistry)(nil)

// NewMemorySubscriberRegistry creates an empty registry.
func NewMemorySubscriberRegistry(opts ...Option) *MemorySubscriberRegistry {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &MemorySubscriberRegistry{byID: make(map[string]int), opts: o}
}

// Register validates s, assigns an id and appends it. Caller supplied ID,
// Active and CreatedAt are ignored.
func (r *MemorySubscriberRegistry) Register(_ context.Context, s models.Subscriber) (string, error) {
	s = normalizeSubscriber(s)
	if err := s.Validate(); err != nil {
		return "", err
	}

	s.ID = subscriberIDPrefix + r.opts.newID()
	s.Active = true
	s.CreatedAt = r.opts.now()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = len(r.subs)
	r.subs = append(r.subs, s)
	return s.ID, nil
}

// Matching yields active subscribers on channel whose contact for it is set
// and who follow topic. An untagged signal (empty topic) only reaches
// subscribers without a topic filter.
func (r *MemorySubscriberRegistry) Matching(channel models.Channel, topic string) iter.Seq[models.Subscriber] {
	snapshot := r.snapshot()
	return func(yield func(models.Subscriber) bool) {
		for _, s := range snapshot {
			if !s.Active || !s.Wants(channel) || s.Destination(channel) == "" {
				continue
			}
			if !s.FollowsTopic(topic) {
				continue
			}
			if !yield(s) {
				return
			}
		}
	}
}

// Get returns the subscriber with id.
func (r *MemorySubscriberRegistry) Get(_ context.Context, id string) (models.Subscriber, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.byID[id]
	if !ok {
		return models.Subscriber{}, &models.NotFoundError{Kind: "subscriber", ID: id}
	}
	return r.subs[i], nil
}

// List returns every subscriber in registration order.
func (r *MemorySubscriberRegistry) List(_ context.Context) []models.Subscriber {
	return slices.Clone(r.snapshot())
}

func (r *MemorySubscriberRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.subs)
}

// SetActive flips the active flag. The slice is copied so that sequences
// handed out earlier keep their view.
func (r *MemorySubscriberRegistry) SetActive(_ context.Context, id string, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.byID[id]
	if !ok {
		return &models.NotFoundError{Kind: "subscriber", ID: id}
	}
	next := slices.Clone(r.subs)
	next[i].Active = active
	r.subs = next
	return nil
}

func (r *MemorySubscriberRegistry) snapshot() []models.Subscriber {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.subs[:len(r.subs):len(r.subs)]
}

// normalizeSubscriber trims contacts and copies slices so the stored record
// does not alias caller memory. Duplicate alert methods collapse to one.
func normalizeSubscriber(s models.Subscriber) models.Subscriber {
	s.Name = strings.TrimSpace(s.Name)
	s.Email = strings.TrimSpace(s.Email)
	s.Phone = strings.TrimSpace(s.Phone)

	methods := make([]models.Channel, 0, len(s.AlertMethods))
	for _, c := range s.AlertMethods {
		if !slices.Contains(methods, c) {
			methods = append(methods, c)
		}
	}
	s.AlertMethods = methods

	topics := make([]string, 0, len(s.SelectedTopics))
	for _, t := range s.SelectedTopics {
		if t = strings.TrimSpace(t); t != "" && !slices.Contains(topics, t) {
			topics = append(topics, t)
		}
	}
	s.SelectedTopics = topics
	return s
}
