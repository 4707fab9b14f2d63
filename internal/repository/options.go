package repository

import (
	"time"

	"github.com/google/uuid"
)

// Option configures the in-memory stores.
type Option func(*storeOptions)

type storeOptions struct {
	now   func() time.Time
	newID func() string
}

func defaultOptions() storeOptions {
	return storeOptions{
		now:   func() time.Time { return time.Now().UTC() },
		newID: uuid.NewString,
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) {
		if now != nil {
			o.now = now
		}
	}
}

// WithIDGenerator overrides the id suffix generator.
func WithIDGenerator(gen func() string) Option {
	return func(o *storeOptions) {
		if gen != nil {
			o.newID = gen
		}
	}
}
