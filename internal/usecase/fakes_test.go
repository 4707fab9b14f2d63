package usecase

import (
	"context"
	"errors"
	"sync"

	"TradeFire/internal/domain/models"
)

type sentMessage struct {
	destination string
	subject     string
	body        string
}

// fakeSender records deliveries and fails for destinations listed in fail.
type fakeSender struct {
	mu    sync.Mutex
	sent  []sentMessage
	fail  map[string]error
	panic bool
}

func (f *fakeSender) Send(_ context.Context, destination, subject, body string) error {
	if f.panic {
		panic("sender exploded")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.fail[destination]; err != nil {
		return err
	}
	f.sent = append(f.sent, sentMessage{destination, subject, body})
	return nil
}

func (f *fakeSender) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var errUnreachable = errors.New("carrier unreachable")

type memReports struct {
	mu    sync.Mutex
	saved []models.DeliveryReport
	err   error
}

func (m *memReports) Save(_ context.Context, r models.DeliveryReport) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.saved = append(m.saved, r)
	return nil
}

func (m *memReports) Get(_ context.Context, id string) (models.DeliveryReport, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.saved {
		if r.ID == id {
			return r, nil
		}
	}
	return models.DeliveryReport{}, &models.NotFoundError{Kind: "report", ID: id}
}

type memPublisher struct {
	published []models.DeliveryReport
	err       error
}

func (p *memPublisher) Publish(_ context.Context, r models.DeliveryReport) error {
	if p.err != nil {
		return p.err
	}
	p.published = append(p.published, r)
	return nil
}

func (p *memPublisher) Close() error { return nil }
