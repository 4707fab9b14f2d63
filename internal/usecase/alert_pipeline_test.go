package usecase

import (
	"context"
	"errors"
	"iter"
	"strings"
	"testing"
	"time"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
	"TradeFire/internal/repository"
)

func newPipeline(t *testing.T, opts ...PipelineOption) (*AlertPipeline, *repository.MemorySubscriberRegistry) {
	t.Helper()
	reg := repository.NewMemorySubscriberRegistry()
	return NewAlertPipeline(reg, NewDispatcher(4, nil, nil), opts...), reg
}

func register(t *testing.T, reg domrepo.SubscriberRegistry, s models.Subscriber) string {
	t.Helper()
	id, err := reg.Register(context.Background(), s)
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	return id
}

func TestHandleSentAndFailed(t *testing.T) {
	reports := &memReports{}
	pub := &memPublisher{}
	p, reg := newPipeline(t, WithReportSink(reports, pub))
	a := register(t, reg, models.Subscriber{Name: "A", Email: "a@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})
	b := register(t, reg, models.Subscriber{Name: "B", Phone: "+15550001", AlertMethods: []models.Channel{models.ChannelSMS}})

	email := &fakeSender{}
	sms := &fakeSender{fail: map[string]error{"+15550001": errUnreachable}}
	report, err := p.Handle(context.Background(),
		models.RawSignal{"symbol": "BTCUSD", "dir": "LONG", "price": 100.0, "signal": "breakout"},
		domrepo.Senders{models.ChannelEmail: email, models.ChannelSMS: sms})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}

	if report.Delivered != 1 || report.Subscribers != 2 {
		t.Fatalf("unexpected totals %+v", report)
	}
	if r := report.Results[0]; r.SubscriberID != a || r.Outcome != models.OutcomeSent {
		t.Fatalf("A: %+v", r)
	}
	if r := report.Results[1]; r.SubscriberID != b || r.Outcome != models.OutcomeFailed || r.Error == "" {
		t.Fatalf("B: %+v", r)
	}
	if !strings.HasPrefix(report.ID, "rep_") || report.Symbol != "BTCUSD" || report.Direction != models.DirectionLong {
		t.Fatalf("report metadata %+v", report)
	}

	want := "🔥 LONG BTCUSD\nSignal: breakout\nEntry: 100.00\nSL: 98.50\nTP: 103.00"
	if email.count() != 1 || email.sent[0].body != want || email.sent[0].subject != "TradeFire Alert" {
		t.Fatalf("email payload %+v", email.sent)
	}
	if len(reports.saved) != 1 || len(pub.published) != 1 || pub.published[0].ID != report.ID {
		t.Fatalf("report not kept: saved=%d published=%d", len(reports.saved), len(pub.published))
	}
}

func TestHandleTopicFiltering(t *testing.T) {
	p, reg := newPipeline(t)
	one := register(t, reg, models.Subscriber{Email: "1@x.io", AlertMethods: []models.Channel{models.ChannelEmail}, SelectedTopics: []string{"breakout"}})
	register(t, reg, models.Subscriber{Email: "2@x.io", AlertMethods: []models.Channel{models.ChannelEmail}, SelectedTopics: []string{"reversal"}})
	three := register(t, reg, models.Subscriber{Email: "3@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})

	report, err := p.Handle(context.Background(),
		models.RawSignal{"symbol": "ETH", "dir": "short", "price": 10.0, "signal": "s", "indicator": "breakout"},
		domrepo.Senders{models.ChannelEmail: &fakeSender{}})
	if err != nil {
		t.Fatalf("handle: %v", err)
	}
	if len(report.Results) != 2 || report.Results[0].SubscriberID != one || report.Results[1].SubscriberID != three {
		t.Fatalf("unexpected results %+v", report.Results)
	}
}

func TestHandleOrdersEmailBeforeSMS(t *testing.T) {
	p, reg := newPipeline(t)
	both := register(t, reg, models.Subscriber{Email: "b@x.io", Phone: "+1", AlertMethods: []models.Channel{models.ChannelSMS, models.ChannelEmail}})
	mail := register(t, reg, models.Subscriber{Email: "m@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})

	report, _ := p.Handle(context.Background(),
		models.RawSignal{"symbol": "X", "dir": "long", "price": 1.0, "signal": "s"},
		domrepo.Senders{})

	got := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		got = append(got, r.SubscriberID+"/"+string(r.Channel)+"/"+string(r.Outcome))
	}
	want := []string{both + "/EMAIL/SKIPPED", mail + "/EMAIL/SKIPPED", both + "/SMS/SKIPPED"}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("got %v want %v", got, want)
	}
	if report.Subscribers != 2 || report.Delivered != 0 {
		t.Fatalf("totals %+v", report)
	}
}

// countingRegistry fails the test if Matching is reached.
type countingRegistry struct {
	domrepo.SubscriberRegistry
	t *testing.T
}

func (c countingRegistry) Matching(models.Channel, string) iter.Seq[models.Subscriber] {
	c.t.Fatalf("registry queried for an invalid signal")
	return nil
}

func TestHandleValidationShortCircuits(t *testing.T) {
	sender := &fakeSender{}
	p := NewAlertPipeline(countingRegistry{t: t}, NewDispatcher(1, nil, nil))

	_, err := p.Handle(context.Background(), models.RawSignal{"symbol": "BTC", "dir": "up"}, domrepo.Senders{models.ChannelEmail: sender})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if sender.count() != 0 {
		t.Fatalf("sender invoked for invalid signal")
	}
}

func TestHandleLevelLessSignal(t *testing.T) {
	p, reg := newPipeline(t, WithNormalizer(NewSignalNormalizer(PriceOptional, nil)), WithSubject("Heads up"))
	register(t, reg, models.Subscriber{Email: "a@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})
	email := &fakeSender{}

	if _, err := p.Handle(context.Background(), models.RawSignal{"symbol": "X", "dir": "long", "signal": "s"}, domrepo.Senders{models.ChannelEmail: email}); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if email.sent[0].body != "🔥 LONG X\nSignal: s" || email.sent[0].subject != "Heads up" {
		t.Fatalf("unexpected %+v", email.sent[0])
	}
}

func TestHandleIgnoresSinkFailures(t *testing.T) {
	fixed := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	p, reg := newPipeline(t,
		WithReportSink(&memReports{err: errors.New("redis down")}, &memPublisher{err: errors.New("kafka down")}),
		WithReportClock(func() time.Time { return fixed }),
	)
	register(t, reg, models.Subscriber{Email: "a@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})

	report, err := p.Handle(context.Background(), models.RawSignal{"symbol": "X", "dir": "long", "price": 5.0, "signal": "s"}, domrepo.Senders{models.ChannelEmail: &fakeSender{}})
	if err != nil {
		t.Fatalf("sink failure leaked: %v", err)
	}
	if report.Delivered != 1 || !report.CreatedAt.Equal(fixed) {
		t.Fatalf("unexpected %+v", report)
	}
}

func TestKafkaSignalsHandler(t *testing.T) {
	p, reg := newPipeline(t)
	register(t, reg, models.Subscriber{Email: "a@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})
	email := &fakeSender{}
	h := NewKafkaSignalsHandler("tradefire.signals", p, domrepo.Senders{models.ChannelEmail: email}, nil)

	if h.Topic() != "tradefire.signals" {
		t.Fatalf("topic = %s", h.Topic())
	}
	if err := h.Handle(context.Background(), []byte(`{"ticker":"BTCUSD","side":"long","close":100,"label":"x"}`)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if email.count() != 1 {
		t.Fatalf("expected one email, got %d", email.count())
	}
	if err := h.Handle(context.Background(), []byte(`{"ticker":"BTCUSD"}`)); err != nil {
		t.Fatalf("invalid signal should be dropped, got %v", err)
	}
	if err := h.Handle(context.Background(), []byte(`not json`)); err == nil {
		t.Fatalf("expected decode error")
	}
}
