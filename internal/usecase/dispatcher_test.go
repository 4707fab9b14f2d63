package usecase

import (
	"context"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"TradeFire/internal/domain/models"
	domrepo "TradeFire/internal/domain/repository"
)

var alertMsg = models.Message{Subject: "TradeFire Alert", Body: "🔥 LONG BTCUSD"}

func subscriberA() models.Subscriber {
	return models.Subscriber{ID: "sub_a", Email: "a@x.io", AlertMethods: []models.Channel{models.ChannelEmail}, Active: true}
}

func subscriberB() models.Subscriber {
	return models.Subscriber{ID: "sub_b", Phone: "+15550001", AlertMethods: []models.Channel{models.ChannelSMS}, Active: true}
}

func TestDispatchPartialFailure(t *testing.T) {
	email := &fakeSender{}
	sms := &fakeSender{fail: map[string]error{"+15550001": errUnreachable}}
	d := NewDispatcher(4, nil, nil)

	report := d.DispatchSubscribers(context.Background(),
		[]models.Subscriber{subscriberA(), subscriberB()}, alertMsg,
		domrepo.Senders{models.ChannelEmail: email, models.ChannelSMS: sms})

	if report.Delivered != 1 || report.Subscribers != 2 || len(report.Results) != 2 {
		t.Fatalf("unexpected report %+v", report)
	}
	a, b := report.Results[0], report.Results[1]
	if a.SubscriberID != "sub_a" || a.Outcome != models.OutcomeSent || a.Error != "" {
		t.Fatalf("A: %+v", a)
	}
	if b.SubscriberID != "sub_b" || b.Outcome != models.OutcomeFailed || !strings.Contains(b.Error, "carrier unreachable") {
		t.Fatalf("B: %+v", b)
	}
}

func TestDispatchSkipsUnconfiguredChannel(t *testing.T) {
	both := models.Subscriber{ID: "sub_c", Email: "c@x.io", Phone: "+1", AlertMethods: []models.Channel{models.ChannelEmail, models.ChannelSMS}}
	email := &fakeSender{}

	report := NewDispatcher(0, nil, nil).DispatchSubscribers(context.Background(),
		[]models.Subscriber{both}, alertMsg, domrepo.Senders{models.ChannelEmail: email})

	if report.Delivered != 1 || report.Subscribers != 1 {
		t.Fatalf("unexpected report %+v", report)
	}
	if report.Results[1].Outcome != models.OutcomeSkipped || report.Results[1].Error != "" {
		t.Fatalf("expected SKIPPED without error, got %+v", report.Results[1])
	}
}

func TestDispatchRecoversSenderPanic(t *testing.T) {
	report := NewDispatcher(2, nil, nil).DispatchSubscribers(context.Background(),
		[]models.Subscriber{subscriberA(), subscriberB()}, alertMsg,
		domrepo.Senders{models.ChannelEmail: &fakeSender{panic: true}, models.ChannelSMS: &fakeSender{}})

	if report.Results[0].Outcome != models.OutcomeFailed || !strings.Contains(report.Results[0].Error, "panic") {
		t.Fatalf("A: %+v", report.Results[0])
	}
	if report.Results[1].Outcome != models.OutcomeSent {
		t.Fatalf("B should be unaffected: %+v", report.Results[1])
	}
}

type slowSender struct {
	inFlight, peak atomic.Int32
}

func (s *slowSender) Send(context.Context, string, string, string) error {
	n := s.inFlight.Add(1)
	for {
		p := s.peak.Load()
		if n <= p || s.peak.CompareAndSwap(p, n) {
			break
		}
	}
	time.Sleep(5 * time.Millisecond)
	s.inFlight.Add(-1)
	return nil
}

func TestDispatchBoundsConcurrency(t *testing.T) {
	var subs []models.Subscriber
	for i := 0; i < 20; i++ {
		s := subscriberA()
		s.ID = "sub_" + string(rune('a'+i))
		subs = append(subs, s)
	}
	sender := &slowSender{}
	report := NewDispatcher(3, nil, nil).DispatchSubscribers(context.Background(), subs, alertMsg, domrepo.Senders{models.ChannelEmail: sender})

	if report.Delivered != 20 {
		t.Fatalf("delivered = %d", report.Delivered)
	}
	if p := sender.peak.Load(); p > 3 {
		t.Fatalf("peak concurrency %d exceeds 3 workers", p)
	}
	for i, r := range report.Results {
		if r.SubscriberID != subs[i].ID {
			t.Fatalf("result %d out of order: %s", i, r.SubscriberID)
		}
	}
}

func TestDispatchEmpty(t *testing.T) {
	report := NewDispatcher(1, nil, nil).Dispatch(context.Background(), nil, alertMsg, nil)
	if report.Delivered != 0 || report.Subscribers != 0 || len(report.Results) != 0 {
		t.Fatalf("unexpected %+v", report)
	}
}
