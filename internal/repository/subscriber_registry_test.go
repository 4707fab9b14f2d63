package repository

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"

	"TradeFire/internal/domain/models"
)

func collect(r *MemorySubscriberRegistry, c models.Channel, topic string) []string {
	var ids []string
	for s := range r.Matching(c, topic) {
		ids = append(ids, s.Name)
	}
	return ids
}

func TestRegisterAssignsID(t *testing.T) {
	r := NewMemorySubscriberRegistry(WithIDGenerator(func() string { return "fixed" }))
	id, err := r.Register(context.Background(), models.Subscriber{
		ID:           "caller-id",
		Name:         "Ann",
		Email:        " ann@x.io ",
		AlertMethods: []models.Channel{models.ChannelEmail, models.ChannelEmail},
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if id != "sub_fixed" {
		t.Fatalf("id = %q", id)
	}
	got, err := r.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.Active || got.Email != "ann@x.io" || len(got.AlertMethods) != 1 || got.CreatedAt.IsZero() {
		t.Fatalf("unexpected stored record %+v", got)
	}
}

func TestRegisterRejectsMissingContact(t *testing.T) {
	r := NewMemorySubscriberRegistry()
	_, err := r.Register(context.Background(), models.Subscriber{
		Name:         "Bob",
		AlertMethods: []models.Channel{models.ChannelEmail, models.ChannelSMS},
	})
	if !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if !strings.Contains(err.Error(), "email") || !strings.Contains(err.Error(), "phone") {
		t.Fatalf("expected both fields reported, got %v", err)
	}
	if r.Count() != 0 {
		t.Fatalf("registry grew on failure: %d", r.Count())
	}

	if _, err := r.Register(context.Background(), models.Subscriber{Name: "NoMethods", Email: "x@y.z"}); !models.IsValidation(err) {
		t.Fatalf("expected validation error for empty alert methods, got %v", err)
	}
}

func TestConcurrentRegistrationYieldsDistinctIDs(t *testing.T) {
	r := NewMemorySubscriberRegistry()
	const n = 200

	var wg sync.WaitGroup
	ids := make([]string, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id, err := r.Register(context.Background(), models.Subscriber{
				Name:         fmt.Sprintf("s%d", i),
				Phone:        "+15550000000",
				AlertMethods: []models.Channel{models.ChannelSMS},
			})
			if err != nil {
				t.Errorf("register %d: %v", i, err)
			}
			ids[i] = id
		}(i)
	}
	wg.Wait()

	seen := make(map[string]bool, n)
	for _, id := range ids {
		if seen[id] {
			t.Fatalf("duplicate id %s", id)
		}
		seen[id] = true
	}
	if r.Count() != n {
		t.Fatalf("count = %d, want %d", r.Count(), n)
	}
}

func TestMatchingTopicsAndChannels(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySubscriberRegistry()
	mustRegister := func(s models.Subscriber) {
		t.Helper()
		if _, err := r.Register(ctx, s); err != nil {
			t.Fatalf("register %s: %v", s.Name, err)
		}
	}
	mustRegister(models.Subscriber{Name: "one", Email: "1@x.io", AlertMethods: []models.Channel{models.ChannelEmail}, SelectedTopics: []string{"breakout"}})
	mustRegister(models.Subscriber{Name: "two", Email: "2@x.io", AlertMethods: []models.Channel{models.ChannelEmail}, SelectedTopics: []string{"reversal"}})
	mustRegister(models.Subscriber{Name: "three", Email: "3@x.io", Phone: "+1555", AlertMethods: []models.Channel{models.ChannelEmail, models.ChannelSMS}})

	if got := collect(r, models.ChannelEmail, "breakout"); fmt.Sprint(got) != "[one three]" {
		t.Fatalf("breakout email match = %v", got)
	}
	if got := collect(r, models.ChannelSMS, "breakout"); fmt.Sprint(got) != "[three]" {
		t.Fatalf("breakout sms match = %v", got)
	}
	if got := collect(r, models.ChannelEmail, ""); fmt.Sprint(got) != "[three]" {
		t.Fatalf("untagged match = %v", got)
	}
}

func TestMatchingSkipsInactiveAndIsRestartable(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySubscriberRegistry()
	a, _ := r.Register(ctx, models.Subscriber{Name: "a", Email: "a@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})
	_, _ = r.Register(ctx, models.Subscriber{Name: "b", Email: "b@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})

	seq := r.Matching(models.ChannelEmail, "any")
	if err := r.SetActive(ctx, a, false); err != nil {
		t.Fatalf("set active: %v", err)
	}
	_, _ = r.Register(ctx, models.Subscriber{Name: "c", Email: "c@x.io", AlertMethods: []models.Channel{models.ChannelEmail}})

	// the sequence keeps the snapshot taken when Matching was called
	for i := 0; i < 2; i++ {
		var names []string
		for s := range seq {
			names = append(names, s.Name)
		}
		if fmt.Sprint(names) != "[a b]" {
			t.Fatalf("pass %d: %v", i, names)
		}
	}

	if got := collect(r, models.ChannelEmail, "any"); fmt.Sprint(got) != "[b c]" {
		t.Fatalf("fresh match = %v", got)
	}

	if err := r.SetActive(ctx, "sub_missing", true); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestMatchingEarlyBreak(t *testing.T) {
	ctx := context.Background()
	r := NewMemorySubscriberRegistry()
	for i := 0; i < 5; i++ {
		_, _ = r.Register(ctx, models.Subscriber{Name: fmt.Sprint(i), Phone: "+1", AlertMethods: []models.Channel{models.ChannelSMS}})
	}
	n := 0
	for range r.Matching(models.ChannelSMS, "") {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Fatalf("n = %d", n)
	}
	if len(r.List(ctx)) != 5 {
		t.Fatalf("list = %d", len(r.List(ctx)))
	}
}
