package repository

import (
	"context"
	"testing"
	"time"

	"TradeFire/internal/domain/models"
)

type stepClock struct{ t time.Time }

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func TestProfileLifecycle(t *testing.T) {
	ctx := context.Background()
	clock := &stepClock{t: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)}
	s := NewMemoryProfileStore(WithClock(clock.now))

	id, err := s.Create(ctx, models.ProfileFields{"name": "scalper", "market": "crypto", "timeframe": "5m"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	p, _ := s.Get(ctx, id)
	if p.Status != models.ProfileDraft || p.ActivatedAt != nil {
		t.Fatalf("new profile should be DRAFT, got %+v", p)
	}

	first, err := s.Activate(ctx, id)
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if first.Status != models.ProfileActive || first.ActivatedAt == nil {
		t.Fatalf("unexpected %+v", first)
	}

	second, err := s.Activate(ctx, id)
	if err != nil {
		t.Fatalf("re-activate: %v", err)
	}
	if second.Status != models.ProfileActive || !second.ActivatedAt.After(*first.ActivatedAt) {
		t.Fatalf("expected refreshed activation time: %v vs %v", second.ActivatedAt, first.ActivatedAt)
	}
	if second.Fields["name"] != "scalper" {
		t.Fatalf("fields lost: %v", second.Fields)
	}
}

func TestActivateUnknownLeavesStoreUnchanged(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryProfileStore()
	id, _ := s.Create(ctx, models.ProfileFields{"name": "x"})

	if _, err := s.Activate(ctx, "pf_unknown"); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
	p, _ := s.Get(ctx, id)
	if s.Len() != 1 || p.Status != models.ProfileDraft {
		t.Fatalf("store changed: len=%d status=%s", s.Len(), p.Status)
	}
}

func TestCreateRejectsEmpty(t *testing.T) {
	if _, err := NewMemoryProfileStore().Create(context.Background(), nil); !models.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateAllowList(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryProfileStore()
	id, _ := s.Create(ctx, models.ProfileFields{"name": "x", "risk": "standard"})

	p, err := s.Update(ctx, id, models.ProfileFields{"risk": "high", "notes": "tighter stops"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if p.Fields["risk"] != "high" || p.Fields["name"] != "x" || p.Status != models.ProfileDraft {
		t.Fatalf("unexpected %+v", p)
	}

	for _, bad := range []models.ProfileFields{{"status": "ACTIVE"}, {"id": "pf_x"}, {"activatedAt": "now", "name": "y"}} {
		if _, err := s.Update(ctx, id, bad); !models.IsValidation(err) {
			t.Fatalf("update %v: expected validation error, got %v", bad, err)
		}
	}
	got, _ := s.Get(ctx, id)
	if got.Fields["name"] != "x" || got.Status != models.ProfileDraft {
		t.Fatalf("rejected update leaked: %+v", got)
	}

	if _, err := s.Update(ctx, "pf_missing", models.ProfileFields{"name": "z"}); !models.IsNotFound(err) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestGetReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryProfileStore()
	fields := models.ProfileFields{"name": "x"}
	id, _ := s.Create(ctx, fields)
	fields["name"] = "mutated"

	p, _ := s.Get(ctx, id)
	p.Fields["name"] = "also mutated"

	again, _ := s.Get(ctx, id)
	if again.Fields["name"] != "x" {
		t.Fatalf("store aliased caller memory: %v", again.Fields)
	}
}
