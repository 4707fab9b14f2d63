package models

import (
	"maps"
	"time"
)

// ProfileStatus is the lifecycle state of a strategy profile.
type ProfileStatus string

const (
	ProfileDraft  ProfileStatus = "DRAFT"
	ProfileActive ProfileStatus = "ACTIVE"
)

// ProfileFields holds caller supplied profile data, stored verbatim.
type ProfileFields map[string]interface{}

// ProfileWritableFields lists the keys a caller may change after creation.
var ProfileWritableFields = []string{"name", "market", "timeframe", "risk", "symbols", "notes"}

// StrategyProfile is a user defined strategy configuration.
type StrategyProfile struct {
	ID          string        `json:"profileId"`
	Status      ProfileStatus `json:"status"`
	Fields      ProfileFields `json:"fields"`
	CreatedAt   time.Time     `json:"createdAt"`
	UpdatedAt   time.Time     `json:"updatedAt"`
	ActivatedAt *time.Time    `json:"activatedAt,omitempty"`
}

// Clone returns a deep enough copy for handing out of a store.
func (p StrategyProfile) Clone() StrategyProfile {
	out := p
	out.Fields = maps.Clone(p.Fields)
	if p.ActivatedAt != nil {
		t := *p.ActivatedAt
		out.ActivatedAt = &t
	}
	return out
}
