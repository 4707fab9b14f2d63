package models

import (
	"slices"
	"strings"
	"time"
)

// Channel is a delivery medium.
type Channel string

const (
	ChannelEmail Channel = "EMAIL"
	ChannelSMS   Channel = "SMS"
)

// Channels lists every supported channel in dispatch order.
var Channels = []Channel{ChannelEmail, ChannelSMS}

// ParseChannel maps a case-insensitive name onto a Channel.
func ParseChannel(s string) (Channel, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(ChannelEmail):
		return ChannelEmail, true
	case string(ChannelSMS):
		return ChannelSMS, true
	default:
		return "", false
	}
}

// Subscriber is a registered alert recipient.
type Subscriber struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email,omitempty"`
	Phone          string    `json:"phone,omitempty"`
	AlertMethods   []Channel `json:"alert_methods"`
	SelectedTopics []string  `json:"selected_topics,omitempty"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}

// Wants reports whether the subscriber opted into channel c.
func (s Subscriber) Wants(c Channel) bool {
	return slices.Contains(s.AlertMethods, c)
}

// Destination returns the contact address used for channel c.
func (s Subscriber) Destination(c Channel) string {
	switch c {
	case ChannelEmail:
		return strings.TrimSpace(s.Email)
	case ChannelSMS:
		return strings.TrimSpace(s.Phone)
	default:
		return ""
	}
}

// FollowsTopic reports whether a signal tagged with topic should reach the subscriber.
// Subscribers without selected topics follow everything.
func (s Subscriber) FollowsTopic(topic string) bool {
	if len(s.SelectedTopics) == 0 {
		return true
	}
	return slices.Contains(s.SelectedTopics, topic)
}

// Validate checks the alert-method/contact invariant.
func (s Subscriber) Validate() error {
	var missing []string
	if len(s.AlertMethods) == 0 {
		missing = append(missing, "alertMethods")
	}
	for _, c := range s.AlertMethods {
		switch c {
		case ChannelEmail:
			if s.Destination(c) == "" {
				missing = append(missing, "email")
			}
		case ChannelSMS:
			if s.Destination(c) == "" {
				missing = append(missing, "phone")
			}
		default:
			return NewValidationError("unsupported alert method "+string(c), "alertMethods")
		}
	}
	if len(missing) > 0 {
		return NewValidationError("missing contact for alert method", missing...)
	}
	return nil
}
