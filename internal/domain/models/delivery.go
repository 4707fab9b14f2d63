package models

import "time"

// Outcome is the result of one delivery attempt.
type Outcome string

const (
	OutcomeSent    Outcome = "SENT"
	OutcomeSkipped Outcome = "SKIPPED"
	OutcomeFailed  Outcome = "FAILED"
)

// Message is a rendered alert.
type Message struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// DeliveryResult is the outcome for one subscriber on one channel.
type DeliveryResult struct {
	SubscriberID string  `json:"subscriber_id"`
	Channel      Channel `json:"channel"`
	Outcome      Outcome `json:"outcome"`
	Error        string  `json:"error,omitempty"`
}

// DeliveryReport aggregates every attempt made for one signal event.
type DeliveryReport struct {
	ID          string           `json:"id"`
	Symbol      string           `json:"symbol,omitempty"`
	Direction   Direction        `json:"direction,omitempty"`
	Results     []DeliveryResult `json:"results"`
	Delivered   int              `json:"delivered"`
	Subscribers int              `json:"subscribers"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Count returns how many results carry outcome o.
func (r DeliveryReport) Count(o Outcome) int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == o {
			n++
		}
	}
	return n
}
