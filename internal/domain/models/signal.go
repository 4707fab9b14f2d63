package models

import (
	"strings"
	"time"
)

// Direction is the side of a trading signal.
type Direction string

const (
	DirectionLong  Direction = "LONG"
	DirectionShort Direction = "SHORT"
)

// ParseDirection maps a case-insensitive string onto a Direction.
func ParseDirection(s string) (Direction, bool) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case string(DirectionLong):
		return DirectionLong, true
	case string(DirectionShort):
		return DirectionShort, true
	default:
		return "", false
	}
}

// RawSignal is an inbound signal payload before normalization, as decoded from JSON.
type RawSignal map[string]interface{}

// Signal is a normalized trading event. Treat it as a value: it is never mutated after Normalize.
type Signal struct {
	Symbol    string
	Name      string
	Direction Direction
	// Price is nil when the signal arrived without one and the price policy allows that.
	Price     *float64
	Indicator string
	// Caller supplied levels; they take precedence over the computed ones.
	StopLoss   *float64
	TakeProfit *float64
	Timestamp  time.Time
}

// HasPrice reports whether the signal carries an entry price.
func (s Signal) HasPrice() bool { return s.Price != nil }

// Raw renders the signal back into its canonical raw form.
func (s Signal) Raw() RawSignal {
	raw := RawSignal{
		"symbol":    s.Symbol,
		"signal":    s.Name,
		"direction": string(s.Direction),
		"timestamp": s.Timestamp.UTC().Format(time.RFC3339Nano),
	}
	if s.Price != nil {
		raw["price"] = *s.Price
	}
	if s.Indicator != "" {
		raw["indicator"] = s.Indicator
	}
	if s.StopLoss != nil {
		raw["sl"] = *s.StopLoss
	}
	if s.TakeProfit != nil {
		raw["tp"] = *s.TakeProfit
	}
	return raw
}

// Levels holds the stop-loss and take-profit prices of a signal. Either may be nil.
type Levels struct {
	StopLoss   *float64 `json:"stop_loss,omitempty"`
	TakeProfit *float64 `json:"take_profit,omitempty"`
}

// Empty reports whether no level is set.
func (l Levels) Empty() bool { return l.StopLoss == nil && l.TakeProfit == nil }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
