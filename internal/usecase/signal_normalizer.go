package usecase

import (
	"encoding/json"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"TradeFire/internal/domain/models"
	"TradeFire/pkg/util"
)

// PricePolicy decides what happens to a signal that arrives without a price.
type PricePolicy int

const (
	// PriceRequired rejects the signal with "missing price".
	PriceRequired PricePolicy = iota
	// PriceOptional accepts it; the alert is sent without entry and levels.
	PriceOptional
)

// Accepted field names, canonical name first.
var (
	symbolKeys    = []string{"symbol", "ticker"}
	directionKeys = []string{"direction", "dir", "side"}
	priceKeys     = []string{"price", "close", "entry"}
	nameKeys      = []string{"signal", "signalName", "name", "label"}
	indicatorKeys = []string{"indicator", "topic"}
	stopLossKeys  = []string{"sl", "stopLoss", "stop_loss"}
	takeProfKeys  = []string{"tp", "takeProfit", "take_profit"}
	timestampKeys = []string{"timestamp", "time"}
)

// SignalNormalizer turns loosely shaped payloads into a Signal. It has no side effects.
type SignalNormalizer struct {
	policy PricePolicy
	now    func() time.Time
}

// NewSignalNormalizer creates a normalizer. now stamps signals that carry no
// timestamp; nil means time.Now.
func NewSignalNormalizer(policy PricePolicy, now func() time.Time) *SignalNormalizer {
	if now == nil {
		now = time.Now
	}
	return &SignalNormalizer{policy: policy, now: now}
}

// problems accumulates every rejected field so callers see all of them at once.
type problems struct {
	reasons []string
	fields  []string
}

func (p *problems) add(reason, field string) {
	if !slices.Contains(p.reasons, reason) {
		p.reasons = append(p.reasons, reason)
	}
	p.fields = append(p.fields, field)
}

func (p *problems) err() error {
	if len(p.fields) == 0 {
		return nil
	}
	return models.NewValidationError(strings.Join(p.reasons, "; "), p.fields...)
}

// Normalize validates raw and returns the canonical Signal.
func (n *SignalNormalizer) Normalize(raw models.RawSignal) (models.Signal, error) {
	var (
		sig  models.Signal
		errs problems
	)

	sig.Symbol = stringField(raw, symbolKeys...)
	if sig.Symbol == "" {
		errs.add("missing required field", "symbol")
	}

	if d := stringField(raw, directionKeys...); d == "" {
		errs.add("missing required field", "direction")
	} else if dir, ok := models.ParseDirection(d); ok {
		sig.Direction = dir
	} else {
		errs.add("invalid direction", "direction")
	}

	sig.Name = stringField(raw, nameKeys...)
	if sig.Name == "" {
		errs.add("missing required field", "signal")
	}

	switch v, present, ok := numberField(raw, priceKeys...); {
	case !present && n.policy == PriceRequired:
		errs.add("missing price", "price")
	case present && (!ok || v <= 0):
		errs.add("invalid price", "price")
	case present:
		sig.Price = models.Float(v)
	}

	if v, present, ok := numberField(raw, stopLossKeys...); present {
		if !ok || v <= 0 {
			errs.add("invalid level", "sl")
		} else {
			sig.StopLoss = models.Float(v)
		}
	}
	if v, present, ok := numberField(raw, takeProfKeys...); present {
		if !ok || v <= 0 {
			errs.add("invalid level", "tp")
		} else {
			sig.TakeProfit = models.Float(v)
		}
	}

	if err := errs.err(); err != nil {
		return models.Signal{}, err
	}

	sig.Indicator = stringField(raw, indicatorKeys...)
	sig.Timestamp = n.timestamp(raw)
	return sig, nil
}

func (n *SignalNormalizer) timestamp(raw models.RawSignal) time.Time {
	for _, k := range timestampKeys {
		switch v := raw[k].(type) {
		case string:
			if t, ok := util.ParseTime(strings.TrimSpace(v)); ok {
				return t.UTC()
			}
		case float64:
			if v > 0 && !math.IsInf(v, 0) {
				return util.UnixAuto(int64(v)).UTC()
			}
		case json.Number:
			if ts, err := v.Int64(); err == nil && ts > 0 {
				return util.UnixAuto(ts).UTC()
			}
		}
	}
	return n.now().UTC()
}

// stringField returns the first non-blank value among keys. Numbers are
// accepted too, since some senders emit numeric tickers or labels.
func stringField(raw models.RawSignal, keys ...string) string {
	for _, k := range keys {
		var s string
		switch v := raw[k].(type) {
		case string:
			s = v
		case json.Number:
			s = v.String()
		case float64:
			s = strconv.FormatFloat(v, 'f', -1, 64)
		case int:
			s = strconv.Itoa(v)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}

// numberField looks up the first present key among keys. present is false
// when none is set (nil or blank strings count as unset); ok reports
// whether the value is a finite number.
func numberField(raw models.RawSignal, keys ...string) (v float64, present, ok bool) {
	for _, k := range keys {
		val, exists := raw[k]
		if !exists || val == nil {
			continue
		}
		if s, isStr := val.(string); isStr && strings.TrimSpace(s) == "" {
			continue
		}
		v, ok = toFloat(val)
		return v, true, ok
	}
	return 0, false, false
}

func toFloat(val interface{}) (float64, bool) {
	var f float64
	switch v := val.(type) {
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		return util.ParseFiniteFloat(v.String())
	case string:
		return util.ParseFiniteFloat(v)
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// describe is used in log lines for rejected payloads.
func describe(raw models.RawSignal) string {
	return fmt.Sprintf("symbol=%q direction=%q", stringField(raw, symbolKeys...), stringField(raw, directionKeys...))
}
