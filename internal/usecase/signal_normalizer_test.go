package usecase

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
	"time"

	"TradeFire/internal/domain/models"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newNormalizer(policy PricePolicy) *SignalNormalizer {
	return NewSignalNormalizer(policy, func() time.Time { return fixedNow })
}

func TestNormalizeAliases(t *testing.T) {
	n := newNormalizer(PriceRequired)
	cases := []models.RawSignal{
		{"symbol": "BTCUSD", "dir": "long", "price": 100.0, "signal": "breakout"},
		{"ticker": "BTCUSD", "direction": "Long", "close": "100", "signalName": "breakout"},
		{"ticker": " BTCUSD ", "side": "LONG", "entry": json.Number("100"), "label": "breakout"},
	}
	for i, raw := range cases {
		sig, err := n.Normalize(raw)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		if sig.Symbol != "BTCUSD" || sig.Direction != models.DirectionLong || *sig.Price != 100 || sig.Name != "breakout" {
			t.Fatalf("case %d: unexpected %+v", i, sig)
		}
		if !sig.Timestamp.Equal(fixedNow) {
			t.Fatalf("case %d: timestamp %v", i, sig.Timestamp)
		}
	}
}

func TestNormalizeCollectsAllMissing(t *testing.T) {
	_, err := newNormalizer(PriceRequired).Normalize(models.RawSignal{"price": 10.0})
	var ve *models.ValidationError
	if !asValidation(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
	want := []string{"symbol", "direction", "signal"}
	if !reflect.DeepEqual(ve.Fields, want) {
		t.Fatalf("fields = %v, want %v", ve.Fields, want)
	}
}

func TestNormalizeDirectionAndPrice(t *testing.T) {
	n := newNormalizer(PriceRequired)
	base := func() models.RawSignal {
		return models.RawSignal{"symbol": "ETH", "dir": "SHORT", "signal": "rev", "price": 10.0}
	}

	raw := base()
	raw["dir"] = "sideways"
	if _, err := n.Normalize(raw); err == nil || !strings.Contains(err.Error(), "invalid direction") {
		t.Fatalf("expected invalid direction, got %v", err)
	}

	raw = base()
	delete(raw, "price")
	if _, err := n.Normalize(raw); err == nil || !strings.Contains(err.Error(), "missing price") {
		t.Fatalf("expected missing price, got %v", err)
	}

	for _, bad := range []interface{}{"abc", -1.0, 0.0, "NaN", "Inf", true} {
		raw = base()
		raw["price"] = bad
		if _, err := n.Normalize(raw); err == nil || !strings.Contains(err.Error(), "invalid price") {
			t.Fatalf("price %v: expected invalid price, got %v", bad, err)
		}
	}

	raw = base()
	raw["sl"] = "oops"
	if _, err := n.Normalize(raw); !models.IsValidation(err) {
		t.Fatalf("expected invalid level, got %v", err)
	}
}

func TestNormalizeOptionalPrice(t *testing.T) {
	sig, err := newNormalizer(PriceOptional).Normalize(models.RawSignal{"symbol": "ETH", "dir": "short", "signal": "rev"})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if sig.HasPrice() {
		t.Fatalf("price should be unset")
	}
}

func TestNormalizeTimestampAndOverrides(t *testing.T) {
	n := newNormalizer(PriceRequired)
	sig, err := n.Normalize(models.RawSignal{
		"symbol": "SOL", "dir": "long", "signal": "x", "price": 20.0,
		"stopLoss": "19.5", "take_profit": 25.0, "topic": "breakout",
		"time": 1700000000000.0,
	})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if *sig.StopLoss != 19.5 || *sig.TakeProfit != 25 || sig.Indicator != "breakout" {
		t.Fatalf("unexpected %+v", sig)
	}
	if !sig.Timestamp.Equal(time.UnixMilli(1700000000000)) {
		t.Fatalf("timestamp %v", sig.Timestamp)
	}

	sig, _ = n.Normalize(models.RawSignal{"symbol": "SOL", "dir": "long", "signal": "x", "price": 20.0, "timestamp": "2024-01-02T03:04:05+02:00"})
	if sig.Timestamp.Location() != time.UTC || sig.Timestamp.Hour() != 1 {
		t.Fatalf("timestamp should be UTC, got %v", sig.Timestamp)
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	n := NewSignalNormalizer(PriceOptional, time.Now)
	inputs := []models.RawSignal{
		{"ticker": "BTCUSD", "side": "short", "close": "101.25", "label": "breakdown", "indicator": "rsi", "sl": 105.0},
		{"symbol": "ETHUSD", "dir": "LONG", "signal": "cross", "timestamp": "2024-05-05T10:00:00.123456789Z"},
		{"symbol": "XAU", "dir": "long", "signal": "s", "price": 2350.5, "tp": 2400.0},
	}
	for i, raw := range inputs {
		first, err := n.Normalize(raw)
		if err != nil {
			t.Fatalf("case %d: %v", i, err)
		}
		second, err := n.Normalize(first.Raw())
		if err != nil {
			t.Fatalf("case %d second pass: %v", i, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("case %d not idempotent:\n%+v\n%+v", i, first, second)
		}
	}
}

func asValidation(err error, target **models.ValidationError) bool {
	ve, ok := err.(*models.ValidationError)
	if ok {
		*target = ve
	}
	return ok
}
