package config

import (
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load(filepath.Join("testdata", "config.yaml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Environment != "test" {
		t.Fatalf("unexpected environment %q", cfg.Environment)
	}
	if cfg.Server.Port != 8081 {
		t.Fatalf("unexpected port %d", cfg.Server.Port)
	}
	if cfg.Server.ShutdownTimeout != 5*time.Second {
		t.Fatalf("unexpected shutdown timeout %v", cfg.Server.ShutdownTimeout)
	}
	if cfg.Alerts.RequirePrice {
		t.Fatalf("expected require_price false")
	}
	if cfg.Alerts.StopLossPct != 0.02 || cfg.Alerts.TakeProfitPct != 0.04 {
		t.Fatalf("unexpected level pcts %v/%v", cfg.Alerts.StopLossPct, cfg.Alerts.TakeProfitPct)
	}
	if cfg.Alerts.Workers != 3 {
		t.Fatalf("unexpected workers %d", cfg.Alerts.Workers)
	}
	// untouched keys keep defaults
	if cfg.Alerts.Subject != "TradeFire Alert" {
		t.Fatalf("expected default subject, got %q", cfg.Alerts.Subject)
	}
	if !cfg.EmailConfigured() {
		t.Fatalf("expected email configured")
	}
	if cfg.SMSConfigured() {
		t.Fatalf("expected sms not configured")
	}
	if !cfg.KafkaEnabled() || cfg.Kafka.SignalsTopic != "signals.test" {
		t.Fatalf("unexpected kafka config %+v", cfg.Kafka)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestLoadWithEnvFallsBackToDefaults(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("TWILIO_AUTH_TOKEN", "secret")
	t.Setenv("TWILIO_FROM", "+15550000000")
	t.Setenv("REQUIRE_PRICE", "false")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("LoadWithEnv returned error: %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Fatalf("expected PORT override, got %d", cfg.Server.Port)
	}
	if !cfg.SMSConfigured() {
		t.Fatalf("expected sms configured from env")
	}
	if cfg.EmailConfigured() {
		t.Fatalf("expected email unconfigured")
	}
	if cfg.Alerts.RequirePrice {
		t.Fatalf("expected REQUIRE_PRICE override")
	}
}

func TestValidate(t *testing.T) {
	c := Default()
	c.Alerts.Workers = 0
	if err := c.Validate(); err == nil {
		t.Fatalf("expected workers validation error")
	}

	c = Default()
	c.Alerts.StopLossPct = 1.5
	if err := c.Validate(); err == nil {
		t.Fatalf("expected stop loss validation error")
	}

	c = Default()
	c.Kafka.Brokers = []string{"b:9092"}
	c.Kafka.SignalsTopic = ""
	if err := c.Validate(); err == nil {
		t.Fatalf("expected signals topic validation error")
	}
}
