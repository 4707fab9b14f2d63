package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Environment string `yaml:"environment"`
	Server      struct {
		Port            int           `yaml:"port"`
		ReadTimeout     time.Duration `yaml:"read_timeout"`
		WriteTimeout    time.Duration `yaml:"write_timeout"`
		ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
		CORS            bool          `yaml:"cors"`
	} `yaml:"server"`
	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
		Output string `yaml:"output"`
	} `yaml:"log"`
	Metrics struct {
		Enabled bool   `yaml:"enabled"`
		Path    string `yaml:"path"`
	} `yaml:"metrics"`
	Alerts struct {
		// RequirePrice rejects signals without a price instead of sending a level-less alert.
		RequirePrice  bool          `yaml:"require_price"`
		StopLossPct   float64       `yaml:"stop_loss_pct"`
		TakeProfitPct float64       `yaml:"take_profit_pct"`
		Workers       int           `yaml:"workers"`
		Subject       string        `yaml:"subject"`
		WebhookSecret string        `yaml:"webhook_secret"`
		ReportTTL     time.Duration `yaml:"report_ttl"`
	} `yaml:"alerts"`
	Email struct {
		Host        string        `yaml:"host"`
		Port        int           `yaml:"port"`
		User        string        `yaml:"user"`
		Password    string        `yaml:"password"`
		From        string        `yaml:"from"`
		NoVerify    bool          `yaml:"no_verify"`
		SendTimeout time.Duration `yaml:"send_timeout"`
	} `yaml:"email"`
	Twilio struct {
		AccountSID string        `yaml:"account_sid"`
		AuthToken  string        `yaml:"auth_token"`
		From       string        `yaml:"from"`
		BaseURL    string        `yaml:"base_url"`
		Timeout    time.Duration `yaml:"timeout"`
	} `yaml:"twilio"`
	Kafka struct {
		Brokers      []string `yaml:"brokers"`
		SignalsTopic string   `yaml:"signals_topic"`
		ReportsTopic string   `yaml:"reports_topic"`
		RequiredAcks int      `yaml:"required_acks"`
		Compression  string   `yaml:"compression"`
		Consumer     struct {
			GroupID    string `yaml:"group_id"`
			Workers    int    `yaml:"workers"`
			BufferSize int    `yaml:"buffer_size"`
			DLQTopic   string `yaml:"dlq_topic"`
			MinBytes   int    `yaml:"min_bytes"`
			MaxBytes   int    `yaml:"max_bytes"`
		} `yaml:"consumer"`
	} `yaml:"kafka"`
	Redis struct {
		Enabled  bool   `yaml:"enabled"`
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
		Prefix   string `yaml:"prefix"`
	} `yaml:"redis"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	c := &Config{Environment: "development"}
	c.Server.Port = 3000
	c.Server.ReadTimeout = 10 * time.Second
	c.Server.WriteTimeout = 30 * time.Second
	c.Server.ShutdownTimeout = 10 * time.Second
	c.Server.CORS = true
	c.Log.Level = "info"
	c.Log.Format = "console"
	c.Log.Output = "stdout"
	c.Metrics.Enabled = true
	c.Metrics.Path = "/metrics"
	c.Alerts.RequirePrice = true
	c.Alerts.StopLossPct = 0.015
	c.Alerts.TakeProfitPct = 0.03
	c.Alerts.Workers = 8
	c.Alerts.Subject = "TradeFire Alert"
	c.Alerts.ReportTTL = time.Hour
	c.Email.Port = 587
	c.Email.SendTimeout = 15 * time.Second
	c.Twilio.BaseURL = "https://api.twilio.com"
	c.Twilio.Timeout = 10 * time.Second
	c.Kafka.SignalsTopic = "tradefire.signals"
	c.Kafka.ReportsTopic = "tradefire.reports"
	c.Kafka.RequiredAcks = -1
	c.Kafka.Compression = "gzip"
	c.Kafka.Consumer.GroupID = "tradefire"
	c.Kafka.Consumer.Workers = 4
	c.Kafka.Consumer.BufferSize = 64
	c.Redis.Addr = "localhost:6379"
	c.Redis.Prefix = "tradefire"
	return c
}

// Load reads and parses a YAML configuration file on top of Default().
func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	c := Default()
	if err := yaml.Unmarshal(b, c); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	return c, nil
}

// LoadWithEnv loads config from YAML and overrides with environment variables.
// A missing file is not an error: the defaults plus the environment are used,
// which is how the service runs on PaaS hosts that only inject env vars.
func LoadWithEnv(path string) (*Config, error) {
	var c *Config
	if _, statErr := os.Stat(path); statErr == nil {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		c = loaded
	} else {
		c = Default()
	}

	c.applyEnv(os.Getenv)

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return c, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Server.Port = p
		}
	}
	if v := getenv("LOG_LEVEL"); v != "" {
		c.Log.Level = v
	}
	if v := getenv("EMAIL_HOST"); v != "" {
		c.Email.Host = v
	}
	if v := getenv("EMAIL_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			c.Email.Port = p
		}
	}
	if v := getenv("EMAIL_USER"); v != "" {
		c.Email.User = v
	}
	if v := getenv("EMAIL_PASS"); v != "" {
		c.Email.Password = v
	}
	if v := getenv("TWILIO_ACCOUNT_SID"); v != "" {
		c.Twilio.AccountSID = v
	}
	if v := getenv("TWILIO_AUTH_TOKEN"); v != "" {
		c.Twilio.AuthToken = v
	}
	if v := getenv("TWILIO_FROM"); v != "" {
		c.Twilio.From = v
	}
	if v := getenv("WEBHOOK_SECRET"); v != "" {
		c.Alerts.WebhookSecret = v
	}
	if v := getenv("REQUIRE_PRICE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Alerts.RequirePrice = b
		}
	}
	if v := getenv("KAFKA_BROKERS"); v != "" {
		c.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
		c.Redis.Enabled = true
	}
}

// EmailConfigured reports whether SMTP credentials are present.
func (c *Config) EmailConfigured() bool {
	return c.Email.Host != ""
}

// SMSConfigured reports whether Twilio credentials are present.
func (c *Config) SMSConfigured() bool {
	return c.Twilio.AccountSID != "" && c.Twilio.AuthToken != "" && c.Twilio.From != ""
}

// KafkaEnabled reports whether any brokers are configured.
func (c *Config) KafkaEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Environment == "" {
		return fmt.Errorf("environment is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Alerts.StopLossPct < 0 || c.Alerts.StopLossPct >= 1 {
		return fmt.Errorf("alerts.stop_loss_pct must be in [0,1), got %v", c.Alerts.StopLossPct)
	}
	if c.Alerts.TakeProfitPct < 0 || c.Alerts.TakeProfitPct >= 1 {
		return fmt.Errorf("alerts.take_profit_pct must be in [0,1), got %v", c.Alerts.TakeProfitPct)
	}
	if c.Alerts.Workers <= 0 {
		return fmt.Errorf("alerts.workers must be positive, got %d", c.Alerts.Workers)
	}
	if c.EmailConfigured() && (c.Email.Port <= 0 || c.Email.Port > 65535) {
		return fmt.Errorf("email.port out of range: %d", c.Email.Port)
	}
	if c.KafkaEnabled() && c.Kafka.SignalsTopic == "" {
		return fmt.Errorf("kafka.signals_topic is required when brokers are set")
	}
	return nil
}
