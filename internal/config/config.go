package config

import (
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		Debug    bool   `yaml:"debug"`
	} `yaml:"telegram"`

	API struct {
		BaseURL         string  `yaml:"base_url"`
		APIKey          string  `yaml:"api_key"`
		RatePerSecond   float64 `yaml:"rate_per_second"`
		RateBurst       int     `yaml:"rate_burst"`
		CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
	} `yaml:"api"`

	Session struct {
		Path   string `yaml:"path"`
		Backup struct {
			Enabled       bool   `yaml:"enabled"`
			StoragePath   string `yaml:"storage_path"`
			RetentionDays int    `yaml:"retention_days"`
		} `yaml:"backup"`
	} `yaml:"session"`

	Redis struct {
		Address  string `yaml:"address"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`

	Monitoring struct {
		HealthCheckPort   int  `yaml:"health_check_port"`
		PrometheusEnabled bool `yaml:"prometheus_enabled"`
		PrometheusPort    int  `yaml:"prometheus_port"`
	} `yaml:"monitoring"`

	Booking struct {
		MaxAdvanceDays      int `yaml:"max_advance_days"`
		WorkflowTimeoutMins int `yaml:"workflow_timeout_minutes"`
		ConfirmAckDelaySecs int `yaml:"confirm_ack_delay_seconds"`
	} `yaml:"booking"`

	Google struct {
		CredentialsFile string `yaml:"credentials_file"`
		CalendarID      string `yaml:"calendar_id"`
	} `yaml:"google"`

	Admins []int64 `yaml:"admins"`
}

func Load(path string) (*Config, error) {
	if path == "" {
		path = "configs/config.yaml"
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Support ${ENV_VAR} placeholders in YAML config.
	data = []byte(os.ExpandEnv(string(data)))

	var cfg Config
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	if cfg.Session.Path == "" {
		cfg.Session.Path = "data/session.db"
	}

	if err = os.MkdirAll(filepath.Dir(cfg.Session.Path), 0o755); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// BookingMaxAdvance is the date-picker window: today through this many days
// ahead, inclusive. The workflow itself forwards any date; the server decides.
func (c *Config) BookingMaxAdvance() int {
	if c.Booking.MaxAdvanceDays <= 0 {
		return 15
	}
	return c.Booking.MaxAdvanceDays
}

func (c *Config) WorkflowTimeout() time.Duration {
	if c.Booking.WorkflowTimeoutMins <= 0 {
		return 30 * time.Minute
	}
	return time.Duration(c.Booking.WorkflowTimeoutMins) * time.Minute
}

// ConfirmAckDelay is the pause between the celebratory cue and the
// confirmation acknowledgment.
func (c *Config) ConfirmAckDelay() time.Duration {
	if c.Booking.ConfirmAckDelaySecs <= 0 {
		return time.Second
	}
	return time.Duration(c.Booking.ConfirmAckDelaySecs) * time.Second
}
