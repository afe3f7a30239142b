package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	maxLogRetentionDays = 7
	maxSessionTTL       = 24 * time.Hour
)

// Config holds runtime configuration loaded from environment variables.
// Secrets are optional at boot; requests that need a missing one fail closed.
type Config struct {
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`
	Port        int    `env:"PORT" envDefault:"8080"`
	AppEnv      string `env:"APP_ENV" envDefault:"development"`

	AdminPasswordHash  string        `env:"ADMIN_PASSWORD_HASH"`
	AdminSessionSecret string        `env:"ADMIN_SESSION_SECRET"`
	SessionTTL         time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	ContactWebhookURL string        `env:"CONTACT_WEBHOOK_URL"`
	WebhookTimeout    time.Duration `env:"WEBHOOK_TIMEOUT" envDefault:"8s"`
	ShopID            string        `env:"SHOP_ID"`

	CorsOrigins        []string `env:"CORS_ORIGINS" envSeparator:","`
	CSRFTrustedOrigins []string `env:"CSRF_TRUSTED_ORIGINS" envSeparator:","`
	TrustedProxies     []string `env:"TRUSTED_PROXIES" envSeparator:","`

	LogLevel         string `env:"LOG_LEVEL" envDefault:"info"`
	LogDir           string `env:"LOG_DIR" envDefault:"storage/logs"`
	LogRetentionDays int    `env:"LOG_RETENTION_DAYS" envDefault:"7"`

	LoginRatePerMinute   int `env:"LOGIN_RATE_PER_MINUTE" envDefault:"10"`
	ContactRatePerMinute int `env:"CONTACT_RATE_PER_MINUTE" envDefault:"5"`
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config: %w", err)
	}
	if cfg.LogRetentionDays < 1 || cfg.LogRetentionDays > maxLogRetentionDays {
		cfg.LogRetentionDays = maxLogRetentionDays
	}
	if cfg.SessionTTL <= 0 || cfg.SessionTTL > maxSessionTTL {
		cfg.SessionTTL = maxSessionTTL
	}
	if cfg.WebhookTimeout <= 0 {
		cfg.WebhookTimeout = 8 * time.Second
	}
	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Warnings lists configuration gaps that disable a feature without stopping the server.
func (c Config) Warnings() []string {
	var warnings []string
	if c.AdminPasswordHash == "" {
		warnings = append(warnings, "ADMIN_PASSWORD_HASH is not set; admin login is disabled")
	}
	if c.AdminSessionSecret == "" {
		warnings = append(warnings, "ADMIN_SESSION_SECRET is not set; admin sessions are disabled")
	}
	if c.ContactWebhookURL == "" {
		warnings = append(warnings, "CONTACT_WEBHOOK_URL is not set; leads are stored with notify_status=failed")
	}
	return warnings
}
