// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // TIMEZONE must resolve on images without zoneinfo

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/shopspring/decimal"

	"pocketledger/internal/guard"
	"pocketledger/internal/money"
	"pocketledger/pkg/db" // Import db package for its Config struct
)

const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string `envconfig:"SERVER_PORT" default:"8080"`
	LogLevel   string `envconfig:"LOG_LEVEL" default:"info"`

	DB db.Config

	Auth struct {
		JWTSecret string `envconfig:"JWT_SECRET" required:"true"`
		Issuer    string `envconfig:"JWT_ISSUER" default:"pocketledger"`
	}

	Ledger struct {
		RemoteTimeout      time.Duration   `envconfig:"REMOTE_TIMEOUT" default:"10s"`
		AmountMaxLength    int             `envconfig:"AMOUNT_MAX_LENGTH" default:"10"`
		AmountMaxMagnitude decimal.Decimal `envconfig:"AMOUNT_MAX_MAGNITUDE" default:"9999999999"`
		ReconcilePolicy    string          `envconfig:"RECONCILE_POLICY" default:"uniform"`
		AllowOverdraw      bool            `envconfig:"ALLOW_OVERDRAW" default:"false"`
		DefaultCurrency    string          `envconfig:"DEFAULT_CURRENCY" default:"USD"`
		Timezone           string          `envconfig:"TIMEZONE" default:"UTC"`
	}

	Cache struct {
		Driver        string        `envconfig:"CACHE_DRIVER" default:"memory"`
		RedisAddrs    []string      `envconfig:"REDIS_ADDR" default:"localhost:6379"`
		RedisPassword string        `envconfig:"REDIS_PASSWORD"`
		TTL           time.Duration `envconfig:"CACHE_TTL" default:"10m"`
	}

	CORS struct {
		AllowedOrigins []string `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	// Derived by LoadConfig.
	Policy       guard.Policy   `ignored:"true"`
	Location     *time.Location `ignored:"true"`
	AmountLimits money.Limits   `ignored:"true"`
}

// LoadConfig loads configuration from the environment, after reading an optional .env file.
// It returns an AppConfig instance or an error if any required variable is missing or invalid.
func LoadConfig() (*AppConfig, error) {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *AppConfig) validate() error {
	if strings.TrimSpace(c.Auth.JWTSecret) == "" {
		return fmt.Errorf("JWT_SECRET must not be empty")
	}
	if c.Ledger.RemoteTimeout < 0 {
		return fmt.Errorf("REMOTE_TIMEOUT must not be negative")
	}
	if c.Ledger.AmountMaxLength < 0 {
		return fmt.Errorf("AMOUNT_MAX_LENGTH must not be negative")
	}
	if c.Ledger.AmountMaxMagnitude.IsNegative() {
		return fmt.Errorf("AMOUNT_MAX_MAGNITUDE must not be negative")
	}
	c.AmountLimits = money.Limits{
		MaxLength:    c.Ledger.AmountMaxLength,
		MaxMagnitude: c.Ledger.AmountMaxMagnitude,
	}

	policy, err := guard.ParsePolicy(c.Ledger.ReconcilePolicy)
	if err != nil {
		return fmt.Errorf("invalid RECONCILE_POLICY: %w", err)
	}
	c.Policy = policy

	loc, err := time.LoadLocation(c.Ledger.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	c.Location = loc

	if _, err := money.LookupCurrency(c.Ledger.DefaultCurrency); err != nil {
		return fmt.Errorf("invalid DEFAULT_CURRENCY: %w", err)
	}

	switch c.Cache.Driver {
	case CacheDriverMemory:
	case CacheDriverRedis:
		if len(c.Cache.RedisAddrs) == 0 {
			return fmt.Errorf("REDIS_ADDR is required when CACHE_DRIVER=redis")
		}
	default:
		return fmt.Errorf("invalid CACHE_DRIVER %q: want %q or %q", c.Cache.Driver, CacheDriverMemory, CacheDriverRedis)
	}
	return nil
}
