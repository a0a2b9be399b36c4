// Package config loads process configuration from the environment, with a
// .env file honored in development. Consumers depend on narrow interfaces
// rather than the full Config struct.
package config

import (
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// =============================================================================
// Per-consumer config interfaces
// =============================================================================

// DatabaseConfig provides connection settings for the shared Kitchen store.
// The URL may be empty: the staging pipeline then runs in degraded mode and
// reports every lead as "not sent" instead of crashing the intake process.
type DatabaseConfig interface {
	GetDatabaseURL() string
	IsDatabaseConfigured() bool
}

// HTTPConfig provides settings for the HTTP server.
type HTTPConfig interface {
	GetHTTPAddr() string
	GetCORSAllowAll() bool
	GetCORSOrigins() []string
	GetCORSAllowCreds() bool
}

// IntakeConfig provides settings for the lead intake endpoint.
type IntakeConfig interface {
	GetIntakeRatePerSecond() float64
	GetIntakeBurst() int
}

// ListenerConfig provides settings for the new-lead notification listener.
type ListenerConfig interface {
	DatabaseConfig
	GetListenerReconnectDelay() time.Duration
}

// SeedConfig provides settings for the campaign seeding tool.
type SeedConfig interface {
	DatabaseConfig
	GetCampaignSeedFile() string
}

// =============================================================================
// Config struct and loading
// =============================================================================

// Config holds all application configuration values.
type Config struct {
	Env                    string
	HTTPAddr               string
	DatabaseURL            string
	CORSAllowAll           bool
	CORSOrigins            []string
	CORSAllowCreds         bool
	IntakeRatePerSecond    float64
	IntakeBurst            int
	ListenerReconnectDelay time.Duration
	CampaignSeedFile       string
}

// DatabaseConfig implementation
func (c *Config) GetDatabaseURL() string     { return c.DatabaseURL }
func (c *Config) IsDatabaseConfigured() bool { return c.DatabaseURL != "" }

// HTTPConfig implementation
func (c *Config) GetHTTPAddr() string      { return c.HTTPAddr }
func (c *Config) GetCORSAllowAll() bool    { return c.CORSAllowAll }
func (c *Config) GetCORSOrigins() []string { return c.CORSOrigins }
func (c *Config) GetCORSAllowCreds() bool  { return c.CORSAllowCreds }

// IntakeConfig implementation
func (c *Config) GetIntakeRatePerSecond() float64 { return c.IntakeRatePerSecond }
func (c *Config) GetIntakeBurst() int             { return c.IntakeBurst }

// ListenerConfig implementation
func (c *Config) GetListenerReconnectDelay() time.Duration { return c.ListenerReconnectDelay }

// SeedConfig implementation
func (c *Config) GetCampaignSeedFile() string { return c.CampaignSeedFile }

// Load reads configuration from environment variables.
// BOH_DATABASE_URL is deliberately optional: without it the process still
// serves the conversational intake, just without staging.
func Load() (*Config, error) {
	_ = godotenv.Load()

	corsOrigins := splitCSV(envString("CORS_ORIGINS", "http://localhost:4200"))
	corsAllowAll := envBool("CORS_ALLOW_ALL", false)
	if slices.Contains(corsOrigins, "*") {
		corsAllowAll = true
	}

	cfg := &Config{
		Env:                    envString("APP_ENV", "development"),
		HTTPAddr:               envString("HTTP_ADDR", ":8080"),
		DatabaseURL:            envString("BOH_DATABASE_URL", ""),
		CORSAllowAll:           corsAllowAll,
		CORSOrigins:            corsOrigins,
		CORSAllowCreds:         envBool("CORS_ALLOW_CREDENTIALS", true),
		IntakeRatePerSecond:    envFloat("INTAKE_RATE_PER_SECOND", 5),
		IntakeBurst:            envInt("INTAKE_BURST", 10),
		ListenerReconnectDelay: envDuration("LISTENER_RECONNECT_DELAY", 2*time.Second),
		CampaignSeedFile:       envString("CAMPAIGN_SEED_FILE", "campaigns.yaml"),
	}

	if cfg.CORSAllowAll && cfg.CORSAllowCreds {
		return nil, fmt.Errorf("CORS_ALLOW_CREDENTIALS cannot be true when CORS_ALLOW_ALL is true")
	}
	if cfg.IntakeRatePerSecond <= 0 {
		return nil, fmt.Errorf("INTAKE_RATE_PER_SECOND must be positive")
	}
	if cfg.IntakeBurst < 1 {
		return nil, fmt.Errorf("INTAKE_BURST must be at least 1")
	}

	return cfg, nil
}

func envString(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		return val
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	return strings.EqualFold(raw, "true")
}

// The numeric helpers return zero on a malformed value; Load's validation
// rejects the zero where it is not an acceptable setting.
func envFloat(key string, fallback float64) float64 {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0
	}
	return v
}

func envInt(key string, fallback int) int {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0
	}
	return v
}

func envDuration(key string, fallback time.Duration) time.Duration {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0
	}
	return v
}

func splitCSV(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
