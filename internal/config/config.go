package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// minSigningKeyLen is the shortest HS256 key accepted outside development.
const minSigningKeyLen = 32

type Config struct {
	Port           string        `mapstructure:"PORT"`
	Env            string        `mapstructure:"ENV"`
	LogLevel       string        `mapstructure:"LOG_LEVEL"`
	DatabaseURL    string        `mapstructure:"DATABASE_URL"`
	DBMaxConns     int32         `mapstructure:"DB_MAX_CONNS"`
	DBMinConns     int32         `mapstructure:"DB_MIN_CONNS"`
	CORSOrigins    []string      `mapstructure:"-"`
	RateLimitRPS   float64       `mapstructure:"RATE_LIMIT_RPS"`
	RateLimitBurst int           `mapstructure:"RATE_LIMIT_BURST"`
	AuthSigningKey string        `mapstructure:"AUTH_SIGNING_KEY"`
	AuthIssuer     string        `mapstructure:"AUTH_ISSUER"`
	CohortSize     int           `mapstructure:"COHORT_SIZE"`
	CohortSeed     int64         `mapstructure:"COHORT_SEED"`
	LoadDelay      time.Duration `mapstructure:"LOAD_DELAY"`
	RequestTimeout time.Duration `mapstructure:"REQUEST_TIMEOUT"`
	TableCacheSize int           `mapstructure:"TABLE_CACHE_SIZE"`

	// SnapshotRetention caps the in-memory snapshot store.
	SnapshotRetention int `mapstructure:"SNAPSHOT_RETENTION"`
}

var keys = []string{
	"PORT", "ENV", "LOG_LEVEL",
	"DATABASE_URL", "DB_MAX_CONNS", "DB_MIN_CONNS",
	"CORS_ORIGINS", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST",
	"AUTH_SIGNING_KEY", "AUTH_ISSUER",
	"COHORT_SIZE", "COHORT_SEED", "LOAD_DELAY", "REQUEST_TIMEOUT", "TABLE_CACHE_SIZE",
	"SNAPSHOT_RETENTION",
}

// Load reads configuration from the environment, falling back to a .env
// file in the working directory and then to defaults.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	v.SetDefault("PORT", "8000")
	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("DB_MAX_CONNS", 10)
	v.SetDefault("DB_MIN_CONNS", 1)
	v.SetDefault("CORS_ORIGINS", "http://localhost:3000")
	v.SetDefault("RATE_LIMIT_RPS", 100)
	v.SetDefault("RATE_LIMIT_BURST", 200)
	v.SetDefault("COHORT_SIZE", 50)
	v.SetDefault("COHORT_SEED", 0)
	v.SetDefault("LOAD_DELAY", "0s")
	v.SetDefault("REQUEST_TIMEOUT", "30s")
	v.SetDefault("TABLE_CACHE_SIZE", 256)
	v.SetDefault("SNAPSHOT_RETENTION", 20)

	// Bind env vars explicitly so Unmarshal picks them up
	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// A missing .env file is not an error.
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.CORSOrigins = splitList(v.GetString("CORS_ORIGINS"))

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// HasDatabase reports whether snapshots and staff users are stored in
// Postgres rather than in memory.
func (c *Config) HasDatabase() bool {
	return c.DatabaseURL != ""
}

// Level returns the zerolog level for LOG_LEVEL, defaulting to info.
func (c *Config) Level() zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(c.LogLevel))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

// Validate checks that the configuration is safe to run. Outside
// development a signing key of at least 32 bytes is required so that JWT
// authentication is enforced.
func (c *Config) Validate() error {
	if !c.IsDev() && len(c.AuthSigningKey) < minSigningKeyLen {
		return fmt.Errorf("AUTH_SIGNING_KEY must be at least %d bytes when ENV=%q", minSigningKeyLen, c.Env)
	}
	if c.CohortSize <= 0 {
		return fmt.Errorf("COHORT_SIZE must be positive, got %d", c.CohortSize)
	}
	if c.LoadDelay < 0 {
		return fmt.Errorf("LOAD_DELAY must not be negative, got %s", c.LoadDelay)
	}
	if c.RequestTimeout > 0 && c.LoadDelay >= c.RequestTimeout {
		return fmt.Errorf("LOAD_DELAY (%s) must be shorter than REQUEST_TIMEOUT (%s)", c.LoadDelay, c.RequestTimeout)
	}
	if c.DBMinConns > c.DBMaxConns {
		return fmt.Errorf("DB_MIN_CONNS (%d) exceeds DB_MAX_CONNS (%d)", c.DBMinConns, c.DBMaxConns)
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS and RATE_LIMIT_BURST must be positive")
	}
	return nil
}
