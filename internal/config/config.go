package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
	"github.com/xhit/go-str2duration/v2"
)

// ConfigError reports a missing or unusable server setting.
type ConfigError struct {
	Key    string
	Reason string
}

func (e *ConfigError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("config: %s %s", e.Key, e.Reason)
	}
	return fmt.Sprintf("config: %s is not set", e.Key)
}

// AccurateConfig holds everything needed to talk to the Accurate Online API.
type AccurateConfig struct {
	Host       string
	SessionID  string
	Timeout    time.Duration // per detail attempt
	Attempts   int           // total detail attempts, including the first
	RetryDelay time.Duration // fixed delay between detail attempts
	CacheTTL   time.Duration // 0 disables the detail cache
}

// Validate returns a *ConfigError when a required upstream setting is missing.
func (c AccurateConfig) Validate() error {
	if strings.TrimSpace(c.Host) == "" {
		return &ConfigError{Key: "ACCURATE_HOST"}
	}
	if strings.TrimSpace(c.SessionID) == "" {
		return &ConfigError{Key: "ACCURATE_SESSION_ID"}
	}
	return nil
}

// BatchConfig controls fan-out of detail fetches.
type BatchConfig struct {
	Size  int
	Delay time.Duration
}

// RateLimitConfig controls the inbound token bucket.
type RateLimitConfig struct {
	RPS   float64
	Burst int
}

type Config struct {
	Port           string
	AllowedOrigins string
	LogLevel       string
	LogJSON        bool

	Accurate  AccurateConfig
	Batch     BatchConfig
	RateLimit RateLimitConfig

	// StatutoryRate is applied to the taxable base of lodging and food-service
	// invoices that carry no tax amount. It is a simplification, not tax law.
	StatutoryRate decimal.Decimal
	MaxPerPage    int
}

// PerPageCap is the largest page size the upstream list endpoints accept.
const PerPageCap = 1000

// Default returns the configuration used when no environment is set.
func Default() *Config {
	return &Config{
		Port:     "8080",
		LogLevel: "info",
		Accurate: AccurateConfig{
			Timeout:    10 * time.Second,
			Attempts:   3,
			RetryDelay: 400 * time.Millisecond,
			CacheTTL:   time.Minute,
		},
		Batch: BatchConfig{
			Size:  5,
			Delay: 500 * time.Millisecond,
		},
		RateLimit: RateLimitConfig{
			RPS:   10,
			Burst: 30,
		},
		StatutoryRate: decimal.NewFromFloat(0.10),
		MaxPerPage:    PerPageCap,
	}
}

// Load reads .env (if present) and the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("no .env file loaded, using process environment", "err", err)
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, falling back to Default for absent or
// invalid values. Invalid values are logged, never fatal.
func FromEnv(lookup func(string) (string, bool)) *Config {
	e := env{lookup: lookup}
	d := Default()

	return &Config{
		Port:           e.str("SERVER_PORT", d.Port),
		AllowedOrigins: e.str("ALLOWED_ORIGINS", ""),
		LogLevel:       e.str("LOG_LEVEL", d.LogLevel),
		LogJSON:        e.boolean("LOG_JSON", false),
		Accurate: AccurateConfig{
			Host:       strings.TrimRight(e.str("ACCURATE_HOST", ""), "/"),
			SessionID:  e.str("ACCURATE_SESSION_ID", ""),
			Timeout:    e.duration("DETAIL_TIMEOUT", d.Accurate.Timeout),
			Attempts:   e.positiveInt("DETAIL_ATTEMPTS", d.Accurate.Attempts),
			RetryDelay: e.duration("DETAIL_RETRY_DELAY", d.Accurate.RetryDelay),
			CacheTTL:   e.duration("DETAIL_CACHE_TTL", d.Accurate.CacheTTL),
		},
		Batch: BatchConfig{
			Size:  e.positiveInt("BATCH_SIZE", d.Batch.Size),
			Delay: e.duration("BATCH_DELAY", d.Batch.Delay),
		},
		RateLimit: RateLimitConfig{
			RPS:   e.float("RATE_LIMIT_RPS", d.RateLimit.RPS),
			Burst: e.positiveInt("RATE_LIMIT_BURST", d.RateLimit.Burst),
		},
		StatutoryRate: e.rate("STATUTORY_TAX_RATE", d.StatutoryRate),
		MaxPerPage:    min(e.positiveInt("MAX_PER_PAGE", d.MaxPerPage), PerPageCap),
	}
}

type env struct {
	lookup func(string) (string, bool)
}

func (e env) str(key, fallback string) string {
	if v, ok := e.lookup(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func (e env) boolean(key string, fallback bool) bool {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn("invalid boolean, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return b
}

func (e env) positiveInt(key string, fallback int) int {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Warn("invalid positive integer, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return n
}

func (e env) float(key string, fallback float64) float64 {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f <= 0 {
		log.Warn("invalid number, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return f
}

// duration accepts Go durations plus day/week units ("1d", "2w").
func (e env) duration(key string, fallback time.Duration) time.Duration {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	d, err := str2duration.ParseDuration(v)
	if err != nil || d < 0 {
		log.Warn("invalid duration, using default", "key", key, "value", v, "default", fallback)
		return fallback
	}
	return d
}

func (e env) rate(key string, fallback decimal.Decimal) decimal.Decimal {
	v := e.str(key, "")
	if v == "" {
		return fallback
	}
	r, err := decimal.NewFromString(v)
	if err != nil || r.IsNegative() || r.GreaterThan(decimal.NewFromInt(1)) {
		log.Warn("invalid tax rate, using default", "key", key, "value", v, "default", fallback.String())
		return fallback
	}
	return r
}
