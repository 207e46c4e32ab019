package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP server
	Port string

	// Ledger slot
	LedgerPath       string
	CategorySeedFile string

	// Transactions database
	SQLiteDBPath string

	// AMQP (optional; empty URL disables publishing)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Derived-series cache
	CacheTTL  time.Duration
	CacheSize int

	// Mirror worker catch-up sweep
	SyncInterval time.Duration
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8081"),

		LedgerPath:       getEnv("LEDGER_PATH", "./data/ledger.json"),
		CategorySeedFile: getEnv("CATEGORY_SEED_FILE", ""),

		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/kharcha.db"),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "kharcha"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_events"),

		CacheTTL:  getEnvDuration("CACHE_TTL", 30*time.Second),
		CacheSize: getEnvInt("CACHE_SIZE", 128),

		SyncInterval: getEnvDuration("SYNC_INTERVAL", 5*time.Minute),
	}
}

// Validate checks the configuration and returns every problem at once.
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	if c.LedgerPath == "" {
		errs = append(errs, "ledger path cannot be empty")
	} else if msg := ensureParentDir(c.LedgerPath); msg != "" {
		errs = append(errs, msg)
	}

	if c.SQLiteDBPath == "" {
		errs = append(errs, "SQLite database path cannot be empty")
	} else if msg := ensureParentDir(c.SQLiteDBPath); msg != "" {
		errs = append(errs, msg)
	}

	if c.CategorySeedFile != "" {
		if _, err := os.Stat(c.CategorySeedFile); os.IsNotExist(err) {
			errs = append(errs, fmt.Sprintf("category seed file does not exist: %s", c.CategorySeedFile))
		}
	}

	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.CacheTTL < time.Second {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
	} else if c.CacheTTL > time.Hour {
		errs = append(errs, fmt.Sprintf("invalid cache TTL %v: must be at most 1 hour", c.CacheTTL))
	}

	if c.CacheSize < 1 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
	} else if c.CacheSize > 10000 {
		errs = append(errs, fmt.Sprintf("invalid cache size %d: must be at most 10000", c.CacheSize))
	}

	if c.SyncInterval < time.Second {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be at least 1 second", c.SyncInterval))
	} else if c.SyncInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid sync interval %v: must be at most 24 hours", c.SyncInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// AMQPEnabled reports whether event publishing is configured.
func (c *Config) AMQPEnabled() bool {
	return c.AMQPURL != ""
}

func ensureParentDir(path string) string {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return ""
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Sprintf("cannot create directory '%s': %v", dir, err)
		}
	}
	return ""
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
