package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr              string
	DataDir           string
	StaticDir         string
	LogLevel          string
	BackupLimit       int
	ArchiveLimit      int
	LedgerPath        string
	RedisURL          string
	MirrorWorkerCount int
	MirrorQueueSize   int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:              envOr("ADDR", ":3010"),
		DataDir:           envOr("DATA_DIR", "data"),
		StaticDir:         envOr("STATIC_DIR", "."),
		LogLevel:          envOr("LOG_LEVEL", "INFO"),
		BackupLimit:       envIntOr("BACKUP_LIMIT", 10),
		ArchiveLimit:      envIntOr("ARCHIVE_LIMIT", 0),
		LedgerPath:        envOr("LEDGER_PATH", "file:data/ledger.db"),
		RedisURL:          envOr("REDIS_URL", ""),
		MirrorWorkerCount: envIntOr("MIRROR_WORKER_COUNT", 1),
		MirrorQueueSize:   envIntOr("MIRROR_QUEUE_SIZE", 16),
	}
}

// Validate reports the first configuration value that cannot be used.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("ADDR cannot be empty")
	}
	if strings.TrimSpace(c.DataDir) == "" {
		return fmt.Errorf("DATA_DIR cannot be empty")
	}
	if strings.TrimSpace(c.LedgerPath) == "" {
		return fmt.Errorf("LEDGER_PATH cannot be empty")
	}
	if c.BackupLimit < 1 {
		return fmt.Errorf("BACKUP_LIMIT must be at least 1, got %d", c.BackupLimit)
	}
	if c.ArchiveLimit < 0 {
		return fmt.Errorf("ARCHIVE_LIMIT cannot be negative, got %d", c.ArchiveLimit)
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel)
	}
	if c.MirrorWorkerCount < 1 {
		return fmt.Errorf("MIRROR_WORKER_COUNT must be at least 1, got %d", c.MirrorWorkerCount)
	}
	if c.MirrorQueueSize < 1 {
		return fmt.Errorf("MIRROR_QUEUE_SIZE must be at least 1, got %d", c.MirrorQueueSize)
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
