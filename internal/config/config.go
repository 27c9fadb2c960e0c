package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenPort      string        // ex: ":8787"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	RootFolderName      string // title of the top-level archive folder
	DefaultTimerMinutes int    // countdown applied when no setting is stored
	PolicyFile          string // path to policy.yaml (optional, empty = built-in defaults)
	ExportDir           string // directory where CSV exports are written

	AllowedOrigins []string // origins allowed to call the popup API (CORS)

	// Redis
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDT             time.Duration // Redis dial timeout (ex: 5s)
	RedisRT             time.Duration // Redis read timeout (ex: 3s)
	RedisWT             time.Duration // Redis write timeout (ex: 3s)
	RedisPoolSize       int           // Redis connection pool size
	RedisConnectTimeout time.Duration // Total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // Initial wait between retries (ex: 2s, grows exponentially)
	RedisMaxWait        time.Duration // max wait between retries (ex: 10s)
	RedisPingTimeout    time.Duration // timeout for each ping attempt (ex: 5s)
}

func Load() *Config {
	// Local development convenience, ignored when there is no .env file.
	_ = godotenv.Load()

	cfg := &Config{
		// Server settings
		ListenPort:      getenv("HOARD_LISTEN_PORT", ":8787"),
		ShutdownTimeout: mustDuration("HOARD_SHUTDOWN_TIMEOUT", 5*time.Second),

		// Logging
		LogLevel:  getenv("HOARD_LOG_LEVEL", "info"),
		PrettyLog: mustBool("HOARD_PRETTY_LOG", true),

		// Archival behavior
		RootFolderName:      getenv("HOARD_ROOT_FOLDER", "TabHoardersFriend"),
		DefaultTimerMinutes: mustPositiveInt("HOARD_DEFAULT_TIMER_MINUTES", 30),
		PolicyFile:          getenv("HOARD_POLICY_FILE", ""),
		ExportDir:           getenv("HOARD_EXPORT_DIR", "./exports"),

		AllowedOrigins: splitAndTrim(getenv("HOARD_ALLOWED_ORIGINS", "")),

		// Redis settings
		RedisAddr:           getenv("HOARD_REDIS_ADDR", "localhost:6379"),
		RedisUser:           getenv("HOARD_REDIS_USERNAME", ""),
		RedisPassword:       getenv("HOARD_REDIS_PASSWORD", ""),
		RedisDB:             mustInt("HOARD_REDIS_DB", 0),
		RedisDT:             mustDuration("REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisRT:             mustDuration("REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWT:             mustDuration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       mustInt("REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("REDIS_PING_TIMEOUT", 5*time.Second),
	}

	if cfg.RootFolderName == "" {
		panic("❌ FATAL: HOARD_ROOT_FOLDER must not be empty")
	}

	return cfg
}

// helpers

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func mustInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		panic(fmt.Sprintf("❌ FATAL: Invalid integer value for %s: %s", key, v))
	}
	return def
}

func mustPositiveInt(key string, def int) int {
	i := mustInt(key, def)
	if i <= 0 {
		panic(fmt.Sprintf("❌ FATAL: %s must be a positive integer, got %d", key, i))
	}
	return i
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func mustDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitAndTrim(s string) []string {
	if s == "" {
		return nil
	}
	raw := strings.Split(s, ",")
	parts := make([]string, 0, len(raw))
	for _, part := range raw {
		trimmed := strings.TrimSpace(part)
		// Remove surrounding quotes if present
		trimmed = strings.Trim(trimmed, `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
