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
	ListenPort      string        // ex: ":8080"
	ShutdownTimeout time.Duration // ex: 5s

	LogLevel  string // "debug" | "info" | "warn" | "error"
	PrettyLog bool   // true => zap dev (color), false => zap prod (JSON)

	SQLitePath string // path to the bookmark database file (":memory:" for tests)

	JWTSecret string        // HMAC secret for session tokens (min 16 chars)
	TokenTTL  time.Duration // session token lifetime (default: 24h)

	WebAppURL      string   // base URL the extension opens for "view all" links
	AllowedOrigins []string // CORS origins (web app + extension)

	RecentLimit       int           // default number of recent bookmarks in popup state
	ReconcileInterval time.Duration // interval for warm-cache rebuilds (default: 15m)

	FetchMetadata   bool          // fill missing titles by fetching the page
	MetadataTimeout time.Duration // per-page fetch timeout

	// Redis (saved-URL cache persistence). Empty RedisAddr disables Redis
	// and falls back to in-process snapshots.
	RedisAddr           string        // ex: "localhost:6379"
	RedisUser           string        // optional
	RedisPassword       string        // optional
	RedisDB             int           // Redis DB number
	RedisDialTimeout    time.Duration // ex: 5s
	RedisReadTimeout    time.Duration // ex: 3s
	RedisWriteTimeout   time.Duration // ex: 3s
	RedisPoolSize       int           // connection pool size
	RedisConnectTimeout time.Duration // total time to retry connecting (ex: 30s)
	RedisRetryInterval  time.Duration // initial wait between retries, grows exponentially
	RedisMaxWait        time.Duration // max wait between retries
	RedisPingTimeout    time.Duration // timeout for each ping attempt
	RedisWarnThreshold  int           // warn after this many attempts

	// Rate limiting on the auth endpoints
	AuthRateBurst  int  // token bucket capacity per IP
	AuthRatePerMin int  // refill per IP per minute
	TrustProxy     bool // true => resolve client IP from proxy headers
}

// fileConfig is the optional YAML overlay. Env vars win over file values,
// file values win over built-in defaults.
type fileConfig struct {
	ListenPort     string   `yaml:"listen_port"`
	LogLevel       string   `yaml:"log_level"`
	SQLitePath     string   `yaml:"sqlite_path"`
	WebAppURL      string   `yaml:"web_app_url"`
	AllowedOrigins []string `yaml:"allowed_origins"`
	RedisAddr      string   `yaml:"redis_addr"`
	RedisDB        *int     `yaml:"redis_db"`
}

// Load builds the configuration from RL_* environment variables, overlaid on
// the optional YAML file named by RL_CONFIG_FILE. Missing required values
// panic: the daemon cannot run without them.
func Load() *Config {
	file := loadFile(os.Getenv("RL_CONFIG_FILE"))

	cfg := &Config{
		ListenPort:      getenv("RL_LISTEN_PORT", or(file.ListenPort, ":8080")),
		ShutdownTimeout: mustDuration("RL_SHUTDOWN_TIMEOUT", 5*time.Second),

		LogLevel:  getenv("RL_LOG_LEVEL", or(file.LogLevel, "info")),
		PrettyLog: mustBool("RL_PRETTY_LOG", true),

		SQLitePath: getenv("RL_SQLITE_PATH", or(file.SQLitePath, "data/readinglist.db")),

		JWTSecret: requireEnv("RL_JWT_SECRET"),
		TokenTTL:  mustDuration("RL_TOKEN_TTL", 24*time.Hour),

		WebAppURL:      getenv("RL_WEB_APP_URL", or(file.WebAppURL, "https://reading.sneyderangulo.com")),
		AllowedOrigins: getenvSlice("RL_ALLOWED_ORIGINS", file.AllowedOrigins),

		RecentLimit:       getenvInt("RL_RECENT_LIMIT", 10),
		ReconcileInterval: mustDuration("RL_RECONCILE_INTERVAL", 15*time.Minute),

		FetchMetadata:   mustBool("RL_FETCH_METADATA", true),
		MetadataTimeout: mustDuration("RL_METADATA_TIMEOUT", 5*time.Second),

		// Empty means no Redis: cache snapshots stay in process memory.
		RedisAddr:           getenv("RL_REDIS_ADDR", file.RedisAddr),
		RedisUser:           getenv("RL_REDIS_USERNAME", "default"),
		RedisPassword:       getenv("RL_REDIS_PASSWORD", ""),
		RedisDB:             getenvInt("RL_REDIS_DB", orInt(file.RedisDB, 0)),
		RedisDialTimeout:    mustDuration("RL_REDIS_DIAL_TIMEOUT", 5*time.Second),
		RedisReadTimeout:    mustDuration("RL_REDIS_READ_TIMEOUT", 3*time.Second),
		RedisWriteTimeout:   mustDuration("RL_REDIS_WRITE_TIMEOUT", 3*time.Second),
		RedisPoolSize:       getenvInt("RL_REDIS_POOL_SIZE", 10),
		RedisConnectTimeout: mustDuration("RL_REDIS_CONNECT_TIMEOUT", 30*time.Second),
		RedisRetryInterval:  mustDuration("RL_REDIS_RETRY_INTERVAL", 2*time.Second),
		RedisMaxWait:        mustDuration("RL_REDIS_MAX_WAIT", 10*time.Second),
		RedisPingTimeout:    mustDuration("RL_REDIS_PING_TIMEOUT", 5*time.Second),
		RedisWarnThreshold:  getenvInt("RL_REDIS_WARN_THRESHOLD", 3),

		AuthRateBurst:  getenvInt("RL_AUTH_RATE_BURST", 10),
		AuthRatePerMin: getenvInt("RL_AUTH_RATE_PER_MIN", 30),
		TrustProxy:     mustBool("RL_TRUST_PROXY", false),
	}

	if len(cfg.JWTSecret) < 16 {
		panic("FATAL: RL_JWT_SECRET must be at least 16 characters")
	}

	return cfg
}

func loadFile(path string) fileConfig {
	var fc fileConfig
	if path == "" {
		return fc
	}
	data, err := os.ReadFile(path)
	if err != nil {
		panic(fmt.Sprintf("FATAL: cannot read config file %s: %v", path, err))
	}
	if err := yaml.Unmarshal(data, &fc); err != nil {
		panic(fmt.Sprintf("FATAL: cannot parse config file %s: %v", path, err))
	}
	return fc
}

// helpers

func or(v, def string) string {
	if v != "" {
		return v
	}
	return def
}

func orInt(v *int, def int) int {
	if v != nil {
		return *v
	}
	return def
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func requireEnv(key string) string {
	v := os.Getenv(key)
	if v == "" {
		panic(fmt.Sprintf("FATAL: required environment variable %s is not set", key))
	}
	return v
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return def
}

func mustBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
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

func getenvSlice(key string, def []string) []string {
	if v := os.Getenv(key); v != "" {
		return splitAndTrim(v)
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
		trimmed := strings.Trim(strings.TrimSpace(part), `"'`)
		if trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}
