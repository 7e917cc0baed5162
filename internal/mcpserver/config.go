package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/apish/internal/fileutil"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Build cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Endpoint list defaults for compile_api.
	ListLimit   int
	DetailLimit int
	MaxLimit    int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool

	// URL document fetching.
	FetchTimeout time.Duration
	DialTimeout  time.Duration
	MaxRedirects int

	// generate_openapi default.
	DeriveOperationIDs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APISH_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:       envBool("APISH_MCP_CACHE_ENABLED", true),
		CacheMaxSize:       envInt("APISH_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:       envDuration("APISH_MCP_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:        envDuration("APISH_MCP_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:    envDuration("APISH_MCP_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval: envDuration("APISH_MCP_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ListLimit:          envInt("APISH_MCP_LIST_LIMIT", 100),
		DetailLimit:        envInt("APISH_MCP_DETAIL_LIMIT", 25),
		MaxLimit:           envInt("APISH_MCP_MAX_LIMIT", 1000),
		MaxInlineSize:      envInt64("APISH_MCP_MAX_INLINE_SIZE", fileutil.DefaultMaxDocumentSize),
		AllowPrivateIPs:    envBool("APISH_MCP_ALLOW_PRIVATE_IPS", false),
		FetchTimeout:       envDuration("APISH_MCP_FETCH_TIMEOUT", 30*time.Second),
		DialTimeout:        envDuration("APISH_MCP_DIAL_TIMEOUT", 10*time.Second),
		MaxRedirects:       envInt("APISH_MCP_MAX_REDIRECTS", 10),
		DeriveOperationIDs: envBool("APISH_MCP_DERIVE_OPERATION_IDS", true),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envInt64(key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
