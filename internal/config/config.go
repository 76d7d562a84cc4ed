// Package config provides configuration loading from environment variables.
package config

import (
	"os"
	"strconv"

	"github.com/usestring/trafficspec/pkg/jsoncompact"
)

// Analysis defaults
const (
	DefaultAnalyzeWorkersValue      = 4
	DefaultMaxRetainedExamplesValue = 3
	DefaultNormalizeCacheSizeValue  = 4096
)

// Config holds all configuration for the analyzer, CLI and MCP server.
type Config struct {
	AnalyzeWorkers      int // ANALYZE_WORKERS, default 4
	MaxRetainedExamples int // MAX_RETAINED_EXAMPLES, default 3
	NormalizeCacheSize  int // NORMALIZE_CACHE_SIZE, default 4096

	// Spec metadata defaults, overridable per run from the CLI
	SpecTitle   string // SPEC_TITLE, default "Generated API"
	SpecVersion string // SPEC_VERSION, default "1.0.0"

	// Compaction bounds for retained response examples
	CompactMaxArrayItems int // COMPACT_MAX_ARRAY_ITEMS
	CompactMaxStringLen  int // COMPACT_MAX_STRING_LEN
	CompactMaxObjectKeys int // COMPACT_MAX_OBJECT_KEYS
	CompactMaxDepth      int // COMPACT_MAX_DEPTH

	// Logging configuration
	LogLevel      string // LOG_LEVEL, default "info"
	LogFormat     string // LOG_FORMAT, default "text" ("text" or "json")
	LogFile       string // LOG_FILE, default "" (stderr only)
	LogMaxSizeMB  int    // LOG_MAX_SIZE_MB, default 10
	LogMaxBackups int    // LOG_MAX_BACKUPS, default 5
	LogMaxAgeDays int    // LOG_MAX_AGE_DAYS, default 28
	LogCompress   bool   // LOG_COMPRESS, default true
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		AnalyzeWorkers:      getEnvInt("ANALYZE_WORKERS", DefaultAnalyzeWorkersValue),
		MaxRetainedExamples: getEnvInt("MAX_RETAINED_EXAMPLES", DefaultMaxRetainedExamplesValue),
		NormalizeCacheSize:  getEnvInt("NORMALIZE_CACHE_SIZE", DefaultNormalizeCacheSizeValue),

		SpecTitle:   getEnvString("SPEC_TITLE", "Generated API"),
		SpecVersion: getEnvString("SPEC_VERSION", "1.0.0"),

		CompactMaxArrayItems: getEnvInt("COMPACT_MAX_ARRAY_ITEMS", jsoncompact.DefaultMaxArrayItems),
		CompactMaxStringLen:  getEnvInt("COMPACT_MAX_STRING_LEN", jsoncompact.DefaultMaxStringLen),
		CompactMaxObjectKeys: getEnvInt("COMPACT_MAX_OBJECT_KEYS", jsoncompact.DefaultMaxObjectKeys),
		CompactMaxDepth:      getEnvInt("COMPACT_MAX_DEPTH", jsoncompact.DefaultMaxDepth),

		LogLevel:      getEnvString("LOG_LEVEL", "info"),
		LogFormat:     getEnvString("LOG_FORMAT", "text"),
		LogFile:       getEnvString("LOG_FILE", ""),
		LogMaxSizeMB:  getEnvInt("LOG_MAX_SIZE_MB", 10),
		LogMaxBackups: getEnvInt("LOG_MAX_BACKUPS", 5),
		LogMaxAgeDays: getEnvInt("LOG_MAX_AGE_DAYS", 28),
		LogCompress:   getEnvBool("LOG_COMPRESS", true),
	}
}

func getEnvBool(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		switch v {
		case "1", "true", "yes", "on":
			return true
		case "0", "false", "no", "off":
			return false
		}
	}
	return defaultVal
}

func getEnvString(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}
