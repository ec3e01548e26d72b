package common

import (
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration
type Config struct {
	Cache   CacheConfig
	Parser  ParserConfig
	Extract ExtractConfig
}

// CacheConfig holds cache-store configuration
type CacheConfig struct {
	Dir string
}

// ParserConfig holds the heuristic thresholds used by the field extractor.
// These are tunable product parameters, never package globals.
type ParserConfig struct {
	// RedeyeMaxBlock is the longest block time a midnight-crossing leg may
	// have and still count as a redeye.
	RedeyeMaxBlock time.Duration
	// RedeyeHour is the local time of day (offset from midnight) a leg must
	// span to count as a redeye even without crossing midnight.
	RedeyeHour time.Duration
	// CommuteEarliestReport and CommuteLatestRelease bound the commute
	// window at the home base.
	CommuteEarliestReport time.Duration
	CommuteLatestRelease  time.Duration
	// LazyDutyRatio marks a multi-day pairing lazy when total block time
	// divided by TAFB falls below it.
	LazyDutyRatio float64
	// TAFBTolerance is the allowed gap between the labeled TAFB and the
	// release-minus-report span before a validation warning is attached.
	TAFBTolerance time.Duration
	// MaxFailedRatio is the fraction of failed segments above which the
	// whole document is rejected.
	MaxFailedRatio float64
	// Workers sizes the segment-extraction pool. Defaults to GOMAXPROCS.
	Workers int
	// MinRepeatPages is how many pages must repeat a header or footer line
	// before the normalizer strips it.
	MinRepeatPages int
	// DeadheadPrefixes are flight-number prefixes treated as deadhead
	// positioning legs.
	DeadheadPrefixes []string
}

// ExtractConfig holds text-extraction configuration
type ExtractConfig struct {
	Pdftotext string
	MaxPages  int
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Cache: CacheConfig{
			Dir: getEnv("PAIRINGS_CACHE_DIR", defaultCacheDir()),
		},
		Parser: ParserConfig{
			RedeyeMaxBlock:        getEnvAsDuration("PAIRINGS_REDEYE_MAX_BLOCK", 6*time.Hour),
			RedeyeHour:            getEnvAsDuration("PAIRINGS_REDEYE_HOUR", 2*time.Hour),
			CommuteEarliestReport: getEnvAsDuration("PAIRINGS_COMMUTE_EARLIEST_REPORT", 11*time.Hour),
			CommuteLatestRelease:  getEnvAsDuration("PAIRINGS_COMMUTE_LATEST_RELEASE", 22*time.Hour+30*time.Minute),
			LazyDutyRatio:         getEnvAsFloat64("PAIRINGS_LAZY_DUTY_RATIO", 0.30),
			TAFBTolerance:         getEnvAsDuration("PAIRINGS_TAFB_TOLERANCE", 30*time.Minute),
			MaxFailedRatio:        getEnvAsFloat64("PAIRINGS_MAX_FAILED_RATIO", 0.50),
			Workers:               getEnvAsInt("PAIRINGS_WORKERS", runtime.GOMAXPROCS(0)),
			MinRepeatPages:        getEnvAsInt("PAIRINGS_MIN_REPEAT_PAGES", 3),
			DeadheadPrefixes:      getEnvAsList("PAIRINGS_DEADHEAD_PREFIXES", []string{"DH", "AC", "UA", "LIM9", "AV", "VB", "AA"}),
		},
		Extract: ExtractConfig{
			Pdftotext: getEnv("PAIRINGS_PDFTOTEXT", "pdftotext"),
			MaxPages:  getEnvAsInt("PAIRINGS_MAX_PAGES", 0),
		},
	}
}

func defaultCacheDir() string {
	if dir, err := os.UserCacheDir(); err == nil {
		return filepath.Join(dir, "pairings-tracker")
	}
	return "./cache"
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsList(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, strings.ToUpper(p))
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	if c.Cache.Dir == "" {
		return NewAppError("CONFIG_ERROR", "PAIRINGS_CACHE_DIR is required", ErrInvalidInput)
	}
	if c.Parser.MaxFailedRatio < 0 || c.Parser.MaxFailedRatio > 1 {
		return NewAppError("CONFIG_ERROR", "PAIRINGS_MAX_FAILED_RATIO must be within [0,1]", ErrInvalidInput)
	}
	if c.Parser.LazyDutyRatio <= 0 || c.Parser.LazyDutyRatio >= 1 {
		return NewAppError("CONFIG_ERROR", "PAIRINGS_LAZY_DUTY_RATIO must be within (0,1)", ErrInvalidInput)
	}
	if c.Parser.Workers < 1 {
		return NewAppError("CONFIG_ERROR", "PAIRINGS_WORKERS must be positive", ErrInvalidInput)
	}
	return nil
}
