// Package config loads the immutable per-run configuration from environment
// variables. Every tunable the pipeline threads down to the adapters and the
// fetcher lives here; nothing is read from globals at run time.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/couchcryptid/geo-event-ingest/internal/domain"
)

// Defaults mirror the production Balkan deployment.
const (
	defaultBBox      = "13.0,37.0,30.0,47.5"
	defaultUserAgent = "balkan-security-map/1.0 (geo-event-ingest)"

	defaultUSGSURL  = "https://earthquake.usgs.gov/fdsnws/event/1/query"
	defaultGDACSURL = "https://www.gdacs.org/xml/rss.xml"
	defaultGDELTURL = "https://api.gdeltproject.org/api/v2/doc/doc"
)

var (
	defaultKeywords = []string{
		"protest", "demonstration", "riot", "clash", "violence",
		"border", "checkpoint", "police", "attack", "explosion",
	}
	defaultCountries = []string{
		"Albania", "Bosnia", "Herzegovina", "Bulgaria", "Croatia",
		"Greece", "Kosovo", "Montenegro", "North Macedonia",
		"Romania", "Serbia", "Slovenia", "Turkey", "Moldova", "Hungary",
	}
)

// Config holds all pipeline settings, populated from environment variables.
type Config struct {
	OutputDir string
	BBox      domain.BoundingBox

	UserAgent     string
	HTTPTimeout   time.Duration
	FetchAttempts int
	FetchBackoff  time.Duration

	USGSURL          string
	USGSWindowDays   int
	USGSMinMagnitude float64

	GDACSURL    string
	GDACSMaxAge time.Duration

	GDELTURL        string
	GDELTWindowDays int
	GDELTMaxRecords int
	GDELTKeywords   []string
	GDELTCountries  []string

	LogLevel  string
	LogFormat string

	// Event sink, enabled when brokers are configured.
	KafkaBrokers []string
	KafkaTopic   string
	KafkaEnabled bool

	// Data/status server (cmd/serve).
	HTTPAddr        string
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applying defaults
// where unset.
func Load() (*Config, error) {
	bbox, err := domain.ParseBBox(envOrDefault("BBOX", defaultBBox))
	if err != nil {
		return nil, err
	}

	httpTimeout, err := parseDuration("HTTP_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	fetchBackoff, err := parseDuration("FETCH_BACKOFF", 2*time.Second)
	if err != nil {
		return nil, err
	}
	gdacsMaxAgeDays, err := parseInt("GDACS_MAX_AGE_DAYS", 14)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := parseDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	fetchAttempts, err := parseInt("FETCH_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	usgsWindowDays, err := parseInt("USGS_WINDOW_DAYS", 7)
	if err != nil {
		return nil, err
	}
	usgsMinMag, err := parseFloat("USGS_MIN_MAGNITUDE", 2.5)
	if err != nil {
		return nil, err
	}
	gdeltWindowDays, err := parseInt("GDELT_WINDOW_DAYS", 2)
	if err != nil {
		return nil, err
	}
	gdeltMaxRecords, err := parseInt("GDELT_MAX_RECORDS", 250)
	if err != nil {
		return nil, err
	}

	brokers := parseList(os.Getenv("KAFKA_BROKERS"))
	kafkaEnabled := len(brokers) > 0
	if v := os.Getenv("KAFKA_ENABLED"); v != "" {
		kafkaEnabled = v == "true"
	}

	cfg := &Config{
		OutputDir: envOrDefault("OUTPUT_DIR", "docs/data"),
		BBox:      bbox,

		UserAgent:     envOrDefault("USER_AGENT", defaultUserAgent),
		HTTPTimeout:   httpTimeout,
		FetchAttempts: fetchAttempts,
		FetchBackoff:  fetchBackoff,

		USGSURL:          envOrDefault("USGS_URL", defaultUSGSURL),
		USGSWindowDays:   usgsWindowDays,
		USGSMinMagnitude: usgsMinMag,

		GDACSURL:    envOrDefault("GDACS_URL", defaultGDACSURL),
		GDACSMaxAge: time.Duration(gdacsMaxAgeDays) * 24 * time.Hour,

		GDELTURL:        envOrDefault("GDELT_URL", defaultGDELTURL),
		GDELTWindowDays: gdeltWindowDays,
		GDELTMaxRecords: gdeltMaxRecords,
		GDELTKeywords:   parseListOrDefault(os.Getenv("GDELT_KEYWORDS"), defaultKeywords),
		GDELTCountries:  parseListOrDefault(os.Getenv("GDELT_COUNTRIES"), defaultCountries),

		LogLevel:  envOrDefault("LOG_LEVEL", "info"),
		LogFormat: envOrDefault("LOG_FORMAT", "json"),

		KafkaBrokers: brokers,
		KafkaTopic:   envOrDefault("KAFKA_TOPIC", "normalized-geo-events"),
		KafkaEnabled: kafkaEnabled,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		ShutdownTimeout: shutdownTimeout,
	}

	if cfg.OutputDir == "" {
		return nil, errors.New("OUTPUT_DIR is required")
	}
	if cfg.FetchAttempts < 1 {
		return nil, errors.New("FETCH_ATTEMPTS must be at least 1")
	}
	if cfg.USGSWindowDays < 1 || cfg.GDELTWindowDays < 1 {
		return nil, errors.New("source window days must be at least 1")
	}
	if cfg.GDELTMaxRecords < 1 {
		return nil, errors.New("GDELT_MAX_RECORDS must be at least 1")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if len(cfg.GDELTKeywords) == 0 || len(cfg.GDELTCountries) == 0 {
		return nil, errors.New("GDELT keyword and country lists must not be empty")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func parseDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func parseInt(key string, fallback int) (int, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return n, nil
}

func parseFloat(key string, fallback float64) (float64, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return f, nil
}

// parseList splits a comma-separated value, dropping empty entries.
func parseList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseListOrDefault(s string, fallback []string) []string {
	if items := parseList(s); len(items) > 0 {
		return items
	}
	return fallback
}
