// Package config loads and validates environment variables at startup.
// Fail-fast: if a required variable is missing, the process exits with an error.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration for the search service.
type Config struct {
	Port        string
	Environment string // "dev" or "prod"
	DatabaseURL string
	RedisURL    string
	CacheTTL    time.Duration // search/favorites cache expiry
	SessionTTL  time.Duration

	SerpAPIKey string // empty → external search degrades to no results
	EdenAIKey  string // empty → keyword extraction degrades to no keywords

	DefaultKeyword string // substituted when a search has no keyword
	ResultsLimit   int    // cap on listings returned per request

	TrendIntervalMinutes int // keyword popularity refresh cadence
}

// Load reads environment variables and returns a validated Config.
func Load() (*Config, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		return nil, fmt.Errorf("REDIS_URL is required")
	}

	port := os.Getenv("SEARCH_PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "dev"
	}

	cacheTTL := 10 * time.Second
	if s := os.Getenv("CACHE_TTL_SECONDS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("CACHE_TTL_SECONDS must be a positive integer, got %q", s)
		}
		cacheTTL = time.Duration(v) * time.Second
	}

	sessionTTL := 24 * time.Hour
	if s := os.Getenv("SESSION_TTL_HOURS"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SESSION_TTL_HOURS must be a positive integer, got %q", s)
		}
		sessionTTL = time.Duration(v) * time.Hour
	}

	keyword := os.Getenv("DEFAULT_SEARCH_KEYWORD")
	if keyword == "" {
		keyword = "engineer"
	}

	limit := 20
	if s := os.Getenv("SEARCH_RESULTS_LIMIT"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("SEARCH_RESULTS_LIMIT must be a positive integer, got %q", s)
		}
		limit = v
	}

	trendInterval := 60
	if s := os.Getenv("TREND_REFRESH_MINUTES"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 {
			return nil, fmt.Errorf("TREND_REFRESH_MINUTES must be a positive integer, got %q", s)
		}
		trendInterval = v
	}

	return &Config{
		Port:           port,
		Environment:    env,
		DatabaseURL:    dbURL,
		RedisURL:       redisURL,
		CacheTTL:       cacheTTL,
		SessionTTL:     sessionTTL,
		SerpAPIKey:     os.Getenv("SERPAPI_KEY"),
		EdenAIKey:      os.Getenv("EDENAI_KEY"),
		DefaultKeyword: keyword,
		ResultsLimit:   limit,

		TrendIntervalMinutes: trendInterval,
	}, nil
}

// IsProduction reports whether the service runs with the prod profile.
func (c *Config) IsProduction() bool { return c.Environment == "prod" }
