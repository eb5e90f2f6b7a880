package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// DefaultDisclosureBaseURL is the House Clerk financial disclosure site.
const DefaultDisclosureBaseURL = "https://disclosures-clerk.house.gov"

// Config holds application configuration
type Config struct {
	// Server
	Port string
	Env  string

	// Pipeline endpoints
	PipelineAPIKey     string
	PipelineAPIKeyHash string

	// Disclosure site
	DisclosureBaseURL string
	DownloadDir       string
	RequestTimeout    time.Duration
	RequestsPerSecond float64

	// Ingest
	ParseWorkers     int
	IngestSchedule   string
	IngestFilingYear int

	// API
	ReportCacheTTL time.Duration
}

var appConfig *Config

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if not already loaded
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	config := &Config{
		Port: getEnv("PORT", "8080"),
		Env:  getEnv("ENV", "development"),

		PipelineAPIKey:     getEnv("PIPELINE_API_KEY", ""),
		PipelineAPIKeyHash: getEnv("PIPELINE_API_KEY_HASH", ""),

		DisclosureBaseURL: getEnv("DISCLOSURE_BASE_URL", DefaultDisclosureBaseURL),
		DownloadDir:       getEnv("DOWNLOAD_DIR", "reports"),
		RequestTimeout:    getDuration("REQUEST_TIMEOUT", 30*time.Second),
		RequestsPerSecond: getFloat("REQUESTS_PER_SECOND", 2),

		ParseWorkers:     getInt("PARSE_WORKERS", 4),
		IngestSchedule:   getEnv("INGEST_SCHEDULE", ""),
		IngestFilingYear: getInt("INGEST_FILING_YEAR", time.Now().Year()),

		ReportCacheTTL: getDuration("REPORT_CACHE_TTL", 5*time.Minute),
	}
	if config.ParseWorkers < 1 {
		log.Printf("Warning: PARSE_WORKERS must be positive, falling back to 1\n")
		config.ParseWorkers = 1
	}

	appConfig = config
	return config, nil
}

// Get returns the application configuration
func Get() *Config {
	if appConfig == nil {
		var err error
		appConfig, err = Load()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}
	}
	return appConfig
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) int {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %d\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getFloat(key string, defaultValue float64) float64 {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v <= 0 {
		log.Printf("Warning: invalid %s value '%s', falling back to %g\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}

func getDuration(key string, defaultValue time.Duration) time.Duration {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: invalid %s value '%s', falling back to %s\n", key, raw, defaultValue)
		return defaultValue
	}
	return v
}
