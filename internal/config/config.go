package config

import (
	"os"
	"time"
)

// Mongo contains configuration for the MongoDB connection
type Mongo struct {
	URL      string // MongoDB connection URI
	Database string // Database name
}

// Storage contains the base paths for the blob containers
type Storage struct {
	UploadDir    string // Directory holding encrypted blobs
	TempDir      string // Working directory for plaintext temp files
	LogExportDir string // Directory receiving audit log CSV exports
}

// Tagger contains configuration for the external auto-tagging service
type Tagger struct {
	URL     string        // Endpoint accepting {text} and returning keywords/entities/summary
	Timeout time.Duration // Hard cap on a tagging round trip
}

// Cache contains configuration for the optional Redis metadata cache
type Cache struct {
	Addr string        // Redis address; empty disables caching
	TTL  time.Duration // Time-to-live for cached document metadata
}

// Config is the top-level struct holding all application configuration
type Config struct {
	EncryptionKey string // At-rest key material; must be exactly 32 characters
	JWTSecret     string // Signing key for principal claim tokens
	Environment   string // "production" or "development"
	Mongo         Mongo
	Storage       Storage
	Tagger        Tagger
	Cache         Cache
}

// Production reports whether the process runs with production error hygiene,
// meaning internal error detail is logged but never surfaced to callers.
func (c *Config) Production() bool {
	return c.Environment == "production"
}

// The Load function reads configuration from environment variables and returns
// a populated Config struct. It uses helper functions to read specific types
// and provide default values. Key length is not validated here; that is the
// key provider's contract, so only code paths touching the encryption
// subsystem are fatal on a bad key.
func Load() (*Config, error) {
	taggerTimeout, err := getenvDuration("TAGGER_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getenvDuration("CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		EncryptionKey: getenvStr("ENCRYPTION_KEY", ""),
		JWTSecret:     getenvStr("JWT_SECRET", ""),
		Environment:   getenvStr("ENVIRONMENT", "development"),

		Mongo: Mongo{
			URL:      getenvStr("MONGODB_URL", "mongodb://localhost:27017"),
			Database: getenvStr("MONGODB_DATABASE", "secure_document_vault"),
		},
		Storage: Storage{
			UploadDir:    getenvStr("UPLOAD_DIR", "./uploads"),
			TempDir:      getenvStr("TEMP_DIR", "./temp"),
			LogExportDir: getenvStr("LOG_EXPORT_DIR", "./log_exports"),
		},
		Tagger: Tagger{
			URL:     getenvStr("TAGGER_URL", "http://localhost:8000/tag"),
			Timeout: taggerTimeout,
		},
		Cache: Cache{
			Addr: getenvStr("REDIS_ADDR", ""),
			TTL:  cacheTTL,
		},
	}
	return cfg, nil
}

// -------Helper Functions----------

// getenvStr retrieves a string environment variable or returns a default
func getenvStr(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

// getenvDuration retrieves a duration environment variable or returns a default value.
func getenvDuration(key string, fallback time.Duration) (time.Duration, error) {
	if value, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(value)
		if err != nil {
			return 0, err
		}
		return d, nil
	}
	return fallback, nil
}
