package config

import (
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

// Config holds every setting of the application.
type Config struct {
	StoreDriver  string
	DatabaseURL  string
	JWTSecretKey string
	ServerPort   int
	LogLevel     slog.Level

	PairingBacktrackLimit int
	CORSAllowedOrigins    []string

	Sheets SheetsConfig
}

// SheetsConfig describes the S3 compatible bucket round sheets are uploaded to.
// Publishing is disabled when Endpoint is empty.
type SheetsConfig struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	BucketName      string
	PublicBaseURL   string
}

func (s SheetsConfig) Enabled() bool {
	return s.Endpoint != ""
}

// Load reads the configuration from the environment. A .env file is loaded
// first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		StoreDriver:        getEnv("STORE_DRIVER", StoreDriverPostgres),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecretKey:       os.Getenv("JWT_SECRET_KEY"),
		CORSAllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", "*")),
		Sheets: SheetsConfig{
			Endpoint:        os.Getenv("SHEETS_ENDPOINT"),
			Region:          getEnv("SHEETS_REGION", "auto"),
			AccessKeyID:     os.Getenv("SHEETS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("SHEETS_SECRET_ACCESS_KEY"),
			BucketName:      os.Getenv("SHEETS_BUCKET"),
			PublicBaseURL:   os.Getenv("SHEETS_PUBLIC_BASE_URL"),
		},
	}

	switch cfg.StoreDriver {
	case StoreDriverPostgres:
		if cfg.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL environment variable is not set")
		}
	case StoreDriverMemory:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreDriverPostgres, StoreDriverMemory, cfg.StoreDriver)
	}

	if cfg.JWTSecretKey == "" {
		return nil, fmt.Errorf("JWT_SECRET_KEY environment variable is not set")
	}

	port, err := strconv.Atoi(getEnv("SERVER_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid SERVER_PORT environment variable: %w", err)
	}
	if port <= 0 || port > 65535 {
		return nil, fmt.Errorf("SERVER_PORT must be between 1 and 65535, got %d", port)
	}
	cfg.ServerPort = port

	if err := cfg.LogLevel.UnmarshalText([]byte(getEnv("LOG_LEVEL", "info"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL environment variable: %w", err)
	}

	limit, err := strconv.Atoi(getEnv("PAIRING_BACKTRACK_LIMIT", "10000"))
	if err != nil {
		return nil, fmt.Errorf("invalid PAIRING_BACKTRACK_LIMIT environment variable: %w", err)
	}
	if limit <= 0 {
		return nil, fmt.Errorf("PAIRING_BACKTRACK_LIMIT must be positive, got %d", limit)
	}
	cfg.PairingBacktrackLimit = limit

	if err := cfg.Sheets.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (s SheetsConfig) validate() error {
	set := map[string]string{
		"SHEETS_ENDPOINT":          s.Endpoint,
		"SHEETS_ACCESS_KEY_ID":     s.AccessKeyID,
		"SHEETS_SECRET_ACCESS_KEY": s.SecretAccessKey,
		"SHEETS_BUCKET":            s.BucketName,
		"SHEETS_PUBLIC_BASE_URL":   s.PublicBaseURL,
	}
	var missing []string
	for name, value := range set {
		if value == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 || len(missing) == len(set) {
		return nil
	}
	slices.Sort(missing)
	return fmt.Errorf("round sheet publishing is partially configured, missing: %s", strings.Join(missing, ", "))
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
