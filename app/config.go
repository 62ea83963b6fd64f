package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"merch-order-desk/pricing"
	"merch-order-desk/repository"
)

// Config holds the settings read from environment variables
type Config struct {
	Port string

	// Seeded into the connection settings store when it is empty
	BackendBaseURL string
	AdminToken     string

	BackendTimeout    time.Duration
	SubmitContentType string
	SubmitWithPath    bool

	ServiceFeeRate  decimal.Decimal
	DuplicatePolicy pricing.DuplicatePolicy

	AdminPasscode  string
	CredentialMode repository.CredentialMode
	GoogleClientID string

	AllowedOrigins []string

	SettingsPath        string
	ImageCacheDir       string
	GoogleCredentials   string
	ExportDriveFolderID string
}

// LoadConfig reads and validates the configuration from the environment
func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		BackendBaseURL:      strings.TrimSpace(os.Getenv("BACKEND_BASE_URL")),
		AdminToken:          strings.TrimSpace(os.Getenv("ADMIN_TOKEN")),
		AdminPasscode:       strings.TrimSpace(os.Getenv("ADMIN_PASSCODE")),
		GoogleClientID:      strings.TrimSpace(os.Getenv("GOOGLE_CLIENT_ID")),
		SettingsPath:        getEnv("SETTINGS_PATH", "data/settings.json"),
		ImageCacheDir:       getEnv("IMAGE_CACHE_DIR", "cache/images"),
		GoogleCredentials:   strings.TrimSpace(os.Getenv("GOOGLE_APPLICATION_CREDENTIALS")),
		ExportDriveFolderID: strings.TrimSpace(os.Getenv("EXPORT_DRIVE_FOLDER_ID")),
	}

	for _, origin := range strings.Split(os.Getenv("CORS_ALLOWED_ORIGINS"), ",") {
		if origin = strings.TrimSpace(origin); origin != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, origin)
		}
	}

	// Remove leading colon if present (PORT from Render doesn't include it)
	cfg.Port = strings.TrimPrefix(cfg.Port, ":")

	timeout, err := time.ParseDuration(getEnv("BACKEND_TIMEOUT", "30s"))
	if err != nil || timeout < 0 {
		return nil, fmt.Errorf("invalid BACKEND_TIMEOUT %q: use a duration such as 30s", os.Getenv("BACKEND_TIMEOUT"))
	}
	cfg.BackendTimeout = timeout

	switch ct := strings.ToLower(strings.TrimSpace(os.Getenv("SUBMIT_CONTENT_TYPE"))); ct {
	case "", "text/plain":
		cfg.SubmitContentType = repository.ContentTypeTextPlain
	case "application/json", "json":
		cfg.SubmitContentType = repository.ContentTypeJSON
	default:
		return nil, fmt.Errorf("invalid SUBMIT_CONTENT_TYPE %q: use text/plain or application/json", ct)
	}

	if raw := strings.TrimSpace(os.Getenv("SUBMIT_WITH_PATH")); raw != "" {
		withPath, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SUBMIT_WITH_PATH %q: %w", raw, err)
		}
		cfg.SubmitWithPath = withPath
	}

	cfg.ServiceFeeRate = pricing.DefaultServiceFeeRate
	if raw := strings.TrimSpace(os.Getenv("SERVICE_FEE_RATE")); raw != "" {
		rate, err := decimal.NewFromString(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid SERVICE_FEE_RATE %q: %w", raw, err)
		}
		cfg.ServiceFeeRate = rate
	}

	policy, err := pricing.ParseDuplicatePolicy(os.Getenv("DUPLICATE_SIZE_POLICY"))
	if err != nil {
		return nil, err
	}
	cfg.DuplicatePolicy = policy

	switch mode := repository.CredentialMode(strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_CREDENTIAL_MODE")))); mode {
	case "", repository.CredentialQuery:
		cfg.CredentialMode = repository.CredentialQuery
	case repository.CredentialBearer:
		cfg.CredentialMode = repository.CredentialBearer
	default:
		return nil, fmt.Errorf("invalid ADMIN_CREDENTIAL_MODE %q: use query or bearer", mode)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}
