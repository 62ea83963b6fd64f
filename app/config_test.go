package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"merch-order-desk/models"
	"merch-order-desk/pricing"
	"merch-order-desk/repository"
)

var configEnv = []string{
	"PORT", "BACKEND_BASE_URL", "ADMIN_TOKEN", "ADMIN_PASSCODE", "ADMIN_CREDENTIAL_MODE",
	"GOOGLE_CLIENT_ID", "SUBMIT_CONTENT_TYPE", "SUBMIT_WITH_PATH", "SERVICE_FEE_RATE",
	"DUPLICATE_SIZE_POLICY", "SETTINGS_PATH", "IMAGE_CACHE_DIR", "BACKEND_TIMEOUT",
	"GOOGLE_APPLICATION_CREDENTIALS", "EXPORT_DRIVE_FOLDER_ID", "CORS_ALLOWED_ORIGINS",
}

func clearConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range configEnv {
		t.Setenv(key, "")
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	clearConfigEnv(t)

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Port)
	}
	if cfg.BackendTimeout != 30*time.Second {
		t.Errorf("BackendTimeout = %v, want 30s", cfg.BackendTimeout)
	}
	if cfg.SubmitContentType != repository.ContentTypeTextPlain || cfg.SubmitWithPath {
		t.Errorf("submit = (%q, %v)", cfg.SubmitContentType, cfg.SubmitWithPath)
	}
	if !cfg.ServiceFeeRate.Equal(pricing.DefaultServiceFeeRate) {
		t.Errorf("ServiceFeeRate = %s, want 0.02", cfg.ServiceFeeRate)
	}
	if cfg.DuplicatePolicy != pricing.DuplicateLastWins {
		t.Errorf("DuplicatePolicy = %q, want last-wins", cfg.DuplicatePolicy)
	}
	if cfg.CredentialMode != repository.CredentialQuery {
		t.Errorf("CredentialMode = %q, want query", cfg.CredentialMode)
	}
	if cfg.SettingsPath != "data/settings.json" || cfg.ImageCacheDir != "cache/images" {
		t.Errorf("paths = (%q, %q)", cfg.SettingsPath, cfg.ImageCacheDir)
	}
}

func TestLoadConfigOverrides(t *testing.T) {
	clearConfigEnv(t)
	t.Setenv("PORT", ":9090")
	t.Setenv("BACKEND_TIMEOUT", "5s")
	t.Setenv("SUBMIT_CONTENT_TYPE", "application/json")
	t.Setenv("SUBMIT_WITH_PATH", "true")
	t.Setenv("SERVICE_FEE_RATE", "0.035")
	t.Setenv("DUPLICATE_SIZE_POLICY", "reject")
	t.Setenv("ADMIN_CREDENTIAL_MODE", "Bearer")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://shop.example, ,https://admin.example")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}
	if cfg.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Port)
	}
	if cfg.BackendTimeout != 5*time.Second {
		t.Errorf("BackendTimeout = %v", cfg.BackendTimeout)
	}
	if cfg.SubmitContentType != repository.ContentTypeJSON || !cfg.SubmitWithPath {
		t.Errorf("submit = (%q, %v)", cfg.SubmitContentType, cfg.SubmitWithPath)
	}
	if !cfg.ServiceFeeRate.Equal(decimal.RequireFromString("0.035")) {
		t.Errorf("ServiceFeeRate = %s", cfg.ServiceFeeRate)
	}
	if cfg.DuplicatePolicy != pricing.DuplicateReject {
		t.Errorf("DuplicatePolicy = %q", cfg.DuplicatePolicy)
	}
	if cfg.CredentialMode != repository.CredentialBearer {
		t.Errorf("CredentialMode = %q", cfg.CredentialMode)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "https://admin.example" {
		t.Errorf("AllowedOrigins = %v", cfg.AllowedOrigins)
	}
}

func TestLoadConfigInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "timeout", key: "BACKEND_TIMEOUT", value: "soon"},
		{name: "contentType", key: "SUBMIT_CONTENT_TYPE", value: "text/xml"},
		{name: "withPath", key: "SUBMIT_WITH_PATH", value: "sometimes"},
		{name: "feeRate", key: "SERVICE_FEE_RATE", value: "two percent"},
		{name: "duplicatePolicy", key: "DUPLICATE_SIZE_POLICY", value: "first-wins"},
		{name: "credentialMode", key: "ADMIN_CREDENTIAL_MODE", value: "cookie"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			if _, err := LoadConfig(); err == nil {
				t.Errorf("LoadConfig() with %s=%q error = nil", tt.key, tt.value)
			}
		})
	}
}

func TestSeedConnectionSettings(t *testing.T) {
	ctx := context.Background()
	cfg := &Config{BackendBaseURL: "https://env.example/exec", AdminToken: "env-token"}

	t.Run("fillsEmptyStore", func(t *testing.T) {
		repo := repository.NewFileSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))

		if err := seedConnectionSettings(ctx, repo, cfg); err != nil {
			t.Fatalf("seedConnectionSettings() error = %v", err)
		}
		got, _ := repo.Load(ctx)
		if got.Base != cfg.BackendBaseURL || got.Token != cfg.AdminToken {
			t.Errorf("settings = %+v", got)
		}
	})

	t.Run("savedValuesWin", func(t *testing.T) {
		repo := repository.NewFileSettingsRepository(filepath.Join(t.TempDir(), "settings.json"))
		repo.Save(ctx, models.ConnectionSettings{Base: "https://saved.example/exec"})

		if err := seedConnectionSettings(ctx, repo, cfg); err != nil {
			t.Fatalf("seedConnectionSettings() error = %v", err)
		}
		got, _ := repo.Load(ctx)
		if got.Base != "https://saved.example/exec" || got.Token != "env-token" {
			t.Errorf("settings = %+v, want saved base and seeded token", got)
		}
	})
}
