package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"merch-order-desk/models"
)

func normalizeSettings(s models.ConnectionSettings) models.ConnectionSettings {
	return models.ConnectionSettings{
		Base:  strings.TrimSpace(s.Base),
		Token: strings.TrimSpace(s.Token),
	}
}

// FileSettingsRepository keeps the connection settings in a small JSON file,
// one string value per fixed key
type FileSettingsRepository struct {
	path string
	mu   sync.Mutex
}

// NewFileSettingsRepository creates a new FileSettingsRepository
func NewFileSettingsRepository(path string) *FileSettingsRepository {
	return &FileSettingsRepository{path: path}
}

// Ensure FileSettingsRepository implements SettingsRepositoryInterface
var _ SettingsRepositoryInterface = (*FileSettingsRepository)(nil)

// Load reads the settings. A missing file yields empty settings.
func (r *FileSettingsRepository) Load(ctx context.Context) (models.ConnectionSettings, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		return models.ConnectionSettings{}, nil
	}
	if err != nil {
		return models.ConnectionSettings{}, fmt.Errorf("failed to read settings file: %w", err)
	}

	values := map[string]string{}
	if err := json.Unmarshal(data, &values); err != nil {
		return models.ConnectionSettings{}, fmt.Errorf("failed to parse settings file: %w", err)
	}
	return models.ConnectionSettings{
		Base:  values[models.SettingsKeyBase],
		Token: values[models.SettingsKeyToken],
	}, nil
}

// Save overwrites the settings file atomically
func (r *FileSettingsRepository) Save(ctx context.Context, settings models.ConnectionSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	settings = normalizeSettings(settings)
	data, err := json.MarshalIndent(map[string]string{
		models.SettingsKeyBase:  settings.Base,
		models.SettingsKeyToken: settings.Token,
	}, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}

	if dir := filepath.Dir(r.path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create settings directory: %w", err)
		}
	}

	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("failed to replace settings file: %w", err)
	}

	log.Printf("✓ Connection settings saved to %s", r.path)
	return nil
}

// PostgresSettingsRepository keeps the connection settings in the client_settings table
type PostgresSettingsRepository struct {
	db *sql.DB
}

// NewPostgresSettingsRepository creates a new PostgresSettingsRepository
func NewPostgresSettingsRepository(db *sql.DB) *PostgresSettingsRepository {
	return &PostgresSettingsRepository{db: db}
}

// Ensure PostgresSettingsRepository implements SettingsRepositoryInterface
var _ SettingsRepositoryInterface = (*PostgresSettingsRepository)(nil)

// Load reads both keys. Missing rows yield empty values.
func (r *PostgresSettingsRepository) Load(ctx context.Context) (models.ConnectionSettings, error) {
	query := `
		SELECT key, value
		FROM client_settings
		WHERE key IN ($1, $2)
	`

	rows, err := r.db.QueryContext(ctx, query, models.SettingsKeyBase, models.SettingsKeyToken)
	if err != nil {
		log.Printf("❌ Error querying client settings: %v", err)
		return models.ConnectionSettings{}, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var settings models.ConnectionSettings
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return models.ConnectionSettings{}, fmt.Errorf("failed to scan setting: %w", err)
		}
		switch key {
		case models.SettingsKeyBase:
			settings.Base = value
		case models.SettingsKeyToken:
			settings.Token = value
		}
	}
	if err := rows.Err(); err != nil {
		return models.ConnectionSettings{}, fmt.Errorf("failed to iterate settings: %w", err)
	}
	return settings, nil
}

// Save upserts both keys in one transaction
func (r *PostgresSettingsRepository) Save(ctx context.Context, settings models.ConnectionSettings) error {
	settings = normalizeSettings(settings)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		log.Printf("❌ Error starting transaction: %v", err)
		return fmt.Errorf("failed to start transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO client_settings (key, value, updated_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (key)
		DO UPDATE SET value = EXCLUDED.value, updated_at = NOW()
	`
	for key, value := range map[string]string{
		models.SettingsKeyBase:  settings.Base,
		models.SettingsKeyToken: settings.Token,
	} {
		if _, err := tx.ExecContext(ctx, query, key, value); err != nil {
			log.Printf("❌ Error saving setting %s: %v", key, err)
			return fmt.Errorf("failed to save setting %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit settings: %w", err)
	}
	log.Printf("✓ Connection settings saved to database")
	return nil
}
