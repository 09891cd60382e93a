package repository

import (
	"cinephile/internal/database"
)

type SettingsRepository struct {
	db *database.DB
}

func NewSettingsRepository(db *database.DB) *SettingsRepository {
	return &SettingsRepository{db: db}
}

// GetSetting retrieves a setting value by key
func (r *SettingsRepository) GetSetting(key string) (string, error) {
	var value string
	query := `SELECT value FROM settings WHERE key = ?`
	err := r.db.QueryRow(query, key).Scan(&value)
	return value, err
}

// SetSetting updates or inserts a setting
func (r *SettingsRepository) SetSetting(key, value string) error {
	query := r.db.Dialect.UpsertSettings()
	_, err := r.db.Exec(query, key, value)
	return err
}

// GetPoolRefreshedAt returns when the candidate pools were last rebuilt,
// empty if never
func (r *SettingsRepository) GetPoolRefreshedAt() string {
	value, err := r.GetSetting("pool_refreshed_at")
	if err != nil {
		return ""
	}
	return value
}

// SetPoolRefreshedAt records a pool rebuild timestamp
func (r *SettingsRepository) SetPoolRefreshedAt(ts string) error {
	return r.SetSetting("pool_refreshed_at", ts)
}

// IsShareEnabled checks whether outbound share email is enabled
func (r *SettingsRepository) IsShareEnabled() bool {
	value, err := r.GetSetting("share_email_enabled")
	if err != nil {
		return true // Default to enabled
	}
	return value != "false"
}

// SetShareEnabled toggles outbound share email
func (r *SettingsRepository) SetShareEnabled(enabled bool) error {
	value := "false"
	if enabled {
		value = "true"
	}
	return r.SetSetting("share_email_enabled", value)
}
