package db

import (
	"database/sql"
	"encoding/json"

	"github.com/sproutnotes/sprout/internal/errors"
	"github.com/sproutnotes/sprout/internal/idea"
)

// settingsKey is the singleton row key, distinct from per-record ids.
const settingsKey = "app"

// GetSettings returns the singleton settings value. If absent it is
// created with defaults and persisted, so every later read sees the
// same value.
func GetSettings(database *sql.DB) (*idea.Settings, error) {
	row := database.QueryRow(`SELECT value_json FROM settings WHERE key = ?`, settingsKey)

	var raw string
	err := row.Scan(&raw)
	if err == sql.ErrNoRows {
		defaults := idea.DefaultSettings()
		if err := PutSettings(database, &defaults); err != nil {
			return nil, err
		}
		return &defaults, nil
	}
	if err != nil {
		return nil, errors.NewStoreUnavailable(err)
	}

	var s idea.Settings
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, errors.NewInternal(err)
	}
	return &s, nil
}

// PutSettings replaces the singleton settings value.
func PutSettings(database *sql.DB, s *idea.Settings) error {
	data, err := json.Marshal(s)
	if err != nil {
		return errors.NewInternal(err)
	}

	query := `
		INSERT INTO settings (key, value_json) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value_json = excluded.value_json
	`
	if _, err := database.Exec(query, settingsKey, string(data)); err != nil {
		return errors.NewStoreUnavailable(err)
	}
	return nil
}
