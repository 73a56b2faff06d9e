package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ayusman/habitkicker/internal/habit"
)

// ErrNotFound is returned when a requested resource does not exist.
var ErrNotFound = errors.New("not found")

// thresholdsKey is the settings key the detection thresholds are stored under.
const thresholdsKey = "thresholds"

// SettingsRepository provides key-value storage for application settings.
type SettingsRepository struct {
	db *sql.DB
}

// Settings returns the settings repository for this store.
func (s *Store) Settings() *SettingsRepository {
	return &SettingsRepository{db: s.db}
}

// Set stores a setting, replacing any existing value for the key.
func (r *SettingsRepository) Set(key, value string) error {
	_, err := r.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

// Get retrieves a setting value by key.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNotFound
		}
		return "", err
	}
	return value, nil
}

// Delete removes a setting by key. Deleting a missing key is not an error.
func (r *SettingsRepository) Delete(key string) error {
	_, err := r.db.Exec(`DELETE FROM settings WHERE key = ?`, key)
	return err
}

// SaveThresholds persists the detection thresholds as JSON.
func (r *SettingsRepository) SaveThresholds(t habit.Thresholds) error {
	data, err := json.Marshal(t)
	if err != nil {
		return fmt.Errorf("failed to encode thresholds: %w", err)
	}
	return r.Set(thresholdsKey, string(data))
}

// LoadThresholds retrieves the persisted detection thresholds.
// Returns ErrNotFound if none have been saved yet.
func (r *SettingsRepository) LoadThresholds() (habit.Thresholds, error) {
	var t habit.Thresholds

	value, err := r.Get(thresholdsKey)
	if err != nil {
		return t, err
	}

	if err := json.Unmarshal([]byte(value), &t); err != nil {
		return t, fmt.Errorf("failed to decode thresholds: %w", err)
	}
	return t, nil
}
