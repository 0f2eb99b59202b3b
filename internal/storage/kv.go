package storage

import (
	"database/sql"
	"errors"
	"fmt"
)

// Fixed keys for the current login
const (
	KeyToken = "token"
	KeyUser  = "user"
)

// ErrNotFound is returned when a key has no stored value
var ErrNotFound = errors.New("key not found")

// SetValue stores a value under key, replacing any existing value
func SetValue(db *sql.DB, key, value string) error {
	query := `
		INSERT INTO kv (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	if _, err := db.Exec(query, key, value); err != nil {
		return fmt.Errorf("failed to set %q: %w", key, err)
	}

	return nil
}

// GetValue retrieves the value stored under key
func GetValue(db *sql.DB, key string) (string, error) {
	var value string
	err := db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to get %q: %w", key, err)
	}

	return value, nil
}

// DeleteValue removes the value stored under key. Deleting a missing key
// is not an error.
func DeleteValue(db *sql.DB, key string) error {
	if _, err := db.Exec("DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}

	return nil
}
