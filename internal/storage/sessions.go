package storage

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/carechat/portal/internal/models"
)

// SaveSession records a login in the session history. Timestamps are
// stored in UTC; the driver cannot scan offset-bearing strings back into
// time.Time.
func SaveSession(db *sql.DB, session *models.Session) error {
	if err := session.Validate(); err != nil {
		return fmt.Errorf("invalid session: %w", err)
	}

	query := `
		INSERT INTO sessions (id, token, user, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		session.ID,
		session.Token,
		string(session.User),
		session.CreatedAt.UTC(),
		session.ExpiresAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}

	return nil
}

// GetSession retrieves a session by ID
func GetSession(db *sql.DB, id string) (*models.Session, error) {
	query := `
		SELECT id, token, user, created_at, expires_at
		FROM sessions
		WHERE id = ?
	`

	var session models.Session
	var userJSON string
	err := db.QueryRow(query, id).Scan(
		&session.ID,
		&session.Token,
		&userJSON,
		&session.CreatedAt,
		&session.ExpiresAt,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("session %q not found", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve session: %w", err)
	}

	session.User = []byte(userJSON)
	return &session, nil
}

// ListSessions returns the most recent sessions, newest first
func ListSessions(db *sql.DB, limit int) ([]models.Session, error) {
	query := `
		SELECT id, token, user, created_at, expires_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT ?
	`

	rows, err := db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		var userJSON string
		if err := rows.Scan(
			&session.ID,
			&session.Token,
			&userJSON,
			&session.CreatedAt,
			&session.ExpiresAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		session.User = []byte(userJSON)
		sessions = append(sessions, session)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate sessions: %w", err)
	}

	return sessions, nil
}

// DeleteSession removes a session from the history
func DeleteSession(db *sql.DB, id string) error {
	if _, err := db.Exec("DELETE FROM sessions WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}

	return nil
}

// DeleteExpiredSessions prunes sessions past their expiry. The cutoff is
// computed in Go; comparing stored timestamps against CURRENT_TIMESTAMP
// would be a lexical string comparison.
func DeleteExpiredSessions(db *sql.DB) (int64, error) {
	result, err := db.Exec("DELETE FROM sessions WHERE expires_at <= ?", time.Now().UTC())
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rows, nil
}
