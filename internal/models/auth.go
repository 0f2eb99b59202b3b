package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// Credentials is the JSON body sent to the login endpoint
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// SignupRequest is the JSON body sent to the signup endpoint
type SignupRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name,omitempty"`
}

// User describes the account object returned by the auth backend
type User struct {
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FullName  string `json:"full_name,omitempty"`
	CreatedAt string `json:"created_at"`
}

// AuthResponse is the backend's response to a successful login or signup.
// User is kept as raw JSON so it can be persisted byte-for-byte as received.
type AuthResponse struct {
	Token   string          `json:"token"`
	User    json.RawMessage `json:"user"`
	Message string          `json:"message,omitempty"`
}

// ParseUser decodes the raw user payload into a User
func (r *AuthResponse) ParseUser() (*User, error) {
	var u User
	if err := json.Unmarshal(r.User, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// APIError is the error body shape the auth backend returns on failure.
// Either field may be absent; Detail takes precedence over Message.
type APIError struct {
	Detail  string `json:"detail,omitempty"`
	Message string `json:"message,omitempty"`
}

// Session represents a login recorded in the local store
type Session struct {
	ID        string          `json:"id"`
	Token     string          `json:"-"` // Never serialize to JSON
	User      json.RawMessage `json:"user,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// SessionState represents the current state of a session
type SessionState string

const (
	SessionStateActive  SessionState = "active"
	SessionStateExpired SessionState = "expired"
)

// Validate checks if the session fields are valid
func (s *Session) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("session id is required")
	}
	if s.Token == "" {
		return fmt.Errorf("token is required")
	}
	if s.ExpiresAt.IsZero() {
		return fmt.Errorf("expires_at is required")
	}
	return nil
}

// State returns the current state of the session
func (s *Session) State() SessionState {
	if !time.Now().Before(s.ExpiresAt) {
		return SessionStateExpired
	}
	return SessionStateActive
}

// IsActive returns true if the session is currently active
func (s *Session) IsActive() bool {
	return s.State() == SessionStateActive
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return s.State() == SessionStateExpired
}
