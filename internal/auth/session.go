package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/carechat/portal/internal/models"
	"github.com/carechat/portal/internal/storage"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	sessionName         = "carechat-portal"
	sessionKeySessionID = "session_id"

	// Fallback lifetime when the token carries no expiry of its own.
	// Matches the backend's 30-day session expiry.
	defaultSessionTTL = 30 * 24 * time.Hour
)

type contextKey string

const sessionContextKey contextKey = "portal-session"

// SessionManager links the browser cookie to the locally stored login
type SessionManager struct {
	store *sessions.CookieStore
	db    *sql.DB
}

// InitSessions creates a session manager with HTTP-only cookies
func InitSessions(secret string, maxAge int, secure bool, sameSite http.SameSite, db *sql.DB) *SessionManager {
	store := sessions.NewCookieStore([]byte(secret))

	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   maxAge,
		HttpOnly: true, // Prevent JavaScript access
		Secure:   secure,
		SameSite: sameSite,
	}

	return &SessionManager{
		store: store,
		db:    db,
	}
}

// SaveLogin persists a successful login: the token and the user object
// exactly as received go into the key/value store, and a history row
// records the session. Both writes replace any previous login wholesale.
func (sm *SessionManager) SaveLogin(resp *models.AuthResponse) (*models.Session, error) {
	if err := storage.SetValue(sm.db, storage.KeyToken, resp.Token); err != nil {
		return nil, fmt.Errorf("failed to persist token: %w", err)
	}

	userJSON := string(resp.User)
	if userJSON == "" {
		userJSON = "null"
	}
	if err := storage.SetValue(sm.db, storage.KeyUser, userJSON); err != nil {
		return nil, fmt.Errorf("failed to persist user: %w", err)
	}

	now := time.Now()
	session := &models.Session{
		ID:        uuid.New().String(),
		Token:     resp.Token,
		User:      resp.User,
		CreatedAt: now,
		ExpiresAt: tokenExpiry(resp.Token, now),
	}

	if err := storage.SaveSession(sm.db, session); err != nil {
		return nil, fmt.Errorf("failed to record session: %w", err)
	}

	return session, nil
}

// tokenExpiry reads the exp claim when the backend issues a JWT, falling
// back to the default TTL for opaque tokens
func tokenExpiry(token string, now time.Time) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err == nil {
		if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
			return exp.Time
		}
	}
	return now.Add(defaultSessionTTL)
}

// SaveBrowserSession links the browser to a stored session via cookie
func (sm *SessionManager) SaveBrowserSession(w http.ResponseWriter, r *http.Request, session *models.Session) error {
	cookieSession, err := sm.store.Get(r, sessionName)
	if err != nil {
		return fmt.Errorf("failed to get cookie session: %w", err)
	}

	cookieSession.Values[sessionKeySessionID] = session.ID

	if err := cookieSession.Save(r, w); err != nil {
		return fmt.Errorf("failed to save cookie session: %w", err)
	}

	return nil
}

// GetSession retrieves the session referenced by the request's cookie
func (sm *SessionManager) GetSession(r *http.Request) (*models.Session, error) {
	cookieSession, err := sm.store.Get(r, sessionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get cookie session: %w", err)
	}

	sessionID, ok := cookieSession.Values[sessionKeySessionID].(string)
	if !ok || sessionID == "" {
		return nil, fmt.Errorf("no session found in cookie")
	}

	session, err := storage.GetSession(sm.db, sessionID)
	if err != nil {
		return nil, err
	}

	if session.IsExpired() {
		// Clean up the expired session
		sm.ClearSession(nil, r)
		return nil, fmt.Errorf("session has expired")
	}

	return session, nil
}

// ClearSession removes the stored login and the browser cookie (logout)
func (sm *SessionManager) ClearSession(w http.ResponseWriter, r *http.Request) error {
	cookieSession, err := sm.store.Get(r, sessionName)
	if err != nil {
		// If we can't get the session, it might already be cleared
		return nil
	}

	sessionID, ok := cookieSession.Values[sessionKeySessionID].(string)
	if ok && sessionID != "" {
		if err := storage.DeleteSession(sm.db, sessionID); err != nil {
			return err
		}
	}

	if err := storage.DeleteValue(sm.db, storage.KeyToken); err != nil {
		return err
	}
	if err := storage.DeleteValue(sm.db, storage.KeyUser); err != nil {
		return err
	}

	// Clear cookie session if writer is provided
	if w != nil {
		cookieSession.Options.MaxAge = -1
		if err := cookieSession.Save(r, w); err != nil {
			return fmt.Errorf("failed to clear cookie session: %w", err)
		}
	}

	return nil
}

// CurrentToken reads the stored session token, empty when logged out
func (sm *SessionManager) CurrentToken() (string, error) {
	token, err := storage.GetValue(sm.db, storage.KeyToken)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	return token, err
}

// CurrentUser decodes the stored user object, nil when logged out
func (sm *SessionManager) CurrentUser() (*models.User, error) {
	raw, err := storage.GetValue(sm.db, storage.KeyUser)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		return nil, fmt.Errorf("failed to decode stored user: %w", err)
	}

	return &user, nil
}

// TokenSource returns a TokenSource reading the store's current token,
// for wiring into a BearerTransport
func (sm *SessionManager) TokenSource() TokenSource {
	return sm.CurrentToken
}

// GetSessionFromContext retrieves session from request context
func GetSessionFromContext(ctx context.Context) (*models.Session, bool) {
	session, ok := ctx.Value(sessionContextKey).(*models.Session)
	return session, ok
}

// SetSessionInContext stores session in request context
func SetSessionInContext(ctx context.Context, session *models.Session) context.Context {
	return context.WithValue(ctx, sessionContextKey, session)
}
