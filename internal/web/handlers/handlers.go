package handlers

import (
	"context"
	"database/sql"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/carechat/portal/internal/auth"
	"github.com/carechat/portal/internal/form"
	"github.com/carechat/portal/internal/models"
	"github.com/carechat/portal/internal/storage"
	"github.com/carechat/portal/internal/version"
	"github.com/gorilla/csrf"
)

// Handlers holds dependencies for HTTP handlers
type Handlers struct {
	db             *sql.DB
	client         *auth.Client
	sessionManager *auth.SessionManager
	logger         *log.Logger
}

// New creates a new Handlers instance
func New(db *sql.DB, client *auth.Client, sessionManager *auth.SessionManager, logger *log.Logger) *Handlers {
	return &Handlers{
		db:             db,
		client:         client,
		sessionManager: sessionManager,
		logger:         logger,
	}
}

// captureSaver persists the login through the session manager and keeps
// the created session so the handler can link it to the browser cookie
type captureSaver struct {
	sm      *auth.SessionManager
	session *models.Session
}

func (c *captureSaver) SaveLogin(resp *models.AuthResponse) (*models.Session, error) {
	session, err := c.sm.SaveLogin(resp)
	if err != nil {
		return nil, err
	}
	c.session = session
	return session, nil
}

// LoginPage renders the login form
func (h *Handlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	// Already signed in, skip the form
	if session, err := h.sessionManager.GetSession(r); err == nil && session != nil && session.IsActive() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderLogin(w, r, "", "")
}

// LoginSubmit drives one login form submission
func (h *Handlers) LoginSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderLogin(w, r, "Invalid request, please try again.", "")
		return
	}

	saver := &captureSaver{sm: h.sessionManager}
	f := form.New(h.client, saver)
	f.SetField(form.FieldUsername, r.PostFormValue("username"))
	f.SetField(form.FieldPassword, r.PostFormValue("password"))

	var loginResp *models.AuthResponse
	f.OnLoginSuccess = func(resp *models.AuthResponse) {
		loginResp = resp
	}

	// A fresh form is always idle, so the in-flight guard cannot trip here
	if err := f.Submit(r.Context()); err != nil {
		h.logger.Printf("login submit rejected: %v", err)
		h.renderLogin(w, r, "Another login is in progress. Please try again.", f.Username())
		return
	}

	if loginResp == nil {
		h.renderLogin(w, r, f.Error(), f.Username())
		return
	}

	if err := h.sessionManager.SaveBrowserSession(w, r, saver.session); err != nil {
		h.logger.Printf("failed to save browser session: %v", err)
		h.renderLogin(w, r, "Login succeeded but the session could not be saved. Please try again.", f.Username())
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// renderLogin renders the login page with an optional inline error and a
// repopulated username
func (h *Handlers) renderLogin(w http.ResponseWriter, r *http.Request, errMsg, username string) {
	data := TemplateData{
		Error:     errMsg,
		Username:  username,
		Version:   version.GetVersion(),
		CSRFField: csrf.TemplateField(r),
	}

	if err := renderPage(w, "login", http.StatusOK, data); err != nil {
		h.logger.Printf("Error rendering login template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// SignupPage renders the signup form
func (h *Handlers) SignupPage(w http.ResponseWriter, r *http.Request) {
	if session, err := h.sessionManager.GetSession(r); err == nil && session != nil && session.IsActive() {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}

	h.renderSignup(w, r, "", models.SignupRequest{})
}

// SignupSubmit registers a new account and signs it in
func (h *Handlers) SignupSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderSignup(w, r, "Invalid request, please try again.", models.SignupRequest{})
		return
	}

	req := models.SignupRequest{
		Username: r.PostFormValue("username"),
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		FullName: r.PostFormValue("full_name"),
	}

	resp, err := h.client.Signup(r.Context(), req)
	if err != nil {
		h.renderSignup(w, r, auth.UserMessage(err), req)
		return
	}

	session, err := h.sessionManager.SaveLogin(resp)
	if err != nil {
		h.logger.Printf("failed to persist signup login: %v", err)
		h.renderSignup(w, r, "Account created but sign-in failed. Please log in.", req)
		return
	}

	if err := h.sessionManager.SaveBrowserSession(w, r, session); err != nil {
		h.logger.Printf("failed to save browser session: %v", err)
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func (h *Handlers) renderSignup(w http.ResponseWriter, r *http.Request, errMsg string, req models.SignupRequest) {
	data := TemplateData{
		Error:     errMsg,
		Username:  req.Username,
		Email:     req.Email,
		FullName:  req.FullName,
		Version:   version.GetVersion(),
		CSRFField: csrf.TemplateField(r),
	}

	if err := renderPage(w, "signup", http.StatusOK, data); err != nil {
		h.logger.Printf("Error rendering signup template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Logout clears the stored login and the browser cookie. The backend
// logout is best-effort; a dead backend never blocks a local logout.
func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := h.sessionManager.CurrentToken()
	if err != nil {
		h.logger.Printf("failed to read stored token: %v", err)
	}
	if token != "" {
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if err := h.client.Logout(ctx); err != nil {
			h.logger.Printf("remote logout failed: %v", err)
		}
	}

	if err := h.sessionManager.ClearSession(w, r); err != nil {
		h.logger.Printf("failed to clear session: %v", err)
	}

	http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
}

// Home renders the signed-in landing page (protected route)
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	session, ok := auth.GetSessionFromContext(r.Context())
	if !ok || session == nil {
		http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
		return
	}

	var user models.User
	if len(session.User) > 0 {
		if err := json.Unmarshal(session.User, &user); err != nil {
			h.logger.Printf("failed to decode session user: %v", err)
		}
	}

	history, err := storage.ListSessions(h.db, 10)
	if err != nil {
		h.logger.Printf("failed to list sessions: %v", err)
	}

	data := TemplateData{
		User:     &user,
		Sessions: history,
		Version:  version.GetVersion(),
	}

	if err := renderPage(w, "home", http.StatusOK, data); err != nil {
		h.logger.Printf("Error rendering home template: %v", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
	}
}

// Health reports portal and backend status as JSON
func (h *Handlers) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	backend := "ok"
	if err := h.client.Ping(ctx); err != nil {
		backend = "unreachable"
	}

	token, _ := h.sessionManager.CurrentToken()
	session := "none"
	if token != "" {
		session = "valid"
		if _, err := h.client.Me(ctx); err != nil {
			session = "invalid"
		}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":        "ok",
		"backend":       backend,
		"authenticated": token != "",
		"session":       session,
		"version":       version.GetVersion(),
	})
}

// NotFound renders the 404 page
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if err := renderPage(w, "notfound", http.StatusNotFound, TemplateData{}); err != nil {
		h.logger.Printf("Error rendering 404 template: %v", err)
		http.Error(w, "Not found", http.StatusNotFound)
	}
}
