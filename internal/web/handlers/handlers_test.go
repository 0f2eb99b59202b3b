package handlers

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/carechat/portal/internal/auth"
	"github.com/carechat/portal/internal/storage"
	webmiddleware "github.com/carechat/portal/internal/web/middleware"
	"github.com/go-chi/chi/v5"
	_ "modernc.org/sqlite"
)

// fakeBackend mimics the auth backend's login endpoint
func fakeBackend(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var creds struct {
			Username string `json:"username"`
			Password string `json:"password"`
		}
		json.NewDecoder(r.Body).Decode(&creds)

		w.Header().Set("Content-Type", "application/json")
		switch {
		case creds.Username == "alice" && creds.Password == "secret":
			w.Write([]byte(`{"token":"abc","user":{"user_id":"u1","username":"alice","email":"alice@example.com"}}`))
		case creds.Username == "broken":
			w.Write([]byte(`{}`))
		default:
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid username or password"}`))
		}
	})
	mux.HandleFunc("POST /api/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		json.NewDecoder(r.Body).Decode(&req)

		w.Header().Set("Content-Type", "application/json")
		if req.Username == "alice" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"detail":"Username already registered"}`))
			return
		}
		w.Write([]byte(`{"token":"xyz","user":{"user_id":"u2","username":"` + req.Username + `","email":"` + req.Email + `"}}`))
	})
	mux.HandleFunc("POST /api/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"message":"Logged out"}`))
	})
	mux.HandleFunc("GET /api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer abc" {
			w.WriteHeader(http.StatusUnauthorized)
			w.Write([]byte(`{"detail":"Invalid token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"user_id":"u1","username":"alice","email":"alice@example.com"}`))
	})
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

// newTestPortal wires a portal router against the fake backend
func newTestPortal(t *testing.T) (*httptest.Server, *sql.DB) {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	if err := storage.Migrate(db); err != nil {
		t.Fatalf("Failed to initialize schema: %v", err)
	}

	backend := fakeBackend(t)
	logger := log.New(io.Discard, "", 0)
	sm := auth.InitSessions("0123456789abcdef0123456789abcdef", 3600, false, http.SameSiteLaxMode, db)
	client := auth.NewClient(backend.URL, 10*time.Second, sm.TokenSource(), logger)

	h := New(db, client, sm, logger)

	r := chi.NewRouter()
	r.Route("/auth", func(r chi.Router) {
		r.Get("/login", h.LoginPage)
		r.Post("/login", h.LoginSubmit)
		r.Get("/signup", h.SignupPage)
		r.Post("/signup", h.SignupSubmit)
		r.Get("/logout", h.Logout)
	})
	r.Get("/healthz", h.Health)
	r.Group(func(r chi.Router) {
		r.Use(webmiddleware.RequireAuth(sm))
		r.Get("/", h.Home)
	})
	r.NotFound(h.NotFound)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, db
}

// noRedirect returns a client that surfaces redirects instead of following
func noRedirect() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func postForm(t *testing.T, client *http.Client, target string, values url.Values) *http.Response {
	t.Helper()

	resp, err := client.Post(target, "application/x-www-form-urlencoded", strings.NewReader(values.Encode()))
	if err != nil {
		t.Fatalf("POST %s failed: %v", target, err)
	}
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()

	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read body: %v", err)
	}
	return string(body)
}

func TestLoginPageRendersForm(t *testing.T) {
	srv, _ := newTestPortal(t)

	resp, err := http.Get(srv.URL + "/auth/login")
	if err != nil {
		t.Fatalf("GET /auth/login failed: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	body := readBody(t, resp)
	for _, want := range []string{`name="username"`, `name="password"`, `id="toggle-password"`, `id="login-card"`, `/auth/signup`} {
		if !strings.Contains(body, want) {
			t.Errorf("login page missing %s", want)
		}
	}
}

func TestLoginSubmitSuccess(t *testing.T) {
	srv, db := newTestPortal(t)
	client := noRedirect()

	resp := postForm(t, client, srv.URL+"/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}

	// Token and user persisted under the fixed keys
	token, err := storage.GetValue(db, storage.KeyToken)
	if err != nil || token != "abc" {
		t.Errorf("stored token = %q (%v), want abc", token, err)
	}
	user, err := storage.GetValue(db, storage.KeyUser)
	if err != nil || !strings.Contains(user, `"username":"alice"`) {
		t.Errorf("stored user = %q (%v)", user, err)
	}

	// The cookie grants access to the protected home page
	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/", nil)
	for _, c := range resp.Cookies() {
		req.AddCookie(c)
	}
	homeResp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	if homeResp.StatusCode != http.StatusOK {
		t.Errorf("home status = %d, want 200", homeResp.StatusCode)
	}
	if body := readBody(t, homeResp); !strings.Contains(body, "alice") {
		t.Error("home page does not show the signed-in user")
	}
}

func TestLoginSubmitInvalidCredentials(t *testing.T) {
	srv, db := newTestPortal(t)

	resp := postForm(t, http.DefaultClient, srv.URL+"/auth/login", url.Values{
		"username": {"alice"},
		"password": {"wrong"},
	})

	body := readBody(t, resp)
	if !strings.Contains(body, "Invalid username or password") {
		t.Error("page does not show the backend's detail message")
	}
	// Username is repopulated after a failed submit
	if !strings.Contains(body, `value="alice"`) {
		t.Error("username was not repopulated")
	}
	if _, err := storage.GetValue(db, storage.KeyToken); err == nil {
		t.Error("no token should be stored after a failed login")
	}
}

func TestSignupSubmitSuccess(t *testing.T) {
	srv, db := newTestPortal(t)
	client := noRedirect()

	resp := postForm(t, client, srv.URL+"/auth/signup", url.Values{
		"username":  {"bob"},
		"email":     {"bob@example.com"},
		"password":  {"secret"},
		"full_name": {"Bob B"},
	})
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/" {
		t.Errorf("redirect = %q, want /", loc)
	}

	// A successful signup is also a login
	token, err := storage.GetValue(db, storage.KeyToken)
	if err != nil || token != "xyz" {
		t.Errorf("stored token = %q (%v), want xyz", token, err)
	}
	user, err := storage.GetValue(db, storage.KeyUser)
	if err != nil || !strings.Contains(user, `"username":"bob"`) {
		t.Errorf("stored user = %q (%v)", user, err)
	}
}

func TestSignupSubmitBackendError(t *testing.T) {
	srv, db := newTestPortal(t)

	resp := postForm(t, http.DefaultClient, srv.URL+"/auth/signup", url.Values{
		"username": {"alice"},
		"email":    {"alice@example.com"},
		"password": {"secret"},
	})

	body := readBody(t, resp)
	if !strings.Contains(body, "Username already registered") {
		t.Error("page does not show the backend's detail message")
	}
	if !strings.Contains(body, `value="alice"`) {
		t.Error("username was not repopulated")
	}
	if _, err := storage.GetValue(db, storage.KeyToken); err == nil {
		t.Error("no token should be stored after a failed signup")
	}
}

func TestLoginSubmitMissingToken(t *testing.T) {
	srv, db := newTestPortal(t)

	resp := postForm(t, http.DefaultClient, srv.URL+"/auth/login", url.Values{
		"username": {"broken"},
		"password": {"whatever"},
	})

	if body := readBody(t, resp); !strings.Contains(body, "Unexpected response format. Please try again.") {
		t.Error("page does not show the unexpected-response message")
	}
	if _, err := storage.GetValue(db, storage.KeyToken); err == nil {
		t.Error("no token should be stored on a malformed response")
	}
}

func TestHomeRedirectsWhenLoggedOut(t *testing.T) {
	srv, _ := newTestPortal(t)

	resp, err := noRedirect().Get(srv.URL + "/")
	if err != nil {
		t.Fatalf("GET / failed: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusSeeOther {
		t.Errorf("status = %d, want 303", resp.StatusCode)
	}
	if loc := resp.Header.Get("Location"); loc != "/auth/login" {
		t.Errorf("redirect = %q, want /auth/login", loc)
	}
}

func TestLogoutClearsLogin(t *testing.T) {
	srv, db := newTestPortal(t)
	client := noRedirect()

	loginResp := postForm(t, client, srv.URL+"/auth/login", url.Values{
		"username": {"alice"},
		"password": {"secret"},
	})
	loginResp.Body.Close()

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/auth/logout", nil)
	for _, c := range loginResp.Cookies() {
		req.AddCookie(c)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("GET /auth/logout failed: %v", err)
	}
	defer resp.Body.Close()

	if loc := resp.Header.Get("Location"); loc != "/auth/login" {
		t.Errorf("redirect = %q, want /auth/login", loc)
	}
	if _, err := storage.GetValue(db, storage.KeyToken); err == nil {
		t.Error("token should be cleared after logout")
	}
}

func TestHealth(t *testing.T) {
	srv, _ := newTestPortal(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}

	var status struct {
		Status        string `json:"status"`
		Backend       string `json:"backend"`
		Authenticated bool   `json:"authenticated"`
		Session       string `json:"session"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("failed to decode status: %v", err)
	}
	resp.Body.Close()

	if status.Status != "ok" {
		t.Errorf("status = %q, want ok", status.Status)
	}
	if status.Backend != "ok" {
		t.Errorf("backend = %q, want ok", status.Backend)
	}
	if status.Authenticated {
		t.Error("authenticated should be false before login")
	}
	if status.Session != "none" {
		t.Errorf("session = %q, want none", status.Session)
	}
}

func TestNotFound(t *testing.T) {
	srv, _ := newTestPortal(t)

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("GET /nope failed: %v", err)
	}
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}
