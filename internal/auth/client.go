package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/carechat/portal/internal/models"
)

// Auth backend endpoints
const (
	loginPath  = "/api/auth/login"
	signupPath = "/api/auth/signup"
	logoutPath = "/api/auth/logout"
	mePath     = "/api/auth/me"
)

// maxResponseBytes caps how much of a backend response body is read
const maxResponseBytes = 1 << 20

// Client talks to the remote authentication backend. Authenticated
// endpoints go through http, which injects the stored session token;
// login, signup and ping use bare so a stale token from a previous
// login never rides along.
type Client struct {
	baseURL string
	http    *http.Client
	bare    *http.Client
	logger  *log.Logger
}

// NewClient creates a client for the auth backend at baseURL.
// Every request is bounded by the given timeout. source, when non-nil,
// supplies the stored session token so authenticated endpoints carry a
// bearer header reflecting the current login.
func NewClient(baseURL string, timeout time.Duration, source TokenSource, logger *log.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http: &http.Client{
			Timeout:   timeout,
			Transport: NewBearerTransport(nil, source),
		},
		bare:   &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// BaseURL returns the configured backend base URL
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Login exchanges credentials for a session token.
// A 2xx response without a token is reported as ErrUnexpectedResponse.
func (c *Client) Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error) {
	return c.postAuth(ctx, loginPath, creds)
}

// Signup registers a new account. The backend responds with the same
// token/user payload as login, so a successful signup is also a login.
func (c *Client) Signup(ctx context.Context, req models.SignupRequest) (*models.AuthResponse, error) {
	return c.postAuth(ctx, signupPath, req)
}

// postAuth sends a JSON body to an auth endpoint and decodes the
// token/user response
func (c *Client) postAuth(ctx context.Context, path string, body interface{}) (*models.AuthResponse, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to encode request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.bare.Do(req)
	if err != nil {
		return nil, c.requestError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, &LoginError{Err: fmt.Errorf("failed to read response: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Error bodies optionally carry detail or message fields
		var apiErr models.APIError
		_ = json.Unmarshal(data, &apiErr)

		if c.logger != nil {
			c.logger.Printf("auth backend returned status %d for %s", resp.StatusCode, path)
		}

		return nil, &LoginError{
			Detail:  apiErr.Detail,
			Message: apiErr.Message,
			Status:  resp.StatusCode,
			Err:     fmt.Errorf("auth backend returned status %d", resp.StatusCode),
		}
	}

	var authResp models.AuthResponse
	if err := json.Unmarshal(data, &authResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	// Token presence is the success criterion
	if authResp.Token == "" {
		return nil, ErrUnexpectedResponse
	}

	return &authResp, nil
}

// Logout invalidates the session token on the backend, sending the stored
// token through the bearer transport. A failure here is not fatal to a
// local logout; callers may log and continue.
func (c *Client) Logout(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+logoutPath, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return c.requestError(err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("logout returned status %d", resp.StatusCode)
	}

	return nil
}

// Me asks the backend who the stored token belongs to, using the bearer
// transport. Returns ErrInvalidToken when the backend rejects the token.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	return c.verify(ctx, "")
}

// VerifyToken asks the backend who an explicit token belongs to.
// Returns ErrInvalidToken when the backend rejects it.
func (c *Client) VerifyToken(ctx context.Context, token string) (*models.User, error) {
	return c.verify(ctx, token)
}

func (c *Client) verify(ctx context.Context, token string) (*models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+mePath, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, c.requestError(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, ErrInvalidToken
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("token verification returned status %d", resp.StatusCode)
	}

	var user models.User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnexpectedResponse, err)
	}

	return &user, nil
}

// Ping checks if the backend is reachable
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return fmt.Errorf("failed to create health check request: %w", err)
	}

	resp, err := c.bare.Do(req)
	if err != nil {
		return fmt.Errorf("failed to ping auth backend: %w", err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("auth backend returned error: %d", resp.StatusCode)
	}

	return nil
}

// requestError classifies a transport failure. Connectivity failures are
// distinguished so the user-facing message can name the backend address.
func (c *Client) requestError(err error) error {
	if isConnectivity(err) {
		return &LoginError{
			Connectivity: true,
			BaseURL:      c.baseURL,
			Err:          err,
		}
	}
	return &LoginError{Err: err}
}

// isConnectivity reports whether err is a network-connectivity failure
// (refused connection, unreachable host, DNS failure) as opposed to a
// timeout or a protocol error
func isConnectivity(err error) bool {
	var urlErr *url.Error
	if !errors.As(err, &urlErr) {
		return false
	}
	if urlErr.Timeout() {
		return false
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	return errors.As(err, &dnsErr)
}
