package config

import (
	"fmt"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Storage StorageConfig `yaml:"storage"`
	Session SessionConfig `yaml:"session"`
}

// ServerConfig contains HTTP server settings for the portal itself
type ServerConfig struct {
	Port            int            `yaml:"port"`
	Host            string         `yaml:"host"`
	BaseURL         string         `yaml:"base_url"` // Optional: Override for cookie security detection (e.g., https://your-domain.com)
	ReadTimeout     time.Duration  `yaml:"read_timeout"`
	WriteTimeout    time.Duration  `yaml:"write_timeout"`
	IdleTimeout     time.Duration  `yaml:"idle_timeout"`
	ShutdownTimeout time.Duration  `yaml:"shutdown_timeout"`
	Security        SecurityConfig `yaml:"security"`
}

// SecurityConfig contains security-related settings
type SecurityConfig struct {
	CSRFEnabled     bool                  `yaml:"csrf_enabled"`
	MaxRequestBytes int64                 `yaml:"max_request_bytes"`
	AllowedOrigins  []string              `yaml:"allowed_origins"`
	Headers         SecurityHeadersConfig `yaml:"headers"`
}

// SecurityHeadersConfig contains HTTP security header settings
type SecurityHeadersConfig struct {
	XFrameOptions           string `yaml:"x_frame_options"`
	XContentTypeOptions     string `yaml:"x_content_type_options"`
	ReferrerPolicy          string `yaml:"referrer_policy"`
	ContentSecurityPolicy   string `yaml:"content_security_policy"`
	StrictTransportSecurity string `yaml:"strict_transport_security"`
}

// AuthConfig contains settings for the remote authentication backend
type AuthConfig struct {
	BaseURL string        `yaml:"base_url"` // Root address of the auth backend
	Timeout time.Duration `yaml:"timeout"`  // Per-request timeout
}

// StorageConfig contains local storage settings
type StorageConfig struct {
	DBPath string `yaml:"db_path"`
}

// SessionConfig contains portal cookie session settings
type SessionConfig struct {
	Secret         string `yaml:"secret"`
	MaxAge         int    `yaml:"max_age"`
	CookieSecure   string `yaml:"cookie_secure"`   // "auto", "true", "false"
	CookieSameSite string `yaml:"cookie_samesite"` // "strict", "lax", "none"
}

// Default returns a configuration with all defaults applied.
// The auth backend defaults to a local development server.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            8080,
			Host:            "127.0.0.1",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			Security: SecurityConfig{
				CSRFEnabled:     true,
				MaxRequestBytes: 1 << 20,
				Headers: SecurityHeadersConfig{
					XFrameOptions:       "DENY",
					XContentTypeOptions: "nosniff",
					ReferrerPolicy:      "strict-origin-when-cross-origin",
				},
			},
		},
		Auth: AuthConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 10 * time.Second,
		},
		Storage: StorageConfig{
			DBPath: "./data/portal.db",
		},
		Session: SessionConfig{
			MaxAge:         86400 * 7,
			CookieSecure:   "auto",
			CookieSameSite: "lax",
		},
	}
}

// Load reads configuration from the specified file path
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Expand environment variables in the config
	expanded := os.ExpandEnv(string(data))

	cfg := Default()
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnv()

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// applyEnv overrides file values with environment variables if set
func (c *Config) applyEnv() {
	if baseURL := os.Getenv("AUTH_BASE_URL"); baseURL != "" {
		c.Auth.BaseURL = baseURL
	}
	if baseURL := os.Getenv("BASE_URL"); baseURL != "" {
		c.Server.BaseURL = baseURL
	}
	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		c.Session.Secret = secret
	}
}

// Validate checks that all required configuration fields are set
func (c *Config) Validate() error {
	// Session validation
	if c.Session.Secret == "" || strings.Contains(c.Session.Secret, "${") {
		return fmt.Errorf("session.secret is required (set SESSION_SECRET environment variable)")
	}
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("session.secret must be at least 32 characters")
	}

	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be between 1 and 65535")
	}

	// Auth backend validation
	if c.Auth.BaseURL == "" {
		return fmt.Errorf("auth.base_url is required")
	}
	if u, err := url.Parse(c.Auth.BaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("auth.base_url must be an absolute URL: %q", c.Auth.BaseURL)
	}
	if c.Auth.Timeout <= 0 {
		return fmt.Errorf("auth.timeout must be positive")
	}

	// Storage validation
	if c.Storage.DBPath == "" {
		return fmt.Errorf("storage.db_path is required")
	}

	return nil
}

// GetAddr returns the full server address (host:port)
func (c *Config) GetAddr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// GetBaseURL returns the portal's own base URL
// Uses base_url if set, otherwise constructs from host:port
func (c *Config) GetBaseURL() string {
	if c.Server.BaseURL != "" {
		return c.Server.BaseURL
	}
	return fmt.Sprintf("http://%s", c.GetAddr())
}

// IsHTTPS returns true if the portal's base URL uses HTTPS
func (c *Config) IsHTTPS() bool {
	return strings.HasPrefix(strings.ToLower(c.GetBaseURL()), "https://")
}

// CookieSecure resolves the session.cookie_secure setting, with "auto"
// following the portal's base URL scheme
func (c *Config) CookieSecure() bool {
	switch strings.ToLower(c.Session.CookieSecure) {
	case "true":
		return true
	case "false":
		return false
	default:
		return c.IsHTTPS()
	}
}

// CookieSameSite resolves the session.cookie_samesite setting
func (c *Config) CookieSameSite() http.SameSite {
	switch strings.ToLower(c.Session.CookieSameSite) {
	case "strict":
		return http.SameSiteStrictMode
	case "none":
		return http.SameSiteNoneMode
	default:
		return http.SameSiteLaxMode
	}
}
