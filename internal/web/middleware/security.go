package middleware

import (
	"net/http"

	"github.com/carechat/portal/internal/config"
)

// SecurityHeaders adds the configured HTTP security headers to every
// response. HSTS is only set when the portal itself is served over HTTPS.
func SecurityHeaders(cfg *config.Config) func(http.Handler) http.Handler {
	headers := cfg.Server.Security.Headers
	hsts := cfg.IsHTTPS() && headers.StrictTransportSecurity != ""

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if headers.XFrameOptions != "" {
				w.Header().Set("X-Frame-Options", headers.XFrameOptions)
			}
			if headers.XContentTypeOptions != "" {
				w.Header().Set("X-Content-Type-Options", headers.XContentTypeOptions)
			}
			if headers.ReferrerPolicy != "" {
				w.Header().Set("Referrer-Policy", headers.ReferrerPolicy)
			}
			if headers.ContentSecurityPolicy != "" {
				w.Header().Set("Content-Security-Policy", headers.ContentSecurityPolicy)
			}
			if hsts {
				w.Header().Set("Strict-Transport-Security", headers.StrictTransportSecurity)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequestSizeLimit bounds request body size to protect the form endpoints
func RequestSizeLimit(maxBytes int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
