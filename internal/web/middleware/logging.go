package middleware

import (
	"log"
	"net/http"
	"time"

	"github.com/carechat/portal/internal/auth"
)

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += n
	return n, err
}

// LoggingMiddleware logs HTTP requests with method, path, status, duration,
// and the session id when one is attached to the request
func LoggingMiddleware(logger *log.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK, // Default status
			}

			next.ServeHTTP(rw, r)

			duration := time.Since(start)

			sessionID := "-"
			if session, ok := auth.GetSessionFromContext(r.Context()); ok && session != nil {
				sessionID = session.ID
			}

			logger.Printf(
				"method=%s path=%s status=%d duration=%s session=%s bytes=%d",
				r.Method,
				r.URL.Path,
				rw.statusCode,
				duration.Round(time.Millisecond),
				sessionID,
				rw.written,
			)
		})
	}
}
