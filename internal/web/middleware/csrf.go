package middleware

import (
	"net/http"

	"github.com/gorilla/csrf"
)

// CSRFProtection creates a CSRF protection middleware using gorilla/csrf
// for the login and signup forms
func CSRFProtection(secret []byte, secure bool) func(http.Handler) http.Handler {
	return csrf.Protect(
		secret,
		csrf.Secure(secure),
		csrf.FieldName("csrf_token"),
		csrf.ErrorHandler(http.HandlerFunc(csrfFailureHandler)),
	)
}

func csrfFailureHandler(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "CSRF token validation failed. Please refresh the page and try again.", http.StatusForbidden)
}
