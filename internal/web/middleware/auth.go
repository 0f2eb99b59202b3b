package middleware

import (
	"net/http"

	"github.com/carechat/portal/internal/auth"
)

// RequireAuth is a middleware that requires a valid portal session.
// Unauthenticated requests are redirected to the login page.
func RequireAuth(sessionManager *auth.SessionManager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, err := sessionManager.GetSession(r)
			if err != nil || session == nil {
				http.Redirect(w, r, "/auth/login", http.StatusSeeOther)
				return
			}

			// Session is valid, add to context and continue
			ctx := auth.SetSessionInContext(r.Context(), session)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
