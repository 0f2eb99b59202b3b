package auth

import "errors"

// Sentinel errors for auth backend interactions
var (
	// ErrUnexpectedResponse means the backend answered 2xx but the body
	// did not contain a token
	ErrUnexpectedResponse = errors.New("unexpected response format")

	// ErrInvalidToken means the backend rejected the session token
	ErrInvalidToken = errors.New("invalid or expired token")
)

// Inline messages shown on the login form
const (
	msgUnexpectedResponse = "Unexpected response format. Please try again."
	msgLoginFallback      = "Login failed. Please check your credentials."
)

// LoginError carries everything needed to derive a user-facing message
// from a failed auth request
type LoginError struct {
	Detail       string // detail field from the error response body
	Message      string // message field from the error response body
	Status       int    // HTTP status, 0 when the request never completed
	BaseURL      string // configured backend address, set on connectivity failures
	Connectivity bool   // request failed before reaching the backend
	Err          error  // underlying failure
}

func (e *LoginError) Error() string {
	switch {
	case e.Detail != "":
		return "auth request failed: " + e.Detail
	case e.Message != "":
		return "auth request failed: " + e.Message
	case e.Err != nil:
		return "auth request failed: " + e.Err.Error()
	default:
		return "auth request failed"
	}
}

func (e *LoginError) Unwrap() error {
	return e.Err
}

// UserMessage derives the inline error message. Precedence: the response's
// detail field, then its message field, then a connectivity message naming
// the backend address, then the raw failure text, then a generic fallback.
func (e *LoginError) UserMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	if e.Message != "" {
		return e.Message
	}
	if e.Connectivity {
		return "Cannot connect to the server at " + e.BaseURL + ". Please make sure the backend is running."
	}
	if e.Err != nil && e.Err.Error() != "" {
		return e.Err.Error()
	}
	return msgLoginFallback
}

// UserMessage maps any error returned by Client calls to the string shown
// inline on the login form
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, ErrUnexpectedResponse) {
		return msgUnexpectedResponse
	}
	var loginErr *LoginError
	if errors.As(err, &loginErr) {
		return loginErr.UserMessage()
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return msgLoginFallback
}
