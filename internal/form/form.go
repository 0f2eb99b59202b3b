// Package form holds the login form's state and drives submission.
//
// The form owns the field values, the password-visibility and entrance
// flags, the inline error message, and an explicit Idle/Submitting state
// machine that allows at most one submission in flight regardless of how
// the form is rendered.
package form

import (
	"context"
	"errors"
	"sync"

	"github.com/carechat/portal/internal/auth"
	"github.com/carechat/portal/internal/models"
)

// Field names accepted by SetField, matching the login form inputs
const (
	FieldUsername = "username"
	FieldPassword = "password"
)

// State is the submission state of the form
type State int

const (
	StateIdle State = iota
	StateSubmitting
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateSubmitting:
		return "submitting"
	default:
		return "unknown"
	}
}

// ErrSubmitInFlight is returned by Submit when a submission is already
// running
var ErrSubmitInFlight = errors.New("submission already in flight")

// Authenticator performs the login request
type Authenticator interface {
	Login(ctx context.Context, creds models.Credentials) (*models.AuthResponse, error)
}

// SessionSaver persists a successful login
type SessionSaver interface {
	SaveLogin(resp *models.AuthResponse) (*models.Session, error)
}

// Form is a login form instance. All methods are safe for concurrent use;
// the Submit entry guard holds even under programmatic re-invocation.
type Form struct {
	mu           sync.Mutex
	authClient   Authenticator
	saver        SessionSaver
	creds        models.Credentials
	showPassword bool
	animating    bool
	errMsg       string
	state        State

	// OnLoginSuccess is invoked exactly once per successful submission
	// with the backend's full response payload
	OnLoginSuccess func(*models.AuthResponse)

	// OnSwitchToSignup is invoked when the user asks for the signup view
	OnSwitchToSignup func()
}

// New creates an idle form. saver may be nil when persistence is handled
// by the success callback.
func New(authClient Authenticator, saver SessionSaver) *Form {
	return &Form{
		authClient: authClient,
		saver:      saver,
	}
}

// SetField updates the named field and clears any pending error, so the
// user is never left staring at a stale message after starting to correct
// input. Unknown field names only clear the error.
func (f *Form) SetField(name, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch name {
	case FieldUsername:
		f.creds.Username = value
	case FieldPassword:
		f.creds.Password = value
	}
	f.errMsg = ""
}

// Username returns the current username field value
func (f *Form) Username() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds.Username
}

// Password returns the current password field value
func (f *Form) Password() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.creds.Password
}

// TogglePassword flips the password field between revealed and obscured.
// It never touches the stored value.
func (f *Form) TogglePassword() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.showPassword = !f.showPassword
}

// PasswordVisible reports whether the password field is revealed
func (f *Form) PasswordVisible() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.showPassword
}

// Activate arms the entrance transition. Callers fire it shortly after
// the form is first rendered; it is purely cosmetic.
func (f *Form) Activate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.animating = true
}

// Animating reports whether the entrance transition has been armed
func (f *Form) Animating() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.animating
}

// Error returns the current inline error message, empty when none
func (f *Form) Error() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.errMsg
}

// State returns the current submission state
func (f *Form) State() State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

// Submitting reports whether a submission is in flight
func (f *Form) Submitting() bool {
	return f.State() == StateSubmitting
}

// Submit runs one submission cycle: guard entry, clear the error, send the
// login request, then either persist the session and fire OnLoginSuccess
// or record an inline error message. The form returns to Idle on every
// exit path.
//
// The only error Submit itself returns is ErrSubmitInFlight; every other
// failure surfaces through Error().
func (f *Form) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.state != StateIdle {
		f.mu.Unlock()
		return ErrSubmitInFlight
	}
	f.state = StateSubmitting
	f.errMsg = ""
	creds := f.creds
	f.mu.Unlock()

	// Network call happens outside the lock so state queries stay live
	resp, err := f.authClient.Login(ctx, creds)
	if err == nil && f.saver != nil {
		if _, saveErr := f.saver.SaveLogin(resp); saveErr != nil {
			err = saveErr
		}
	}

	f.mu.Lock()
	f.state = StateIdle
	if err != nil {
		f.errMsg = auth.UserMessage(err)
		f.mu.Unlock()
		return nil
	}
	cb := f.OnLoginSuccess
	f.mu.Unlock()

	if cb != nil {
		cb(resp)
	}

	return nil
}

// SwitchToSignup hands control to the signup view
func (f *Form) SwitchToSignup() {
	f.mu.Lock()
	cb := f.OnSwitchToSignup
	f.mu.Unlock()

	if cb != nil {
		cb()
	}
}
