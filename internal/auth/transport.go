package auth

import "net/http"

// TokenSource supplies the current session token for outbound requests.
// It returns an empty string when no login is stored.
type TokenSource func() (string, error)

// BearerTransport is an http.RoundTripper that attaches the current
// session token as a bearer Authorization header. The token is read from
// the source at request time rather than captured once, so a login that
// replaces the stored token takes effect on the next request.
type BearerTransport struct {
	Base   http.RoundTripper
	Source TokenSource
}

// NewBearerTransport wraps base with bearer authentication from source
func NewBearerTransport(base http.RoundTripper, source TokenSource) *BearerTransport {
	return &BearerTransport{
		Base:   base,
		Source: source,
	}
}

// RoundTrip implements http.RoundTripper. The original request is never
// mutated; a clone carries the Authorization header. An Authorization
// header already present on the request wins over the stored token.
func (t *BearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	token := ""
	if t.Source != nil {
		tok, err := t.Source()
		if err != nil {
			return nil, err
		}
		token = tok
	}

	out := req.Clone(req.Context())
	if token != "" && out.Header.Get("Authorization") == "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}

	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}

	return base.RoundTrip(out)
}
