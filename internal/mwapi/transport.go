package mwapi

import "net/http"

// UserAgentTransport sets the User-Agent header on every request. Wikimedia sites
// reject or throttle clients without a descriptive one.
type UserAgentTransport struct {
	Base      http.RoundTripper
	UserAgent string
}

// Compile-time check that UserAgentTransport implements http.RoundTripper.
var _ http.RoundTripper = (*UserAgentTransport)(nil)

// RoundTrip implements http.RoundTripper.
func (t *UserAgentTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	base := t.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if t.UserAgent == "" {
		return base.RoundTrip(req)
	}

	// RoundTrippers must not modify the caller's request.
	newReq := req.Clone(req.Context())
	newReq.Header.Set("User-Agent", t.UserAgent)
	return base.RoundTrip(newReq)
}
