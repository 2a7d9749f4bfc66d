package mwapi

import (
	"fmt"
	"net/url"
	"strings"
)

// apiPath is the action API entry point on every MediaWiki site we talk to.
const apiPath = "/w/api.php"

// Identity identifies the remote site a session, request or cached token belongs to.
// It is comparable and can be used as a map key.
type Identity struct {
	Scheme string
	Host   string
}

// ParseIdentity builds an Identity from a site URL such as "https://en.wikipedia.org".
// A bare host defaults to https.
func ParseIdentity(raw string) (Identity, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Identity{}, fmt.Errorf("empty site")
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid site %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return Identity{}, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return Identity{}, fmt.Errorf("site %q has no host", raw)
	}

	return Identity{Scheme: u.Scheme, Host: strings.ToLower(u.Host)}, nil
}

// String returns the site authority, e.g. "en.wikipedia.org".
func (i Identity) String() string {
	return i.Host
}

// APIURL returns the action API endpoint for the site.
func (i Identity) APIURL() *url.URL {
	scheme := i.Scheme
	if scheme == "" {
		scheme = "https"
	}
	return &url.URL{Scheme: scheme, Host: i.Host, Path: apiPath}
}
