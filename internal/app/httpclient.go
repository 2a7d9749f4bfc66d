package app

import (
	"fmt"
	"net/http"
	"net/http/cookiejar"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/oauth2"

	"github.com/florianilch/optsync/internal/mwapi"
)

// newHTTPClient builds the client used for every API call. Session cookies are kept in
// a jar because MediaWiki ties edit tokens to the session that fetched them.
// A nil source sends unauthenticated requests.
func newHTTPClient(cfg *Config, source oauth2.TokenSource) (*http.Client, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("creating cookie jar: %w", err)
	}

	var transport http.RoundTripper = &mwapi.UserAgentTransport{
		Base:      http.DefaultTransport,
		UserAgent: cfg.UserAgent,
	}
	if source != nil {
		transport = &oauth2.Transport{Source: source, Base: transport}
	}

	return &http.Client{
		Timeout:   cfg.HTTP.Timeout,
		Transport: transport,
		Jar:       jar,
	}, nil
}
