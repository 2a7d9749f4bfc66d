package tokensource

import (
	"golang.org/x/oauth2"
)

// Endpoint defines the OAuth 2 endpoints for Wikimedia accounts. Consumers are
// registered on meta.wikimedia.org and are valid on every Wikimedia wiki.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://meta.wikimedia.org/w/rest.php/oauth2/authorize",
	TokenURL:  "https://meta.wikimedia.org/w/rest.php/oauth2/access_token",
	AuthStyle: oauth2.AuthStyleInParams,
}
