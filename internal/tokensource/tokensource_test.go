package tokensource

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"golang.org/x/oauth2"

	"github.com/florianilch/optsync/internal/mwapi"
)

func TestTokenSourceRefresh(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm: %v", err)
			return
		}
		if got := r.PostForm.Get("grant_type"); got != "refresh_token" {
			t.Errorf("grant_type = %q", got)
		}
		if got := r.PostForm.Get("refresh_token"); got != "refresh-1" {
			t.Errorf("refresh_token = %q", got)
		}
		if got := r.PostForm.Get("client_id"); got != "consumer" {
			t.Errorf("client_id = %q", got)
		}
		if got := r.Header.Get("User-Agent"); got != "optsync-test/1.0" {
			t.Errorf("User-Agent = %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"token_type":"Bearer","expires_in":14400,"access_token":"access-1","refresh_token":"refresh-2"}`))
	}))
	defer srv.Close()

	endpoint := oauth2.Endpoint{
		TokenURL:  srv.URL + "/oauth2/access_token",
		AuthStyle: oauth2.AuthStyleInParams,
	}
	ts := NewTokenSource("refresh-1", "consumer", "secret", endpoint,
		WithTransport(&mwapi.UserAgentTransport{UserAgent: "optsync-test/1.0"}),
	)

	token, err := ts.Token()
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if token.AccessToken != "access-1" {
		t.Errorf("AccessToken = %q", token.AccessToken)
	}
	if token.RefreshToken != "refresh-2" {
		t.Errorf("RefreshToken = %q", token.RefreshToken)
	}
}
