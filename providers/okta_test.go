package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit"
	"github.com/dmitrymomot/oauthkit/providers"
)

func TestOkta(t *testing.T) {
	t.Parallel()

	newOkta := func(t *testing.T, handler http.Handler) *providers.Okta {
		t.Helper()
		p, err := providers.NewOkta(providers.OktaConfig{
			ClientID:     "CLIENT_ID",
			ClientSecret: "CLIENT_SECRET",
			BaseURL:      "dev-123456.okta.com",
		}, oauthkit.WithHTTPClient(fakeProviderClient(handler)))
		require.NoError(t, err)
		return p
	}

	t.Run("endpoints derive from base URL", func(t *testing.T) {
		t.Parallel()
		p := newOkta(t, nil)

		authURL, err := p.AuthorizationURL("https://app.example.com/callback")
		require.NoError(t, err)
		require.Contains(t, authURL, "https://dev-123456.okta.com/oauth2/v1/authorize")
	})

	t.Run("identity from org userinfo", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("dev-123456.okta.com/oauth2/v1/userinfo", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer ACCESS", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{"sub": "00u1", "email": "user@example.com"})
		})
		p := newOkta(t, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, oauthkit.Identity{ID: "00u1", Email: "user@example.com"}, identity)
	})

	t.Run("revocation endpoint wired", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("dev-123456.okta.com/oauth2/v1/revoke", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "TOKEN", r.PostForm.Get("token"))
		})
		p := newOkta(t, mux)
		require.NoError(t, p.RevokeToken(context.Background(), "TOKEN"))
	})
}
