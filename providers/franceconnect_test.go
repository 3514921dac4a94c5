package providers_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit"
	"github.com/dmitrymomot/oauthkit/providers"
)

func newFranceConnect(t *testing.T, integration bool, handler http.Handler) *providers.FranceConnect {
	t.Helper()
	p, err := providers.NewFranceConnect(providers.FranceConnectConfig{
		ClientID:     "CLIENT_ID",
		ClientSecret: "CLIENT_SECRET",
		Integration:  integration,
	}, oauthkit.WithHTTPClient(fakeProviderClient(handler)))
	require.NoError(t, err)
	return p
}

func TestFranceConnect(t *testing.T) {
	t.Parallel()

	t.Run("nonce generated when absent", func(t *testing.T) {
		t.Parallel()
		p := newFranceConnect(t, false, nil)

		authURL, err := p.AuthorizationURL("https://app.example.com/callback")
		require.NoError(t, err)

		u, err := url.Parse(authURL)
		require.NoError(t, err)
		require.Equal(t, "app.franceconnect.gouv.fr", u.Host)
		require.NotEmpty(t, u.Query().Get("nonce"))
	})

	t.Run("caller nonce wins", func(t *testing.T) {
		t.Parallel()
		p := newFranceConnect(t, false, nil)

		authURL, err := p.AuthorizationURL("https://app.example.com/callback",
			oauthkit.WithAuthParam("nonce", "CALLER_NONCE"),
		)
		require.NoError(t, err)

		u, err := url.Parse(authURL)
		require.NoError(t, err)
		require.Equal(t, "CALLER_NONCE", u.Query().Get("nonce"))
	})

	t.Run("integration endpoints", func(t *testing.T) {
		t.Parallel()
		p := newFranceConnect(t, true, nil)

		authURL, err := p.AuthorizationURL("https://app.example.com/callback")
		require.NoError(t, err)
		require.Contains(t, authURL, "fcp.integ01.dev-franceconnect.fr")
	})

	t.Run("identity from userinfo", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("app.franceconnect.gouv.fr/api/v1/userinfo", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer ACCESS", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{"sub": 9001, "email": "user@example.fr"})
		})
		p := newFranceConnect(t, false, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, oauthkit.Identity{ID: "9001", Email: "user@example.fr"}, identity)
	})

	t.Run("no refresh or revoke", func(t *testing.T) {
		t.Parallel()
		p := newFranceConnect(t, false, nil)

		_, err := p.RefreshToken(context.Background(), "REFRESH")
		require.ErrorIs(t, err, oauthkit.ErrRefreshNotSupported)
		require.ErrorIs(t, p.RevokeToken(context.Background(), "TOKEN"), oauthkit.ErrRevokeNotSupported)
	})
}
