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

func newGoogle(t *testing.T, handler http.Handler) *providers.Google {
	t.Helper()
	p, err := providers.NewGoogle(providers.GoogleConfig{
		ClientID:     "CLIENT_ID",
		ClientSecret: "CLIENT_SECRET",
	}, oauthkit.WithHTTPClient(fakeProviderClient(handler)))
	require.NoError(t, err)
	return p
}

func TestGoogle(t *testing.T) {
	t.Parallel()

	t.Run("name and authorization URL", func(t *testing.T) {
		t.Parallel()
		p := newGoogle(t, nil)
		require.Equal(t, "google", p.Name())

		authURL, err := p.AuthorizationURL("https://app.example.com/callback")
		require.NoError(t, err)
		require.Contains(t, authURL, "https://accounts.google.com/o/oauth2/v2/auth")
		require.Contains(t, authURL, "userinfo.email")
	})

	t.Run("revocation supported", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("accounts.google.com/o/oauth2/revoke", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "TOKEN", r.PostForm.Get("token"))
		})
		p := newGoogle(t, mux)
		require.NoError(t, p.RevokeToken(context.Background(), "TOKEN"))
	})

	t.Run("primary email resolved", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("people.googleapis.com/v1/people/me", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer ACCESS", r.Header.Get("Authorization"))
			require.Equal(t, "emailAddresses", r.URL.Query().Get("personFields"))
			json.NewEncoder(w).Encode(map[string]any{
				"resourceName": "people/10000",
				"emailAddresses": []map[string]any{
					{"value": "secondary@example.com", "metadata": map[string]any{"primary": false}},
					{"value": "primary@example.com", "metadata": map[string]any{"primary": true}},
				},
			})
		})
		p := newGoogle(t, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, oauthkit.Identity{ID: "people/10000", Email: "primary@example.com"}, identity)
	})

	t.Run("no primary email", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("people.googleapis.com/v1/people/me", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"resourceName":   "people/10000",
				"emailAddresses": []map[string]any{},
			})
		})
		p := newGoogle(t, mux)

		_, err := p.IDEmail(context.Background(), "ACCESS")
		require.ErrorIs(t, err, oauthkit.ErrGetIDEmail)
		require.ErrorIs(t, err, providers.ErrNoPrimaryEmail)
	})

	t.Run("profile error carries response", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("people.googleapis.com/v1/people/me", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":{"status":"INVALID_ARGUMENT"}}`))
		})
		p := newGoogle(t, mux)

		_, err := p.IDEmail(context.Background(), "ACCESS")
		require.ErrorIs(t, err, oauthkit.ErrGetIDEmail)

		var reqErr *oauthkit.RequestError
		require.ErrorAs(t, err, &reqErr)
		require.NotNil(t, reqErr.Response)
		require.Equal(t, http.StatusBadRequest, reqErr.Response.StatusCode)
		require.Contains(t, string(reqErr.Response.Body), "INVALID_ARGUMENT")
	})
}
