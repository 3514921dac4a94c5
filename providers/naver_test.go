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

func newNaver(t *testing.T, handler http.Handler) *providers.Naver {
	t.Helper()
	p, err := providers.NewNaver(providers.NaverConfig{
		ClientID:     "CLIENT_ID",
		ClientSecret: "CLIENT_SECRET",
	}, oauthkit.WithHTTPClient(fakeProviderClient(handler)))
	require.NoError(t, err)
	return p
}

func TestNaver(t *testing.T) {
	t.Parallel()

	t.Run("revocation uses the delete grant", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("nid.naver.com/oauth2.0/token", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "delete", r.PostForm.Get("grant_type"))
			require.Equal(t, "TOKEN", r.PostForm.Get("access_token"))
			require.Equal(t, "NAVER", r.PostForm.Get("service_provider"))
			require.Empty(t, r.PostForm.Get("token"))
			require.Equal(t, "CLIENT_SECRET", r.PostForm.Get("client_secret"))
		})
		p := newNaver(t, mux)
		require.NoError(t, p.RevokeToken(context.Background(), "TOKEN"))
	})

	t.Run("token type hint survives the reshaped form", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("nid.naver.com/oauth2.0/token", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "access_token", r.PostForm.Get("token_type_hint"))
		})
		p := newNaver(t, mux)
		require.NoError(t, p.RevokeToken(context.Background(), "TOKEN",
			oauthkit.WithTokenTypeHint("access_token"),
		))
	})

	t.Run("identity from response envelope", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("openapi.naver.com/v1/nid/me", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "Bearer ACCESS", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"response": map[string]any{"id": "naver-123", "email": "user@naver.com"},
			})
		})
		p := newNaver(t, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, oauthkit.Identity{ID: "naver-123", Email: "user@naver.com"}, identity)
	})
}
