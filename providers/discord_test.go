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

func newDiscord(t *testing.T, handler http.Handler) *providers.Discord {
	t.Helper()
	p, err := providers.NewDiscord(providers.DiscordConfig{
		ClientID:     "CLIENT_ID",
		ClientSecret: "CLIENT_SECRET",
	}, oauthkit.WithHTTPClient(fakeProviderClient(handler)))
	require.NoError(t, err)
	return p
}

func TestDiscord(t *testing.T) {
	t.Parallel()

	t.Run("verified email", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("discord.com/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer ACCESS", r.Header.Get("Authorization"))
			json.NewEncoder(w).Encode(map[string]any{
				"id": "80351110224678912", "email": "user@example.com", "verified": true,
			})
		})
		p := newDiscord(t, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, oauthkit.Identity{ID: "80351110224678912", Email: "user@example.com"}, identity)
	})

	t.Run("missing email", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("discord.com/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id": "80351110224678912"})
		})
		p := newDiscord(t, mux)

		_, err := p.IDEmail(context.Background(), "ACCESS")
		require.ErrorIs(t, err, providers.ErrEmailNotProvided)
	})

	t.Run("unverified email", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("discord.com/api/users/@me", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{
				"id": "80351110224678912", "email": "user@example.com", "verified": false,
			})
		})
		p := newDiscord(t, mux)

		_, err := p.IDEmail(context.Background(), "ACCESS")
		require.ErrorIs(t, err, providers.ErrEmailNotVerified)
	})

	t.Run("revocation wired through token revoke endpoint", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("discord.com/api/oauth2/token/revoke", func(w http.ResponseWriter, r *http.Request) {
			require.NoError(t, r.ParseForm())
			require.Equal(t, "TOKEN", r.PostForm.Get("token"))
			require.Equal(t, "CLIENT_SECRET", r.PostForm.Get("client_secret"))
		})
		p := newDiscord(t, mux)
		require.NoError(t, p.RevokeToken(context.Background(), "TOKEN"))
	})
}
