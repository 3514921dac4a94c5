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

func TestKakao(t *testing.T) {
	t.Parallel()

	newKakao := func(t *testing.T, handler http.Handler) *providers.Kakao {
		t.Helper()
		p, err := providers.NewKakao(providers.KakaoConfig{
			ClientID:     "CLIENT_ID",
			ClientSecret: "CLIENT_SECRET",
		}, oauthkit.WithHTTPClient(fakeProviderClient(handler)))
		require.NoError(t, err)
		return p
	}

	t.Run("identity with numeric id", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("kapi.kakao.com/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, http.MethodPost, r.Method)
			require.Equal(t, "Bearer ACCESS", r.Header.Get("Authorization"))
			require.Equal(t, `["kakao_account.email"]`, r.URL.Query().Get("property_keys"))
			json.NewEncoder(w).Encode(map[string]any{
				"id":            123456789,
				"kakao_account": map[string]any{"email": "user@kakao.com"},
			})
		})
		p := newKakao(t, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, oauthkit.Identity{ID: "123456789", Email: "user@kakao.com"}, identity)
	})

	t.Run("email optional", func(t *testing.T) {
		t.Parallel()
		mux := http.NewServeMux()
		mux.HandleFunc("kapi.kakao.com/v2/user/me", func(w http.ResponseWriter, r *http.Request) {
			json.NewEncoder(w).Encode(map[string]any{"id": 123456789, "kakao_account": map[string]any{}})
		})
		p := newKakao(t, mux)

		identity, err := p.IDEmail(context.Background(), "ACCESS")
		require.NoError(t, err)
		require.Equal(t, "123456789", identity.ID)
		require.Empty(t, identity.Email)
	})
}
