package callback_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/oauthkit"
	"github.com/dmitrymomot/oauthkit/callback"
)

// tokenServer answers token exchanges and records the submitted form.
func tokenServer(t *testing.T) (*httptest.Server, *url.Values) {
	t.Helper()
	var form url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		form = r.PostForm
		json.NewEncoder(w).Encode(map[string]any{"access_token": "ACCESS"})
	}))
	t.Cleanup(srv.Close)
	return srv, &form
}

func newProvider(t *testing.T, tokenEndpoint string) oauthkit.Provider {
	t.Helper()
	c, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:            "CLIENT_ID",
		ClientSecret:        "CLIENT_SECRET",
		AuthorizeEndpoint:   "https://provider.example.com/authorize",
		AccessTokenEndpoint: tokenEndpoint,
		BaseScopes:          []string{"openid", "email"},
	})
	require.NoError(t, err)
	return c
}

func cookieByName(t *testing.T, cookies []*http.Cookie, name string) *http.Cookie {
	t.Helper()
	for _, c := range cookies {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %q not set", name)
	return nil
}

func TestRoutes(t *testing.T) {
	t.Parallel()

	t.Run("login redirects with cookie-bound state", func(t *testing.T) {
		t.Parallel()
		router := callback.Routes(newProvider(t, "https://provider.example.com/token"), callback.RoutesConfig{
			RedirectURI: "https://app.example.com/auth/callback",
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

		require.Equal(t, http.StatusTemporaryRedirect, rec.Code)

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.Equal(t, "provider.example.com", location.Host)

		state := location.Query().Get("state")
		require.NotEmpty(t, state)

		cookie := cookieByName(t, rec.Result().Cookies(), "oauth_state")
		require.Equal(t, state, cookie.Value)
		require.True(t, cookie.HttpOnly)
	})

	t.Run("login with PKCE emits S256 challenge", func(t *testing.T) {
		t.Parallel()
		router := callback.Routes(newProvider(t, "https://provider.example.com/token"), callback.RoutesConfig{
			RedirectURI: "https://app.example.com/auth/callback",
			UsePKCE:     true,
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/login", nil))

		location, err := url.Parse(rec.Header().Get("Location"))
		require.NoError(t, err)
		require.NotEmpty(t, location.Query().Get("code_challenge"))
		require.Equal(t, "S256", location.Query().Get("code_challenge_method"))

		verifier := cookieByName(t, rec.Result().Cookies(), "oauth_pkce")
		require.NotEmpty(t, verifier.Value)
	})

	t.Run("callback validates state and exchanges the code", func(t *testing.T) {
		t.Parallel()
		srv, form := tokenServer(t)

		var gotState string
		router := callback.Routes(newProvider(t, srv.URL), callback.RoutesConfig{
			RedirectURI: "https://app.example.com/auth/callback",
			Success: func(w http.ResponseWriter, r *http.Request, token oauthkit.Token, state string) {
				gotState = state
				require.Equal(t, "ACCESS", token.AccessToken())
				w.WriteHeader(http.StatusNoContent)
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/callback?code=CODE&state=STATE", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "STATE"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "STATE", gotState)
		require.Equal(t, "CODE", form.Get("code"))
		require.Equal(t, "https://app.example.com/auth/callback", form.Get("redirect_uri"))
	})

	t.Run("callback forwards the PKCE verifier", func(t *testing.T) {
		t.Parallel()
		srv, form := tokenServer(t)

		router := callback.Routes(newProvider(t, srv.URL), callback.RoutesConfig{
			RedirectURI: "https://app.example.com/auth/callback",
			UsePKCE:     true,
			Success: func(w http.ResponseWriter, r *http.Request, token oauthkit.Token, state string) {
				w.WriteHeader(http.StatusNoContent)
			},
		})

		req := httptest.NewRequest(http.MethodGet, "/callback?code=CODE&state=STATE", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "STATE"})
		req.AddCookie(&http.Cookie{Name: "oauth_pkce", Value: "VERIFIER"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusNoContent, rec.Code)
		require.Equal(t, "VERIFIER", form.Get("code_verifier"))
	})

	t.Run("state mismatch answers 400", func(t *testing.T) {
		t.Parallel()
		router := callback.Routes(newProvider(t, "https://provider.example.com/token"), callback.RoutesConfig{
			RedirectURI: "https://app.example.com/auth/callback",
		})

		req := httptest.NewRequest(http.MethodGet, "/callback?code=CODE&state=FORGED", nil)
		req.AddCookie(&http.Cookie{Name: "oauth_state", Value: "STATE"})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing state cookie answers 400", func(t *testing.T) {
		t.Parallel()
		router := callback.Routes(newProvider(t, "https://provider.example.com/token"), callback.RoutesConfig{
			RedirectURI: "https://app.example.com/auth/callback",
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/callback?code=CODE&state=STATE", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
