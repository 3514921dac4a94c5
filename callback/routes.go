package callback

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	xoauth2 "golang.org/x/oauth2"

	"github.com/dmitrymomot/oauthkit"
)

const (
	defaultStateCookie    = "oauth_state"
	defaultVerifierCookie = "oauth_pkce"

	// Login and callback must complete within a single authorization
	// round-trip; ten minutes is generous.
	cookieMaxAge = 600
)

// RoutesConfig configures the login/callback route pair.
type RoutesConfig struct {
	// RedirectURI is the callback URL registered with the provider.
	RedirectURI string

	// UsePKCE enables the S256 code challenge on login and forwards the
	// verifier on callback.
	UsePKCE bool

	// Success consumes the exchanged token.
	Success SuccessFunc

	// StateCookie overrides the state cookie name.
	StateCookie string

	// VerifierCookie overrides the PKCE verifier cookie name.
	VerifierCookie string

	// CookieSecure marks the flow cookies Secure. Leave false only for
	// local development over plain HTTP.
	CookieSecure bool
}

// Routes mounts the full authorization code flow for a provider:
//
//	GET /login     — binds a random state (and PKCE verifier) to cookies and
//	                 redirects to the provider
//	GET /callback  — validates state against the cookie, then exchanges the
//	                 code via Handler
func Routes(provider oauthkit.Provider, cfg RoutesConfig) chi.Router {
	stateCookie := cfg.StateCookie
	if stateCookie == "" {
		stateCookie = defaultStateCookie
	}
	verifierCookie := cfg.VerifierCookie
	if verifierCookie == "" {
		verifierCookie = defaultVerifierCookie
	}

	handler := &Handler{
		Exchanger:   provider,
		RedirectURI: cfg.RedirectURI,
		Success:     cfg.Success,
	}

	r := chi.NewRouter()

	r.Get("/login", func(w http.ResponseWriter, req *http.Request) {
		state := uuid.NewString()
		setFlowCookie(w, stateCookie, state, cfg.CookieSecure)

		opts := []oauthkit.AuthURLOption{oauthkit.WithState(state)}
		if cfg.UsePKCE {
			verifier := xoauth2.GenerateVerifier()
			setFlowCookie(w, verifierCookie, verifier, cfg.CookieSecure)
			opts = append(opts, oauthkit.WithCodeChallenge(
				xoauth2.S256ChallengeFromVerifier(verifier), "S256",
			))
		}

		authURL, err := provider.AuthorizationURL(cfg.RedirectURI, opts...)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		http.Redirect(w, req, authURL, http.StatusTemporaryRedirect)
	})

	r.Get("/callback", func(w http.ResponseWriter, req *http.Request) {
		cookie, err := req.Cookie(stateCookie)
		if err != nil || cookie.Value == "" || cookie.Value != req.URL.Query().Get("state") {
			http.Error(w, "state mismatch", http.StatusBadRequest)
			return
		}
		clearFlowCookie(w, stateCookie, cfg.CookieSecure)

		if cfg.UsePKCE {
			verifier, err := req.Cookie(verifierCookie)
			if err != nil || verifier.Value == "" {
				http.Error(w, "missing code verifier", http.StatusBadRequest)
				return
			}
			clearFlowCookie(w, verifierCookie, cfg.CookieSecure)

			q := req.URL.Query()
			q.Set("code_verifier", verifier.Value)
			req = req.Clone(req.Context())
			req.URL.RawQuery = q.Encode()
		}

		handler.ServeHTTP(w, req)
	})

	return r
}

func setFlowCookie(w http.ResponseWriter, name, value string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   cookieMaxAge,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func clearFlowCookie(w http.ResponseWriter, name string, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
