package oauthkit

import (
	"log/slog"
	"net/http"
	"net/url"
)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client for provider requests. Useful for
// testing with httptest servers or injecting custom transports. Cancellation
// and timeout policy belongs entirely to this client; the core defines no
// timeouts or retries of its own.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets a structured logger. The client logs provider requests at
// debug level only; the default logger discards everything.
func WithLogger(log *slog.Logger) Option {
	return func(c *Client) {
		if log != nil {
			c.log = log
		}
	}
}

// WithClientSecretFunc supplies the client secret dynamically, resolved on
// each outgoing request. Providers whose secret is a time-boxed signed
// credential (e.g. Apple's JWT client secret) use this to regenerate it
// lazily when expired. When set, Config.ClientSecret may be empty.
func WithClientSecretFunc(fn func() (string, error)) Option {
	return func(c *Client) {
		c.secretFn = fn
	}
}

// WithDefaultAuthParams merges extra parameters into every authorization URL
// the client builds. Adapters use this to inject provider-required params
// (e.g. response_mode) without reimplementing URL assembly; per-call
// WithAuthParam values still win.
func WithDefaultAuthParams(params map[string]string) Option {
	return func(c *Client) {
		if c.authParams == nil {
			c.authParams = make(map[string]string, len(params))
		}
		for k, v := range params {
			c.authParams[k] = v
		}
	}
}

// WithRequestHeader adds a default header to every request the client sends.
func WithRequestHeader(key, value string) Option {
	return func(c *Client) {
		c.headers.Set(key, value)
	}
}

type authURLParams struct {
	state               string
	scopes              []string
	codeChallenge       string
	codeChallengeMethod string
	extras              map[string]string
}

// AuthURLOption configures a single AuthorizationURL call.
type AuthURLOption func(*authURLParams)

// WithState adds the state parameter.
func WithState(state string) AuthURLOption {
	return func(p *authURLParams) {
		p.state = state
	}
}

// WithScopes overrides the client's base scopes for this URL. Passing no
// scopes suppresses the scope parameter entirely.
func WithScopes(scopes ...string) AuthURLOption {
	return func(p *authURLParams) {
		if scopes == nil {
			scopes = []string{}
		}
		p.scopes = scopes
	}
}

// WithCodeChallenge adds the PKCE code_challenge and code_challenge_method
// ("plain" or "S256") parameters.
func WithCodeChallenge(challenge, method string) AuthURLOption {
	return func(p *authURLParams) {
		p.codeChallenge = challenge
		p.codeChallengeMethod = method
	}
}

// WithAuthParam adds an arbitrary authorization URL parameter. It is merged
// last and may override any standard parameter; providers need this for
// non-standard params like access_type=offline or nonce.
func WithAuthParam(key, value string) AuthURLOption {
	return func(p *authURLParams) {
		if p.extras == nil {
			p.extras = make(map[string]string)
		}
		p.extras[key] = value
	}
}

type exchangeParams struct {
	codeVerifier string
}

// ExchangeOption configures a single ExchangeCode call.
type ExchangeOption func(*exchangeParams)

// WithCodeVerifier adds the PKCE code_verifier to the exchange request.
func WithCodeVerifier(verifier string) ExchangeOption {
	return func(p *exchangeParams) {
		p.codeVerifier = verifier
	}
}

type revokeParams struct {
	tokenTypeHint string
}

// RevokeOption configures a single RevokeToken call.
type RevokeOption func(*revokeParams)

// WithTokenTypeHint adds the token_type_hint parameter to the revoke request.
func WithTokenTypeHint(hint string) RevokeOption {
	return func(p *revokeParams) {
		p.tokenTypeHint = hint
	}
}

// RevokeForm builds the standard revocation form from the given options.
// Provider adapters that override RevokeToken with a non-standard payload use
// it to preserve caller options before reshaping the form.
func RevokeForm(token string, opts ...RevokeOption) url.Values {
	var p revokeParams
	for _, opt := range opts {
		opt(&p)
	}
	form := url.Values{"token": {token}}
	if p.tokenTypeHint != "" {
		form.Set("token_type_hint", p.tokenTypeHint)
	}
	return form
}
