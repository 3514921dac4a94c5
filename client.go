package oauthkit

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
)

// AuthMethod is a client authentication method used at the token and revoke
// endpoints. The set is closed; any other value fails client construction.
type AuthMethod string

const (
	// AuthMethodClientSecretBasic transmits the client id and secret as
	// Basic-auth credentials.
	AuthMethodClientSecretBasic AuthMethod = "client_secret_basic"

	// AuthMethodClientSecretPost embeds the client id and secret in the
	// form-encoded request body.
	AuthMethodClientSecretPost AuthMethod = "client_secret_post"
)

func (m AuthMethod) valid() bool {
	return m == AuthMethodClientSecretBasic || m == AuthMethodClientSecretPost
}

// Config is the per-client immutable endpoint configuration.
type Config struct {
	ClientID     string
	ClientSecret string

	AuthorizeEndpoint   string
	AccessTokenEndpoint string

	// RefreshTokenEndpoint and RevokeTokenEndpoint are optional; RefreshToken
	// and RevokeToken fail with a capability error when the corresponding
	// endpoint is empty.
	RefreshTokenEndpoint string
	RevokeTokenEndpoint  string

	// Name labels the client, e.g. "google". Defaults to "oauth2".
	Name string

	// BaseScopes is the default scope list used when AuthorizationURL is
	// called without an explicit scope.
	BaseScopes []string

	// TokenEndpointAuthMethod defaults to AuthMethodClientSecretPost.
	TokenEndpointAuthMethod AuthMethod

	// RevocationEndpointAuthMethod must be set whenever RevokeTokenEndpoint
	// is; leaving it empty otherwise is fine.
	RevocationEndpointAuthMethod AuthMethod
}

// Client is the generic OAuth2 protocol engine. Every protocol operation
// funnels through the shared BuildFormRequest/Send/DecodeJSON path so that
// authentication handling, default headers, and error classification are
// applied exactly once, uniformly.
type Client struct {
	cfg        Config
	httpClient *http.Client
	log        *slog.Logger
	secretFn   func() (string, error)
	authParams map[string]string
	headers    http.Header
}

// NewClient validates cfg and creates a client. Validation happens before any
// network access: an unknown auth method or a revoke endpoint without a
// revocation auth method is a construction-time error.
func NewClient(cfg Config, opts ...Option) (*Client, error) {
	if cfg.ClientID == "" {
		return nil, ErrMissingClientID
	}
	if cfg.Name == "" {
		cfg.Name = "oauth2"
	}
	if cfg.TokenEndpointAuthMethod == "" {
		cfg.TokenEndpointAuthMethod = AuthMethodClientSecretPost
	}
	if !cfg.TokenEndpointAuthMethod.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAuthMethod, cfg.TokenEndpointAuthMethod)
	}
	if cfg.RevocationEndpointAuthMethod != "" && !cfg.RevocationEndpointAuthMethod.valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAuthMethod, cfg.RevocationEndpointAuthMethod)
	}
	if cfg.RevokeTokenEndpoint != "" && cfg.RevocationEndpointAuthMethod == "" {
		return nil, ErrMissingRevocationAuthMethod
	}

	c := &Client{
		cfg:     cfg,
		log:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		headers: http.Header{"Accept": []string{"application/json"}},
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.cfg.ClientSecret == "" && c.secretFn == nil {
		return nil, ErrMissingClientSecret
	}
	return c, nil
}

// Name returns the client label.
func (c *Client) Name() string { return c.cfg.Name }

// ClientID returns the configured client identifier.
func (c *Client) ClientID() string { return c.cfg.ClientID }

// TokenEndpointAuthMethod returns the auth method used at the token endpoint.
func (c *Client) TokenEndpointAuthMethod() AuthMethod { return c.cfg.TokenEndpointAuthMethod }

// AuthorizationURL builds the authorization URL for the given redirect URI.
// It is pure string construction; no network call is made, and identical
// arguments produce identical URLs. The scope comes from WithScopes when
// given, otherwise the configured base scopes; when neither exists no scope
// parameter is emitted. Client-level default params (WithDefaultAuthParams)
// and per-call params (WithAuthParam) are merged last, in that order, and may
// override any standard parameter.
func (c *Client) AuthorizationURL(redirectURI string, opts ...AuthURLOption) (string, error) {
	var p authURLParams
	for _, opt := range opts {
		opt(&p)
	}

	u, err := url.Parse(c.cfg.AuthorizeEndpoint)
	if err != nil {
		return "", fmt.Errorf("oauthkit: parse authorize endpoint: %w", err)
	}

	q := u.Query()
	q.Set("response_type", "code")
	q.Set("client_id", c.cfg.ClientID)
	q.Set("redirect_uri", redirectURI)
	if p.state != "" {
		q.Set("state", p.state)
	}
	scopes := p.scopes
	if scopes == nil {
		scopes = c.cfg.BaseScopes
	}
	if len(scopes) > 0 {
		q.Set("scope", strings.Join(scopes, " "))
	}
	if p.codeChallenge != "" {
		q.Set("code_challenge", p.codeChallenge)
		if p.codeChallengeMethod != "" {
			q.Set("code_challenge_method", p.codeChallengeMethod)
		}
	}
	for k, v := range c.authParams {
		q.Set(k, v)
	}
	for k, v := range p.extras {
		q.Set(k, v)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ExchangeCode performs the authorization code grant: it POSTs the code to
// the token endpoint under the configured token endpoint auth method and
// returns the resulting token. Failures are reported as *RequestError with
// kind ErrGetAccessToken.
func (c *Client) ExchangeCode(ctx context.Context, code, redirectURI string, opts ...ExchangeOption) (Token, error) {
	var p exchangeParams
	for _, opt := range opts {
		opt(&p)
	}

	form := url.Values{
		"grant_type":   {"authorization_code"},
		"code":         {code},
		"redirect_uri": {redirectURI},
	}
	if p.codeVerifier != "" {
		form.Set("code_verifier", p.codeVerifier)
	}

	return c.tokenRequest(ctx, c.cfg.AccessTokenEndpoint, form, ErrGetAccessToken)
}

// RefreshToken exchanges a refresh token for a new token. Clients without a
// refresh endpoint fail immediately with ErrRefreshNotSupported; no network
// call is attempted. Request failures carry kind ErrRefreshToken.
func (c *Client) RefreshToken(ctx context.Context, refreshToken string) (Token, error) {
	if c.cfg.RefreshTokenEndpoint == "" {
		return nil, ErrRefreshNotSupported
	}

	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {refreshToken},
	}

	return c.tokenRequest(ctx, c.cfg.RefreshTokenEndpoint, form, ErrRefreshToken)
}

// RevokeToken revokes a token at the revoke endpoint under the configured
// revocation auth method. Clients without a revoke endpoint fail immediately
// with ErrRevokeNotSupported; no network call is attempted. Request failures
// carry kind ErrRevokeToken.
func (c *Client) RevokeToken(ctx context.Context, token string, opts ...RevokeOption) error {
	if c.cfg.RevokeTokenEndpoint == "" {
		return ErrRevokeNotSupported
	}

	form := RevokeForm(token, opts...)

	req, err := c.BuildFormRequest(ctx, http.MethodPost, c.cfg.RevokeTokenEndpoint, form, c.cfg.RevocationEndpointAuthMethod)
	if err != nil {
		return err
	}
	_, err = c.Send(req, ErrRevokeToken)
	return err
}

// IDEmail is the identity lookup extension point. The base client does not
// implement it; provider adapters and the openid client shadow this method.
func (c *Client) IDEmail(ctx context.Context, accessToken string) (Identity, error) {
	return Identity{}, ErrNotImplemented
}

func (c *Client) tokenRequest(ctx context.Context, endpoint string, form url.Values, kind error) (Token, error) {
	req, err := c.BuildFormRequest(ctx, http.MethodPost, endpoint, form, c.cfg.TokenEndpointAuthMethod)
	if err != nil {
		return nil, err
	}
	resp, err := c.Send(req, kind)
	if err != nil {
		return nil, err
	}
	data, err := DecodeJSON(resp, kind)
	if err != nil {
		return nil, err
	}
	return NewToken(data), nil
}
