package openid

import (
	"context"
	"fmt"
	"net/http"
	"slices"

	"github.com/dmitrymomot/oauthkit"
)

// DefaultScopes returns the default scopes for OpenID Connect providers.
func DefaultScopes() []string {
	return []string{"openid", "email"}
}

// Config holds OpenID Connect client configuration. Endpoints are not
// configured directly; they are derived from the discovery document served at
// ConfigurationEndpoint.
type Config struct {
	ClientID              string   `env:"OPENID_CLIENT_ID,required"`
	ClientSecret          string   `env:"OPENID_CLIENT_SECRET,required"`
	ConfigurationEndpoint string   `env:"OPENID_CONFIGURATION_ENDPOINT,required"`
	Name                  string   `env:"OPENID_CLIENT_NAME" envDefault:"openid"`
	Scopes                []string `env:"OPENID_SCOPES" envSeparator:","`
}

// Client is an oauthkit client whose configuration comes from an OpenID
// discovery document and whose identity lookup targets the standard userinfo
// endpoint.
type Client struct {
	*oauthkit.Client
	doc *DiscoveryDocument
}

// Option configures an openid Client.
type Option func(*options)

type options struct {
	httpClient *http.Client
	clientOpts []oauthkit.Option
}

// WithHTTPClient sets the HTTP client used both for the discovery fetch and
// for the derived client's provider requests.
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.httpClient = client
		o.clientOpts = append(o.clientOpts, oauthkit.WithHTTPClient(client))
	}
}

// WithClientOptions forwards options to the underlying oauthkit client.
func WithClientOptions(opts ...oauthkit.Option) Option {
	return func(o *options) {
		o.clientOpts = append(o.clientOpts, opts...)
	}
}

// NewClient fetches the discovery document and derives the client
// configuration from it. Construction performs one network call and fails on
// fetch errors (ErrDiscovery), missing required endpoints
// (ErrMalformedDocument), and unusable advertised auth methods
// (ErrNoSupportedAuthMethod).
func NewClient(ctx context.Context, cfg Config, opts ...Option) (*Client, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	doc, err := Discover(ctx, o.httpClient, cfg.ConfigurationEndpoint)
	if err != nil {
		return nil, err
	}

	base, err := clientFromDocument(cfg, doc, o.clientOpts)
	if err != nil {
		return nil, err
	}
	return &Client{Client: base, doc: doc}, nil
}

// DiscoveryDocument returns the document the client was configured from.
func (c *Client) DiscoveryDocument() *DiscoveryDocument { return c.doc }

// IDEmail fetches the userinfo endpoint with a bearer token and returns the
// sub claim (coerced to a string) and the email claim when present. An absent
// email yields an empty Identity.Email, not an error. Providers whose
// document advertises no userinfo endpoint (Apple does this) must be wrapped
// by an adapter that shadows IDEmail; calling it directly fails with
// ErrMalformedDocument.
func (c *Client) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	if c.doc.UserinfoEndpoint == "" {
		return oauthkit.Identity{}, fmt.Errorf("%w: missing userinfo_endpoint", ErrMalformedDocument)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.doc.UserinfoEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, fmt.Errorf("openid: build userinfo request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	data, err := oauthkit.DecodeJSON(resp, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	sub, ok := data["sub"]
	if !ok {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind:     oauthkit.ErrGetIDEmail,
			Message:  "missing sub claim",
			Response: resp,
		}
	}
	email, _ := data["email"].(string)
	return oauthkit.Identity{ID: oauthkit.Stringify(sub), Email: email}, nil
}

func clientFromDocument(cfg Config, doc *DiscoveryDocument, clientOpts []oauthkit.Option) (*oauthkit.Client, error) {
	if doc.AuthorizationEndpoint == "" {
		return nil, fmt.Errorf("%w: missing authorization_endpoint", ErrMalformedDocument)
	}
	if doc.TokenEndpoint == "" {
		return nil, fmt.Errorf("%w: missing token_endpoint", ErrMalformedDocument)
	}

	tokenAuth, err := selectAuthMethod(doc.TokenEndpointAuthMethodsSupported)
	if err != nil {
		return nil, err
	}

	var refreshEndpoint string
	if slices.Contains(doc.GrantTypesSupported, "refresh_token") {
		refreshEndpoint = doc.TokenEndpoint
	}

	var revokeAuth oauthkit.AuthMethod
	if doc.RevocationEndpoint != "" {
		revokeAuth, err = selectAuthMethod(doc.RevocationEndpointAuthMethodsSupported)
		if err != nil {
			return nil, err
		}
	}

	name := cfg.Name
	if name == "" {
		name = "openid"
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DefaultScopes()
	}

	return oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            doc.AuthorizationEndpoint,
		AccessTokenEndpoint:          doc.TokenEndpoint,
		RefreshTokenEndpoint:         refreshEndpoint,
		RevokeTokenEndpoint:          doc.RevocationEndpoint,
		Name:                         name,
		BaseScopes:                   scopes,
		TokenEndpointAuthMethod:      tokenAuth,
		RevocationEndpointAuthMethod: revokeAuth,
	}, clientOpts...)
}

// selectAuthMethod picks the first advertised method oauthkit supports. A
// document that advertises methods we cannot satisfy fails hard; silently
// guessing produces confusing downstream 401s. A document that advertises
// nothing gets the RFC 8414 default, client_secret_basic.
func selectAuthMethod(advertised []string) (oauthkit.AuthMethod, error) {
	if len(advertised) == 0 {
		return oauthkit.AuthMethodClientSecretBasic, nil
	}
	for _, m := range advertised {
		switch method := oauthkit.AuthMethod(m); method {
		case oauthkit.AuthMethodClientSecretBasic, oauthkit.AuthMethodClientSecretPost:
			return method, nil
		}
	}
	return "", fmt.Errorf("%w: %v", ErrNoSupportedAuthMethod, advertised)
}
