package providers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"github.com/dmitrymomot/oauthkit"
)

// FranceConnectDefaultScopes returns the default scopes for FranceConnect.
func FranceConnectDefaultScopes() []string {
	return []string{"openid", "email"}
}

type franceConnectEndpoints struct {
	authorize string
	token     string
	profile   string
}

var (
	franceConnectProduction = franceConnectEndpoints{
		authorize: "https://app.franceconnect.gouv.fr/api/v1/authorize",
		token:     "https://app.franceconnect.gouv.fr/api/v1/token",
		profile:   "https://app.franceconnect.gouv.fr/api/v1/userinfo",
	}
	franceConnectIntegration = franceConnectEndpoints{
		authorize: "https://fcp.integ01.dev-franceconnect.fr/api/v1/authorize",
		token:     "https://fcp.integ01.dev-franceconnect.fr/api/v1/token",
		profile:   "https://fcp.integ01.dev-franceconnect.fr/api/v1/userinfo",
	}
)

// FranceConnectConfig holds FranceConnect OAuth configuration. Integration
// switches to the sandbox endpoints.
type FranceConnectConfig struct {
	ClientID     string   `env:"FRANCECONNECT_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"FRANCECONNECT_OAUTH_CLIENT_SECRET,required"`
	Integration  bool     `env:"FRANCECONNECT_OAUTH_INTEGRATION" envDefault:"false"`
	Scopes       []string `env:"FRANCECONNECT_OAUTH_SCOPES" envSeparator:","`
}

// FranceConnect is the OAuth2 adapter for FranceConnect. Authorization
// requests must carry a nonce; one is generated when the caller does not
// provide its own.
type FranceConnect struct {
	*oauthkit.Client

	profileEndpoint string
}

// NewFranceConnect creates a FranceConnect adapter.
func NewFranceConnect(cfg FranceConnectConfig, opts ...oauthkit.Option) (*FranceConnect, error) {
	endpoints := franceConnectProduction
	if cfg.Integration {
		endpoints = franceConnectIntegration
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = FranceConnectDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                cfg.ClientID,
		ClientSecret:            cfg.ClientSecret,
		AuthorizeEndpoint:       endpoints.authorize,
		AccessTokenEndpoint:     endpoints.token,
		Name:                    "franceconnect",
		BaseScopes:              scopes,
		TokenEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &FranceConnect{
		Client:          client,
		profileEndpoint: endpoints.profile,
	}, nil
}

// AuthorizationURL builds the authorization URL with a generated nonce.
// A caller-provided nonce option is applied after the generated one and wins.
func (p *FranceConnect) AuthorizationURL(redirectURI string, opts ...oauthkit.AuthURLOption) (string, error) {
	opts = append([]oauthkit.AuthURLOption{
		oauthkit.WithAuthParam("nonce", uuid.NewString()),
	}, opts...)
	return p.Client.AuthorizationURL(redirectURI, opts...)
}

// IDEmail fetches the FranceConnect userinfo endpoint.
func (p *FranceConnect) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.profileEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var claims struct {
		Sub   json.Number `json:"sub"`
		Email *string     `json:"email"`
	}
	if err := decodeJSONInto(resp, &claims); err != nil {
		return oauthkit.Identity{}, err
	}

	identity := oauthkit.Identity{ID: claims.Sub.String()}
	if claims.Email != nil {
		identity.Email = *claims.Email
	}
	return identity, nil
}
