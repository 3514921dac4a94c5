package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

// OktaDefaultScopes returns the default scopes for Okta.
func OktaDefaultScopes() []string {
	return []string{"openid", "email"}
}

// OktaConfig holds Okta OAuth configuration. BaseURL is the Okta org domain,
// e.g. "dev-123456.okta.com", without a scheme.
type OktaConfig struct {
	ClientID     string   `env:"OKTA_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"OKTA_OAUTH_CLIENT_SECRET,required"`
	BaseURL      string   `env:"OKTA_OAUTH_BASE_URL,required"`
	Scopes       []string `env:"OKTA_OAUTH_SCOPES" envSeparator:","`
}

// Okta is the OAuth2 adapter for Okta orgs. All endpoints derive from the org
// base URL.
type Okta struct {
	*oauthkit.Client

	profileEndpoint string
}

// NewOkta creates an Okta adapter.
func NewOkta(cfg OktaConfig, opts ...oauthkit.Option) (*Okta, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = OktaDefaultScopes()
	}

	tokenEndpoint := fmt.Sprintf("https://%s/oauth2/v1/token", cfg.BaseURL)

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            fmt.Sprintf("https://%s/oauth2/v1/authorize", cfg.BaseURL),
		AccessTokenEndpoint:          tokenEndpoint,
		RefreshTokenEndpoint:         tokenEndpoint,
		RevokeTokenEndpoint:          fmt.Sprintf("https://%s/oauth2/v1/revoke", cfg.BaseURL),
		Name:                         "okta",
		BaseScopes:                   scopes,
		TokenEndpointAuthMethod:      oauthkit.AuthMethodClientSecretPost,
		RevocationEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Okta{
		Client:          client,
		profileEndpoint: fmt.Sprintf("https://%s/oauth2/v1/userinfo", cfg.BaseURL),
	}, nil
}

// IDEmail fetches the userinfo endpoint of the org.
func (p *Okta) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
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
		Email string      `json:"email"`
	}
	if err := decodeJSONInto(resp, &claims); err != nil {
		return oauthkit.Identity{}, err
	}
	return oauthkit.Identity{ID: claims.Sub.String(), Email: claims.Email}, nil
}
