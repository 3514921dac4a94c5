package providers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const microsoftProfileEndpoint = "https://graph.microsoft.com/v1.0/me"

// MicrosoftDefaultScopes returns the default scopes for Microsoft Graph.
func MicrosoftDefaultScopes() []string {
	return []string{"User.Read"}
}

// MicrosoftConfig holds Microsoft OAuth configuration. Tenant defaults to
// "common", which accepts both personal and organizational accounts.
type MicrosoftConfig struct {
	ClientID     string   `env:"MICROSOFT_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"MICROSOFT_OAUTH_CLIENT_SECRET,required"`
	Tenant       string   `env:"MICROSOFT_OAUTH_TENANT" envDefault:"common"`
	Scopes       []string `env:"MICROSOFT_OAUTH_SCOPES" envSeparator:","`
}

// Microsoft is the OAuth2 adapter for the Microsoft identity platform and
// Graph API. Authorization URLs carry response_mode=query by default, as the
// platform requires.
type Microsoft struct {
	*oauthkit.Client
}

// NewMicrosoft creates a Microsoft adapter.
func NewMicrosoft(cfg MicrosoftConfig, opts ...oauthkit.Option) (*Microsoft, error) {
	tenant := cfg.Tenant
	if tenant == "" {
		tenant = "common"
	}
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = MicrosoftDefaultScopes()
	}

	tokenEndpoint := fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/token", tenant)

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                cfg.ClientID,
		ClientSecret:            cfg.ClientSecret,
		AuthorizeEndpoint:       fmt.Sprintf("https://login.microsoftonline.com/%s/oauth2/v2.0/authorize", tenant),
		AccessTokenEndpoint:     tokenEndpoint,
		RefreshTokenEndpoint:    tokenEndpoint,
		Name:                    "microsoft",
		BaseScopes:              scopes,
		TokenEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, append([]oauthkit.Option{
		oauthkit.WithDefaultAuthParams(map[string]string{"response_mode": "query"}),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Microsoft{Client: client}, nil
}

type microsoftUser struct {
	ID                string `json:"id"`
	UserPrincipalName string `json:"userPrincipalName"`
}

// IDEmail fetches Graph /me and reports the userPrincipalName as the email.
func (p *Microsoft) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, microsoftProfileEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user microsoftUser
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}
	return oauthkit.Identity{ID: user.ID, Email: user.UserPrincipalName}, nil
}
