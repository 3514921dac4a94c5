package providers

import (
	"context"

	"github.com/dmitrymomot/oauthkit/openid"
)

const cilogonConfigurationEndpoint = "https://cilogon.org/.well-known/openid-configuration"

// CILogonDefaultScopes returns the default scopes for CILogon.
func CILogonDefaultScopes() []string {
	return []string{"openid", "email"}
}

// CILogonAvailableScopes lists every scope CILogon accepts.
func CILogonAvailableScopes() []string {
	return []string{"openid", "email", "profile", "org.cilogon.userinfo"}
}

// CILogonConfig holds CILogon OAuth configuration.
type CILogonConfig struct {
	ClientID     string   `env:"CILOGON_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"CILOGON_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"CILOGON_OAUTH_SCOPES" envSeparator:","`
}

// CILogon is the OpenID Connect adapter for CILogon, the academic identity
// service for the US research and education community.
type CILogon struct {
	*openid.Client
}

// NewCILogon creates a CILogon adapter. It fetches the CILogon discovery
// document, so it needs a context and network access.
func NewCILogon(ctx context.Context, cfg CILogonConfig, opts ...openid.Option) (*CILogon, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = CILogonDefaultScopes()
	}

	client, err := openid.NewClient(ctx, openid.Config{
		ClientID:              cfg.ClientID,
		ClientSecret:          cfg.ClientSecret,
		ConfigurationEndpoint: cilogonConfigurationEndpoint,
		Name:                  "cilogon",
		Scopes:                scopes,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &CILogon{Client: client}, nil
}
