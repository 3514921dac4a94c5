package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	googleAuthorizeEndpoint   = "https://accounts.google.com/o/oauth2/v2/auth"
	googleAccessTokenEndpoint = "https://oauth2.googleapis.com/token"
	googleRevokeEndpoint      = "https://accounts.google.com/o/oauth2/revoke"
	googleProfileEndpoint     = "https://people.googleapis.com/v1/people/me"
)

// GoogleDefaultScopes returns the default scopes for Google OAuth.
func GoogleDefaultScopes() []string {
	return []string{
		"https://www.googleapis.com/auth/userinfo.profile",
		"https://www.googleapis.com/auth/userinfo.email",
	}
}

// GoogleConfig holds Google OAuth configuration.
type GoogleConfig struct {
	ClientID     string   `env:"GOOGLE_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GOOGLE_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"GOOGLE_OAUTH_SCOPES" envSeparator:","`
}

// Google is the OAuth2 adapter for Google. Identity lookup goes through the
// People API and resolves the primary email address.
type Google struct {
	*oauthkit.Client
}

// NewGoogle creates a Google adapter.
func NewGoogle(cfg GoogleConfig, opts ...oauthkit.Option) (*Google, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = GoogleDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            googleAuthorizeEndpoint,
		AccessTokenEndpoint:          googleAccessTokenEndpoint,
		RefreshTokenEndpoint:         googleAccessTokenEndpoint,
		RevokeTokenEndpoint:          googleRevokeEndpoint,
		Name:                         "google",
		BaseScopes:                   scopes,
		RevocationEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Google{Client: client}, nil
}

type googlePerson struct {
	ResourceName   string `json:"resourceName"`
	EmailAddresses []struct {
		Value    string `json:"value"`
		Metadata struct {
			Primary bool `json:"primary"`
		} `json:"metadata"`
	} `json:"emailAddresses"`
}

// IDEmail returns the People API resource name as the subject id and the
// primary email address. A profile without a primary email is an error
// (ErrNoPrimaryEmail) rather than an empty email.
func (p *Google) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleProfileEndpoint+"?personFields=emailAddresses", nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var person googlePerson
	if err := decodeJSONInto(resp, &person); err != nil {
		return oauthkit.Identity{}, err
	}

	for _, addr := range person.EmailAddresses {
		if addr.Metadata.Primary {
			return oauthkit.Identity{ID: person.ResourceName, Email: addr.Value}, nil
		}
	}
	return oauthkit.Identity{}, &oauthkit.RequestError{
		Kind:     oauthkit.ErrGetIDEmail,
		Message:  "no primary email address",
		Response: resp,
		Err:      ErrNoPrimaryEmail,
	}
}
