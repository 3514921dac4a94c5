package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	linkedinAuthorizeEndpoint = "https://www.linkedin.com/oauth/v2/authorization"
	linkedinTokenEndpoint     = "https://www.linkedin.com/oauth/v2/accessToken"
	linkedinProfileEndpoint   = "https://api.linkedin.com/v2/me"
	linkedinEmailEndpoint     = "https://api.linkedin.com/v2/emailAddress"
)

// LinkedInDefaultScopes returns the default scopes for LinkedIn.
func LinkedInDefaultScopes() []string {
	return []string{"r_liteprofile", "r_emailaddress"}
}

// LinkedInConfig holds LinkedIn OAuth configuration.
type LinkedInConfig struct {
	ClientID     string   `env:"LINKEDIN_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"LINKEDIN_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"LINKEDIN_OAUTH_SCOPES" envSeparator:","`
}

// LinkedIn is the OAuth2 adapter for LinkedIn. The token endpoint requires
// credentials in the request body, and the identity lookup needs two calls:
// the profile endpoint only returns the member id, emails live behind a
// separate projection query.
type LinkedIn struct {
	*oauthkit.Client
}

// NewLinkedIn creates a LinkedIn adapter.
func NewLinkedIn(cfg LinkedInConfig, opts ...oauthkit.Option) (*LinkedIn, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = LinkedInDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                cfg.ClientID,
		ClientSecret:            cfg.ClientSecret,
		AuthorizeEndpoint:       linkedinAuthorizeEndpoint,
		AccessTokenEndpoint:     linkedinTokenEndpoint,
		RefreshTokenEndpoint:    linkedinTokenEndpoint,
		Name:                    "linkedin",
		BaseScopes:              scopes,
		TokenEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &LinkedIn{Client: client}, nil
}

type linkedinProfile struct {
	ID string `json:"id"`
}

type linkedinEmails struct {
	Elements []struct {
		Handle struct {
			EmailAddress string `json:"emailAddress"`
		} `json:"handle~"`
	} `json:"elements"`
}

func (p *LinkedIn) linkedinGet(ctx context.Context, endpoint, rawQuery, accessToken string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	req.URL.RawQuery = rawQuery
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return err
	}
	return decodeJSONInto(resp, v)
}

// IDEmail fetches the member id and primary email address.
func (p *LinkedIn) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	var profile linkedinProfile
	if err := p.linkedinGet(ctx, linkedinProfileEndpoint, "projection=(id)", accessToken, &profile); err != nil {
		return oauthkit.Identity{}, err
	}

	var emails linkedinEmails
	query := "q=members&projection=(elements*(handle~))"
	if err := p.linkedinGet(ctx, linkedinEmailEndpoint, query, accessToken, &emails); err != nil {
		return oauthkit.Identity{}, err
	}
	if len(emails.Elements) == 0 {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind: oauthkit.ErrGetIDEmail,
			Err:  ErrEmailNotProvided,
		}
	}
	return oauthkit.Identity{ID: profile.ID, Email: emails.Elements[0].Handle.EmailAddress}, nil
}
