package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	githubAuthorizeEndpoint   = "https://github.com/login/oauth/authorize"
	githubAccessTokenEndpoint = "https://github.com/login/oauth/access_token"
	githubProfileEndpoint     = "https://api.github.com/user"
	githubEmailsEndpoint      = "https://api.github.com/user/emails"
)

// GitHubDefaultScopes returns the default scopes for GitHub OAuth.
func GitHubDefaultScopes() []string {
	return []string{"user", "user:email"}
}

// GitHubConfig holds GitHub OAuth configuration.
type GitHubConfig struct {
	ClientID     string   `env:"GITHUB_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"GITHUB_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"GITHUB_OAUTH_SCOPES" envSeparator:","`
}

// GitHub is the OAuth2 adapter for GitHub. GitHub has no refresh or revoke
// endpoints; both operations fail with the capability error.
type GitHub struct {
	*oauthkit.Client
}

// NewGitHub creates a GitHub adapter.
func NewGitHub(cfg GitHubConfig, opts ...oauthkit.Option) (*GitHub, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = GitHubDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:            cfg.ClientID,
		ClientSecret:        cfg.ClientSecret,
		AuthorizeEndpoint:   githubAuthorizeEndpoint,
		AccessTokenEndpoint: githubAccessTokenEndpoint,
		Name:                "github",
		BaseScopes:          scopes,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &GitHub{Client: client}, nil
}

type githubUser struct {
	ID    int64   `json:"id"`
	Email *string `json:"email"`
}

type githubEmail struct {
	Email   string `json:"email"`
	Primary bool   `json:"primary"`
}

// IDEmail fetches the user profile with GitHub's "token" authorization
// scheme. When the profile carries no public email, a second call to the
// emails endpoint resolves one; an account without any email is an error
// (ErrEmailNotProvided).
func (p *GitHub) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	resp, err := p.githubGet(ctx, githubProfileEndpoint, accessToken)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user githubUser
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}

	if user.Email != nil && *user.Email != "" {
		return oauthkit.Identity{ID: oauthkit.Stringify(user.ID), Email: *user.Email}, nil
	}

	// No public email; resolve through /user/emails.
	resp, err = p.githubGet(ctx, githubEmailsEndpoint, accessToken)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var emails []githubEmail
	if err := decodeJSONInto(resp, &emails); err != nil {
		return oauthkit.Identity{}, err
	}
	if len(emails) == 0 {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind:     oauthkit.ErrGetIDEmail,
			Message:  "no email on account",
			Response: resp,
			Err:      ErrEmailNotProvided,
		}
	}
	return oauthkit.Identity{ID: oauthkit.Stringify(user.ID), Email: emails[0].Email}, nil
}

func (p *GitHub) githubGet(ctx context.Context, endpoint, accessToken string) (*oauthkit.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "token "+accessToken)
	return p.Send(req, oauthkit.ErrGetIDEmail)
}
