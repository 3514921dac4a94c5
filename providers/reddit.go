package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	redditAuthorizeEndpoint = "https://www.reddit.com/api/v1/authorize"
	redditTokenEndpoint     = "https://www.reddit.com/api/v1/access_token"
	redditRevokeEndpoint    = "https://www.reddit.com/api/v1/revoke_token"
	redditIdentityEndpoint  = "https://oauth.reddit.com/api/v1/me"
)

// RedditDefaultScopes returns the default scopes for Reddit.
func RedditDefaultScopes() []string {
	return []string{"identity"}
}

// RedditConfig holds Reddit OAuth configuration.
type RedditConfig struct {
	ClientID     string   `env:"REDDIT_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"REDDIT_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"REDDIT_OAUTH_SCOPES" envSeparator:","`
}

// Reddit is the OAuth2 adapter for Reddit. Both the token and revoke
// endpoints require HTTP basic auth, and the token endpoint reports some
// failures inside a 200 response.
type Reddit struct {
	*oauthkit.Client
}

// NewReddit creates a Reddit adapter.
func NewReddit(cfg RedditConfig, opts ...oauthkit.Option) (*Reddit, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = RedditDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            redditAuthorizeEndpoint,
		AccessTokenEndpoint:          redditTokenEndpoint,
		RefreshTokenEndpoint:         redditTokenEndpoint,
		RevokeTokenEndpoint:          redditRevokeEndpoint,
		Name:                         "reddit",
		BaseScopes:                   scopes,
		TokenEndpointAuthMethod:      oauthkit.AuthMethodClientSecretBasic,
		RevocationEndpointAuthMethod: oauthkit.AuthMethodClientSecretBasic,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Reddit{Client: client}, nil
}

// ExchangeCode exchanges the code and rejects tokens carrying Reddit's
// in-body error field, which comes back with a 200 status.
func (p *Reddit) ExchangeCode(ctx context.Context, code, redirectURI string, opts ...oauthkit.ExchangeOption) (oauthkit.Token, error) {
	token, err := p.Client.ExchangeCode(ctx, code, redirectURI, opts...)
	if err != nil {
		return nil, err
	}
	if errMsg, ok := token["error"].(string); ok {
		return nil, &oauthkit.RequestError{
			Kind:    oauthkit.ErrGetAccessToken,
			Message: errMsg,
		}
	}
	return token, nil
}

// IDEmail fetches the Reddit identity. Reddit never exposes the account
// email, so the identity carries the username only.
func (p *Reddit) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, redditIdentityEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user struct {
		Name string `json:"name"`
	}
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}
	return oauthkit.Identity{ID: user.Name}, nil
}
