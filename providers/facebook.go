package providers

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/oauthkit"
)

const (
	facebookAuthorizeEndpoint   = "https://www.facebook.com/v5.0/dialog/oauth"
	facebookAccessTokenEndpoint = "https://graph.facebook.com/v5.0/oauth/access_token"
	facebookProfileEndpoint     = "https://graph.facebook.com/v5.0/me"
)

// ErrGetLongLivedAccessToken tags failures of Facebook's long-lived access
// token exchange.
var ErrGetLongLivedAccessToken = errors.New("providers: long-lived access token request failed")

// FacebookDefaultScopes returns the default scopes for Facebook OAuth.
func FacebookDefaultScopes() []string {
	return []string{"email", "public_profile"}
}

// FacebookConfig holds Facebook OAuth configuration.
type FacebookConfig struct {
	ClientID     string   `env:"FACEBOOK_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"FACEBOOK_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"FACEBOOK_OAUTH_SCOPES" envSeparator:","`
}

// Facebook is the OAuth2 adapter for Facebook's Graph API.
type Facebook struct {
	*oauthkit.Client
}

// NewFacebook creates a Facebook adapter.
func NewFacebook(cfg FacebookConfig, opts ...oauthkit.Option) (*Facebook, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = FacebookDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:            cfg.ClientID,
		ClientSecret:        cfg.ClientSecret,
		AuthorizeEndpoint:   facebookAuthorizeEndpoint,
		AccessTokenEndpoint: facebookAccessTokenEndpoint,
		Name:                "facebook",
		BaseScopes:          scopes,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Facebook{Client: client}, nil
}

// LongLivedAccessToken exchanges a short-lived access token for a long-lived
// one (grant_type=fb_exchange_token). It goes through the shared request
// path, so error mapping matches the other token operations but under its own
// kind, ErrGetLongLivedAccessToken.
func (p *Facebook) LongLivedAccessToken(ctx context.Context, accessToken string) (oauthkit.Token, error) {
	form := url.Values{
		"grant_type":        {"fb_exchange_token"},
		"fb_exchange_token": {accessToken},
	}

	req, err := p.BuildFormRequest(ctx, http.MethodPost, facebookAccessTokenEndpoint, form, p.TokenEndpointAuthMethod())
	if err != nil {
		return nil, err
	}
	resp, err := p.Send(req, ErrGetLongLivedAccessToken)
	if err != nil {
		return nil, err
	}
	data, err := oauthkit.DecodeJSON(resp, ErrGetLongLivedAccessToken)
	if err != nil {
		return nil, err
	}
	return oauthkit.NewToken(data), nil
}

type facebookUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// IDEmail fetches the Graph /me endpoint. Facebook authenticates the call via
// an access_token query parameter, not a bearer header. An account without an
// email yields an empty Identity.Email.
func (p *Facebook) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	q := url.Values{
		"fields":       {"id,email"},
		"access_token": {accessToken},
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, facebookProfileEndpoint+"?"+q.Encode(), nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user facebookUser
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}
	return oauthkit.Identity{ID: user.ID, Email: user.Email}, nil
}
