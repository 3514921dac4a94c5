package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	naverAuthorizeEndpoint = "https://nid.naver.com/oauth2.0/authorize"
	naverTokenEndpoint     = "https://nid.naver.com/oauth2.0/token"
	naverProfileEndpoint   = "https://openapi.naver.com/v1/nid/me"
)

// NaverConfig holds Naver OAuth configuration.
type NaverConfig struct {
	ClientID     string   `env:"NAVER_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"NAVER_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"NAVER_OAUTH_SCOPES" envSeparator:","`
}

// Naver is the OAuth2 adapter for Naver. Revocation goes through the token
// endpoint with Naver's delete grant instead of the RFC 7009 form.
type Naver struct {
	*oauthkit.Client
}

// NewNaver creates a Naver adapter.
func NewNaver(cfg NaverConfig, opts ...oauthkit.Option) (*Naver, error) {
	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            naverAuthorizeEndpoint,
		AccessTokenEndpoint:          naverTokenEndpoint,
		RefreshTokenEndpoint:         naverTokenEndpoint,
		RevokeTokenEndpoint:          naverTokenEndpoint,
		Name:                         "naver",
		BaseScopes:                   cfg.Scopes,
		TokenEndpointAuthMethod:      oauthkit.AuthMethodClientSecretPost,
		RevocationEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Naver{Client: client}, nil
}

// RevokeToken deletes the token via the grant_type=delete form Naver expects.
func (p *Naver) RevokeToken(ctx context.Context, token string, opts ...oauthkit.RevokeOption) error {
	form := oauthkit.RevokeForm(token, opts...)
	form.Del("token")
	form.Set("grant_type", "delete")
	form.Set("access_token", token)
	form.Set("service_provider", "NAVER")

	req, err := p.BuildFormRequest(ctx, http.MethodPost, naverTokenEndpoint, form, p.TokenEndpointAuthMethod())
	if err != nil {
		return err
	}
	_, err = p.Send(req, oauthkit.ErrRevokeToken)
	return err
}

type naverUser struct {
	Response struct {
		ID    string  `json:"id"`
		Email *string `json:"email"`
	} `json:"response"`
}

// IDEmail fetches the Naver profile. The payload nests account data under a
// response envelope.
func (p *Naver) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, naverProfileEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user naverUser
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}

	identity := oauthkit.Identity{ID: user.Response.ID}
	if user.Response.Email != nil {
		identity.Email = *user.Response.Email
	}
	return identity, nil
}
