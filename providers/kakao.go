package providers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/dmitrymomot/oauthkit"
)

const (
	kakaoAuthorizeEndpoint = "https://kauth.kakao.com/oauth/authorize"
	kakaoTokenEndpoint     = "https://kauth.kakao.com/oauth/token"
	kakaoProfileEndpoint   = "https://kapi.kakao.com/v2/user/me"
)

// KakaoDefaultScopes returns the default scopes for Kakao.
func KakaoDefaultScopes() []string {
	return []string{"account_email"}
}

// KakaoConfig holds Kakao OAuth configuration.
type KakaoConfig struct {
	ClientID     string   `env:"KAKAO_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"KAKAO_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"KAKAO_OAUTH_SCOPES" envSeparator:","`
}

// Kakao is the OAuth2 adapter for Kakao.
type Kakao struct {
	*oauthkit.Client
}

// NewKakao creates a Kakao adapter.
func NewKakao(cfg KakaoConfig, opts ...oauthkit.Option) (*Kakao, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = KakaoDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                cfg.ClientID,
		ClientSecret:            cfg.ClientSecret,
		AuthorizeEndpoint:       kakaoAuthorizeEndpoint,
		AccessTokenEndpoint:     kakaoTokenEndpoint,
		RefreshTokenEndpoint:    kakaoTokenEndpoint,
		Name:                    "kakao",
		BaseScopes:              scopes,
		TokenEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Kakao{Client: client}, nil
}

type kakaoUser struct {
	ID           json.Number `json:"id"`
	KakaoAccount struct {
		Email *string `json:"email"`
	} `json:"kakao_account"`
}

// IDEmail fetches the Kakao user, requesting only the kakao_account property.
func (p *Kakao) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, kakaoProfileEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	q := url.Values{}
	q.Set("property_keys", `["kakao_account.email"]`)
	req.URL.RawQuery = q.Encode()
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user kakaoUser
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}

	identity := oauthkit.Identity{ID: user.ID.String()}
	if user.KakaoAccount.Email != nil {
		identity.Email = *user.KakaoAccount.Email
	}
	return identity, nil
}
