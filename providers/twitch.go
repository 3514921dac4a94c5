package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	twitchAuthorizeEndpoint = "https://id.twitch.tv/oauth2/authorize"
	twitchTokenEndpoint     = "https://id.twitch.tv/oauth2/token"
	twitchRevokeEndpoint    = "https://id.twitch.tv/oauth2/revoke"
	twitchProfileEndpoint   = "https://api.twitch.tv/helix/users"
)

// TwitchDefaultScopes returns the default scopes for Twitch. The email is
// only present in the profile when user:read:email is granted.
func TwitchDefaultScopes() []string {
	return []string{
		"user:read:email",
		"user:read:follows",
		"user:read:subscriptions",
		"user:manage:whispers",
	}
}

// TwitchConfig holds Twitch OAuth configuration.
type TwitchConfig struct {
	ClientID     string   `env:"TWITCH_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"TWITCH_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"TWITCH_OAUTH_SCOPES" envSeparator:","`
}

// Twitch is the OAuth2 adapter for Twitch. Helix API calls carry a Client-Id
// header alongside the bearer token.
type Twitch struct {
	*oauthkit.Client
}

// NewTwitch creates a Twitch adapter.
func NewTwitch(cfg TwitchConfig, opts ...oauthkit.Option) (*Twitch, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = TwitchDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            twitchAuthorizeEndpoint,
		AccessTokenEndpoint:          twitchTokenEndpoint,
		RefreshTokenEndpoint:         twitchTokenEndpoint,
		RevokeTokenEndpoint:          twitchRevokeEndpoint,
		Name:                         "twitch",
		BaseScopes:                   scopes,
		TokenEndpointAuthMethod:      oauthkit.AuthMethodClientSecretPost,
		RevocationEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Twitch{Client: client}, nil
}

type twitchUsers struct {
	Data []struct {
		ID    string  `json:"id"`
		Email *string `json:"email"`
	} `json:"data"`
}

// IDEmail fetches the Helix users endpoint, which resolves the user from the
// access token when no id or login is given.
func (p *Twitch) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, twitchProfileEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Client-Id", p.ClientID())
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var users twitchUsers
	if err := decodeJSONInto(resp, &users); err != nil {
		return oauthkit.Identity{}, err
	}
	if len(users.Data) == 0 {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind:    oauthkit.ErrGetIDEmail,
			Message: "Invalid content",
		}
	}

	identity := oauthkit.Identity{ID: users.Data[0].ID}
	if users.Data[0].Email != nil {
		identity.Email = *users.Data[0].Email
	}
	return identity, nil
}
