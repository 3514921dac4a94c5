package providers

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

const (
	discordAuthorizeEndpoint   = "https://discord.com/api/oauth2/authorize"
	discordAccessTokenEndpoint = "https://discord.com/api/oauth2/token"
	discordRevokeEndpoint      = "https://discord.com/api/oauth2/token/revoke"
	discordProfileEndpoint     = "https://discord.com/api/users/@me"
)

// DiscordDefaultScopes returns the default scopes for Discord OAuth.
func DiscordDefaultScopes() []string {
	return []string{"identify", "email"}
}

// DiscordConfig holds Discord OAuth configuration.
type DiscordConfig struct {
	ClientID     string   `env:"DISCORD_OAUTH_CLIENT_ID,required"`
	ClientSecret string   `env:"DISCORD_OAUTH_CLIENT_SECRET,required"`
	Scopes       []string `env:"DISCORD_OAUTH_SCOPES" envSeparator:","`
}

// Discord is the OAuth2 adapter for Discord.
type Discord struct {
	*oauthkit.Client
}

// NewDiscord creates a Discord adapter.
func NewDiscord(cfg DiscordConfig, opts ...oauthkit.Option) (*Discord, error) {
	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = DiscordDefaultScopes()
	}

	client, err := oauthkit.NewClient(oauthkit.Config{
		ClientID:                     cfg.ClientID,
		ClientSecret:                 cfg.ClientSecret,
		AuthorizeEndpoint:            discordAuthorizeEndpoint,
		AccessTokenEndpoint:          discordAccessTokenEndpoint,
		RefreshTokenEndpoint:         discordAccessTokenEndpoint,
		RevokeTokenEndpoint:          discordRevokeEndpoint,
		Name:                         "discord",
		BaseScopes:                   scopes,
		RevocationEndpointAuthMethod: oauthkit.AuthMethodClientSecretPost,
	}, opts...)
	if err != nil {
		return nil, err
	}
	return &Discord{Client: client}, nil
}

type discordUser struct {
	ID       string  `json:"id"`
	Email    *string `json:"email"`
	Verified *bool   `json:"verified"`
}

// IDEmail fetches Discord's /users/@me. Discord's policy here is strict: an
// account without an email errors with ErrEmailNotProvided, and an email
// Discord reports as unverified errors with ErrEmailNotVerified.
func (p *Discord) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, discordProfileEndpoint, nil)
	if err != nil {
		return oauthkit.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := p.Send(req, oauthkit.ErrGetIDEmail)
	if err != nil {
		return oauthkit.Identity{}, err
	}

	var user discordUser
	if err := decodeJSONInto(resp, &user); err != nil {
		return oauthkit.Identity{}, err
	}

	if user.Email == nil || user.Verified == nil {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind:     oauthkit.ErrGetIDEmail,
			Message:  "email not provided",
			Response: resp,
			Err:      ErrEmailNotProvided,
		}
	}
	if !*user.Verified {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind:     oauthkit.ErrGetIDEmail,
			Message:  "email not verified",
			Response: resp,
			Err:      ErrEmailNotVerified,
		}
	}
	return oauthkit.Identity{ID: user.ID, Email: *user.Email}, nil
}
