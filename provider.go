package oauthkit

import "context"

// Identity is the normalized "who is this user" answer every provider adapter
// must produce: the provider's subject identifier coerced to a string, and
// the user's email when the provider exposes one (empty otherwise — whether
// an unverified email is returned or rejected is a per-adapter decision
// documented on each IDEmail implementation).
type Identity struct {
	ID    string
	Email string
}

// Provider is the contract provider adapters satisfy. *Client implements it
// with a not-implemented IDEmail; adapters embed *Client (or *openid.Client)
// and shadow only the methods where their provider deviates.
type Provider interface {
	// Name returns the provider identifier, e.g. "google".
	Name() string

	// AuthorizationURL builds the URL to redirect the user to.
	AuthorizationURL(redirectURI string, opts ...AuthURLOption) (string, error)

	// ExchangeCode trades an authorization code for a token.
	ExchangeCode(ctx context.Context, code, redirectURI string, opts ...ExchangeOption) (Token, error)

	// RefreshToken trades a refresh token for a new token.
	RefreshToken(ctx context.Context, refreshToken string) (Token, error)

	// RevokeToken revokes an access or refresh token.
	RevokeToken(ctx context.Context, token string, opts ...RevokeOption) error

	// IDEmail returns the normalized identity for an access token.
	IDEmail(ctx context.Context, accessToken string) (Identity, error)
}
