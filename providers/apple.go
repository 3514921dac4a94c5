package providers

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrymomot/oauthkit"
	"github.com/dmitrymomot/oauthkit/openid"
)

const (
	appleConfigurationEndpoint = "https://appleid.apple.com/.well-known/openid-configuration"
	appleAudience              = "https://appleid.apple.com"

	// Apple allows client-secret JWTs valid for up to six months.
	appleDefaultSecretTTL = 5 * 30 * 24 * time.Hour
)

var (
	// ErrNoToken is returned by Apple's IDEmail when no token has been
	// obtained through the adapter yet.
	ErrNoToken = errors.New("providers: no token obtained yet")
	// ErrMissingIDToken is returned when the token response carried no
	// id_token.
	ErrMissingIDToken = errors.New("providers: token response missing id_token")
	// ErrMissingSubject is returned when the id_token carries no sub claim.
	ErrMissingSubject = errors.New("providers: id_token missing sub claim")
)

// AppleDefaultScopes returns the default scopes for Sign in with Apple. The
// name scope requests the user's name on first login.
func AppleDefaultScopes() []string {
	return []string{"openid", "email", "name"}
}

// AppleConfig holds Sign in with Apple configuration. ClientID is the
// Services ID from the developer portal; PrivateKey is the PEM content of
// the .p8 signing key registered under KeyID.
type AppleConfig struct {
	ClientID   string        `env:"APPLE_OAUTH_CLIENT_ID,required"`
	TeamID     string        `env:"APPLE_OAUTH_TEAM_ID,required"`
	KeyID      string        `env:"APPLE_OAUTH_KEY_ID,required"`
	PrivateKey string        `env:"APPLE_OAUTH_PRIVATE_KEY,required"`
	SecretTTL  time.Duration `env:"APPLE_OAUTH_SECRET_TTL" envDefault:"3600h"`
	Scopes     []string      `env:"APPLE_OAUTH_SCOPES" envSeparator:","`
}

// Apple is the OpenID Connect adapter for Sign in with Apple. Apple has no
// userinfo endpoint and requires the client secret to be an ES256-signed JWT,
// so the adapter signs secrets on demand and reads the identity from the
// id_token of the most recent token response. It is not safe to share a
// single Apple adapter across users concurrently.
type Apple struct {
	*openid.Client

	lastToken oauthkit.Token
}

// NewApple creates an Apple adapter. It fetches Apple's discovery document,
// so it needs a context and network access.
func NewApple(ctx context.Context, cfg AppleConfig, opts ...openid.Option) (*Apple, error) {
	key, err := jwt.ParseECPrivateKeyFromPEM([]byte(cfg.PrivateKey))
	if err != nil {
		return nil, err
	}

	scopes := cfg.Scopes
	if len(scopes) == 0 {
		scopes = AppleDefaultScopes()
	}
	ttl := cfg.SecretTTL
	if ttl <= 0 {
		ttl = appleDefaultSecretTTL
	}

	secrets := &appleSecretSource{
		teamID:   cfg.TeamID,
		clientID: cfg.ClientID,
		keyID:    cfg.KeyID,
		key:      key,
		ttl:      ttl,
	}

	client, err := openid.NewClient(ctx, openid.Config{
		ClientID:              cfg.ClientID,
		ConfigurationEndpoint: appleConfigurationEndpoint,
		Name:                  "apple",
		Scopes:                scopes,
	}, append([]openid.Option{
		openid.WithClientOptions(
			oauthkit.WithClientSecretFunc(secrets.clientSecret),
			oauthkit.WithDefaultAuthParams(map[string]string{"response_mode": "form_post"}),
		),
	}, opts...)...)
	if err != nil {
		return nil, err
	}
	return &Apple{Client: client}, nil
}

// ExchangeCode exchanges the code and retains the token for IDEmail.
func (p *Apple) ExchangeCode(ctx context.Context, code, redirectURI string, opts ...oauthkit.ExchangeOption) (oauthkit.Token, error) {
	token, err := p.Client.ExchangeCode(ctx, code, redirectURI, opts...)
	if err != nil {
		return nil, err
	}
	p.lastToken = token
	return token, nil
}

// RefreshToken refreshes the token and retains the result for IDEmail.
func (p *Apple) RefreshToken(ctx context.Context, refreshToken string) (oauthkit.Token, error) {
	token, err := p.Client.RefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	p.lastToken = token
	return token, nil
}

// IDEmail decodes the id_token of the most recent token response. The
// signature is not verified; the token came straight from Apple over TLS.
// The accessToken argument is ignored because Apple exposes no userinfo
// endpoint to spend it on.
func (p *Apple) IDEmail(ctx context.Context, accessToken string) (oauthkit.Identity, error) {
	if p.lastToken == nil {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind: oauthkit.ErrGetIDEmail,
			Err:  ErrNoToken,
		}
	}
	idToken := p.lastToken.IDToken()
	if idToken == "" {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind: oauthkit.ErrGetIDEmail,
			Err:  ErrMissingIDToken,
		}
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(idToken, claims); err != nil {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind:    oauthkit.ErrGetIDEmail,
			Message: "Invalid content",
			Err:     err,
		}
	}

	sub, ok := claims["sub"].(string)
	if !ok || sub == "" {
		return oauthkit.Identity{}, &oauthkit.RequestError{
			Kind: oauthkit.ErrGetIDEmail,
			Err:  ErrMissingSubject,
		}
	}

	identity := oauthkit.Identity{ID: sub}
	if email, ok := claims["email"].(string); ok {
		identity.Email = email
	}
	return identity, nil
}

// appleSecretSource signs client-secret JWTs on demand and caches the
// current one until shortly before it expires.
type appleSecretSource struct {
	teamID   string
	clientID string
	keyID    string
	key      *ecdsa.PrivateKey
	ttl      time.Duration

	mu        sync.Mutex
	secret    string
	expiresAt time.Time
}

func (s *appleSecretSource) clientSecret() (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if s.secret != "" && now.Add(time.Minute).Before(s.expiresAt) {
		return s.secret, nil
	}

	expiresAt := now.Add(s.ttl)
	token := jwt.NewWithClaims(jwt.SigningMethodES256, jwt.MapClaims{
		"iss": s.teamID,
		"iat": now.Unix(),
		"exp": expiresAt.Unix(),
		"aud": appleAudience,
		"sub": s.clientID,
	})
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", err
	}
	s.secret = signed
	s.expiresAt = expiresAt
	return signed, nil
}
