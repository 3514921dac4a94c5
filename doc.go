// Package oauthkit implements a generic OAuth2 authorization code flow client
// that real-world providers can be expressed on top of as thin configuration
// plus a handful of method overrides.
//
// The package covers the four protocol operations — building authorization
// URLs, exchanging authorization codes for tokens, refreshing tokens, and
// revoking them — plus an identity lookup extension point that normalizes
// "who is this user" (subject id + email) across providers.
//
// # Basic usage
//
//	client, err := oauthkit.NewClient(oauthkit.Config{
//		ClientID:            os.Getenv("OAUTH_CLIENT_ID"),
//		ClientSecret:        os.Getenv("OAUTH_CLIENT_SECRET"),
//		AuthorizeEndpoint:   "https://provider.example/oauth/authorize",
//		AccessTokenEndpoint: "https://provider.example/oauth/token",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	// Redirect the user to the authorization URL.
//	url, err := client.AuthorizationURL("https://example.com/callback",
//		oauthkit.WithState("random-state-string"),
//		oauthkit.WithScopes("openid", "email"),
//	)
//
//	// Exchange the callback code for a token.
//	token, err := client.ExchangeCode(ctx, code, "https://example.com/callback")
//
//	// Later: refresh or revoke.
//	token, err = client.RefreshToken(ctx, token.RefreshToken())
//	err = client.RevokeToken(ctx, token.AccessToken())
//
// # Client authentication
//
// Two client authentication methods are supported: AuthMethodClientSecretPost
// (id and secret merged into the form body, the default) and
// AuthMethodClientSecretBasic (id and secret as Basic-auth credentials). Any
// other value fails at construction with ErrUnsupportedAuthMethod, before any
// network access.
//
// # Provider adapters
//
// Concrete providers live in the providers subpackage and embed *Client,
// shadowing only the methods where the provider deviates from standard OAuth2.
// Discovery-based providers build on the openid subpackage. The base client's
// IDEmail returns ErrNotImplemented; every adapter supplies its own.
//
// # Errors
//
// Construction and capability failures are sentinel errors checked with
// errors.Is. Failures of the protocol operations are *RequestError values
// tagged with a per-operation kind (ErrGetAccessToken, ErrRefreshToken,
// ErrRevokeToken, ErrGetIDEmail) and carrying the provider response, if one
// was received:
//
//	var reqErr *oauthkit.RequestError
//	if errors.As(err, &reqErr) && reqErr.Response != nil {
//		log.Printf("provider said %d: %s", reqErr.Response.StatusCode, reqErr.Response.Body)
//	}
//
// The client never retries and never swallows a failure; every error is
// surfaced once, typed, to the immediate caller.
package oauthkit
