package oauthkit

import (
	xoauth2 "golang.org/x/oauth2"
)

// OAuth2Token converts the token into a *golang.org/x/oauth2.Token so it can
// feed oauth2.TokenSource, oauth2.NewClient, and the rest of that ecosystem.
// The full raw payload stays reachable through the returned token's Extra.
func (t Token) OAuth2Token() *xoauth2.Token {
	tok := &xoauth2.Token{
		AccessToken:  t.AccessToken(),
		TokenType:    t.TokenType(),
		RefreshToken: t.RefreshToken(),
	}
	if exp, ok := t.ExpiresAt(); ok {
		tok.Expiry = exp
	}
	return tok.WithExtra(map[string]any(t))
}
