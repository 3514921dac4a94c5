package openid

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

var (
	// ErrDiscovery tags failures of the discovery document fetch. It aborts
	// client construction; the *oauthkit.RequestError wrapping it carries the
	// provider response when one was received.
	ErrDiscovery = errors.New("openid: discovery document fetch failed")

	// ErrMalformedDocument is returned when the discovery document lacks a
	// required endpoint: authorization or token at construction, userinfo at
	// identity lookup.
	ErrMalformedDocument = errors.New("openid: malformed discovery document")

	// ErrNoSupportedAuthMethod is returned when the document advertises client
	// auth methods but none of them is supported by oauthkit.
	ErrNoSupportedAuthMethod = errors.New("openid: no supported client auth method advertised")
)

// DiscoveryDocument is a provider's OpenID Connect discovery metadata. Only
// the fields driving client configuration are retained.
type DiscoveryDocument struct {
	Issuer                                 string   `json:"issuer"`
	AuthorizationEndpoint                  string   `json:"authorization_endpoint"`
	TokenEndpoint                          string   `json:"token_endpoint"`
	UserinfoEndpoint                       string   `json:"userinfo_endpoint"`
	JWKSURI                                string   `json:"jwks_uri"`
	RevocationEndpoint                     string   `json:"revocation_endpoint,omitempty"`
	EndSessionEndpoint                     string   `json:"end_session_endpoint,omitempty"`
	ResponseTypesSupported                 []string `json:"response_types_supported,omitempty"`
	GrantTypesSupported                    []string `json:"grant_types_supported,omitempty"`
	ScopesSupported                        []string `json:"scopes_supported,omitempty"`
	ClaimsSupported                        []string `json:"claims_supported,omitempty"`
	TokenEndpointAuthMethodsSupported      []string `json:"token_endpoint_auth_methods_supported,omitempty"`
	RevocationEndpointAuthMethodsSupported []string `json:"revocation_endpoint_auth_methods_supported,omitempty"`
	CodeChallengeMethodsSupported          []string `json:"code_challenge_methods_supported,omitempty"`
}

// Discover fetches and decodes the discovery document from a well-known
// configuration URL. A nil client falls back to http.DefaultClient.
func Discover(ctx context.Context, client *http.Client, configurationURL string) (*DiscoveryDocument, error) {
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, configurationURL, nil)
	if err != nil {
		return nil, fmt.Errorf("openid: build discovery request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, &oauthkit.RequestError{Kind: ErrDiscovery, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &oauthkit.RequestError{Kind: ErrDiscovery, Message: "read response body", Err: err}
	}

	snapshot := &oauthkit.Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &oauthkit.RequestError{
			Kind:     ErrDiscovery,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Response: snapshot,
		}
	}

	var doc DiscoveryDocument
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, &oauthkit.RequestError{Kind: ErrDiscovery, Message: "Invalid content", Response: snapshot, Err: err}
	}
	return &doc, nil
}
