// Package openid specializes the oauthkit client for OpenID Connect
// providers. The client's endpoint configuration is derived from the
// provider's discovery document, fetched once at construction, and the
// identity lookup goes through the standard userinfo endpoint.
//
//	client, err := openid.NewClient(ctx, openid.Config{
//		ClientID:              os.Getenv("OIDC_CLIENT_ID"),
//		ClientSecret:          os.Getenv("OIDC_CLIENT_SECRET"),
//		ConfigurationEndpoint: "https://accounts.example.com/.well-known/openid-configuration",
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Refresh support is derived from the document's grant_types_supported, the
// revoke endpoint from revocation_endpoint, and the client authentication
// methods from the advertised supported-methods lists: the first advertised
// method oauthkit supports wins, and a list that advertises nothing oauthkit
// supports fails construction rather than silently defaulting.
package openid
