// Package callback provides HTTP glue for the oauthkit authorization code
// flow: a handler that turns provider redirect callbacks into token
// exchanges, and a ready-made chi router pairing it with a login redirect
// endpoint that manages state and PKCE.
//
// Basic usage:
//
//	google, err := providers.NewGoogle(providers.GoogleConfig{
//		ClientID:     os.Getenv("GOOGLE_OAUTH_CLIENT_ID"),
//		ClientSecret: os.Getenv("GOOGLE_OAUTH_CLIENT_SECRET"),
//	})
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	router.Mount("/auth/google", callback.Routes(google, callback.RoutesConfig{
//		RedirectURI: "https://example.com/auth/google/callback",
//		UsePKCE:     true,
//		Success: func(w http.ResponseWriter, r *http.Request, token oauthkit.Token, state string) {
//			// establish the application session from the token
//		},
//	}))
package callback
