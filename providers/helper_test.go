package providers_test

import (
	"net/http"
	"net/http/httptest"

	"github.com/dmitrymomot/oauthkit"
	"github.com/dmitrymomot/oauthkit/providers"
)

// Every adapter must satisfy the provider contract.
var (
	_ oauthkit.Provider = (*providers.Google)(nil)
	_ oauthkit.Provider = (*providers.GitHub)(nil)
	_ oauthkit.Provider = (*providers.Facebook)(nil)
	_ oauthkit.Provider = (*providers.Discord)(nil)
	_ oauthkit.Provider = (*providers.Microsoft)(nil)
	_ oauthkit.Provider = (*providers.LinkedIn)(nil)
	_ oauthkit.Provider = (*providers.Kakao)(nil)
	_ oauthkit.Provider = (*providers.Naver)(nil)
	_ oauthkit.Provider = (*providers.Okta)(nil)
	_ oauthkit.Provider = (*providers.Reddit)(nil)
	_ oauthkit.Provider = (*providers.Shopify)(nil)
	_ oauthkit.Provider = (*providers.Twitch)(nil)
	_ oauthkit.Provider = (*providers.FranceConnect)(nil)
	_ oauthkit.Provider = (*providers.CILogon)(nil)
	_ oauthkit.Provider = (*providers.Apple)(nil)
)

// rewriteTransport serves every outbound request from an in-process handler,
// so adapters can keep their real production endpoints in tests. Handlers are
// registered on a ServeMux with host-qualified patterns, e.g.
// "api.github.com/user".
type rewriteTransport struct {
	handler http.Handler
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	recorder := httptest.NewRecorder()
	t.handler.ServeHTTP(recorder, req)
	return recorder.Result(), nil
}

func fakeProviderClient(handler http.Handler) *http.Client {
	return &http.Client{Transport: &rewriteTransport{handler: handler}}
}
