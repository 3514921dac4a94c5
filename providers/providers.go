// Package providers contains ready-made oauthkit adapters for common OAuth2
// and OpenID Connect providers. Each adapter embeds the generic client (or
// the openid client for discovery-based providers) and shadows only the
// methods where the provider deviates from standard OAuth2: a non-standard identity
// endpoint, a required authorize parameter, a custom revocation form.
//
// Adapters inherit the base client's error mapping and authentication
// behavior unless documented otherwise on the overriding method. How an
// absent or unverified email is treated is a per-adapter decision, documented
// on each IDEmail.
package providers

import (
	"bytes"
	"encoding/json"
	"errors"

	"github.com/dmitrymomot/oauthkit"
)

var (
	// ErrEmailNotProvided is wrapped into the identity error when the provider
	// account has no email at all.
	ErrEmailNotProvided = errors.New("providers: email not provided")

	// ErrEmailNotVerified is wrapped into the identity error when the provider
	// reports the email as unverified.
	ErrEmailNotVerified = errors.New("providers: email not verified")

	// ErrNoPrimaryEmail is wrapped into the identity error when no primary
	// email can be resolved from the provider's email list.
	ErrNoPrimaryEmail = errors.New("providers: no primary email")
)

// decodeJSONInto decodes a profile response into a typed shape, reporting
// decode failures under the identity error kind with the response attached.
func decodeJSONInto(resp *oauthkit.Response, v any) error {
	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return &oauthkit.RequestError{
			Kind:     oauthkit.ErrGetIDEmail,
			Message:  "Invalid content",
			Response: resp,
			Err:      err,
		}
	}
	return nil
}
