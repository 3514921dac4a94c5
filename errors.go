package oauthkit

import "errors"

var (
	// ErrMissingClientID is returned when the client ID is not provided.
	ErrMissingClientID = errors.New("oauthkit: missing client ID")

	// ErrMissingClientSecret is returned when neither a client secret nor a
	// client secret function is provided.
	ErrMissingClientSecret = errors.New("oauthkit: missing client secret")

	// ErrUnsupportedAuthMethod is returned when a client authentication method
	// outside the supported set is configured.
	ErrUnsupportedAuthMethod = errors.New("oauthkit: unsupported client auth method")

	// ErrMissingRevocationAuthMethod is returned when a revoke endpoint is
	// configured without a revocation endpoint auth method.
	ErrMissingRevocationAuthMethod = errors.New("oauthkit: revoke endpoint configured without revocation auth method")

	// ErrRefreshNotSupported is returned by RefreshToken when the client has no
	// refresh endpoint configured. No network call is attempted.
	ErrRefreshNotSupported = errors.New("oauthkit: refresh token not supported by this provider")

	// ErrRevokeNotSupported is returned by RevokeToken when the client has no
	// revoke endpoint configured. No network call is attempted.
	ErrRevokeNotSupported = errors.New("oauthkit: revoke token not supported by this provider")

	// ErrNotImplemented is returned by IDEmail on a client that has not been
	// specialized with an identity lookup.
	ErrNotImplemented = errors.New("oauthkit: identity lookup not implemented")
)

// Request error kinds. Each protocol operation reports its failures under its
// own kind so callers can branch on which phase failed; all four share the
// same RequestError shape.
var (
	// ErrGetAccessToken tags failures of the authorization code exchange.
	ErrGetAccessToken = errors.New("oauthkit: access token request failed")

	// ErrRefreshToken tags failures of the token refresh.
	ErrRefreshToken = errors.New("oauthkit: refresh token request failed")

	// ErrRevokeToken tags failures of the token revocation.
	ErrRevokeToken = errors.New("oauthkit: revoke token request failed")

	// ErrGetIDEmail tags failures of the identity lookup, whether the profile
	// fetch itself failed or the id/email could not be extracted from it.
	ErrGetIDEmail = errors.New("oauthkit: id/email lookup failed")
)

// RequestError wraps a failed provider request. Kind is one of the request
// error kinds above (or an adapter-defined kind), so errors.Is(err, kind)
// reports which protocol phase failed. Response carries the provider response
// when one was received; it is nil on transport-level failures.
type RequestError struct {
	Kind     error
	Message  string
	Response *Response
	Err      error
}

func (e *RequestError) Error() string {
	if e.Message == "" {
		return e.Kind.Error()
	}
	return e.Kind.Error() + ": " + e.Message
}

func (e *RequestError) Unwrap() []error {
	errs := make([]error, 0, 2)
	if e.Kind != nil {
		errs = append(errs, e.Kind)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
