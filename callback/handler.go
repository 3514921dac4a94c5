package callback

import (
	"context"
	"net/http"

	"github.com/dmitrymomot/oauthkit"
)

// Exchanger is the slice of the oauthkit client the callback handler needs.
// Every oauthkit.Provider satisfies it.
type Exchanger interface {
	ExchangeCode(ctx context.Context, code, redirectURI string, opts ...oauthkit.ExchangeOption) (oauthkit.Token, error)
}

// SuccessFunc consumes the exchanged token. The state is the value echoed
// back by the provider; when the handler runs under Routes it has already
// been validated against the login cookie.
type SuccessFunc func(w http.ResponseWriter, r *http.Request, token oauthkit.Token, state string)

// Handler turns a provider redirect callback into a token exchange. A
// provider error or a missing code is the caller's fault and answers 400; a
// failed exchange answers 500 with the underlying message. A code_verifier
// query parameter, when present, is forwarded to the exchange.
type Handler struct {
	Exchanger   Exchanger
	RedirectURI string
	Success     SuccessFunc
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if errParam := q.Get("error"); errParam != "" {
		http.Error(w, errParam, http.StatusBadRequest)
		return
	}
	code := q.Get("code")
	if code == "" {
		http.Error(w, "missing authorization code", http.StatusBadRequest)
		return
	}

	var opts []oauthkit.ExchangeOption
	if verifier := q.Get("code_verifier"); verifier != "" {
		opts = append(opts, oauthkit.WithCodeVerifier(verifier))
	}

	token, err := h.Exchanger.ExchangeCode(r.Context(), code, h.RedirectURI, opts...)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.Success(w, r, token, q.Get("state"))
}
