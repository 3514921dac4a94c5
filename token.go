package oauthkit

import (
	"encoding/json"
	"strconv"
	"time"
)

// Token is the raw key/value payload of a successful token endpoint response.
// NewToken normalizes expiry at construction; after that the payload is not
// mutated and ownership passes to the caller. The client keeps no registry of
// issued tokens.
type Token map[string]any

// NewToken builds a Token from a decoded token response payload. A relative
// expires_in is converted once into an absolute expires_at (epoch seconds); an
// already-present expires_at is coerced to an integer epoch value and takes
// precedence. A payload carrying neither never reports itself expired.
func NewToken(payload map[string]any) Token {
	t := make(Token, len(payload)+1)
	for k, v := range payload {
		t[k] = v
	}
	if v, ok := t["expires_at"]; ok {
		if n, ok := toInt64(v); ok {
			t["expires_at"] = n
		}
	} else if v, ok := t["expires_in"]; ok {
		if n, ok := toInt64(v); ok {
			t["expires_at"] = time.Now().Unix() + n
		}
	}
	return t
}

// AccessToken returns the access_token field, or "" when absent.
func (t Token) AccessToken() string { return t.str("access_token") }

// TokenType returns the token_type field, or "" when absent.
func (t Token) TokenType() string { return t.str("token_type") }

// RefreshToken returns the refresh_token field, or "" when absent.
func (t Token) RefreshToken() string { return t.str("refresh_token") }

// IDToken returns the id_token field, or "" when absent.
func (t Token) IDToken() string { return t.str("id_token") }

// Scope returns the scope field, or "" when absent.
func (t Token) Scope() string { return t.str("scope") }

// ExpiresAt reports the normalized absolute expiry, if the token has one.
func (t Token) ExpiresAt() (time.Time, bool) {
	exp, ok := t.expiresAt()
	if !ok {
		return time.Time{}, false
	}
	return time.Unix(exp, 0), true
}

// IsExpired reports whether the token's expiry is in the past. Tokens without
// an expiry never expire.
func (t Token) IsExpired() bool {
	exp, ok := t.expiresAt()
	if !ok {
		return false
	}
	return time.Now().Unix() > exp
}

func (t Token) str(key string) string {
	s, _ := t[key].(string)
	return s
}

func (t Token) expiresAt() (int64, bool) {
	v, ok := t["expires_at"]
	if !ok {
		return 0, false
	}
	return toInt64(v)
}

func toInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case int64:
		return n, true
	case int:
		return int64(n), true
	case float64:
		return int64(n), true
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		if f, err := n.Float64(); err == nil {
			return int64(f), true
		}
		return 0, false
	case string:
		if i, err := strconv.ParseInt(n, 10, 64); err == nil {
			return i, true
		}
		if f, err := strconv.ParseFloat(n, 64); err == nil {
			return int64(f), true
		}
		return 0, false
	default:
		return 0, false
	}
}

// Stringify returns the string form of a JSON-decoded scalar value. Providers
// disagree on whether subject identifiers are strings or numbers; this keeps
// the normalized identity contract string-typed.
func Stringify(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case int:
		return strconv.Itoa(s)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
