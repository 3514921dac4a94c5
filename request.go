package oauthkit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// Response is a read-once snapshot of a provider HTTP response. The body is
// fully drained before the transport connection is released, so typed errors
// can carry it for diagnostics on every exit path.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// BuildFormRequest constructs a form-encoded provider request, applying the
// given client authentication method: AuthMethodClientSecretPost merges the
// client id and secret into the body, AuthMethodClientSecretBasic supplies
// them as Basic-auth credentials instead.
func (c *Client) BuildFormRequest(ctx context.Context, method, endpoint string, form url.Values, authMethod AuthMethod) (*http.Request, error) {
	body := url.Values{}
	for k, vs := range form {
		body[k] = vs
	}

	if authMethod == AuthMethodClientSecretPost {
		secret, err := c.clientSecret()
		if err != nil {
			return nil, err
		}
		body.Set("client_id", c.cfg.ClientID)
		body.Set("client_secret", secret)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, strings.NewReader(body.Encode()))
	if err != nil {
		return nil, fmt.Errorf("oauthkit: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	if authMethod == AuthMethodClientSecretBasic {
		secret, err := c.clientSecret()
		if err != nil {
			return nil, err
		}
		req.SetBasicAuth(c.cfg.ClientID, secret)
	}

	return req, nil
}

// Send dispatches the request and maps failures into a *RequestError of the
// given kind: transport failures carry no Response, non-2xx statuses carry
// the response snapshot. Each call scopes its own transport exchange; the
// body is drained and closed on all paths.
func (c *Client) Send(req *http.Request, kind error) (*Response, error) {
	for k, vs := range c.headers {
		if req.Header.Get(k) == "" {
			for _, v := range vs {
				req.Header.Add(k, v)
			}
		}
	}

	resp, err := c.http().Do(req)
	if err != nil {
		return nil, &RequestError{Kind: kind, Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &RequestError{Kind: kind, Message: "read response body", Err: err}
	}

	snapshot := &Response{StatusCode: resp.StatusCode, Header: resp.Header, Body: body}
	c.log.DebugContext(req.Context(), "provider request",
		"client", c.cfg.Name,
		"method", req.Method,
		"url", req.URL.String(),
		"status", resp.StatusCode,
	)

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &RequestError{
			Kind:     kind,
			Message:  fmt.Sprintf("unexpected status %d", resp.StatusCode),
			Response: snapshot,
		}
	}
	return snapshot, nil
}

// DecodeJSON decodes a response body into a generic payload. Numbers are kept
// as json.Number so subject ids and expiries survive coercion exactly. A
// decode failure (e.g. a provider returning an HTML error page with a 200) is
// reported under the caller's kind with the offending response attached.
func DecodeJSON(resp *Response, kind error) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(resp.Body))
	dec.UseNumber()

	var data map[string]any
	if err := dec.Decode(&data); err != nil {
		return nil, &RequestError{Kind: kind, Message: "Invalid content", Response: resp, Err: err}
	}
	return data, nil
}

func (c *Client) clientSecret() (string, error) {
	if c.secretFn != nil {
		return c.secretFn()
	}
	return c.cfg.ClientSecret, nil
}

func (c *Client) http() *http.Client {
	if c.httpClient != nil {
		return c.httpClient
	}
	return http.DefaultClient
}
