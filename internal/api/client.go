package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"

	customErrors "github.com/collabblog/blogclient/internal/auth/errors"
	"go.uber.org/zap"
)

// Envelope is the platform's standard response wrapper. List endpoints
// carry pagination as a sibling of data.
type Envelope struct {
	Success    bool                `json:"success"`
	Message    string              `json:"message"`
	Data       json.RawMessage     `json:"data,omitempty"`
	Errors     map[string][]string `json:"errors,omitempty"`
	Pagination *Pagination         `json:"pagination,omitempty"`
}

type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	TotalPages int `json:"totalPages"`
	Limit      int `json:"limit"`
}

// StatusError carries the HTTP status and server message for a non-2xx
// response. Services map it onto the client error taxonomy; view code never
// sees it directly.
type StatusError struct {
	Status  int
	Message string
	Errors  map[string][]string
}

func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("http %d", e.Status)
}

// FieldMessages flattens server-side validation errors into one
// user-presentable string.
func (e *StatusError) FieldMessages() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	var parts []string
	for _, f := range fields {
		parts = append(parts, f+": "+strings.Join(e.Errors[f], ", "))
	}
	return strings.Join(parts, "; ")
}

// Client is the thin HTTP layer all SDK services share. The supplied
// http.Client carries the full transport chain, so bearer decoration and
// 401 interception happen below this level.
type Client struct {
	base *url.URL
	http *http.Client
	log  *zap.Logger
}

func NewClient(baseURL string, httpClient *http.Client, log *zap.Logger) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "parse api base url")
	}
	return &Client{base: u, http: httpClient, log: log}, nil
}

// do performs an enveloped request. On 2xx the envelope's data field is
// decoded into out (when out is non-nil); on any other status a
// *StatusError is returned carrying the envelope's message and field
// errors.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	env, err := c.send(ctx, method, path, query, body)
	if err != nil {
		return err
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return customErrors.WrapInternal(err, "decode "+path)
		}
	}
	return nil
}

// doEnvelope is do for callers that need the envelope itself (message,
// pagination siblings decoded separately).
func (c *Client) doEnvelope(ctx context.Context, method, path string, query url.Values, body any) (Envelope, error) {
	return c.send(ctx, method, path, query, body)
}

// doRaw performs a request whose response body is a bare JSON object, not
// the platform envelope (the refresh endpoint is the only such case).
func (c *Client) doRaw(ctx context.Context, method, path string, body, out any) error {
	resp, err := c.roundTrip(ctx, method, path, nil, body)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return customErrors.WrapInternal(err, "read "+path)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if out != nil {
		if err := json.Unmarshal(raw, out); err != nil {
			return customErrors.WrapInternal(err, "decode "+path)
		}
	}
	return nil
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, body any) (Envelope, error) {
	resp, err := c.roundTrip(ctx, method, path, query, body)
	if err != nil {
		return Envelope{}, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return Envelope{}, customErrors.WrapInternal(err, "read "+path)
	}

	var env Envelope
	if len(raw) > 0 {
		// A non-JSON body (proxy error page) is tolerated; the status
		// code still drives the outcome.
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return Envelope{}, customErrors.WrapInternal(err, "decode "+path)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Envelope{}, &StatusError{Status: resp.StatusCode, Message: msg, Errors: env.Errors}
	}
	if !env.Success && env.Message != "" {
		return Envelope{}, &StatusError{Status: resp.StatusCode, Message: env.Message, Errors: env.Errors}
	}
	return env, nil
}

func (c *Client) roundTrip(ctx context.Context, method, path string, query url.Values, body any) (*http.Response, error) {
	u := *c.base
	u.Path = strings.TrimRight(u.Path, "/") + path
	if query != nil {
		u.RawQuery = query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, customErrors.WrapInternal(err, "marshal "+path)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), reader)
	if err != nil {
		return nil, customErrors.WrapInternal(err, "build "+path)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, customErrors.WrapServer(err, method+" "+path)
	}
	return resp, nil
}

// mapError converts a *StatusError from a non-auth endpoint into the
// client taxonomy. 401s have already been intercepted by the transport at
// this point; the sentinel here is what the caller observes.
func mapError(err error, context string) error {
	se, ok := err.(*StatusError)
	if !ok {
		return err
	}
	switch {
	case se.Status == http.StatusUnauthorized:
		return customErrors.ErrSessionExpired
	case se.Status == http.StatusNotFound:
		return fmt.Errorf("%w: %s", customErrors.ErrNotFound, context)
	case se.Status == http.StatusConflict:
		return customErrors.NewConflict(se.Message)
	case se.Status >= 500:
		return customErrors.WrapServer(err, context)
	case se.Status >= 400:
		return customErrors.NewInvalidArgument(se.Message)
	}
	return customErrors.WrapInternal(err, context)
}
