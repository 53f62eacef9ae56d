package transport

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// TokenSource is the read-only slice of the token store the decoration
// needs.
type TokenSource interface {
	AccessToken() (string, bool)
}

// Bearer attaches the access token and standard headers to every outgoing
// request except the auth endpoints themselves. It never triggers a
// refresh; renewal is an explicit session operation.
type Bearer struct {
	next       http.RoundTripper
	tokens     TokenSource
	authPrefix string
}

func NewBearer(next http.RoundTripper, tokens TokenSource, authPrefix string) *Bearer {
	return &Bearer{next: next, tokens: tokens, authPrefix: authPrefix}
}

func (b *Bearer) RoundTrip(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Path, b.authPrefix) {
		return b.next.RoundTrip(req)
	}

	// RoundTrippers must not mutate the caller's request.
	clone := req.Clone(req.Context())
	clone.Header.Set("Accept", "application/json")
	if clone.Body != nil && clone.Header.Get("Content-Type") == "" {
		clone.Header.Set("Content-Type", "application/json")
	}
	clone.Header.Set("X-Request-ID", uuid.NewString())

	if tok, ok := b.tokens.AccessToken(); ok {
		clone.Header.Set("Authorization", "Bearer "+tok)
	}
	return b.next.RoundTrip(clone)
}
