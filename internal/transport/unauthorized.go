package transport

import (
	"net/http"
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Unauthorized watches every response outside the auth endpoints. A 401
// means the session died server-side: the configured handler clears the
// session and redirects to login with the attempted path as returnUrl.
// Concurrent 401s invoke the handler repeatedly; the session clear behind
// it is idempotent so the transition is observable once. A 401 from an
// auth endpoint is a credential failure, not an expiry, and passes through.
type Unauthorized struct {
	next       http.RoundTripper
	authPrefix string
	log        *zap.Logger

	mu      sync.RWMutex
	handler func(attemptedPath string)
}

func NewUnauthorized(next http.RoundTripper, authPrefix string, log *zap.Logger) *Unauthorized {
	return &Unauthorized{next: next, authPrefix: authPrefix, log: log}
}

// SetHandler wires the session-expiry reaction in after the session and
// router exist.
func (u *Unauthorized) SetHandler(h func(attemptedPath string)) {
	u.mu.Lock()
	u.handler = h
	u.mu.Unlock()
}

func (u *Unauthorized) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := u.next.RoundTrip(req)
	if err != nil {
		return nil, err
	}

	if strings.Contains(req.URL.Path, u.authPrefix) {
		return resp, nil
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		u.log.Info("unauthorized response, expiring session",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		)
		u.mu.RLock()
		h := u.handler
		u.mu.RUnlock()
		if h != nil {
			h(req.URL.Path)
		}
	case resp.StatusCode >= 400:
		// Other failures pass through unchanged; logged for diagnostics.
		u.log.Debug("http error response",
			zap.Int("status", resp.StatusCode),
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
		)
	}
	return resp, nil
}
