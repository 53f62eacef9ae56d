package transport

import (
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Logging records every request/response pair. Headers are scrubbed of
// anything that looks like a credential before they hit the log.
type Logging struct {
	next http.RoundTripper
	log  *zap.Logger
}

func NewLogging(next http.RoundTripper, log *zap.Logger) *Logging {
	return &Logging{next: next, log: log}
}

func scrub(h http.Header) http.Header {
	clone := h.Clone()
	for k := range clone {
		if strings.Contains(strings.ToLower(k), "authorization") ||
			strings.Contains(strings.ToLower(k), "cookie") {
			clone[k] = []string{"[redacted]"}
		}
	}
	return clone
}

func (l *Logging) RoundTrip(req *http.Request) (*http.Response, error) {
	l.log.Debug("outgoing request",
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Any("hdr", scrub(req.Header)),
	)

	ts := time.Now()
	resp, err := l.next.RoundTrip(req)
	latency := time.Since(ts)

	if err != nil {
		l.log.Error("request failed",
			zap.String("method", req.Method),
			zap.String("path", req.URL.Path),
			zap.Duration("latency", latency),
			zap.Error(err),
		)
		return nil, err
	}

	l.log.Info("completed",
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", latency),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
	)
	return resp, nil
}
