package transport

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// AuthPathPrefix marks the endpoints excluded from bearer decoration and
// 401 interception.
const AuthPathPrefix = "/auth/"

type ChainConfig struct {
	Tokens         TokenSource
	Log            *zap.Logger
	Registry       prometheus.Registerer
	RateLimitRPS   float64
	RateLimitBurst int
	Timeout        time.Duration
	Base           http.RoundTripper
}

// NewChain assembles the client's interceptor stack, outermost first:
// logging -> metrics -> rate limit -> 401 interception -> bearer -> wire.
// The returned Unauthorized hook is handed back so the session-expiry
// handler can be attached once the session manager exists.
func NewChain(cfg ChainConfig) (*http.Client, *Unauthorized) {
	base := cfg.Base
	if base == nil {
		base = http.DefaultTransport
	}
	if cfg.Registry == nil {
		cfg.Registry = prometheus.DefaultRegisterer
	}

	var rt http.RoundTripper = NewBearer(base, cfg.Tokens, AuthPathPrefix)
	unauthorized := NewUnauthorized(rt, AuthPathPrefix, cfg.Log)
	rt = unauthorized
	if cfg.RateLimitRPS > 0 {
		rt = NewRateLimit(rt, cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	rt = NewMetrics(cfg.Registry).RoundTripper(rt)
	rt = NewLogging(rt, cfg.Log)

	return &http.Client{Transport: rt, Timeout: cfg.Timeout}, unauthorized
}
