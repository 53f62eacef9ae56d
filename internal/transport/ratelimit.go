package transport

import (
	"net/http"

	"golang.org/x/time/rate"
)

// RateLimit throttles outgoing requests client-side so a burst of page
// fetches cannot trip the server's per-IP limits.
type RateLimit struct {
	next    http.RoundTripper
	limiter *rate.Limiter
}

func NewRateLimit(next http.RoundTripper, rps float64, burst int) *RateLimit {
	return &RateLimit{next: next, limiter: rate.NewLimiter(rate.Limit(rps), burst)}
}

func (r *RateLimit) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := r.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return r.next.RoundTrip(req)
}
