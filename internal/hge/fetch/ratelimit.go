package fetch

import (
	"net/http"

	"golang.org/x/time/rate"
)

// limitedTransport waits on a limiter before every outbound request.
type limitedTransport struct {
	base    http.RoundTripper
	limiter *rate.Limiter
}

// RateLimited wraps base so at most perSecond requests leave per second.
func RateLimited(base http.RoundTripper, perSecond float64, burst int) http.RoundTripper {
	if base == nil {
		base = http.DefaultTransport
	}
	return &limitedTransport{
		base:    base,
		limiter: rate.NewLimiter(rate.Limit(perSecond), max(burst, 1)),
	}
}

// RoundTrip implements http.RoundTripper.
func (t *limitedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if err := t.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	return t.base.RoundTrip(req)
}
