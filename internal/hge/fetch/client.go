package fetch

import (
	"net"
	"net/http"
	"time"

	"github.com/greeddj/go-hge/internal/hge/helpers"
)

// New creates a configured HTTP client with reasonable defaults.
func New(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: newTransport(),
	}
}

// NewLimited creates an HTTP client whose requests are paced by a rate limiter.
func NewLimited(timeout time.Duration, perSecond float64, burst int) *http.Client {
	return &http.Client{
		Timeout:   timeout,
		Transport: RateLimited(newTransport(), perSecond, burst),
	}
}

func newTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   helpers.FetchDialContextTimeout,
			KeepAlive: helpers.FetchDialContextKeepAlive,
		}).DialContext,
		ForceAttemptHTTP2:     helpers.FetchForceAttemptHTTP2,
		MaxIdleConns:          helpers.FetchMaxIdleConns,
		MaxIdleConnsPerHost:   helpers.FetchMaxIdleConnsPerHost,
		IdleConnTimeout:       helpers.FetchIdleConnTimeout,
		TLSHandshakeTimeout:   helpers.FetchTLSHandshakeTimeout,
		ExpectContinueTimeout: helpers.FetchExpectContinueTimeout,
	}
}
