package cache

import "time"

// Policy controls cache read/write behavior and TTL.
type Policy struct {
	Read  bool
	Write bool
	TTL   time.Duration
}

// Options exposes cache-related flags used to derive a Policy.
type Options interface {
	IsNoCache() bool
	IsRefresh() bool
}

// PolicyFor builds a cache policy for responses that stay valid for ttl.
func PolicyFor(opts Options, ttl time.Duration) Policy {
	if opts == nil {
		return Policy{Read: true, Write: true, TTL: ttl}
	}
	if opts.IsNoCache() {
		return Policy{}
	}
	if opts.IsRefresh() {
		return Policy{Write: true, TTL: ttl}
	}
	return Policy{Read: true, Write: true, TTL: ttl}
}
