package http

import "time"

// rateLimiter caps message sends per connection per minute. It is only
// touched from the connection's read loop, so no locking is needed.
// A limit of zero disables it.
type rateLimiter struct {
	limit   int
	counter int
	window  time.Time
}

func newRateLimiter(limit int) *rateLimiter {
	if limit <= 0 {
		return &rateLimiter{limit: 0}
	}
	return &rateLimiter{limit: limit}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	now := time.Now()
	if now.After(r.window) {
		r.counter = 0
		r.window = now.Add(time.Minute)
	}
	r.counter++
	return r.counter <= r.limit
}
