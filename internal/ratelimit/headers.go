package ratelimit

import (
	"net/http"
	"strconv"
	"time"
)

// SetHeaders writes the standard rate limit headers for a denied request.
func SetHeaders(w http.ResponseWriter, d Decision, now time.Time) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(d.ResetTime.Unix(), 10))
	h.Set("Retry-After", strconv.Itoa(int(d.RetryAfter(now)/time.Second)))
}
