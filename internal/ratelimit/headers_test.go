package ratelimit

import (
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSetHeaders(t *testing.T) {
	now := time.Date(2026, 6, 10, 12, 0, 0, 0, time.UTC)
	d := Decision{
		Allowed:   false,
		Limit:     10,
		Remaining: 0,
		ResetTime: now.Add(42*time.Second + 300*time.Millisecond),
	}

	rr := httptest.NewRecorder()
	SetHeaders(rr, d, now)

	assert.Equal(t, "10", rr.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, strconv.FormatInt(d.ResetTime.Unix(), 10), rr.Header().Get("X-RateLimit-Reset"))
	assert.Equal(t, "43", rr.Header().Get("Retry-After"))
}
