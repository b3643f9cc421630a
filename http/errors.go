package http

import (
	"errors"
	"net/http"
	"strconv"
	"time"
)

// ErrCircuitOpen is returned when requests to a host are being rejected
// after repeated server failures.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// IsServerError reports whether statusCode is a 5xx status.
func IsServerError(statusCode int) bool {
	return statusCode >= 500 && statusCode < 600
}

// ParseRetryAfter reads a Retry-After header given either in seconds or as
// an HTTP date. It returns 0 when the header is absent or unparseable.
func ParseRetryAfter(header http.Header, now time.Time) time.Duration {
	v := header.Get("Retry-After")
	if v == "" {
		return 0
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs <= 0 {
			return 0
		}
		return time.Duration(secs) * time.Second
	}
	if t, err := http.ParseTime(v); err == nil && t.After(now) {
		return t.Sub(now)
	}
	return 0
}
