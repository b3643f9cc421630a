package http

import (
	"net/http"
	"time"
)

// DefaultUserAgent identifies API traffic from this tool.
const DefaultUserAgent = "ytlikes/1.0"

// Config configures the transport built by NewTransport.
type Config struct {
	// RequestsPerSecond caps requests per host (0 = unlimited).
	RequestsPerSecond float64
	// UserAgent replaces Go's default User-Agent when the request has none.
	UserAgent string
	// Timeout bounds a whole request including reading the body.
	Timeout time.Duration
	// CircuitBreaker configures fail-fast behavior on repeated 5xx responses.
	CircuitBreaker CircuitBreakerConfig
}

// DefaultConfig returns the transport settings used for API calls.
func DefaultConfig() Config {
	return Config{
		RequestsPerSecond: DefaultRateLimiterConfig().DefaultRPS,
		UserAgent:         DefaultUserAgent,
		Timeout:           60 * time.Second,
		CircuitBreaker:    DefaultCircuitBreakerConfig(),
	}
}

// Transport is an http.RoundTripper that rate limits requests per host,
// sets a User-Agent and stops sending to a host whose circuit is open.
type Transport struct {
	// Base performs the request; http.DefaultTransport when nil.
	Base      http.RoundTripper
	Limiter   *RateLimiter
	Breaker   *CircuitBreaker
	UserAgent string
}

// NewTransport builds a Transport from cfg on top of base.
func NewTransport(base http.RoundTripper, cfg Config) *Transport {
	rlCfg := DefaultRateLimiterConfig()
	rlCfg.DefaultRPS = cfg.RequestsPerSecond
	return &Transport{
		Base:      base,
		Limiter:   NewRateLimiter(rlCfg),
		Breaker:   NewCircuitBreaker(cfg.CircuitBreaker),
		UserAgent: cfg.UserAgent,
	}
}

// NewClient returns an *http.Client using a Transport built from cfg.
func NewClient(cfg Config) *http.Client {
	return &http.Client{
		Transport: NewTransport(nil, cfg),
		Timeout:   cfg.Timeout,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	host := req.URL.Hostname()
	if err := t.Breaker.Allow(host); err != nil {
		return nil, err
	}

	urlStr := req.URL.String()
	if err := t.Limiter.WaitForBackoff(req.Context(), urlStr); err != nil {
		return nil, err
	}
	if err := t.Limiter.Wait(req.Context(), urlStr); err != nil {
		return nil, err
	}

	if t.UserAgent != "" && req.Header.Get("User-Agent") == "" {
		req = req.Clone(req.Context())
		req.Header.Set("User-Agent", t.UserAgent)
	}

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		if req.Context().Err() == nil {
			t.Breaker.RecordFailure(host)
		}
		return nil, err
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		t.Limiter.RecordRateLimitError(urlStr, ParseRetryAfter(resp.Header, time.Now()))
	case IsServerError(resp.StatusCode):
		t.Breaker.RecordFailure(host)
	default:
		t.Breaker.RecordSuccess(host)
		t.Limiter.RecordSuccess(urlStr)
	}
	return resp, nil
}

func (t *Transport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
