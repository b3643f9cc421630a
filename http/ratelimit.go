// Package http provides the HTTP transport used for YouTube API traffic.
package http

import (
	"context"
	"net/url"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// RateLimiter throttles requests per host using a token bucket, and slows a
// host down after it answers with 429.
type RateLimiter struct {
	limiters     map[string]*rate.Limiter
	backoffState map[string]*BackoffState
	mu           sync.Mutex
	config       RateLimiterConfig
}

// BackoffState tracks rate limit backoff for a host.
type BackoffState struct {
	// CurrentBackoff is the pause recommended before the next request.
	CurrentBackoff time.Duration
	// LastError is when the last rate limit response was seen.
	LastError time.Time
	// ConsecutiveErrors counts rate limit responses not yet offset by successes.
	ConsecutiveErrors int
	// OriginalRPS is the configured rate restored after cooldown.
	OriginalRPS float64
	// ReducedRPS is the current reduced rate.
	ReducedRPS float64
}

const (
	// InitialBackoff is the pause after the first rate limit response.
	InitialBackoff = 1 * time.Second
	// MaxBackoff caps the pause between rate limited requests.
	MaxBackoff = 60 * time.Second
	// BackoffCooldownPeriod is how long after the last 429 the original rate returns.
	BackoffCooldownPeriod = 5 * time.Minute
	// MinRPSMultiplier is the lowest fraction of the configured rate ever used.
	MinRPSMultiplier = 0.25
)

// RateLimiterConfig defines rate limiting behavior.
type RateLimiterConfig struct {
	// DefaultRPS applies to any host without a custom rate (0 = unlimited).
	DefaultRPS float64
	// CustomRates maps host names to requests per second.
	CustomRates map[string]float64
	// EnableDynamicBackoff lowers a host's rate after 429 responses.
	EnableDynamicBackoff bool
}

// DefaultRateLimiterConfig returns the limits used for the YouTube Data API.
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		DefaultRPS:           5,
		CustomRates:          make(map[string]float64),
		EnableDynamicBackoff: true,
	}
}

// NewRateLimiter creates a rate limiter with the given configuration.
func NewRateLimiter(cfg RateLimiterConfig) *RateLimiter {
	if cfg.CustomRates == nil {
		cfg.CustomRates = make(map[string]float64)
	}
	return &RateLimiter{
		limiters:     make(map[string]*rate.Limiter),
		backoffState: make(map[string]*BackoffState),
		config:       cfg,
	}
}

// Wait blocks until a request to urlStr is allowed or ctx is done.
func (rl *RateLimiter) Wait(ctx context.Context, urlStr string) error {
	if rl == nil {
		return nil
	}
	limiter := rl.getLimiter(hostOf(urlStr))
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

func (rl *RateLimiter) getLimiter(host string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rps := rl.rpsFor(host)
	if rps <= 0 {
		return nil
	}
	if limiter, ok := rl.limiters[host]; ok {
		return limiter
	}
	limiter := rate.NewLimiter(rate.Limit(rps), 1)
	rl.limiters[host] = limiter
	return limiter
}

// rpsFor must be called with the mutex held.
func (rl *RateLimiter) rpsFor(host string) float64 {
	if rps, ok := rl.config.CustomRates[host]; ok {
		return rps
	}
	return rl.config.DefaultRPS
}

// SetCustomRate overrides the rate for host.
func (rl *RateLimiter) SetCustomRate(host string, rps float64) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.config.CustomRates[host] = rps
	delete(rl.limiters, host)
}

// RecordRateLimitError registers a 429 from the host of urlStr and returns
// how long the caller should pause. retryAfter wins when it is longer.
func (rl *RateLimiter) RecordRateLimitError(urlStr string, retryAfter time.Duration) time.Duration {
	if rl == nil || !rl.config.EnableDynamicBackoff {
		if retryAfter > 0 {
			return retryAfter
		}
		return InitialBackoff
	}

	host := hostOf(urlStr)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.backoffState[host]
	if !ok {
		state = &BackoffState{
			CurrentBackoff: InitialBackoff,
			OriginalRPS:    rl.rpsFor(host),
		}
		rl.backoffState[host] = state
	}

	state.LastError = time.Now()
	state.ConsecutiveErrors++
	if state.ConsecutiveErrors > 1 {
		state.CurrentBackoff = min(state.CurrentBackoff*2, MaxBackoff)
	}
	if retryAfter > state.CurrentBackoff {
		state.CurrentBackoff = retryAfter
	}

	rl.reduceRate(host, state)
	return state.CurrentBackoff
}

// reduceRate must be called with the mutex held.
func (rl *RateLimiter) reduceRate(host string, state *BackoffState) {
	if state.OriginalRPS <= 0 {
		return
	}

	factor := MinRPSMultiplier
	switch state.ConsecutiveErrors {
	case 1:
		factor = 0.75
	case 2:
		factor = 0.5
	}

	state.ReducedRPS = state.OriginalRPS * factor
	if limiter, ok := rl.limiters[host]; ok {
		limiter.SetLimit(rate.Limit(state.ReducedRPS))
	}
}

// RecordSuccess lets a backed-off host recover its rate.
func (rl *RateLimiter) RecordSuccess(urlStr string) {
	if rl == nil || !rl.config.EnableDynamicBackoff {
		return
	}

	host := hostOf(urlStr)

	rl.mu.Lock()
	defer rl.mu.Unlock()

	state, ok := rl.backoffState[host]
	if !ok {
		return
	}

	if time.Since(state.LastError) > BackoffCooldownPeriod {
		if limiter, ok := rl.limiters[host]; ok {
			limiter.SetLimit(rate.Limit(state.OriginalRPS))
		}
		delete(rl.backoffState, host)
		return
	}

	if state.ConsecutiveErrors > 0 {
		state.ConsecutiveErrors--
		if state.ConsecutiveErrors == 0 {
			if half := state.OriginalRPS * 0.5; half > state.ReducedRPS {
				state.ReducedRPS = half
				if limiter, ok := rl.limiters[host]; ok {
					limiter.SetLimit(rate.Limit(half))
				}
			}
		}
	}
}

// GetBackoffState returns a copy of the backoff state for the host of
// urlStr, or nil when the host is not backed off.
func (rl *RateLimiter) GetBackoffState(urlStr string) *BackoffState {
	if rl == nil {
		return nil
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if state, ok := rl.backoffState[hostOf(urlStr)]; ok {
		cp := *state
		return &cp
	}
	return nil
}

// WaitForBackoff sleeps out the remainder of the host's current backoff.
func (rl *RateLimiter) WaitForBackoff(ctx context.Context, urlStr string) error {
	state := rl.GetBackoffState(urlStr)
	if state == nil {
		return nil
	}

	remaining := state.CurrentBackoff - time.Since(state.LastError)
	if remaining <= 0 {
		return nil
	}

	timer := time.NewTimer(remaining)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// hostOf returns the host of urlStr without port, or "unknown".
func hostOf(urlStr string) string {
	u, err := url.Parse(urlStr)
	if err != nil || u.Hostname() == "" {
		return "unknown"
	}
	return u.Hostname()
}
