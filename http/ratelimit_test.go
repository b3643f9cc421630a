package http

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterWait(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{DefaultRPS: 20})
	ctx := context.Background()
	url := "https://www.googleapis.com/youtube/v3/playlistItems"

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := rl.Wait(ctx, url); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
	// burst of 1 at 20 rps: the 2nd and 3rd requests wait ~50ms each
	if elapsed := time.Since(start); elapsed < 80*time.Millisecond {
		t.Errorf("3 requests took %v, want at least ~100ms", elapsed)
	}
}

func TestRateLimiterContextCanceled(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{DefaultRPS: 0.1})
	url := "https://www.googleapis.com/x"

	if err := rl.Wait(context.Background(), url); err != nil {
		t.Fatalf("first Wait() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := rl.Wait(ctx, url); err == nil {
		t.Fatal("Wait() error = nil, want context error")
	}
}

func TestRateLimiterUnlimited(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{})
	ctx := context.Background()

	for i := 0; i < 100; i++ {
		if err := rl.Wait(ctx, "https://example.com/"); err != nil {
			t.Fatalf("Wait() iteration %d error = %v", i, err)
		}
	}
}

func TestRateLimiterCustomRate(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{DefaultRPS: 0.1})
	rl.SetCustomRate("fast.example.com", 0)
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		if err := rl.Wait(ctx, "https://fast.example.com/"); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}
}

func TestNilRateLimiter(t *testing.T) {
	var rl *RateLimiter
	if err := rl.Wait(context.Background(), "https://example.com"); err != nil {
		t.Errorf("Wait() on nil = %v", err)
	}
	if got := rl.RecordRateLimitError("https://example.com", 0); got != InitialBackoff {
		t.Errorf("RecordRateLimitError() on nil = %v, want %v", got, InitialBackoff)
	}
	if rl.GetBackoffState("https://example.com") != nil {
		t.Error("GetBackoffState() on nil != nil")
	}
}

func TestRateLimiterBackoff(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	url := "https://www.googleapis.com/youtube/v3/videos/rate"
	rl.Wait(context.Background(), url)

	if got := rl.RecordRateLimitError(url, 0); got != InitialBackoff {
		t.Errorf("first backoff = %v, want %v", got, InitialBackoff)
	}
	if got := rl.RecordRateLimitError(url, 0); got != 2*InitialBackoff {
		t.Errorf("second backoff = %v, want %v", got, 2*InitialBackoff)
	}
	if got := rl.RecordRateLimitError(url, 10*time.Second); got != 10*time.Second {
		t.Errorf("Retry-After backoff = %v, want 10s", got)
	}

	state := rl.GetBackoffState(url)
	if state == nil {
		t.Fatal("GetBackoffState() = nil")
	}
	if state.ConsecutiveErrors != 3 {
		t.Errorf("ConsecutiveErrors = %d, want 3", state.ConsecutiveErrors)
	}
	if want := state.OriginalRPS * MinRPSMultiplier; state.ReducedRPS != want {
		t.Errorf("ReducedRPS = %v, want %v", state.ReducedRPS, want)
	}

	for i := 0; i < 3; i++ {
		rl.RecordSuccess(url)
	}
	state = rl.GetBackoffState(url)
	if state.ConsecutiveErrors != 0 {
		t.Errorf("ConsecutiveErrors after successes = %d, want 0", state.ConsecutiveErrors)
	}
	if want := state.OriginalRPS * 0.5; state.ReducedRPS != want {
		t.Errorf("ReducedRPS after recovery = %v, want %v", state.ReducedRPS, want)
	}
}

func TestRateLimiterBackoffCapped(t *testing.T) {
	rl := NewRateLimiter(DefaultRateLimiterConfig())
	url := "https://www.googleapis.com/"

	var got time.Duration
	for i := 0; i < 20; i++ {
		got = rl.RecordRateLimitError(url, 0)
	}
	if got != MaxBackoff {
		t.Errorf("backoff = %v, want cap %v", got, MaxBackoff)
	}
}

func TestHostOf(t *testing.T) {
	tests := []struct {
		url  string
		want string
	}{
		{"https://www.googleapis.com/youtube/v3", "www.googleapis.com"},
		{"https://googleapis.com:443/test", "googleapis.com"},
		{"http://localhost:6006/oauthcallback", "localhost"},
		{"invalid url", "unknown"},
	}

	for _, tt := range tests {
		if got := hostOf(tt.url); got != tt.want {
			t.Errorf("hostOf(%q) = %q, want %q", tt.url, got, tt.want)
		}
	}
}
