package http

import (
	"sync"
	"time"
)

// CircuitState represents the state of a circuit breaker.
type CircuitState int

const (
	// CircuitClosed lets requests through.
	CircuitClosed CircuitState = iota
	// CircuitOpen fails requests fast.
	CircuitOpen
	// CircuitHalfOpen lets a limited number of probe requests through.
	CircuitHalfOpen
)

// String returns the string representation of a circuit state.
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "closed"
	case CircuitOpen:
		return "open"
	case CircuitHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

const (
	// DefaultFailureThreshold is the number of consecutive failures that opens a circuit.
	DefaultFailureThreshold = 5
	// DefaultRecoveryTimeout is how long a circuit stays open before probing.
	DefaultRecoveryTimeout = 30 * time.Second
	// DefaultHalfOpenMaxRequests is the number of probes allowed while half-open.
	DefaultHalfOpenMaxRequests = 1
)

// CircuitBreakerConfig configures circuit breaker behavior.
type CircuitBreakerConfig struct {
	FailureThreshold    int
	RecoveryTimeout     time.Duration
	HalfOpenMaxRequests int
}

// DefaultCircuitBreakerConfig returns the default thresholds.
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		FailureThreshold:    DefaultFailureThreshold,
		RecoveryTimeout:     DefaultRecoveryTimeout,
		HalfOpenMaxRequests: DefaultHalfOpenMaxRequests,
	}
}

type circuit struct {
	state             CircuitState
	consecutiveErrors int
	lastStateChange   time.Time
	halfOpenRequests  int
}

// CircuitBreaker tracks consecutive server failures per host and rejects
// requests to a host while its circuit is open.
type CircuitBreaker struct {
	circuits map[string]*circuit
	mu       sync.Mutex
	config   CircuitBreakerConfig
	now      func() time.Time
}

// NewCircuitBreaker creates a circuit breaker with the given configuration.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	def := DefaultCircuitBreakerConfig()
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = def.FailureThreshold
	}
	if cfg.RecoveryTimeout <= 0 {
		cfg.RecoveryTimeout = def.RecoveryTimeout
	}
	if cfg.HalfOpenMaxRequests <= 0 {
		cfg.HalfOpenMaxRequests = def.HalfOpenMaxRequests
	}
	return &CircuitBreaker{
		circuits: make(map[string]*circuit),
		config:   cfg,
		now:      time.Now,
	}
}

// Allow returns ErrCircuitOpen if requests to host must not be sent.
func (cb *CircuitBreaker) Allow(host string) error {
	if cb == nil {
		return nil
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	c := cb.get(host)
	cb.advance(c)

	switch c.state {
	case CircuitOpen:
		return ErrCircuitOpen
	case CircuitHalfOpen:
		if c.halfOpenRequests >= cb.config.HalfOpenMaxRequests {
			return ErrCircuitOpen
		}
		c.halfOpenRequests++
	}
	return nil
}

// RecordSuccess closes the circuit for host.
func (cb *CircuitBreaker) RecordSuccess(host string) {
	if cb == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	c := cb.get(host)
	if c.state != CircuitClosed {
		c.state = CircuitClosed
		c.lastStateChange = cb.now()
	}
	c.consecutiveErrors = 0
	c.halfOpenRequests = 0
}

// RecordFailure counts a failure for host, opening the circuit once the
// threshold is reached. A failed probe reopens it immediately.
func (cb *CircuitBreaker) RecordFailure(host string) {
	if cb == nil {
		return
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	c := cb.get(host)
	cb.advance(c)
	c.consecutiveErrors++

	switch c.state {
	case CircuitClosed:
		if c.consecutiveErrors >= cb.config.FailureThreshold {
			c.state = CircuitOpen
			c.lastStateChange = cb.now()
		}
	case CircuitHalfOpen:
		c.state = CircuitOpen
		c.lastStateChange = cb.now()
		c.halfOpenRequests = 0
	}
}

// State returns the current state of the circuit for host.
func (cb *CircuitBreaker) State(host string) CircuitState {
	if cb == nil {
		return CircuitClosed
	}

	cb.mu.Lock()
	defer cb.mu.Unlock()

	c, ok := cb.circuits[host]
	if !ok {
		return CircuitClosed
	}
	cb.advance(c)
	return c.state
}

// Reset closes the circuit for host.
func (cb *CircuitBreaker) Reset(host string) {
	if cb == nil {
		return
	}
	cb.mu.Lock()
	defer cb.mu.Unlock()
	delete(cb.circuits, host)
}

// get must be called with the mutex held.
func (cb *CircuitBreaker) get(host string) *circuit {
	c, ok := cb.circuits[host]
	if !ok {
		c = &circuit{state: CircuitClosed, lastStateChange: cb.now()}
		cb.circuits[host] = c
	}
	return c
}

// advance moves an open circuit to half-open once the recovery timeout has
// elapsed. Must be called with the mutex held.
func (cb *CircuitBreaker) advance(c *circuit) {
	if c.state == CircuitOpen && cb.now().Sub(c.lastStateChange) >= cb.config.RecoveryTimeout {
		c.state = CircuitHalfOpen
		c.lastStateChange = cb.now()
		c.halfOpenRequests = 0
	}
}
