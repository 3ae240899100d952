// Package circuitbreaker protects outbound LLM calls from cascading
// failures: once a provider trips enough consecutive errors, further calls
// fail fast for a cooldown window instead of piling up latency, and a
// handful of probes in half-open state decide whether to resume. Standard
// library only.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// State is one of closed (normal), open (failing fast), or half-open
// (probing for recovery).
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

var (
	ErrCircuitOpen     = errors.New("circuit breaker is open")
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)

// Config tunes one breaker instance.
type Config struct {
	Name                string
	FailureThreshold    int
	SuccessThreshold    int
	OpenDuration        time.Duration
	MaxHalfOpenRequests int
	OnStateChange       func(name string, from, to State)
	IsFailure           func(error) bool
}

func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		FailureThreshold:    5,
		SuccessThreshold:    2,
		OpenDuration:        30 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

type Option func(*Config)

func WithFailureThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.FailureThreshold = n
		}
	}
}

func WithSuccessThreshold(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.SuccessThreshold = n
		}
	}
}

func WithOpenDuration(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.OpenDuration = d
		}
	}
}

func WithOnStateChange(fn func(name string, from, to State)) Option {
	return func(c *Config) { c.OnStateChange = fn }
}

func WithIsFailure(fn func(error) bool) Option {
	return func(c *Config) { c.IsFailure = fn }
}

// tally holds the counters for one generation. A generation is every span
// of time the breaker spends in a single state; rolling into a new state
// starts a new generation instead of zeroing fields in place, so a result
// arriving from a just-superseded generation (e.g. a probe that was still
// in flight when the half-open window elapsed) is discarded rather than
// corrupting the new generation's counts.
type tally struct {
	consecutiveSuccesses int
	consecutiveFailures  int
	halfOpenInFlight     int
}

// CircuitBreaker gates calls to a single upstream dependency.
type CircuitBreaker struct {
	config Config

	mu         sync.Mutex
	state      State
	generation uint64
	counts     tally
	openedAt   time.Time
}

func New(name string, opts ...Option) *CircuitBreaker {
	cfg := DefaultConfig(name)
	for _, opt := range opts {
		opt(&cfg)
	}
	return &CircuitBreaker{config: cfg, state: StateClosed}
}

// Execute admits fn if the breaker is gating requests through, then
// records the outcome against the generation that was current at
// admission time.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	gen, err := cb.admit()
	if err != nil {
		return err
	}
	result := fn(ctx)
	cb.settle(gen, result)
	return result
}

// admit decides whether a call may proceed and, if so, returns the
// generation number it was admitted under.
func (cb *CircuitBreaker) admit() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.OpenDuration {
		cb.transitionTo(StateHalfOpen)
	}

	switch cb.state {
	case StateClosed:
		return cb.generation, nil
	case StateHalfOpen:
		if cb.counts.halfOpenInFlight >= cb.config.MaxHalfOpenRequests {
			return cb.generation, ErrTooManyRequests
		}
		cb.counts.halfOpenInFlight++
		return cb.generation, nil
	default:
		return cb.generation, ErrCircuitOpen
	}
}

// settle records a call's result against the generation it was admitted
// under. A result from a generation the breaker has since moved past is
// dropped: it describes a state that no longer exists.
func (cb *CircuitBreaker) settle(gen uint64, result error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if gen != cb.generation {
		return
	}

	failed := result != nil
	if cb.config.IsFailure != nil && result != nil {
		failed = cb.config.IsFailure(result)
	}

	if failed {
		cb.recordFailure()
	} else {
		cb.recordSuccess()
	}
}

func (cb *CircuitBreaker) recordSuccess() {
	cb.counts.consecutiveFailures = 0
	cb.counts.consecutiveSuccesses++
	if cb.state == StateHalfOpen && cb.counts.consecutiveSuccesses >= cb.config.SuccessThreshold {
		cb.transitionTo(StateClosed)
	}
}

func (cb *CircuitBreaker) recordFailure() {
	cb.counts.consecutiveSuccesses = 0
	cb.counts.consecutiveFailures++
	switch cb.state {
	case StateClosed:
		if cb.counts.consecutiveFailures >= cb.config.FailureThreshold {
			cb.transitionTo(StateOpen)
		}
	case StateHalfOpen:
		cb.transitionTo(StateOpen)
	}
}

// transitionTo moves the breaker to newState, opening a fresh generation
// so stale in-flight results can no longer mutate the new state's counts.
// Caller holds cb.mu.
func (cb *CircuitBreaker) transitionTo(newState State) {
	if newState == cb.state {
		return
	}
	oldState := cb.state
	cb.state = newState
	cb.generation++
	cb.counts = tally{}
	if newState == StateOpen {
		cb.openedAt = time.Now()
	}
	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, oldState, newState)
	}
}

// State reports the breaker's current state, resolving an elapsed
// open-window into half-open first.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && time.Since(cb.openedAt) >= cb.config.OpenDuration {
		cb.transitionTo(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) IsOpen() bool { return cb.State() == StateOpen }

// LLMProviderBreaker returns a breaker tuned for an LLM provider: three
// consecutive failures trips it, and it waits a full minute before
// probing again so a rate-limited provider gets real recovery time.
func LLMProviderBreaker(name string, onStateChange func(name string, from, to State)) *CircuitBreaker {
	return New(
		name,
		WithFailureThreshold(3),
		WithSuccessThreshold(2),
		WithOpenDuration(60*time.Second),
		WithOnStateChange(onStateChange),
	)
}
