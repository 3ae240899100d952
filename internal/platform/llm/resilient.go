package llm

import (
	"context"
	"math/rand"
	"time"

	"github.com/interviewcoach/coach/internal/platform/apierr"
	"github.com/interviewcoach/coach/internal/platform/circuitbreaker"
	"github.com/interviewcoach/coach/internal/platform/logger"
)

// defaultLLMTimeout is used when WithResilience is given a non-positive
// timeout, matching spec.md's documented default deadline.
const defaultLLMTimeout = 30 * time.Second

// resilientClient wraps a Client with a per-call deadline, a circuit
// breaker, and a single jittered retry, translating any surviving failure
// into a LLMUnavailable apierr so every caller sees the same error
// taxonomy regardless of which provider adapter is underneath.
type resilientClient struct {
	inner   Client
	breaker *circuitbreaker.CircuitBreaker
	timeout time.Duration
	log     *logger.Logger
}

// WithResilience decorates a Client with a call deadline, retry-once-with-
// jitter, and a circuit breaker keyed by name, so a failing or hanging
// provider stops taking new calls for a cooldown window instead of piling
// up latency. timeout <= 0 falls back to defaultLLMTimeout.
func WithResilience(name string, inner Client, timeout time.Duration, log *logger.Logger) Client {
	if timeout <= 0 {
		timeout = defaultLLMTimeout
	}
	breaker := circuitbreaker.LLMProviderBreaker(name, func(n string, from, to circuitbreaker.State) {
		log.Warn("llm circuit breaker state change", "provider", n, "from", from.String(), "to", to.String())
	})
	return &resilientClient{inner: inner, breaker: breaker, timeout: timeout, log: log.With("provider", name)}
}

func (c *resilientClient) GenerateText(ctx context.Context, system, user string) (string, error) {
	var out string
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		var callErr error
		out, callErr = withRetry(callCtx, func() (string, error) {
			return c.inner.GenerateText(callCtx, system, user)
		})
		return callErr
	})
	return out, wrapUnavailable(err)
}

func (c *resilientClient) GenerateJSON(ctx context.Context, system, user, schemaName string, schema map[string]any) (map[string]any, error) {
	var out map[string]any
	err := c.breaker.Execute(ctx, func(ctx context.Context) error {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()
		var callErr error
		out, callErr = withRetryJSON(callCtx, func() (map[string]any, error) {
			return c.inner.GenerateJSON(callCtx, system, user, schemaName, schema)
		})
		return callErr
	})
	return out, wrapUnavailable(err)
}

func withRetry(ctx context.Context, fn func() (string, error)) (string, error) {
	out, err := fn()
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return "", err
	}
	time.Sleep(jitterBackoff())
	return fn()
}

func withRetryJSON(ctx context.Context, fn func() (map[string]any, error)) (map[string]any, error) {
	out, err := fn()
	if err == nil {
		return out, nil
	}
	if ctx.Err() != nil {
		return nil, err
	}
	time.Sleep(jitterBackoff())
	return fn()
}

// jitterBackoff returns a base 500ms backoff +/-20% jitter, matching the
// single-retry policy providers behind this package expect.
func jitterBackoff() time.Duration {
	base := 500 * time.Millisecond
	delta := float64(base) * 0.2
	jittered := float64(base) - delta + rand.Float64()*2*delta
	return time.Duration(jittered)
}

func wrapUnavailable(err error) error {
	if err == nil {
		return nil
	}
	return apierr.LLMUnavailable(err)
}
