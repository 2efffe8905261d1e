package retry

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	"jobscout/internal/utils"
)

// Policy retries an operation with exponential backoff and randomized jitter.
// A zero Retryable predicate treats every error as transient.
type Policy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
	Factor      float64
	Jitter      bool
	Retryable   func(error) bool

	Logger *zap.Logger
}

// Default returns the policy used by the source adapters.
func Default(logger *zap.Logger) Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
		MaxDelay:    30 * time.Second,
		Factor:      2,
		Jitter:      true,
		Logger:      logger,
	}
}

// Do invokes fn until it succeeds, the attempts are exhausted, a
// non-retryable error occurs, or the context is canceled. The last error is
// returned on failure.
func (p Policy) Do(ctx context.Context, name string, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var last error
	for attempt := 1; attempt <= attempts; attempt++ {
		last = fn()
		if last == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(last) {
			return last
		}

		if attempt == attempts {
			break
		}

		delay := p.delay(attempt)
		if p.Logger != nil {
			p.Logger.Warn("retrying after failure",
				zap.String("operation", name),
				zap.Int("attempt", attempt),
				zap.Int("max_attempts", attempts),
				zap.Duration("delay", delay),
				zap.Error(last),
			)
		}

		if err := utils.WaitFor(ctx, delay); err != nil {
			return err
		}
	}

	if p.Logger != nil {
		p.Logger.Error("giving up after retries",
			zap.String("operation", name),
			zap.Int("attempts", attempts),
			zap.Error(last),
		)
	}

	return last
}

func (p Policy) delay(attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	factor := p.Factor
	if factor <= 1 {
		factor = 2
	}

	d := float64(base)
	for i := 1; i < attempt; i++ {
		d *= factor
	}
	if p.MaxDelay > 0 && d > float64(p.MaxDelay) {
		d = float64(p.MaxDelay)
	}
	if p.Jitter {
		d *= 0.5 + rand.Float64()
	}

	return time.Duration(d)
}
