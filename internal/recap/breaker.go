package recap

import (
	"context"
	"errors"
	"fmt"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"go.uber.org/zap"

	"moodjournal/internal/models"
)

// BreakerConfig controls when the breaker opens and how long it stays open.
type BreakerConfig struct {
	Name             string
	FailureThreshold uint32
	Timeout          time.Duration
	// OnStateChange is called after every transition, e.g. to update a gauge.
	OnStateChange func(from, to gobreaker.State)
}

// BreakerGenerator stops calling an unhealthy provider for a while after
// consecutive failures.
type BreakerGenerator struct {
	next Generator
	cb   *gobreaker.CircuitBreaker[string]
}

func NewBreakerGenerator(next Generator, cfg BreakerConfig, logger *zap.Logger) *BreakerGenerator {
	if cfg.Name == "" {
		cfg.Name = "recap-generator"
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: 1,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Callers giving up are not provider failures.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state change",
				zap.String("breaker", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()))
			if cfg.OnStateChange != nil {
				cfg.OnStateChange(from, to)
			}
		},
	}
	return &BreakerGenerator{next: next, cb: gobreaker.NewCircuitBreaker[string](settings)}
}

func (b *BreakerGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := b.cb.Execute(func() (string, error) {
		return b.next.Generate(ctx, prompt)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return "", fmt.Errorf("%s: %v: %w", b.cb.Name(), err, models.ErrGeneratorUnavailable)
	}
	return text, err
}

// State reports the breaker state for health output.
func (b *BreakerGenerator) State() string {
	return b.cb.State().String()
}
