package app

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// maxBackoff caps the wait between refreshes while the API keeps failing.
const maxBackoff = 30 * time.Second

// reloader refreshes the shared store; *catalog.Controller implements it.
type reloader interface {
	Reload(ctx context.Context) error
}

// StartPoller launches a background goroutine that reloads the book list at a
// fixed cadence, backing off while loads fail. A non-positive interval
// disables polling. The returned channel is closed when the goroutine exits.
func StartPoller(ctx context.Context, r reloader, interval time.Duration, logger *zap.Logger) <-chan struct{} {
	done := make(chan struct{})
	if interval <= 0 {
		close(done)
		return done
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	go func() {
		defer close(done)

		failures := 0
		timer := time.NewTimer(interval)
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-timer.C:
			}

			if err := r.Reload(ctx); err != nil {
				if ctx.Err() != nil {
					return
				}
				failures++
				logger.Warn("refresh failed",
					zap.Error(err),
					zap.Int("consecutive_failures", failures),
				)
			} else {
				if failures > 0 {
					logger.Info("refresh recovered", zap.Int("after_failures", failures))
				}
				failures = 0
			}
			timer.Reset(calculateBackoff(failures, interval))
		}
	}()
	return done
}

// calculateBackoff doubles the interval per consecutive failure, capped at
// maxBackoff. An interval already above the cap is returned unchanged.
func calculateBackoff(failures int, interval time.Duration) time.Duration {
	if failures <= 0 || interval >= maxBackoff {
		return interval
	}
	d := interval
	for i := 0; i < failures; i++ {
		d *= 2
		if d >= maxBackoff {
			return maxBackoff
		}
	}
	return d
}
