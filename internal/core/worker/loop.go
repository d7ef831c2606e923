package worker

import (
	"context"
	"log/slog"
	"time"
)

// loop runs cycle once after startDelay and then every interval until ctx
// is cancelled. A failed cycle is logged and abandoned; the next attempt
// waits for the regular interval.
func loop(ctx context.Context, log *slog.Logger, startDelay, interval time.Duration, cycle func(context.Context) error) error {
	if !sleep(ctx, startDelay) {
		log.Info("worker stopped")
		return nil
	}

	for {
		if ctx.Err() != nil {
			log.Info("worker stopped")
			return nil
		}

		if err := cycle(ctx); err != nil && ctx.Err() == nil {
			log.Error("cycle failed", "err", err)
		}

		if !sleep(ctx, interval) {
			log.Info("worker stopped")
			return nil
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
