package engine

import (
	"context"
	"log/slog"
	"time"
)

// DefaultSweepInterval is how often the auto-hide sweep runs.
const DefaultSweepInterval = 5 * time.Second

// Run drives the periodic auto-hide sweep until ctx is cancelled. The sweep
// is idempotent, so a tick that finds nothing expired changes nothing.
// Blocks; call in a goroutine.
func (e *Engine) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	slog.Debug("sweep loop started", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			slog.Debug("sweep loop stopped")
			return
		case <-t.C:
			if n := e.Sweep(e.now()); n > 0 {
				slog.Debug("sweep expired bubbles", "count", n)
			}
		}
	}
}
