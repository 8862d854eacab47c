package quiz

import (
	"context"
	"time"
)

// DefaultTickInterval matches the once-per-second countdown refresh.
const DefaultTickInterval = time.Second

// RunTicker calls check every interval until check reports true or ctx is
// done. It returns ctx.Err() when cancelled and nil when check finished.
func RunTicker(ctx context.Context, interval time.Duration, check func() bool) error {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if check() {
				return nil
			}
		}
	}
}
