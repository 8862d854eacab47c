package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SweepTask is one periodic cleanup. Run returns the number of entries it
// removed.
type SweepTask struct {
	Name string
	Run  func() int
}

// SweepWorker evicts expired in-process state: memory sessions and idle
// rate-limit buckets. Redis expires its own keys.
type SweepWorker struct {
	interval time.Duration
	tasks    []SweepTask
	log      zerolog.Logger
}

// NewSweepWorker creates a new SweepWorker.
func NewSweepWorker(interval time.Duration, log zerolog.Logger, tasks ...SweepTask) *SweepWorker {
	return &SweepWorker{
		interval: interval,
		tasks:    tasks,
		log:      log.With().Str("component", "sweep_worker").Logger(),
	}
}

// Start runs until ctx is cancelled. Call in a goroutine.
func (w *SweepWorker) Start(ctx context.Context) {
	w.log.Info().Dur("interval", w.interval).Int("tasks", len(w.tasks)).Msg("Worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("Worker stopped")
			return
		case <-ticker.C:
			w.sweep()
		}
	}
}

func (w *SweepWorker) sweep() {
	for _, t := range w.tasks {
		if n := t.Run(); n > 0 {
			w.log.Debug().Str("task", t.Name).Int("removed", n).Msg("Swept")
		}
	}
}
