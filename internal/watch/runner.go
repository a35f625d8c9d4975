package watch

import (
	"context"
	"log/slog"
	"time"
)

// Runner drives serialized scan cycles on a fixed interval. Cycles never
// overlap: each runs to completion on the runner's goroutine before the
// next tick is considered.
type Runner struct {
	Scanner  *Scanner
	Notifier Notifier
	Status   *Status

	Interval time.Duration

	// Quiet hours: outside [RunStartHour, RunEndHour) in the window's zone
	// the runner skips the cycle entirely (no fetches, no mail).
	RunStartHour int
	RunEndHour   int

	Logger *slog.Logger
	Now    func() time.Time
}

// Run executes one cycle immediately, then one per interval tick until ctx
// is cancelled. Intended to be called on its own goroutine or as the main
// loop of the watch command.
func (r *Runner) Run(ctx context.Context) {
	logger := r.logger()
	logger.Info("watch loop started", "interval", r.Interval,
		"run_hours", r.RunStartHour, "run_hours_end", r.RunEndHour)

	r.Cycle(ctx)

	ticker := time.NewTicker(r.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.Cycle(ctx)
		case <-ctx.Done():
			logger.Info("watch loop stopped")
			return
		}
	}
}

// Cycle runs one gated scan-and-notify pass. Also used directly by the
// one-shot scan command under an external cron.
func (r *Runner) Cycle(ctx context.Context) {
	logger := r.logger()
	now := r.now()

	if !r.withinRunningHours(now) {
		logger.Debug("outside running hours, skipping cycle",
			"hour", now.In(r.Scanner.Window.Location).Hour())
		return
	}

	result := r.Scanner.Scan(ctx)

	if r.Status != nil {
		r.Status.Record(now, result, r.Scanner.Ledger.Stats())
	}

	if len(result.NewSlots) == 0 {
		logger.Info("no new slots in the configured window")
		return
	}

	// The slots are already in the ledger; delivery failure is logged and
	// not retried (at-most-once-attempt policy).
	if err := r.Notifier.NotifySlots(result.NewSlots); err != nil {
		logger.Error("notification delivery failed, slots will not be re-sent", "error", err)
		return
	}
	logger.Info("notification sent", "slots", len(result.NewSlots))
}

// withinRunningHours reports whether the runner should work at all right
// now, evaluated in the window's timezone.
func (r *Runner) withinRunningHours(now time.Time) bool {
	if r.RunStartHour == r.RunEndHour {
		return true // no gate configured
	}
	hour := now.In(r.Scanner.Window.Location).Hour()
	if r.RunStartHour < r.RunEndHour {
		return hour >= r.RunStartHour && hour < r.RunEndHour
	}
	// Gate wrapping midnight, e.g. 22–06.
	return hour >= r.RunStartHour || hour < r.RunEndHour
}

func (r *Runner) logger() *slog.Logger {
	if r.Logger != nil {
		return r.Logger
	}
	return slog.Default()
}

func (r *Runner) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}
