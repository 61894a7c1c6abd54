package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/chattalk/talk-cli/internal/reminder"
)

// Notifier receives the due reminders found by a watcher tick.
type Notifier interface {
	Notify(due []reminder.Reminder) error
}

// NotifierFunc adapts a plain function to the Notifier interface.
type NotifierFunc func(due []reminder.Reminder) error

func (f NotifierFunc) Notify(due []reminder.Reminder) error { return f(due) }

// Watcher polls the backend for due reminders on a fixed cadence and
// fans non-empty results out to its notifiers. The poll is independent
// of the reminder mirror; a failed tick is logged and the loop carries
// on.
type Watcher struct {
	reminders *reminder.Client
	notifiers []Notifier
	interval  int
}

// New creates a Watcher checking every interval seconds.
func New(reminders *reminder.Client, interval int, notifiers ...Notifier) *Watcher {
	return &Watcher{
		reminders: reminders,
		notifiers: notifiers,
		interval:  interval,
	}
}

// Run blocks and checks immediately on start, then on every tick.
// It exits when ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if w.interval <= 0 {
		return fmt.Errorf("watcher interval must be positive, got %d", w.interval)
	}
	interval := time.Duration(w.interval) * time.Second

	slog.Info("due watcher started", "interval", interval)

	w.tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("due watcher stopped")
			return nil
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Watcher) tick(ctx context.Context) {
	due := w.reminders.Due(ctx)
	if len(due) == 0 {
		return
	}

	slog.Info("reminders due", "count", len(due))
	for _, n := range w.notifiers {
		if err := n.Notify(due); err != nil {
			slog.Warn("due notification failed", "error", err)
		}
	}
}
