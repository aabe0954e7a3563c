package watch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"
)

// Coalescing strategies.
const (
	// StrategyToggle coalesces with the Dispatcher's pending queue.
	StrategyToggle = "toggle"
	// StrategyDebounce waits for a quiet period per path (Settler).
	StrategyDebounce = "debounce"
)

// DefaultDebounce is the quiet period of the debounce strategy.
const DefaultDebounce = 200 * time.Millisecond

// Loop connects a Source to the Dispatcher (toggle strategy) or to a
// Settler (debounce strategy). All synchronization happens on the goroutine
// that calls Run.
type Loop struct {
	// Dispatcher handles batches under the toggle strategy.
	Dispatcher *Dispatcher

	// Settler handles quiet paths under the debounce strategy.
	Settler *Settler

	// Strategy is StrategyToggle (default) or StrategyDebounce.
	Strategy string

	// Debounce is the quiet period of the debounce strategy.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status lines.
	Out io.Writer
}

// Run processes notifications from src until ctx is cancelled.
func (l *Loop) Run(ctx context.Context, src *Source) error {
	if l.Logger == nil {
		l.Logger = slog.Default()
	}

	if l.Out == nil {
		l.Out = io.Discard
	}

	switch l.Strategy {
	case "", StrategyToggle:
		if l.Dispatcher == nil {
			return errors.New("toggle strategy requires a dispatcher")
		}

		return src.Subscribe(ctx, l.handleBatch)
	case StrategyDebounce:
		if l.Settler == nil {
			return errors.New("debounce strategy requires a settler")
		}

		return l.runDebounced(ctx, src)
	default:
		return fmt.Errorf("unknown coalescing strategy %q", l.Strategy)
	}
}

func (l *Loop) handleBatch(err error, events []FileEvent) {
	if err != nil {
		l.Logger.Error("watcher error", slog.String("error", err.Error()))
		return
	}

	outcomes, _ := l.Dispatcher.Dispatch(events)
	for _, o := range outcomes {
		l.report(o)
	}
}

func (l *Loop) runDebounced(ctx context.Context, src *Source) error {
	interval := l.Debounce
	if interval <= 0 {
		interval = DefaultDebounce
	}

	ready := make(chan string)

	debouncer := NewDebouncer(interval, func(path string) {
		select {
		case ready <- path:
		case <-ctx.Done():
		}
	})
	defer debouncer.Stop()

	batches, errs := src.Batches(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case batch, ok := <-batches:
			if !ok {
				return nil
			}

			for _, ev := range batch {
				if ev.Type == Deleted || ev.Type == Error {
					debouncer.Cancel(ev.Path)
					l.report(l.Settler.Remove(ev))

					continue
				}

				debouncer.Trigger(ev.Path)
			}

		case err := <-errs:
			l.Logger.Error("watcher error", slog.String("error", err.Error()))

		case path := <-ready:
			l.report(l.Settler.Settle(path))
		}
	}
}

// report prints a status line for outcomes the user cares about.
func (l *Loop) report(o Outcome) {
	now := time.Now().Format("15:04:05")

	switch o.Action {
	case ActionSynced, ActionPurged:
		fmt.Fprintf(l.Out, "[%s] %s %s → %s\n", now, o.Event.Type, o.Event.Path, o.Action)
	case ActionFailed:
		fmt.Fprintf(l.Out, "[%s] %s %s → ERROR: %v\n", now, o.Event.Type, o.Event.Path, o.Err)
		l.Logger.Error("synchronization failed",
			slog.String("path", o.Event.Path),
			slog.String("error", o.Err.Error()),
		)
	default:
		l.Logger.Debug("event handled",
			slog.String("path", o.Event.Path),
			slog.String("action", string(o.Action)),
		)
	}
}
