package watch

import (
	"log/slog"
	"sync"
	"time"
)

// Debouncer coalesces rapid events per path. The callback fires for a path
// once no further event for it arrived within the interval.
type Debouncer struct {
	interval time.Duration
	mu       sync.Mutex
	timers   map[string]*time.Timer
	callback func(path string)
}

// NewDebouncer creates a debouncer that waits for interval of quiet on a
// path before firing callback with that path. The callback runs on a timer
// goroutine.
func NewDebouncer(interval time.Duration, callback func(path string)) *Debouncer {
	return &Debouncer{
		interval: interval,
		timers:   make(map[string]*time.Timer),
		callback: callback,
	}
}

// Trigger records an event for path and restarts its quiet period.
func (d *Debouncer) Trigger(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		t.Stop()
	}

	var timer *time.Timer

	timer = time.AfterFunc(d.interval, func() {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("debouncer callback panicked", slog.Any("error", r))
			}
		}()

		d.mu.Lock()
		current, ok := d.timers[path]
		if ok && current == timer {
			delete(d.timers, path)
		}
		d.mu.Unlock()

		if ok && current == timer {
			d.callback(path)
		}
	})

	d.timers[path] = timer
}

// Cancel drops a pending callback for path.
func (d *Debouncer) Cancel(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok {
		t.Stop()
		delete(d.timers, path)
	}
}

// Stop cancels all pending callbacks.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}
