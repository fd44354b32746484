package capture

import (
	"sync"
	"time"
)

// debouncer collapses a burst of input events on one target into a single
// event: each observation resets the timer, and only the final state fires
// once the window elapses with no further keystrokes. At most one timer is
// outstanding per target.
type debouncer struct {
	mu     sync.Mutex
	window time.Duration
	fire   func(RawEvent)

	timer   *time.Timer
	pending RawEvent
	armed   bool
}

func newDebouncer(window time.Duration, fire func(RawEvent)) *debouncer {
	return &debouncer{window: window, fire: fire}
}

// observe records the latest event and restarts the window. The previous
// pending event is superseded, not queued.
func (d *debouncer) observe(ev RawEvent) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = ev
	d.armed = true
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.window, d.elapse)
}

func (d *debouncer) elapse() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	ev := d.pending
	d.armed = false
	d.mu.Unlock()
	d.fire(ev)
}

// flush fires any pending event immediately. Called on pause/stop so a
// trailing typing burst is not lost.
func (d *debouncer) flush() {
	d.mu.Lock()
	if !d.armed {
		d.mu.Unlock()
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	ev := d.pending
	d.armed = false
	d.mu.Unlock()
	d.fire(ev)
}
