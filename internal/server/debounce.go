// internal/server/debounce.go
package server

import (
	"sync"
	"time"
)

// debouncer runs fn once no trigger has arrived for delay. Each trigger
// pushes the deadline back, so a burst of saves ends in a single run that
// sees all of them. Runs never overlap.
type debouncer struct {
	delay time.Duration
	fn    func()

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool

	run sync.Mutex
}

func newDebouncer(delay time.Duration, fn func()) *debouncer {
	return &debouncer{delay: delay, fn: fn}
}

func (d *debouncer) trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}
	if d.timer == nil {
		d.timer = time.AfterFunc(d.delay, d.fire)
		return
	}
	d.timer.Reset(d.delay)
}

func (d *debouncer) fire() {
	d.run.Lock()
	defer d.run.Unlock()

	d.mu.Lock()
	stopped := d.stopped
	d.mu.Unlock()
	if stopped {
		return
	}
	d.fn()
}

// stop cancels a pending run. Later triggers are ignored.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
	}
}
