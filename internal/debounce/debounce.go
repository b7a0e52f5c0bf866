// Package debounce delays an action until its trigger has been quiet for a
// fixed period.
package debounce

import (
	"sync"
	"time"
)

type Debouncer struct {
	wait time.Duration

	mtx     sync.Mutex
	timer   *time.Timer
	stopped bool
}

func New(wait time.Duration) *Debouncer {
	return &Debouncer{wait: wait}
}

// Trigger schedules fn to run after the quiet period, replacing any action
// still pending from an earlier call.
func (d *Debouncer) Trigger(fn func()) {
	d.mtx.Lock()
	defer d.mtx.Unlock()

	if d.stopped {
		return
	}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.wait, fn)
}

// Stop cancels the pending action and ignores every later Trigger.
func (d *Debouncer) Stop() {
	d.mtx.Lock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.mtx.Unlock()
}
