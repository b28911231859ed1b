package store

import (
	"sync"
	"time"

	"github.com/aurelia-labs/moodvault/pkg/core"
)

// debouncer coalesces rapid event bursts for the same path: an atomic
// rename typically surfaces as several filesystem events in quick
// succession, and only the last one matters.
type debouncer struct {
	delay time.Duration

	mu      sync.Mutex
	timers  map[string]*time.Timer
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:  delay,
		timers: make(map[string]*time.Timer),
	}
}

// add schedules emit for the event, replacing any pending emission for the
// same path.
func (d *debouncer) add(event core.Event, emit func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped {
		return
	}

	if timer, ok := d.timers[event.Path]; ok {
		if timer.Stop() {
			d.wg.Done()
		}
	}

	d.wg.Add(1)
	d.timers[event.Path] = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()
		d.mu.Lock()
		delete(d.timers, event.Path)
		stopped := d.stopped
		d.mu.Unlock()
		if stopped {
			return
		}
		emit(event)
	})
}

// stopAndWait cancels pending timers and waits for in-flight emissions to
// finish, up to the given timeout.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for path, timer := range d.timers {
		if timer.Stop() {
			d.wg.Done()
		}
		delete(d.timers, path)
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(timeout):
	}
}
