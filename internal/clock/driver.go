// Package clock drives the two wall-clock displays of a live session: the
// workout elapsed time and the rest countdown. Displayed values are never
// accumulated by a running counter — every tick recomputes them from the
// absolute timestamps in the session snapshot, so missed ticks (suspended
// process, slow host) cannot drift the accounting.
package clock

import (
	"fmt"
	"sync"
	"time"
)

const (
	workoutTick = time.Second
	restTick    = 100 * time.Millisecond
)

// Remaining derives how much of a countdown anchored at anchor with the
// given duration is left at now. Never negative.
func Remaining(now, anchor time.Time, duration time.Duration) time.Duration {
	left := duration - now.Sub(anchor)
	if left < 0 {
		return 0
	}
	return left
}

// FormatElapsed renders a duration as minutes:seconds, e.g. "41:07".
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int(d.Seconds())
	return fmt.Sprintf("%d:%02d", total/60, total%60)
}

// Driver owns the session timers. Timers are single-flight per kind:
// starting one cancels any previous timer of the same kind, so resume,
// reset, and pause-toggle sequences can never leave two countdowns running.
type Driver struct {
	mu          sync.Mutex
	now         func() time.Time
	workoutStop chan struct{}
	restStop    chan struct{}
	restEnd     time.Time
}

// New creates a Driver. now may be nil, defaulting to time.Now.
func New(now func() time.Time) *Driver {
	if now == nil {
		now = time.Now
	}
	return &Driver{now: now}
}

// StartWorkout arms the workout elapsed-time ticker. onTick receives the
// elapsed time since start once per second, recomputed from the start
// timestamp. Any previous workout ticker is cancelled first.
func (d *Driver) StartWorkout(start time.Time, onTick func(elapsed time.Duration)) {
	d.mu.Lock()
	d.stopWorkoutLocked()
	stop := make(chan struct{})
	d.workoutStop = stop
	d.mu.Unlock()

	go func() {
		ticker := time.NewTicker(workoutTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				if onTick != nil {
					onTick(d.now().Sub(start))
				}
			}
		}
	}()
}

// StopWorkout cancels the workout ticker if one is running.
func (d *Driver) StopWorkout() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopWorkoutLocked()
}

func (d *Driver) stopWorkoutLocked() {
	if d.workoutStop != nil {
		close(d.workoutStop)
		d.workoutStop = nil
	}
}

// StartRest arms the rest countdown ending at end. onTick receives the
// remaining time on every tick; when it reaches zero, onExpire is invoked
// exactly once and the countdown stops. Any previous countdown is cancelled
// first.
func (d *Driver) StartRest(end time.Time, onTick func(remaining time.Duration), onExpire func()) {
	d.mu.Lock()
	d.stopRestLocked()
	stop := make(chan struct{})
	d.restStop = stop
	d.restEnd = end
	d.mu.Unlock()

	go func() {
		ticker := time.NewTicker(restTick)
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				d.mu.Lock()
				target := d.restEnd
				d.mu.Unlock()

				remaining := target.Sub(d.now())
				if remaining > 0 {
					if onTick != nil {
						onTick(remaining)
					}
					continue
				}

				// Expired. Fire the callback only if this countdown still
				// owns the stop handle; a concurrent StopRest or StartRest
				// means the expiry is stale and must be suppressed.
				d.mu.Lock()
				owned := d.restStop == stop
				if owned {
					d.restStop = nil
				}
				d.mu.Unlock()
				if !owned {
					return
				}
				if onTick != nil {
					onTick(0)
				}
				if onExpire != nil {
					onExpire()
				}
				return
			}
		}
	}()
}

// ExtendRest pushes the countdown's end time out by extra. No-op when no
// countdown is running.
func (d *Driver) ExtendRest(extra time.Duration) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.restStop != nil {
		d.restEnd = d.restEnd.Add(extra)
	}
}

// StopRest cancels the rest countdown if one is running. The expiry
// callback will not fire after StopRest returns.
func (d *Driver) StopRest() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopRestLocked()
}

func (d *Driver) stopRestLocked() {
	if d.restStop != nil {
		close(d.restStop)
		d.restStop = nil
	}
}

// StopAll cancels every live timer. Called before any transition that would
// otherwise race with a stale callback (reset, finish, shutdown).
func (d *Driver) StopAll() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopWorkoutLocked()
	d.stopRestLocked()
}
