package sched

import "time"

// MinInterval is the shortest repeat interval a Task accepts.
const MinInterval = time.Millisecond

// Task calls fn immediately on Start and then every interval until Stop.
// Ticks are indexed from the start time, so a late Advance does not push
// later ticks back. The interval is fixed for the life of the Task; to
// change it, Stop and build a new one.
type Task struct {
	q        *Queue
	interval time.Duration
	fn       func()

	timer  *Timer
	active bool
	origin time.Duration
	ticks  int
	gen    uint64
}

func NewTask(q *Queue, interval time.Duration, fn func()) *Task {
	if interval < MinInterval {
		interval = MinInterval
	}
	return &Task{q: q, interval: interval, fn: fn}
}

func (t *Task) Interval() time.Duration { return t.interval }

// Active reports whether the task is running.
func (t *Task) Active() bool { return t != nil && t.active }

// Armed reports whether a next tick is pending.
func (t *Task) Armed() bool { return t != nil && t.timer.Pending() }

// Ticks is the number of times fn has run since the last Start.
func (t *Task) Ticks() int { return t.ticks }

// Start stops any pending tick, then runs fn and arms the next one.
func (t *Task) Start() {
	t.Stop()
	t.active = true
	t.origin = t.q.Now()
	t.ticks = 0
	t.fire()
}

// Stop cancels the pending tick. Calling it on a stopped task does nothing.
func (t *Task) Stop() {
	if t == nil {
		return
	}
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.active = false
	t.gen++
}

func (t *Task) fire() {
	t.timer = nil
	gen := t.gen
	t.ticks++
	t.fn()
	// fn may have stopped or restarted us.
	if !t.active || t.gen != gen {
		return
	}
	next := t.origin + time.Duration(t.ticks)*t.interval
	t.timer = t.q.AfterFunc(next-t.q.Now(), t.fire)
}
