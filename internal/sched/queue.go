// Package sched runs timers on a virtual clock that the caller advances,
// usually once per game tick. Callbacks run on the goroutine that calls
// Advance, so timer code never races with the rest of the game state.
package sched

import (
	"container/heap"
	"time"
)

// Queue is a virtual clock with pending timers.
type Queue struct {
	now    time.Duration
	seq    uint64
	timers timerHeap
}

// Timer is a pending one-shot callback.
type Timer struct {
	q     *Queue
	at    time.Duration
	seq   uint64
	fn    func()
	index int
}

func NewQueue() *Queue { return &Queue{} }

// Now is the virtual time elapsed since the queue was created.
func (q *Queue) Now() time.Duration { return q.now }

// Len is the number of pending timers.
func (q *Queue) Len() int { return len(q.timers) }

// AfterFunc arranges for fn to run once the clock has advanced by d.
// Negative d is treated as zero.
func (q *Queue) AfterFunc(d time.Duration, fn func()) *Timer {
	if d < 0 {
		d = 0
	}
	q.seq++
	t := &Timer{q: q, at: q.now + d, seq: q.seq, fn: fn, index: -1}
	heap.Push(&q.timers, t)
	return t
}

// Stop cancels t. It reports whether t was still pending.
func (t *Timer) Stop() bool {
	if t == nil || t.index < 0 {
		return false
	}
	heap.Remove(&t.q.timers, t.index)
	return true
}

// Pending reports whether t has neither fired nor been stopped.
func (t *Timer) Pending() bool { return t != nil && t.index >= 0 }

// Advance moves the clock forward by dt and fires every timer that comes due,
// in deadline order. Timers armed by a callback fire in the same call if they
// fall inside the window. It returns the number of callbacks run.
func (q *Queue) Advance(dt time.Duration) int {
	if dt < 0 {
		dt = 0
	}
	target := q.now + dt
	fired := 0
	for len(q.timers) > 0 && q.timers[0].at <= target {
		t := heap.Pop(&q.timers).(*Timer)
		q.now = t.at
		t.fn()
		fired++
	}
	q.now = target
	return fired
}

type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at != h[j].at {
		return h[i].at < h[j].at
	}
	return h[i].seq < h[j].seq
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
