// Package schedule is a cooperative timer service driven by the frame loop.
//
// Callbacks never run on their own goroutine: they fire inside Advance, on the
// caller's goroutine, in deadline order. This keeps every periodic action on the
// same thread as input dispatch and rendering, so no locking is needed.
package schedule

import (
	"container/heap"
	"time"
)

// DefaultMaxCatchUp bounds how many times one handle may fire during a single Advance.
const DefaultMaxCatchUp = 4

// Scheduler orders periodic callbacks on a virtual timeline advanced by Advance.
type Scheduler struct {
	// MaxCatchUp limits repeated fires of one handle per Advance when a frame ran long.
	// Skipped periods are dropped rather than replayed. Zero means DefaultMaxCatchUp.
	MaxCatchUp int

	now      time.Duration
	seq      uint64
	advances uint64
	queue    handleHeap
}

// New returns a scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{}
}

// Now returns the virtual time elapsed since the scheduler was created.
func (s *Scheduler) Now() time.Duration {
	return s.now
}

// Len returns the number of active (not canceled) handles.
func (s *Scheduler) Len() int {
	return len(s.queue)
}

// Every registers fn to run every period, first firing one period from now.
// Panics if period is not positive.
func (s *Scheduler) Every(period time.Duration, fn func()) *Handle {
	if period <= 0 {
		panic("schedule: non-positive period")
	}
	s.seq++
	h := &Handle{
		s:      s,
		period: period,
		next:   s.now + period,
		fn:     fn,
		seq:    s.seq,
		index:  -1,
	}
	heap.Push(&s.queue, h)
	return h
}

// Advance moves virtual time forward by dt and runs every callback that came due, in order.
// Callbacks may register or cancel handles, including their own.
func (s *Scheduler) Advance(dt time.Duration) {
	if dt < 0 {
		dt = 0
	}
	target := s.now + dt
	s.advances++
	limit := s.MaxCatchUp
	if limit <= 0 {
		limit = DefaultMaxCatchUp
	}

	for len(s.queue) > 0 && s.queue[0].next <= target {
		h := heap.Pop(&s.queue).(*Handle)
		if h.advance != s.advances {
			h.advance = s.advances
			h.burst = 0
		}
		s.now = h.next
		h.burst++
		h.fires++
		h.fn()
		if h.canceled {
			continue
		}
		h.next += h.period
		if h.burst >= limit && h.next <= target {
			skipped := (target-h.next)/h.period + 1
			h.next += skipped * h.period
		}
		heap.Push(&s.queue, h)
	}
	s.now = target
}

// Handle is a registered periodic callback. Cancel releases it.
type Handle struct {
	s        *Scheduler
	period   time.Duration
	next     time.Duration
	fn       func()
	seq      uint64
	index    int
	canceled bool
	fires    uint64
	advance  uint64
	burst    int
}

// Cancel stops the callback permanently. It is idempotent and safe to call from inside
// the callback itself; once it returns the callback never runs again.
func (h *Handle) Cancel() {
	if h == nil || h.canceled {
		return
	}
	h.canceled = true
	if h.index >= 0 {
		heap.Remove(&h.s.queue, h.index)
	}
}

// Canceled reports whether Cancel has been called.
func (h *Handle) Canceled() bool {
	return h.canceled
}

// Fires returns how many times the callback has run.
func (h *Handle) Fires() uint64 {
	return h.fires
}

// Period returns the interval between fires.
func (h *Handle) Period() time.Duration {
	return h.period
}

type handleHeap []*Handle

func (q handleHeap) Len() int { return len(q) }

func (q handleHeap) Less(i, j int) bool {
	if q[i].next != q[j].next {
		return q[i].next < q[j].next
	}
	return q[i].seq < q[j].seq
}

func (q handleHeap) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *handleHeap) Push(x interface{}) {
	h := x.(*Handle)
	h.index = len(*q)
	*q = append(*q, h)
}

func (q *handleHeap) Pop() interface{} {
	old := *q
	last := len(old) - 1
	h := old[last]
	old[last] = nil
	h.index = -1
	*q = old[:last]
	return h
}
