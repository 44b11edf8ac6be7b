package loop

import (
	"sort"
	"time"
)

// ManualScheduler is a Scheduler driven by an explicit clock. Callbacks run
// synchronously inside Advance, in deadline order.
type ManualScheduler struct {
	now     time.Duration
	seq     int
	pending []*manualTimer
}

type manualTimer struct {
	s       *ManualScheduler
	at      time.Duration
	seq     int
	fn      func()
	stopped bool
}

// NewManualScheduler creates a scheduler whose clock starts at zero.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{}
}

// AfterFunc schedules fn at now+d.
func (s *ManualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	s.seq++
	t := &manualTimer{s: s, at: s.now + d, seq: s.seq, fn: fn}
	s.pending = append(s.pending, t)
	return t
}

// Now returns the elapsed scheduler time.
func (s *ManualScheduler) Now() time.Duration {
	return s.now
}

// Pending returns the number of timers that have neither fired nor been
// stopped.
func (s *ManualScheduler) Pending() int {
	n := 0
	for _, t := range s.pending {
		if !t.stopped {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, running every callback that comes
// due. Callbacks scheduled while advancing run too if they fall in range.
func (s *ManualScheduler) Advance(d time.Duration) {
	target := s.now + d
	for {
		t := s.next(target)
		if t == nil {
			break
		}
		s.now = t.at
		t.stopped = true
		t.fn()
	}
	s.now = target
	s.compact()
}

func (s *ManualScheduler) next(limit time.Duration) *manualTimer {
	live := s.pending[:0:0]
	for _, t := range s.pending {
		if !t.stopped && t.at <= limit {
			live = append(live, t)
		}
	}
	if len(live) == 0 {
		return nil
	}
	sort.Slice(live, func(i, j int) bool {
		if live[i].at != live[j].at {
			return live[i].at < live[j].at
		}
		return live[i].seq < live[j].seq
	})
	return live[0]
}

func (s *ManualScheduler) compact() {
	kept := s.pending[:0]
	for _, t := range s.pending {
		if !t.stopped {
			kept = append(kept, t)
		}
	}
	s.pending = kept
}

func (t *manualTimer) Stop() bool {
	if t.stopped {
		return false
	}
	t.stopped = true
	return true
}
