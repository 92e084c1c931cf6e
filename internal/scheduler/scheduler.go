package scheduler

import (
	"container/heap"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Lakshan2000610/hr-notification/internal/domain"
)

// entry is one armed timer on the heap
type entry struct {
	at       time.Time
	fn       func()
	seq      uint64
	canceled bool
	index    int
}

// timerHeap orders entries by fire time, then arming order
type timerHeap []*entry

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].at.Equal(h[j].at) {
		return h[i].seq < h[j].seq
	}
	return h[i].at.Before(h[j].at)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x interface{}) {
	e := x.(*entry)
	e.index = len(*h)
	*h = append(*h, e)
}

func (h *timerHeap) Pop() interface{} {
	old := *h
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	e.index = -1
	*h = old[:n-1]
	return e
}

// Scheduler drives all one-shot timers from a single coordinating goroutine
// over a min-heap of (fireAt, task). Individual timers are cancelable, and a
// fired task runs on its own goroutine so it never blocks the heap.
type Scheduler struct {
	mu     sync.Mutex
	timers timerHeap
	seq    uint64
	wake   chan struct{}
	stop   chan struct{}
	done   chan struct{}
	logger zerolog.Logger
}

// New creates a scheduler; Start must be called before timers fire
func New(logger zerolog.Logger) *Scheduler {
	return &Scheduler{
		timers: timerHeap{},
		wake:   make(chan struct{}, 1),
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
		logger: logger.With().Str("component", "scheduler").Logger(),
	}
}

// Schedule arms fn to run at the given instant. The returned cancel func
// reports whether the timer was still pending.
func (s *Scheduler) Schedule(at time.Time, fn func()) domain.CancelFunc {
	s.mu.Lock()
	s.seq++
	e := &entry{at: at, fn: fn, seq: s.seq}
	heap.Push(&s.timers, e)
	s.mu.Unlock()

	s.kick()

	return func() bool {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e.canceled || e.index < 0 {
			return false
		}
		e.canceled = true
		heap.Remove(&s.timers, e.index)
		return true
	}
}

// Pending returns the number of armed timers
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}

// Start launches the coordinating goroutine
func (s *Scheduler) Start() {
	go s.run()
}

// Stop terminates the coordinating goroutine; armed timers are dropped,
// which is acceptable for the dispatcher's best-effort semantics
func (s *Scheduler) Stop() {
	close(s.stop)
	<-s.done
}

// kick wakes the run loop after the heap changed
func (s *Scheduler) kick() {
	select {
	case s.wake <- struct{}{}:
	default:
	}
}

func (s *Scheduler) run() {
	defer close(s.done)

	timer := time.NewTimer(time.Hour)
	defer timer.Stop()

	for {
		s.mu.Lock()
		var wait time.Duration
		if len(s.timers) == 0 {
			wait = time.Hour
		} else {
			wait = time.Until(s.timers[0].at)
		}
		s.mu.Unlock()

		if wait <= 0 {
			s.fireDue()
			continue
		}

		if !timer.Stop() {
			select {
			case <-timer.C:
			default:
			}
		}
		timer.Reset(wait)

		select {
		case <-s.stop:
			return
		case <-s.wake:
		case <-timer.C:
			s.fireDue()
		}
	}
}

// fireDue pops and runs every entry whose fire time has passed
func (s *Scheduler) fireDue() {
	now := time.Now()

	for {
		s.mu.Lock()
		if len(s.timers) == 0 || s.timers[0].at.After(now) {
			s.mu.Unlock()
			return
		}
		e := heap.Pop(&s.timers).(*entry)
		s.mu.Unlock()

		if e.canceled {
			continue
		}

		go func(e *entry) {
			defer func() {
				if r := recover(); r != nil {
					s.logger.Error().Interface("panic", r).Msg("Timer task panicked")
				}
			}()
			e.fn()
		}(e)
	}
}
