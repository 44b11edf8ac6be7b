// Package loop runs editor work on a single goroutine. Input handlers,
// document edits and timer callbacks are all posted to one Loop so editor
// state needs no locking.
package loop

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dshills/extedit/internal/logging"
)

// Loop errors.
var (
	// ErrAlreadyRunning indicates Run was called on a running loop.
	ErrAlreadyRunning = errors.New("loop already running")

	// ErrStopped indicates the loop has been stopped.
	ErrStopped = errors.New("loop stopped")
)

// DefaultQueueSize is the default capacity of the task queue.
const DefaultQueueSize = 256

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop cancels the callback. It returns false if the callback has
	// already run or been stopped.
	Stop() bool
}

// Scheduler runs a callback after a delay on the caller's thread of control.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// Loop is a single-goroutine task queue.
type Loop struct {
	tasks   chan func()
	done    chan struct{}
	stop    sync.Once
	running atomic.Bool
	logger  *logging.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the task queue capacity.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.tasks = make(chan func(), n)
		}
	}
}

// WithLogger sets the logger used to report panicking tasks.
func WithLogger(logger *logging.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger.WithComponent("loop")
		}
	}
}

// New creates a stopped loop.
func New(opts ...Option) *Loop {
	l := &Loop{
		tasks:  make(chan func(), DefaultQueueSize),
		done:   make(chan struct{}),
		logger: logging.Null(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Post queues fn to run on the loop goroutine. It blocks while the queue is
// full and returns false once the loop has stopped.
func (l *Loop) Post(fn func()) bool {
	if fn == nil {
		return false
	}
	select {
	case <-l.done:
		return false
	default:
	}
	select {
	case l.tasks <- fn:
		return true
	case <-l.done:
		return false
	}
}

// Run executes posted tasks until ctx is done or Stop is called.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			l.Stop()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			l.exec(fn)
		}
	}
}

// Stop ends Run. Queued tasks that have not started are dropped.
func (l *Loop) Stop() {
	l.stop.Do(func() { close(l.done) })
}

// Done is closed when the loop stops.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Running reports whether Run is executing.
func (l *Loop) Running() bool {
	return l.running.Load()
}

func (l *Loop) exec(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panicked: %v", r)
		}
	}()
	fn()
}

// AfterFunc arranges for fn to be posted to the loop after d.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Post(func() {
			if t.fired.CompareAndSwap(false, true) {
				fn()
			}
		})
	})
	return t
}

type loopTimer struct {
	timer *time.Timer
	fired atomic.Bool
}

// Stop also suppresses a callback that was already posted but has not run.
func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.fired.CompareAndSwap(false, true)
}
