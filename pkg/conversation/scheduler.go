package conversation

import (
	"context"
	"sync"
	"time"
)

// Scheduler runs deferred continuations. Implementations must invoke fn on
// the same goroutine that owns the engine.
type Scheduler interface {
	After(d time.Duration, fn func())
}

// InlineScheduler runs continuations immediately, ignoring the delay.
type InlineScheduler struct{}

// After implements Scheduler.
func (InlineScheduler) After(_ time.Duration, fn func()) {
	fn()
}

// BlockingScheduler sleeps for the delay and then runs the continuation on
// the calling goroutine. Suited to synchronous front ends such as the
// terminal wizard.
type BlockingScheduler struct{}

// After implements Scheduler.
func (BlockingScheduler) After(d time.Duration, fn func()) {
	if d > 0 {
		time.Sleep(d)
	}
	fn()
}

// Loop is a single-owner event loop. Every task posted to it runs on one
// goroutine, in order, so an engine driven only through its loop never sees
// overlapping mutations.
type Loop struct {
	tasks chan func()
	done  chan struct{}
	once  sync.Once
}

// NewLoop starts a loop with the given task buffer.
func NewLoop(buffer int) *Loop {
	if buffer < 0 {
		buffer = 0
	}
	l := &Loop{
		tasks: make(chan func(), buffer),
		done:  make(chan struct{}),
	}
	go l.run()
	return l
}

func (l *Loop) run() {
	for {
		select {
		case fn := <-l.tasks:
			fn()
		case <-l.done:
			return
		}
	}
}

// Post enqueues fn without waiting for it to run. It reports false when the
// loop is closed.
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

// Do runs fn on the loop and waits for it to finish. It must not be called
// from a task already running on the loop.
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	task := func() {
		defer close(finished)
		fn()
	}
	select {
	case <-l.done:
		return ErrLoopClosed
	default:
	}
	select {
	case l.tasks <- task:
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return ErrLoopClosed
	}
}

// After implements Scheduler by posting fn back onto the loop once d has
// elapsed. It never blocks, so it is safe to call from a running task.
func (l *Loop) After(d time.Duration, fn func()) {
	if d <= 0 {
		go l.Post(fn)
		return
	}
	time.AfterFunc(d, func() {
		l.Post(fn)
	})
}

// Close stops the loop. Pending tasks are dropped.
func (l *Loop) Close() {
	l.once.Do(func() {
		close(l.done)
	})
}

// Closed reports whether Close was called.
func (l *Loop) Closed() bool {
	select {
	case <-l.done:
		return true
	default:
		return false
	}
}
