package dispatch

import "sync"

// Poster delivers callbacks on the caller's delivery context.
type Poster interface {
	Post(func())
}

// Immediate runs callbacks inline on the posting goroutine.
type Immediate struct{}

func (Immediate) Post(f func()) { f() }

// Loop is a single-goroutine event loop. Callbacks run one at a time in
// post order, like a UI main thread. Post never blocks, so a callback may
// post further callbacks.
type Loop struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []func()
	closed bool
	done   chan struct{}
}

// NewLoop starts a loop with room for backlog pending callbacks before the
// queue grows.
func NewLoop(backlog int) *Loop {
	if backlog <= 0 {
		backlog = 64
	}
	l := &Loop{queue: make([]func(), 0, backlog), done: make(chan struct{})}
	l.cond = sync.NewCond(&l.mu)
	go l.run()
	return l
}

func (l *Loop) run() {
	defer close(l.done)
	for {
		l.mu.Lock()
		for len(l.queue) == 0 && !l.closed {
			l.cond.Wait()
		}
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		f := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()
		f()
	}
}

// Post enqueues f. Posting after Close runs f inline so no delivery is lost.
func (l *Loop) Post(f func()) {
	l.mu.Lock()
	if l.closed {
		l.mu.Unlock()
		f()
		return
	}
	l.queue = append(l.queue, f)
	l.mu.Unlock()
	l.cond.Signal()
}

// Close drains pending callbacks and stops the loop. It must not be called
// from a callback running on the loop.
func (l *Loop) Close() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.cond.Broadcast()
	<-l.done
}
