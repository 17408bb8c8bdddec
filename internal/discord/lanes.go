package discord

import (
	"context"
	"sync"
	"time"
)

const (
	laneBuffer = 32
	laneIdle   = 5 * time.Minute
)

type lane struct {
	q       chan func(context.Context)
	pending int
}

// lanes runs jobs serially per key and concurrently across keys. A lane's
// worker exits once the lane has been idle for the idle period, or when the
// root context ends.
type lanes struct {
	ctx    context.Context
	buffer int
	idle   time.Duration

	mu     sync.Mutex
	queues map[string]*lane
	wg     sync.WaitGroup
}

func newLanes(ctx context.Context, buffer int, idle time.Duration) *lanes {
	return &lanes{
		ctx:    ctx,
		buffer: buffer,
		idle:   idle,
		queues: make(map[string]*lane),
	}
}

// submit queues job on the lane for key. It blocks while the lane is full and
// reports false once the root context is done.
func (l *lanes) submit(key string, job func(context.Context)) bool {
	ln, ok := l.acquire(key)
	if !ok {
		return false
	}
	defer l.release(ln)

	select {
	case ln.q <- job:
		return true
	case <-l.ctx.Done():
		return false
	}
}

// acquire returns the lane for key, starting its worker if needed. The lane
// cannot be reaped until the matching release.
func (l *lanes) acquire(key string) (*lane, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.ctx.Err() != nil {
		return nil, false
	}
	ln, ok := l.queues[key]
	if !ok {
		ln = &lane{q: make(chan func(context.Context), l.buffer)}
		l.queues[key] = ln
		l.wg.Add(1)
		go l.work(key, ln)
	}
	ln.pending++
	return ln, true
}

func (l *lanes) release(ln *lane) {
	l.mu.Lock()
	ln.pending--
	l.mu.Unlock()
}

func (l *lanes) work(key string, ln *lane) {
	defer l.wg.Done()
	timer := time.NewTimer(l.idle)
	defer timer.Stop()

	for {
		select {
		case job := <-ln.q:
			job(l.ctx)
			timer.Reset(l.idle)
		case <-timer.C:
			if l.reap(key, ln) {
				return
			}
			timer.Reset(l.idle)
		case <-l.ctx.Done():
			return
		}
	}
}

// reap removes an idle lane that has no queued or incoming jobs.
func (l *lanes) reap(key string, ln *lane) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if ln.pending > 0 || len(ln.q) > 0 {
		return false
	}
	delete(l.queues, key)
	return true
}

func (l *lanes) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.queues)
}

// wait blocks until every worker has returned.
func (l *lanes) wait() {
	l.wg.Wait()
}
