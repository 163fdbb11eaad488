// Package loop is the per-frame driver: it drains completions posted by background
// loads, advances camera damping and every simulation, then renders.
package loop

import (
	"sync"
	"time"
)

// Queue collects functions posted from other goroutines for the loop thread to run.
type Queue struct {
	mu  sync.Mutex
	fns []func()
}

// NewQueue returns an empty queue.
func NewQueue() *Queue { return &Queue{} }

// Post schedules fn for the next Drain. It never blocks.
func (q *Queue) Post(fn func()) {
	q.mu.Lock()
	q.fns = append(q.fns, fn)
	q.mu.Unlock()
}

// Len returns the number of waiting functions.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.fns)
}

// Drain runs everything posted so far in posting order and returns how many ran.
// Functions posted while draining wait for the next call.
func (q *Queue) Drain() int {
	q.mu.Lock()
	fns := q.fns
	q.fns = nil
	q.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
	return len(fns)
}

// Simulation is stepped once per frame with the seconds elapsed since the loop started.
type Simulation interface {
	Update(elapsed float32)
}

// Damper is camera navigation that keeps moving between inputs, such as orbit controls.
type Damper interface {
	Update(dt float32) bool
}

// Loop ticks the frame. Any field may be left nil.
type Loop struct {
	Queue *Queue
	// Now is the clock; tests replace it. Defaults to time.Now.
	Now func() time.Time
	// Sync runs after the queue is drained, before simulation. The editor reconciles
	// the store here when it has changed.
	Sync     func()
	Controls Damper
	Sims     []Simulation
	Render   func()

	start, last time.Time
	frames      uint64
}

// Tick runs one frame.
func (l *Loop) Tick() {
	now := l.now()
	if l.frames == 0 {
		l.start, l.last = now, now
	}
	dt := float32(now.Sub(l.last).Seconds())
	l.last = now

	if l.Queue != nil {
		l.Queue.Drain()
	}
	if l.Sync != nil {
		l.Sync()
	}
	if l.Controls != nil {
		l.Controls.Update(dt)
	}
	elapsed := l.Elapsed()
	for _, s := range l.Sims {
		s.Update(elapsed)
	}
	if l.Render != nil {
		l.Render()
	}
	l.frames++
}

func (l *Loop) now() time.Time {
	if l.Now != nil {
		return l.Now()
	}
	return time.Now()
}

// Elapsed returns seconds between the first tick and the latest one.
func (l *Loop) Elapsed() float32 {
	return float32(l.last.Sub(l.start).Seconds())
}

// Frames returns the number of completed ticks.
func (l *Loop) Frames() uint64 { return l.frames }
