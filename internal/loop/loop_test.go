package loop

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time          { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }

type recorder struct{ got []float32 }

func (r *recorder) Update(v float32) { r.got = append(r.got, v) }

func TestQueueDrainOrder(t *testing.T) {
	q := NewQueue()
	var got []int
	for i := range 3 {
		q.Post(func() { got = append(got, i) })
	}
	assert.Equal(t, 3, q.Len())
	assert.Equal(t, 3, q.Drain())
	assert.Equal(t, []int{0, 1, 2}, got)
	assert.Zero(t, q.Drain())
}

func TestQueuePostDuringDrain(t *testing.T) {
	q := NewQueue()
	ran := 0
	q.Post(func() {
		ran++
		q.Post(func() { ran++ })
	})
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 1, ran)
	assert.Equal(t, 1, q.Drain())
	assert.Equal(t, 2, ran)
}

func TestQueueConcurrentPost(t *testing.T) {
	q := NewQueue()
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Post(func() {})
		}()
	}
	wg.Wait()
	assert.Equal(t, 50, q.Drain())
}

func TestTickOrder(t *testing.T) {
	c := &clock{t: time.Unix(100, 0)}
	var order []string
	q := NewQueue()
	sim := &recorder{}
	damp := &recorder{}
	l := &Loop{
		Queue:    q,
		Now:      c.now,
		Sync:     func() { order = append(order, "sync") },
		Controls: damperFunc(func(dt float32) { damp.Update(dt); order = append(order, "controls") }),
		Sims:     []Simulation{sim},
		Render:   func() { order = append(order, "render") },
	}
	q.Post(func() { order = append(order, "drain") })

	l.Tick()
	assert.Equal(t, []string{"drain", "sync", "controls", "render"}, order)
	assert.Equal(t, []float32{0}, sim.got)

	c.advance(500 * time.Millisecond)
	l.Tick()
	c.advance(250 * time.Millisecond)
	l.Tick()
	assert.InDeltaSlice(t, []float32{0, 0.5, 0.75}, sim.got, 1e-6)
	assert.InDeltaSlice(t, []float32{0, 0.5, 0.25}, damp.got, 1e-6)
	assert.Equal(t, uint64(3), l.Frames())
	assert.InDelta(t, 0.75, l.Elapsed(), 1e-6)
}

type damperFunc func(dt float32)

func (f damperFunc) Update(dt float32) bool { f(dt); return true }

func TestZeroLoopTicks(t *testing.T) {
	var l Loop
	l.Tick()
	assert.Equal(t, uint64(1), l.Frames())
}
