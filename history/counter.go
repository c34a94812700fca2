package history

import (
	"go.uber.org/atomic"
)

// Counter is the in-memory history state count. It starts unknown after a
// page load unless seeded from the current entry.
type Counter struct {
	value *atomic.Int64
	known *atomic.Bool
}

// NewCounter returns an unknown counter.
func NewCounter() *Counter {
	return &Counter{
		value: atomic.NewInt64(0),
		known: atomic.NewBool(false),
	}
}

// Seed sets the counter from s if s carries a count and leaves it unknown
// otherwise.
func (c *Counter) Seed(s State) {
	if n, ok := s.CountValue(); ok {
		c.Set(n)
		return
	}
	c.known.Store(false)
	c.value.Store(0)
}

// Get returns the count and whether it is known.
func (c *Counter) Get() (int, bool) {
	if !c.known.Load() {
		return 0, false
	}
	return int(c.value.Load()), true
}

// Set makes the counter known with value n.
func (c *Counter) Set(n int) {
	c.value.Store(int64(n))
	c.known.Store(true)
}

// Next increments the counter, treating unknown as zero, and returns the new
// value.
func (c *Counter) Next() int {
	if !c.known.Load() {
		c.value.Store(0)
	}
	n := c.value.Inc()
	c.known.Store(true)
	return int(n)
}
