package counter

import "sync"

// Counter is a running total shared between the work and the views that report on it.
type Counter struct {
	mu    sync.Mutex
	total int
}

// NewCounter creates and initializes a new Counter
func NewCounter() *Counter {
	return &Counter{}
}

// Add adds a value to the counter safely
func (c *Counter) Add(value int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.total += value
}

// Count returns the current count safely
func (c *Counter) Count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total
}
