package display

import "sync"

// Counter is the process-owned state behind the legacy hardware display
// endpoints. It starts at 0, lives as long as the server process, and is
// passed around as an explicit handle rather than package-level state.
type Counter struct {
	mu    sync.Mutex
	value int64
}

func NewCounter() *Counter {
	return &Counter{}
}

func (c *Counter) Set(v int64) {
	c.mu.Lock()
	c.value = v
	c.mu.Unlock()
}

func (c *Counter) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
