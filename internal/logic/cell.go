package logic

import "sync/atomic"

// Cell holds one 8-bit value shared between execution contexts.
// It has exactly one writer; any number of goroutines may read it.
// Loads always observe a whole value, either the previous or the latest store.
type Cell struct {
	v atomic.Uint32
}

// Load returns the current value.
func (c *Cell) Load() uint8 {
	return uint8(c.v.Load())
}

// Store replaces the value. Only the owning writer may call it.
func (c *Cell) Store(v uint8) {
	c.v.Store(uint32(v))
}

// Counter is the user-adjusted threshold. Its writer is the main loop.
type Counter struct {
	Cell
}

// Increment adds one, wrapping 255 to 0.
func (c *Counter) Increment() uint8 {
	v := c.Load() + 1
	c.Store(v)
	return v
}

// Decrement subtracts one, wrapping 0 to 255.
func (c *Counter) Decrement() uint8 {
	v := c.Load() - 1
	c.Store(v)
	return v
}

// Reading is the latest completed ADC sample. Its writer is the sampler.
type Reading struct {
	Cell
}
