package colouring

import (
	"fmt"
	"sync/atomic"
)

// IDSource generates vertex IDs that are unique within an editing session.
type IDSource interface {
	NextID() string
}

// Counter is a monotonically increasing IDSource producing "v1", "v2", …
// The zero value starts at v1.
type Counter struct {
	last atomic.Uint64
}

// NewCounter returns a counter whose next ID is v1.
func NewCounter() *Counter { return &Counter{} }

// NextID returns the next ID.
func (c *Counter) NextID() string {
	return fmt.Sprintf("v%d", c.last.Add(1))
}
