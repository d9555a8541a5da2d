package smartcapture

// Counter caps how many frames a session may accept. It is not safe for
// concurrent use: exactly one goroutine owns a session's counter at a time,
// which matches the one-frame-at-a-time processing model.
type Counter struct {
	max   int
	count int
}

func NewCounter(max int) *Counter {
	if max < 0 {
		max = 0
	}
	return &Counter{max: max}
}

// NewCounterAt restores a counter to a previously persisted count.
func NewCounterAt(max, count int) *Counter {
	c := NewCounter(max)
	if count > 0 {
		c.count = count
	}
	return c
}

func (c *Counter) Count() int {
	return c.count
}

func (c *Counter) Max() int {
	return c.max
}

// Done reports whether the capture limit has been reached.
func (c *Counter) Done() bool {
	return c.count >= c.max
}

// TryAccept increments the count and returns true, or returns false
// immediately once the limit is reached.
func (c *Counter) TryAccept() bool {
	if c.count >= c.max {
		return false
	}
	c.count++
	return true
}

// Reset starts the session over at zero accepted captures.
func (c *Counter) Reset() {
	c.count = 0
}
