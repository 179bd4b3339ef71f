package counters

// Protection is the name of the counter that shields a participant against
// the next steal.
const Protection = "protection"

// Counter is a named non-negative count attached to a participant.
type Counter struct {
	Name  string
	Count int
}

// NewCounter creates a new counter with the given name and count.
// Negative counts start at zero.
func NewCounter(name string, count int) *Counter {
	if count < 0 {
		count = 0
	}
	return &Counter{
		Name:  name,
		Count: count,
	}
}

// Add adds the specified amount to the counter.
func (c *Counter) Add(amount int) {
	if amount > 0 {
		c.Count += amount
	}
}

// Consume returns the current count and resets the counter to zero.
func (c *Counter) Consume() int {
	n := c.Count
	c.Count = 0
	return n
}

// Reset sets the counter back to zero.
func (c *Counter) Reset() {
	c.Count = 0
}

// Copy creates a deep copy of the counter.
func (c *Counter) Copy() *Counter {
	return &Counter{
		Name:  c.Name,
		Count: c.Count,
	}
}
