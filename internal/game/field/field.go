package field

import (
	"sync"
)

// Field is a participant's resource field: small units (seeds) and big
// units (menhirs). Counts never go below zero. Lifetime totals only grow and
// are what the final rankings are computed from.
type Field struct {
	mu sync.RWMutex

	small int
	big   int

	smallTotal int
	bigTotal   int
}

// New creates a field holding the given number of small units.
func New(initialSmall int) *Field {
	f := &Field{}
	f.Reset(initialSmall)
	return f
}

// Reset empties the field, clears lifetime totals and grants initialSmall
// small units. The grant counts toward the small lifetime total.
func (f *Field) Reset(initialSmall int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.small = 0
	f.big = 0
	f.smallTotal = 0
	f.bigTotal = 0
	f.small, f.smallTotal = apply(f.small, f.smallTotal, initialSmall)
}

// AddSmall changes the small unit count by delta, clamping at zero.
// It returns the change actually applied.
func (f *Field) AddSmall(delta int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.small
	f.small, f.smallTotal = apply(f.small, f.smallTotal, delta)
	return f.small - before
}

// AddBig changes the big unit count by delta, clamping at zero.
// It returns the change actually applied.
func (f *Field) AddBig(delta int) int {
	f.mu.Lock()
	defer f.mu.Unlock()

	before := f.big
	f.big, f.bigTotal = apply(f.big, f.bigTotal, delta)
	return f.big - before
}

// SetSmall sets the small unit count. Negative values are treated as zero.
func (f *Field) SetSmall(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.small, f.smallTotal = apply(f.small, f.smallTotal, clamp(n)-f.small)
}

// SetBig sets the big unit count. Negative values are treated as zero.
func (f *Field) SetBig(n int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.big, f.bigTotal = apply(f.big, f.bigTotal, clamp(n)-f.big)
}

// Small returns the current small unit count.
func (f *Field) Small() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.small
}

// Big returns the current big unit count.
func (f *Field) Big() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.big
}

// SmallTotal returns every small unit ever gained since the last reset.
func (f *Field) SmallTotal() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.smallTotal
}

// BigTotal returns every big unit ever gained since the last reset.
func (f *Field) BigTotal() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.bigTotal
}

// Copy creates a deep copy of the field.
func (f *Field) Copy() *Field {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return &Field{
		small:      f.small,
		big:        f.big,
		smallTotal: f.smallTotal,
		bigTotal:   f.bigTotal,
	}
}

// apply adds delta to current, clamping at zero, and credits any increase
// to the lifetime total.
func apply(current, total, delta int) (int, int) {
	next := clamp(current + delta)
	if next > current {
		total += next - current
	}
	return next, total
}

func clamp(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
