package task

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// IDGenerator produces identifiers for tasks and subtasks.
// Implementations must never return the same id twice within a process.
type IDGenerator interface {
	Next() (ID, error)
}

// UUIDGenerator generates time-ordered UUIDv7 identifiers.
//
// UUIDv7 carries a millisecond timestamp plus a monotonic counter, so two ids
// minted in the same millisecond still differ and still sort in creation
// order.
type UUIDGenerator struct{}

// NewUUIDGenerator creates a UUIDv7 generator.
func NewUUIDGenerator() *UUIDGenerator {
	return &UUIDGenerator{}
}

// Next returns a fresh UUIDv7 string.
func (g *UUIDGenerator) Next() (ID, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("generate id: %w", err)
	}
	return ID(u.String()), nil
}

// SequenceGenerator produces ids of the form <prefix>-<ms>-<seq>, where seq
// restarts at zero whenever the clock's millisecond changes. When the clock
// does not advance (a FixedClock, or a burst inside one millisecond) the
// sequence keeps climbing, so ids stay unique.
type SequenceGenerator struct {
	prefix string
	clock  Clock

	mu     sync.Mutex
	lastMs int64
	seq    int
}

// GeneratorOption configures a SequenceGenerator.
type GeneratorOption func(*SequenceGenerator)

// WithClock sets the clock used for the millisecond component.
func WithClock(c Clock) GeneratorOption {
	return func(g *SequenceGenerator) {
		g.clock = c
	}
}

// NewSequenceGenerator creates a generator with the given prefix.
func NewSequenceGenerator(prefix string, opts ...GeneratorOption) *SequenceGenerator {
	g := &SequenceGenerator{
		prefix: prefix,
		clock:  SystemClock{},
		lastMs: -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Next returns the next id in the sequence.
func (g *SequenceGenerator) Next() (ID, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	ms := g.clock.Now().UnixMilli()
	if ms > g.lastMs {
		g.lastMs = ms
		g.seq = 0
	} else {
		g.seq++
	}
	return g.formatID(g.lastMs, g.seq), nil
}

func (g *SequenceGenerator) formatID(ms int64, seq int) ID {
	if g.prefix == "" {
		return ID(fmt.Sprintf("%d-%03d", ms, seq))
	}
	return ID(fmt.Sprintf("%s-%d-%03d", g.prefix, ms, seq))
}

// Clock supplies the current time. Injected so tests can pin "now".
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time {
	return time.Now()
}

// FixedClock always returns the same instant until moved.
type FixedClock struct {
	mu sync.Mutex
	t  time.Time
}

// NewFixedClock creates a clock pinned at t.
func NewFixedClock(t time.Time) *FixedClock {
	return &FixedClock{t: t}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t.
func (c *FixedClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = t
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}
