package tracing

import (
	"sync"

	"github.com/sarchlab/pagesim/hooking"
)

// EventCounter counts the hook invocations it receives, per hook position.
type EventCounter struct {
	lock      sync.Mutex
	names     []string
	counts    map[string]uint64
	lastSteps map[string]int
}

// NewEventCounter creates a new EventCounter.
func NewEventCounter() *EventCounter {
	return &EventCounter{
		counts:    make(map[string]uint64),
		lastSteps: make(map[string]int),
	}
}

// Func counts one event.
func (c *EventCounter) Func(ctx hooking.HookCtx) {
	c.lock.Lock()
	defer c.lock.Unlock()

	name := ctx.Pos.Name
	if _, ok := c.counts[name]; !ok {
		c.names = append(c.names, name)
	}

	c.counts[name]++
	c.lastSteps[name] = ctx.Step
}

// Names returns the positions seen, in the order they were first seen.
func (c *EventCounter) Names() []string {
	c.lock.Lock()
	defer c.lock.Unlock()

	return append([]string(nil), c.names...)
}

// Count returns the number of events seen at a position.
func (c *EventCounter) Count(pos *hooking.HookPos) uint64 {
	c.lock.Lock()
	defer c.lock.Unlock()

	return c.counts[pos.Name]
}

// LastStep returns the step of the latest event seen at a position.
func (c *EventCounter) LastStep(pos *hooking.HookPos) (int, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()

	step, ok := c.lastSteps[pos.Name]

	return step, ok
}

// Reset forgets every count.
func (c *EventCounter) Reset() {
	c.lock.Lock()
	defer c.lock.Unlock()

	c.names = nil
	c.counts = make(map[string]uint64)
	c.lastSteps = make(map[string]int)
}
