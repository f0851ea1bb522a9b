package replacement

import "github.com/sarchlab/pagesim/trace"

// neverUsed is below every timestamp the logical clock can produce, so empty
// frames are always chosen before any resident page.
const neverUsed int64 = -1

type lruFrame struct {
	slot     Slot
	lastUsed int64
}

func (f lruFrame) Resident() Slot {
	return f.slot
}

// LRU replaces the page that has gone the longest without being referenced.
// Recency is tracked with a logical clock that advances on every reference.
type LRU struct {
	policyBase

	frames *FramePool[lruFrame]
	time   int64
}

// NewLRU creates an LRU policy over capacity empty frames.
func NewLRU(capacity int) *LRU {
	p := &LRU{
		policyBase: policyBase{name: NameLRU},
		frames:     NewFramePool[lruFrame](capacity),
	}

	for i := 0; i < capacity; i++ {
		p.frames.Frame(i).lastUsed = neverUsed
	}

	return p
}

// Capacity returns the number of frames.
func (p *LRU) Capacity() int {
	return p.frames.Capacity()
}

// Resident lists the resident pages in frame order.
func (p *LRU) Resident() []int {
	return p.frames.Resident()
}

// Access serves one reference. A single scan both looks for the page and
// remembers the oldest timestamp seen. On a miss the first frame carrying that
// timestamp is replaced, so ties go to the lowest index.
func (p *LRU) Access(ref trace.PageReference) AccessResult {
	oldest := p.time

	for i := 0; i < p.frames.Capacity(); i++ {
		frame := p.frames.Frame(i)

		if frame.slot.Holds(ref.Page()) {
			frame.lastUsed = p.tick()
			return p.finish(p, ref, AccessResult{Hit: true, Frame: i})
		}

		if frame.lastUsed < oldest {
			oldest = frame.lastUsed
		}
	}

	victim := p.firstUsedAt(oldest)
	frame := p.frames.Frame(victim)
	evicted := frame.slot

	frame.slot = OccupiedSlot(ref.Page())
	frame.lastUsed = p.tick()

	return p.finish(p, ref, AccessResult{Frame: victim, Evicted: evicted})
}

func (p *LRU) firstUsedAt(timestamp int64) int {
	for i := 0; i < p.frames.Capacity(); i++ {
		if p.frames.Frame(i).lastUsed == timestamp {
			return i
		}
	}

	panic("no frame carries the oldest timestamp")
}

func (p *LRU) tick() int64 {
	now := p.time
	p.time++

	return now
}
