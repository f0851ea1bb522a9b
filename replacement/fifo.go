package replacement

import "github.com/sarchlab/pagesim/trace"

type fifoFrame struct {
	slot Slot
}

func (f fifoFrame) Resident() Slot {
	return f.slot
}

// FIFO replaces pages in the order they were brought in. Hits do not change
// any state.
type FIFO struct {
	policyBase

	frames *FramePool[fifoFrame]
	front  int
}

// NewFIFO creates a FIFO policy over capacity empty frames.
func NewFIFO(capacity int) *FIFO {
	return &FIFO{
		policyBase: policyBase{name: NameFIFO},
		frames:     NewFramePool[fifoFrame](capacity),
	}
}

// Capacity returns the number of frames.
func (p *FIFO) Capacity() int {
	return p.frames.Capacity()
}

// Resident lists the resident pages in frame order.
func (p *FIFO) Resident() []int {
	return p.frames.Resident()
}

// Access serves one reference. On a miss the frame under the insertion cursor
// is overwritten, whether or not it held a page.
func (p *FIFO) Access(ref trace.PageReference) AccessResult {
	if idx, hit := p.frames.Find(ref.Page()); hit {
		return p.finish(p, ref, AccessResult{Hit: true, Frame: idx})
	}

	victim := p.front
	frame := p.frames.Frame(victim)
	evicted := frame.slot

	frame.slot = OccupiedSlot(ref.Page())
	p.front = (p.front + 1) % p.frames.Capacity()

	return p.finish(p, ref, AccessResult{Frame: victim, Evicted: evicted})
}
