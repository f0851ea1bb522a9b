package replacement

import "github.com/sarchlab/pagesim/trace"

type clockFrame struct {
	slot       Slot
	referenced bool
}

func (f clockFrame) Resident() Slot {
	return f.slot
}

// SecondChance is the clock algorithm. A hit sets the frame's reference bit.
// On a miss the hand clears set bits as it passes them and replaces the first
// frame whose bit is already clear.
type SecondChance struct {
	policyBase

	frames *FramePool[clockFrame]
	hand   int
}

// NewSecondChance creates a second-chance policy over capacity empty frames.
func NewSecondChance(capacity int) *SecondChance {
	return &SecondChance{
		policyBase: policyBase{name: NameSecondChance},
		frames:     NewFramePool[clockFrame](capacity),
	}
}

// Capacity returns the number of frames.
func (p *SecondChance) Capacity() int {
	return p.frames.Capacity()
}

// Resident lists the resident pages in frame order.
func (p *SecondChance) Resident() []int {
	return p.frames.Resident()
}

// Access serves one reference.
func (p *SecondChance) Access(ref trace.PageReference) AccessResult {
	if idx, hit := p.frames.Find(ref.Page()); hit {
		p.frames.Frame(idx).referenced = true
		return p.finish(p, ref, AccessResult{Hit: true, Frame: idx})
	}

	for p.frames.Frame(p.hand).referenced {
		p.frames.Frame(p.hand).referenced = false
		p.advance()
	}

	victim := p.hand
	frame := p.frames.Frame(victim)
	evicted := frame.slot

	frame.slot = OccupiedSlot(ref.Page())
	frame.referenced = false
	p.advance()

	return p.finish(p, ref, AccessResult{Frame: victim, Evicted: evicted})
}

func (p *SecondChance) advance() {
	p.hand = (p.hand + 1) % p.frames.Capacity()
}
