package replacement

import "github.com/sarchlab/pagesim/trace"

type enhancedFrame struct {
	slot       Slot
	referenced bool
	modified   bool
}

func (f enhancedFrame) Resident() Slot {
	return f.slot
}

// class orders frames by eviction preference, lowest first:
// (0,0) < (0,1) < (1,0) < (1,1) over (referenced, modified).
func (f enhancedFrame) class() int {
	c := 0
	if f.referenced {
		c += 2
	}

	if f.modified {
		c++
	}

	return c
}

// SweepPhase is a step of the enhanced second-chance victim search.
type SweepPhase int

// The victim search runs Scanning, then ResetAndRescan, then ForceEvict, and
// stops at the first phase that yields a frame. ForceEvict always does.
const (
	PhaseScanning SweepPhase = iota
	PhaseResetAndRescan
	PhaseForceEvict
)

func (p SweepPhase) String() string {
	switch p {
	case PhaseScanning:
		return "Scanning"
	case PhaseResetAndRescan:
		return "ResetAndRescan"
	case PhaseForceEvict:
		return "ForceEvict"
	default:
		return "Unknown"
	}
}

// EnhancedSecondChance is the clock algorithm extended with a modify bit.
// Frames that are neither referenced nor modified are replaced first. Replacing
// a modified page costs a disk write.
type EnhancedSecondChance struct {
	policyBase

	frames *FramePool[enhancedFrame]
	hand   int
}

// NewEnhancedSecondChance creates an enhanced second-chance policy over
// capacity empty frames.
func NewEnhancedSecondChance(capacity int) *EnhancedSecondChance {
	p := &EnhancedSecondChance{
		policyBase: policyBase{
			name:         NameEnhancedSecondChance,
			tracksWrites: true,
		},
		frames: NewFramePool[enhancedFrame](capacity),
	}

	for i := 0; i < capacity; i++ {
		*p.frames.Frame(i) = enhancedFrame{slot: EmptySlot()}
	}

	return p
}

// Capacity returns the number of frames.
func (p *EnhancedSecondChance) Capacity() int {
	return p.frames.Capacity()
}

// Resident lists the resident pages in frame order.
func (p *EnhancedSecondChance) Resident() []int {
	return p.frames.Resident()
}

// Access serves one reference. A hit sets the reference bit and, for a write,
// the modify bit. The modify bit is never cleared while the page is resident.
func (p *EnhancedSecondChance) Access(ref trace.PageReference) AccessResult {
	if idx, hit := p.frames.Find(ref.Page()); hit {
		frame := p.frames.Frame(idx)
		frame.referenced = true
		frame.modified = frame.modified || ref.IsWrite()

		return p.finish(p, ref, AccessResult{Hit: true, Frame: idx})
	}

	victim, _ := p.selectVictim()

	return p.finish(p, ref, p.replace(victim, ref))
}

// selectVictim moves the hand to the frame to replace and returns it with the
// phase that chose it. There are at most two full sweeps.
func (p *EnhancedSecondChance) selectVictim() (int, SweepPhase) {
	phase := PhaseScanning

	for {
		p.notifySweep(phase)

		switch phase {
		case PhaseScanning:
			if idx, ok := p.sweepForClass00(); ok {
				return idx, phase
			}

			p.clearReferenceBits()
			phase = PhaseResetAndRescan
		case PhaseResetAndRescan:
			if idx, ok := p.sweepForClass00(); ok {
				return idx, phase
			}

			phase = PhaseForceEvict
		case PhaseForceEvict:
			p.advance()
			return p.hand, phase
		}
	}
}

// sweepForClass00 advances the hand over every frame once and stops at the
// first one that is neither referenced nor modified.
func (p *EnhancedSecondChance) sweepForClass00() (int, bool) {
	for i := 0; i < p.frames.Capacity(); i++ {
		p.advance()

		if p.frames.Frame(p.hand).class() == 0 {
			return p.hand, true
		}
	}

	return -1, false
}

func (p *EnhancedSecondChance) clearReferenceBits() {
	for i := 0; i < p.frames.Capacity(); i++ {
		p.frames.Frame(i).referenced = false
	}
}

// replace installs ref in frame idx. A writeback is due whenever the previous
// page was modified.
func (p *EnhancedSecondChance) replace(
	idx int,
	ref trace.PageReference,
) AccessResult {
	frame := p.frames.Frame(idx)
	res := AccessResult{
		Frame:     idx,
		Evicted:   frame.slot,
		WroteBack: !frame.slot.IsEmpty() && frame.modified,
	}

	frame.slot = OccupiedSlot(ref.Page())
	frame.referenced = true
	frame.modified = ref.IsWrite()

	return res
}

func (p *EnhancedSecondChance) advance() {
	p.hand = (p.hand + 1) % p.frames.Capacity()
}

func (p *EnhancedSecondChance) notifySweep(phase SweepPhase) {
	if p.NumHooks() == 0 {
		return
	}

	p.invoke(p, HookPosSweep, p.step(), p.hand, phase)
}
