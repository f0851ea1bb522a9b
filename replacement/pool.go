package replacement

// A Frame is one physical slot of a FramePool. Each policy keeps its own
// per-frame bookkeeping next to the resident Slot.
type Frame interface {
	Resident() Slot
}

// A FramePool is a fixed-size table of frames. Frame indices are stable for the
// lifetime of the pool, and at most Capacity pages can ever be resident.
type FramePool[F Frame] struct {
	frames []F
}

// NewFramePool creates a pool of capacity frames, each in its zero state. The
// zero state of every frame type used by this package is empty.
func NewFramePool[F Frame](capacity int) *FramePool[F] {
	if capacity <= 0 {
		panic(ErrInvalidCapacity)
	}

	return &FramePool[F]{frames: make([]F, capacity)}
}

// Capacity returns the number of frames.
func (p *FramePool[F]) Capacity() int {
	return len(p.frames)
}

// Frame returns the frame at index i for in-place updates.
func (p *FramePool[F]) Frame(i int) *F {
	return &p.frames[i]
}

// Find returns the index of the frame holding page.
func (p *FramePool[F]) Find(page int) (int, bool) {
	for i := range p.frames {
		if p.frames[i].Resident().Holds(page) {
			return i, true
		}
	}

	return -1, false
}

// Resident lists the resident pages in frame order.
func (p *FramePool[F]) Resident() []int {
	pages := make([]int, 0, len(p.frames))
	for i := range p.frames {
		if page, ok := p.frames[i].Resident().Page(); ok {
			pages = append(pages, page)
		}
	}

	return pages
}

// Occupied returns the number of frames holding a page.
func (p *FramePool[F]) Occupied() int {
	n := 0
	for i := range p.frames {
		if !p.frames[i].Resident().IsEmpty() {
			n++
		}
	}

	return n
}
