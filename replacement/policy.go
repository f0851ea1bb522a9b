// Package replacement implements page-replacement policies that run a reference
// trace against a fixed pool of frames and count page faults.
package replacement

import (
	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/trace"
)

// Hook positions published by every policy.
var (
	// HookPosAccess is invoked once per reference, after it is served. The
	// item is the trace.PageReference and the detail the AccessResult.
	HookPosAccess = &hooking.HookPos{Name: "Access"}

	// HookPosEvict is invoked when a resident page is replaced.
	HookPosEvict = &hooking.HookPos{Name: "Evict"}

	// HookPosWriteback is invoked when the replaced page was modified.
	HookPosWriteback = &hooking.HookPos{Name: "Writeback"}

	// HookPosSweep is invoked by the enhanced second-chance policy each time
	// its victim search enters a new phase. The detail is a SweepPhase.
	HookPosSweep = &hooking.HookPos{Name: "Sweep"}
)

// A Policy decides which frame to replace when a referenced page is not
// resident.
type Policy interface {
	hooking.Hookable

	// Name returns the registry name of the policy.
	Name() string

	// Capacity returns the number of frames.
	Capacity() int

	// Access serves one reference.
	Access(ref trace.PageReference) AccessResult

	// Stats returns the counters accumulated so far.
	Stats() Stats

	// Resident lists the resident pages in frame order.
	Resident() []int

	// TracksWrites tells whether DiskWrites is meaningful for the policy.
	TracksWrites() bool
}

// AccessResult describes how a single reference was served.
type AccessResult struct {
	Hit   bool
	Frame int

	// Evicted is what the frame held before a miss. It is empty when the
	// miss filled a free frame.
	Evicted   Slot
	WroteBack bool
}

// Stats are the counters of a policy.
type Stats struct {
	References int
	Faults     int
	DiskWrites int
}

// Result summarizes a complete run.
type Result struct {
	Policy       string
	Capacity     int
	References   int
	Faults       int
	DiskWrites   int
	TracksWrites bool
}

// FaultRate returns faults as a percentage of references.
func (r Result) FaultRate() float64 {
	if r.References == 0 {
		return 0
	}

	return float64(r.Faults) / float64(r.References) * 100
}

// Run feeds every reference to p, in order, and returns the totals.
func Run(p Policy, refs trace.Sequence) Result {
	for _, ref := range refs {
		p.Access(ref)
	}

	return ResultOf(p)
}

// ResultOf returns the totals p has accumulated so far.
func ResultOf(p Policy) Result {
	stats := p.Stats()

	return Result{
		Policy:       p.Name(),
		Capacity:     p.Capacity(),
		References:   stats.References,
		Faults:       stats.Faults,
		DiskWrites:   stats.DiskWrites,
		TracksWrites: p.TracksWrites(),
	}
}

// RunFIFO returns the number of faults FIFO incurs on refs.
func RunFIFO(refs trace.Sequence, capacity int) int {
	return Run(NewFIFO(capacity), refs).Faults
}

// RunLRU returns the number of faults LRU incurs on refs.
func RunLRU(refs trace.Sequence, capacity int) int {
	return Run(NewLRU(capacity), refs).Faults
}

// RunSecondChance returns the number of faults second chance incurs on refs.
func RunSecondChance(refs trace.Sequence, capacity int) int {
	return Run(NewSecondChance(capacity), refs).Faults
}

// RunEnhancedSecondChance returns the number of faults and disk writes the
// enhanced second-chance policy incurs on refs.
func RunEnhancedSecondChance(
	refs trace.Sequence,
	capacity int,
) (faults, diskWrites int) {
	r := Run(NewEnhancedSecondChance(capacity), refs)
	return r.Faults, r.DiskWrites
}

// policyBase holds the counters and hooks shared by all policies.
type policyBase struct {
	hooking.HookableBase

	name         string
	tracksWrites bool
	stats        Stats
}

func (b *policyBase) Name() string {
	return b.name
}

func (b *policyBase) Stats() Stats {
	return b.stats
}

func (b *policyBase) TracksWrites() bool {
	return b.tracksWrites
}

// step returns the index of the reference currently being served.
func (b *policyBase) step() int {
	return b.stats.References
}

// finish updates the counters for a served reference and notifies hooks.
func (b *policyBase) finish(
	domain hooking.Hookable,
	ref trace.PageReference,
	res AccessResult,
) AccessResult {
	step := b.step()

	b.stats.References++
	if !res.Hit {
		b.stats.Faults++
	}

	if res.WroteBack {
		b.stats.DiskWrites++
	}

	if b.NumHooks() == 0 {
		return res
	}

	if !res.Evicted.IsEmpty() {
		b.invoke(domain, HookPosEvict, step, ref, res)
	}

	if res.WroteBack {
		b.invoke(domain, HookPosWriteback, step, ref, res)
	}

	b.invoke(domain, HookPosAccess, step, ref, res)

	return res
}

func (b *policyBase) invoke(
	domain hooking.Hookable,
	pos *hooking.HookPos,
	step int,
	item, detail any,
) {
	b.InvokeHook(hooking.HookCtx{
		Domain: domain,
		Pos:    pos,
		Step:   step,
		Item:   item,
		Detail: detail,
	})
}
