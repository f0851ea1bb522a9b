package monitoring

import (
	"sync"
	"time"

	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/replacement"
)

// A ProgressBar is a tracker of the progress
type ProgressBar struct {
	sync.Mutex
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	StartTime time.Time `json:"start_time"`
	Total     uint64    `json:"total"`
	Finished  uint64    `json:"finished"`
	Hits      uint64    `json:"hits"`
	Faults    uint64    `json:"faults"`
}

// IncrementFinished add a certain amount to finished element.
func (b *ProgressBar) IncrementFinished(amount uint64) {
	b.Lock()
	defer b.Unlock()

	b.Finished += amount
}

// RecordAccess counts one served reference.
func (b *ProgressBar) RecordAccess(hit bool) {
	b.Lock()
	defer b.Unlock()

	b.Finished++
	if hit {
		b.Hits++
	} else {
		b.Faults++
	}
}

// ProgressHook advances a bar once per reference served by a policy.
type ProgressHook struct {
	bar *ProgressBar
}

// NewProgressHook creates a hook that advances bar.
func NewProgressHook(bar *ProgressBar) *ProgressHook {
	return &ProgressHook{bar: bar}
}

// Func counts the reference if ctx is an access event.
func (h *ProgressHook) Func(ctx hooking.HookCtx) {
	if ctx.Pos != replacement.HookPosAccess {
		return
	}

	res, ok := ctx.Detail.(replacement.AccessResult)
	if !ok {
		return
	}

	h.bar.RecordAccess(res.Hit)
}
