package tracing

import (
	"fmt"
	"sync"

	"github.com/rs/xid"
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/trace"
	"github.com/tebeka/atexit"
)

// Tables written by a RunRecorder.
const (
	RunTable   = "pagesim_runs"
	EventTable = "pagesim_events"
)

// noPage fills page columns that have no page.
const noPage = -1

// RunEntry is the summary row of one policy run.
type RunEntry struct {
	ID           string
	Policy       string
	Capacity     int
	TracePath    string
	References   int
	Faults       int
	DiskWrites   int
	FaultRate    float64
	TracksWrites bool
}

// EventEntry is one row per hook invocation of a recorded run.
type EventEntry struct {
	RunID       string
	Step        int
	Kind        string
	Page        int
	Write       bool
	Hit         bool
	Frame       int
	EvictedPage int
	Detail      string
}

// A RunRecorder stores a summary row for every run and, optionally, a row for
// every event the policy publishes while the run is open.
type RunRecorder struct {
	mu           sync.Mutex
	backend      datarecording.DataRecorder
	recordEvents bool

	runID     string
	policy    string
	capacity  int
	tracePath string
}

// NewRunRecorder creates a RunRecorder that writes through recorder.
func NewRunRecorder(
	recorder datarecording.DataRecorder,
	recordEvents bool,
) *RunRecorder {
	recorder.CreateTable(RunTable, RunEntry{})
	if recordEvents {
		recorder.CreateTable(EventTable, EventEntry{})
	}

	r := &RunRecorder{
		backend:      recorder,
		recordEvents: recordEvents,
	}

	atexit.Register(func() {
		r.Terminate()
	})

	return r
}

// RecordsEvents tells whether event rows are written.
func (r *RunRecorder) RecordsEvents() bool {
	return r.recordEvents
}

// StartRun opens a run and returns its ID. It panics if another run is open.
func (r *RunRecorder) StartRun(
	policy replacement.Policy,
	tracePath string,
) string {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runID != "" {
		panic(fmt.Sprintf("run %s is still open", r.runID))
	}

	r.runID = xid.New().String()
	r.policy = policy.Name()
	r.capacity = policy.Capacity()
	r.tracePath = tracePath

	return r.runID
}

// Func records an event of the open run.
func (r *RunRecorder) Func(ctx hooking.HookCtx) {
	if !r.recordEvents {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runID == "" {
		return
	}

	entry := EventEntry{
		RunID:       r.runID,
		Step:        ctx.Step,
		Kind:        ctx.Pos.Name,
		Page:        noPage,
		Frame:       noPage,
		EvictedPage: noPage,
	}

	if ref, ok := ctx.Item.(trace.PageReference); ok {
		entry.Page = ref.Page()
		entry.Write = ref.IsWrite()
	}

	switch detail := ctx.Detail.(type) {
	case replacement.AccessResult:
		entry.Hit = detail.Hit
		entry.Frame = detail.Frame

		if page, ok := detail.Evicted.Page(); ok {
			entry.EvictedPage = page
		}
	case replacement.SweepPhase:
		if hand, ok := ctx.Item.(int); ok {
			entry.Frame = hand
		}

		entry.Detail = detail.String()
	}

	r.backend.InsertData(EventTable, entry)
}

// EndRun writes the summary row of the open run and closes it.
func (r *RunRecorder) EndRun(result replacement.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.runID == "" {
		panic("no run is open")
	}

	if result.Policy != r.policy {
		panic(fmt.Sprintf("run %s is for %s, not %s",
			r.runID, r.policy, result.Policy))
	}

	r.backend.InsertData(RunTable, RunEntry{
		ID:           r.runID,
		Policy:       result.Policy,
		Capacity:     result.Capacity,
		TracePath:    r.tracePath,
		References:   result.References,
		Faults:       result.Faults,
		DiskWrites:   result.DiskWrites,
		FaultRate:    result.FaultRate(),
		TracksWrites: result.TracksWrites,
	})

	r.runID = ""
}

// Terminate flushes everything recorded so far.
func (r *RunRecorder) Terminate() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.backend.Flush()
}
