// Package simulation runs a set of replacement policies over one trace and
// wires them to recording and monitoring.
package simulation

import (
	"fmt"
	"log/slog"

	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/hooking"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/trace"
	"github.com/sarchlab/pagesim/tracing"
)

// PolicySpec names a policy and the number of frames it runs with.
type PolicySpec struct {
	Name     string
	Capacity int
}

// A Simulation runs each configured policy, in order, over a reference trace.
// Every run gets a fresh policy, so runs never share frames.
type Simulation struct {
	id        string
	policies  []PolicySpec
	tracePath string
	hooks     []hooking.Hook

	dataRecorder datarecording.DataRecorder
	execRecorder *datarecording.ExecRecorder
	runRecorder  *tracing.RunRecorder
	monitor      *monitoring.Monitor
}

// ID returns the unique ID of the simulation.
func (s *Simulation) ID() string {
	return s.id
}

// Policies returns the policies the simulation runs, in order.
func (s *Simulation) Policies() []PolicySpec {
	return append([]PolicySpec(nil), s.policies...)
}

// GetDataRecorder returns the data recorder used in the simulation.
func (s *Simulation) GetDataRecorder() datarecording.DataRecorder {
	return s.dataRecorder
}

// GetMonitor returns the monitor used in the simulation.
func (s *Simulation) GetMonitor() *monitoring.Monitor {
	return s.monitor
}

// RegisterHook attaches hook to every policy run from now on.
func (s *Simulation) RegisterHook(hook hooking.Hook) {
	s.hooks = append(s.hooks, hook)
}

// Run feeds refs to every policy and returns their results in policy order.
// An empty trace is rejected before any policy runs.
func (s *Simulation) Run(refs trace.Sequence) ([]replacement.Result, error) {
	if len(refs) == 0 {
		return nil, fmt.Errorf("simulation %s: %w", s.id, trace.ErrEmptyInput)
	}

	slog.Info("simulation started",
		"id", s.id,
		"references", len(refs),
		"policies", len(s.policies))

	results := make([]replacement.Result, 0, len(s.policies))
	for _, spec := range s.policies {
		result, err := s.runPolicy(spec, refs)
		if err != nil {
			return results, err
		}

		results = append(results, result)
	}

	slog.Info("simulation finished", "id", s.id)

	return results, nil
}

func (s *Simulation) runPolicy(
	spec PolicySpec,
	refs trace.Sequence,
) (replacement.Result, error) {
	p, err := replacement.New(spec.Name, spec.Capacity)
	if err != nil {
		return replacement.Result{}, err
	}

	for _, h := range s.hooks {
		tracing.Collect(p, h)
	}

	var bar *monitoring.ProgressBar
	if s.monitor != nil {
		bar = s.monitor.CreateProgressBar(
			replacement.DisplayName(spec.Name), uint64(len(refs)))
		tracing.Collect(p, monitoring.NewProgressHook(bar))
	}

	if s.runRecorder != nil {
		tracing.Collect(p, s.runRecorder)
		s.runRecorder.StartRun(p, s.tracePath)
	}

	result := replacement.Run(p, refs)

	if s.runRecorder != nil {
		s.runRecorder.EndRun(result)
	}

	if s.monitor != nil {
		s.monitor.CompleteProgressBar(bar)
		s.monitor.RecordResult(result)
	}

	slog.Debug("policy finished",
		"policy", result.Policy,
		"capacity", result.Capacity,
		"faults", result.Faults,
		"disk_writes", result.DiskWrites,
		"fault_rate", result.FaultRate())

	return result, nil
}

// Terminate records the end of the execution, then flushes and closes the data
// recorder, if any.
func (s *Simulation) Terminate() error {
	if s.dataRecorder == nil {
		return nil
	}

	s.execRecorder.End()
	s.runRecorder.Terminate()

	return s.dataRecorder.Close()
}
