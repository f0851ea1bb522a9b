package simulation

import (
	"fmt"

	"github.com/rs/xid"
	"github.com/sarchlab/pagesim/datarecording"
	"github.com/sarchlab/pagesim/monitoring"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/tracing"
)

// Builder can be used to build a simulation.
type Builder struct {
	policies        []string
	defaultCapacity int
	capacities      map[string]int
	dataRecorder    datarecording.DataRecorder
	recordEvents    bool
	monitor         *monitoring.Monitor
	tracePath       string
}

// MakeBuilder creates a new builder that runs every policy with its default
// capacity, without recording or monitoring.
func MakeBuilder() Builder {
	return Builder{
		policies: replacement.Names(),
	}
}

// WithPolicies sets the policies to run, in order. Aliases are accepted.
func (b Builder) WithPolicies(names ...string) Builder {
	b.policies = append([]string(nil), names...)
	return b
}

// WithDefaultCapacity sets the frame count of every policy without an explicit
// capacity. Zero restores the per-policy defaults.
func (b Builder) WithDefaultCapacity(capacity int) Builder {
	b.defaultCapacity = capacity
	return b
}

// WithCapacity sets the frame count of one policy.
func (b Builder) WithCapacity(policy string, capacity int) Builder {
	capacities := make(map[string]int, len(b.capacities)+1)
	for k, v := range b.capacities {
		capacities[k] = v
	}

	capacities[policy] = capacity
	b.capacities = capacities

	return b
}

// WithDataRecorder records a summary row for every run into recorder.
func (b Builder) WithDataRecorder(recorder datarecording.DataRecorder) Builder {
	b.dataRecorder = recorder
	return b
}

// WithEventRecording also records every policy event. It requires a data
// recorder.
func (b Builder) WithEventRecording() Builder {
	b.recordEvents = true
	return b
}

// WithMonitor reports progress and results to monitor.
func (b Builder) WithMonitor(monitor *monitoring.Monitor) Builder {
	b.monitor = monitor
	return b
}

// WithTracePath sets the trace path stored with recorded runs.
func (b Builder) WithTracePath(path string) Builder {
	b.tracePath = path
	return b
}

func (b Builder) parametersMustBeValid() {
	if b.recordEvents && b.dataRecorder == nil {
		panic("event recording requires a data recorder")
	}
}

// Build builds the simulation. It fails on unknown policy names, on policies
// listed twice and on non-positive capacities.
func (b Builder) Build() (*Simulation, error) {
	b.parametersMustBeValid()

	if len(b.policies) == 0 {
		return nil, fmt.Errorf("no policy to run")
	}

	capacities, err := b.canonicalCapacities()
	if err != nil {
		return nil, err
	}

	s := &Simulation{
		id:           xid.New().String(),
		dataRecorder: b.dataRecorder,
		monitor:      b.monitor,
		tracePath:    b.tracePath,
	}

	seen := make(map[string]bool)
	for _, name := range b.policies {
		canonical, err := replacement.Canonical(name)
		if err != nil {
			return nil, err
		}

		if seen[canonical] {
			return nil, fmt.Errorf("policy %s is listed twice", canonical)
		}
		seen[canonical] = true

		capacity := b.capacityFor(canonical, capacities)
		if capacity <= 0 {
			return nil, fmt.Errorf("%s: %w, got %d",
				canonical, replacement.ErrInvalidCapacity, capacity)
		}

		s.policies = append(s.policies, PolicySpec{
			Name:     canonical,
			Capacity: capacity,
		})
	}

	if b.dataRecorder != nil {
		s.execRecorder = datarecording.NewExecRecorder(b.dataRecorder)
		s.execRecorder.Start()
		s.runRecorder = tracing.NewRunRecorder(b.dataRecorder, b.recordEvents)
	}

	return s, nil
}

func (b Builder) canonicalCapacities() (map[string]int, error) {
	capacities := make(map[string]int, len(b.capacities))
	for name, capacity := range b.capacities {
		canonical, err := replacement.Canonical(name)
		if err != nil {
			return nil, err
		}

		capacities[canonical] = capacity
	}

	return capacities, nil
}

func (b Builder) capacityFor(policy string, capacities map[string]int) int {
	if capacity, ok := capacities[policy]; ok {
		return capacity
	}

	if b.defaultCapacity != 0 {
		return b.defaultCapacity
	}

	return replacement.DefaultCapacity(policy)
}
