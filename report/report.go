// Package report prints the results of a simulation.
package report

import (
	"fmt"
	"io"

	"github.com/sarchlab/pagesim/replacement"
)

// A Reporter writes one block per result.
type Reporter struct {
	w io.Writer
}

// NewReporter creates a Reporter writing to w.
func NewReporter(w io.Writer) *Reporter {
	return &Reporter{w: w}
}

// Report writes results in order. Policies that track writes print their disk
// writes before their faults.
func (r *Reporter) Report(results []replacement.Result) error {
	for _, result := range results {
		if err := r.reportOne(result); err != nil {
			return err
		}
	}

	return nil
}

func (r *Reporter) reportOne(result replacement.Result) error {
	if result.TracksWrites {
		if _, err := fmt.Fprintf(r.w, "Disk writes: %d\n", result.DiskWrites); err != nil {
			return err
		}
	}

	_, err := fmt.Fprintf(r.w, "Num %s faults: %d (%.2f%% of references)\n",
		replacement.DisplayName(result.Policy),
		result.Faults,
		result.FaultRate())

	return err
}
