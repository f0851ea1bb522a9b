package report_test

import (
	"bytes"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/replacement"
	"github.com/sarchlab/pagesim/report"
)

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

var _ = Describe("Reporter", func() {
	It("should print faults with a two-decimal rate", func() {
		buf := &bytes.Buffer{}

		err := report.NewReporter(buf).Report([]replacement.Result{
			{Policy: replacement.NameFIFO, References: 3, Faults: 2},
			{Policy: replacement.NameLRU, References: 10, Faults: 8},
		})

		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"Num FIFO faults: 2 (66.67% of references)\n" +
				"Num LRU faults: 8 (80.00% of references)\n"))
	})

	It("should print disk writes first for write-tracking policies", func() {
		buf := &bytes.Buffer{}

		err := report.NewReporter(buf).Report([]replacement.Result{{
			Policy:       replacement.NameEnhancedSecondChance,
			References:   2,
			Faults:       2,
			DiskWrites:   1,
			TracksWrites: true,
		}})

		Expect(err).ToNot(HaveOccurred())
		Expect(buf.String()).To(Equal(
			"Disk writes: 1\n" +
				"Num Enhanced Second Chance faults: 2 (100.00% of references)\n"))
	})

	It("should return write errors", func() {
		err := report.NewReporter(failingWriter{}).Report([]replacement.Result{
			{Policy: replacement.NameSecondChance, References: 1, Faults: 1},
		})

		Expect(err).To(HaveOccurred())
	})
})
