package replacement

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/trace"
)

var _ = Describe("FIFO", func() {
	It("should fault on every reference of a cycle one page too long", func() {
		Expect(RunFIFO(trace.Reads(1, 2, 3, 1, 2, 3), 2)).To(Equal(6))
	})

	It("should not reorder on hits", func() {
		p := NewFIFO(2)

		Run(p, trace.Reads(1, 2, 1, 3))

		Expect(p.Stats().Faults).To(Equal(3))
		Expect(p.Resident()).To(Equal([]int{3, 2}))
	})

	It("should report the evicted page", func() {
		p := NewFIFO(1)
		p.Access(trace.NewReference(1, trace.Read))

		res := p.Access(trace.NewReference(2, trace.Write))

		Expect(res.Hit).To(BeFalse())
		Expect(res.Frame).To(Equal(0))
		Expect(res.Evicted).To(Equal(OccupiedSlot(1)))
		Expect(res.WroteBack).To(BeFalse())
	})

	It("should show Belady's anomaly", func() {
		refs := trace.Reads(1, 2, 3, 4, 1, 2, 5, 1, 2, 3, 4, 5)

		Expect(RunFIFO(refs, 3)).To(Equal(9))
		Expect(RunFIFO(refs, 4)).To(Equal(10))
	})

	It("should never count disk writes", func() {
		r := Run(NewFIFO(1), trace.Writes(1, 2, 3))

		Expect(r.DiskWrites).To(Equal(0))
		Expect(r.TracksWrites).To(BeFalse())
	})
})
