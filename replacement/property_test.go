package replacement

import (
	"math/rand"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/pagesim/trace"
)

func randomSequence(seed int64, length, pages int) trace.Sequence {
	rng := rand.New(rand.NewSource(seed))
	seq := make(trace.Sequence, 0, length)

	for i := 0; i < length; i++ {
		kind := trace.Read
		if rng.Intn(3) == 0 {
			kind = trace.Write
		}

		seq = append(seq, trace.NewReference(rng.Intn(pages), kind))
	}

	return seq
}

var _ = Describe("Policy properties", func() {
	var refs trace.Sequence

	BeforeEach(func() {
		refs = randomSequence(42, 300, 12)
	})

	DescribeTable("should never lose faults when the trace is extended",
		func(name string, capacity int) {
			prev := 0
			for n := 0; n <= len(refs); n += 15 {
				p, err := New(name, capacity)
				Expect(err).ToNot(HaveOccurred())

				faults := Run(p, refs.Prefix(n)).Faults

				Expect(faults).To(BeNumerically(">=", prev))
				prev = faults
			}
		},
		Entry("fifo", NameFIFO, 4),
		Entry("lru", NameLRU, 4),
		Entry("second chance", NameSecondChance, 4),
		Entry("enhanced second chance", NameEnhancedSecondChance, 4),
	)

	DescribeTable("should stay within the fault bounds",
		func(name string, capacity int) {
			p, err := New(name, capacity)
			Expect(err).ToNot(HaveOccurred())

			r := Run(p, refs)

			Expect(r.References).To(Equal(len(refs)))
			Expect(r.Faults).To(BeNumerically("<=", len(refs)))
			Expect(r.Faults).To(BeNumerically(">=", refs.DistinctPages()))
			Expect(r.DiskWrites).To(BeNumerically("<=", r.Faults))
			Expect(len(p.Resident())).To(BeNumerically("<=", capacity))
		},
		Entry("fifo", NameFIFO, 5),
		Entry("lru", NameLRU, 5),
		Entry("second chance", NameSecondChance, 5),
		Entry("enhanced second chance", NameEnhancedSecondChance, 5),
		Entry("enhanced second chance, single frame", NameEnhancedSecondChance, 1),
	)

	DescribeTable("should fault exactly once per page on a cold start",
		func(name string) {
			p, err := New(name, 8)
			Expect(err).ToNot(HaveOccurred())

			r := Run(p, trace.Writes(10, 11, 12, 13, 14))

			Expect(r.Faults).To(Equal(5))
			Expect(r.DiskWrites).To(Equal(0))
		},
		Entry("fifo", NameFIFO),
		Entry("lru", NameLRU),
		Entry("second chance", NameSecondChance),
		Entry("enhanced second chance", NameEnhancedSecondChance),
	)

	DescribeTable("should not fault on repeated references to a resident page",
		func(name string) {
			p, err := New(name, 2)
			Expect(err).ToNot(HaveOccurred())

			Run(p, trace.Sequence{
				trace.NewReference(3, trace.Read),
				trace.NewReference(3, trace.Write),
				trace.NewReference(3, trace.Read),
				trace.NewReference(3, trace.Read),
			})

			Expect(p.Stats().Faults).To(Equal(1))
		},
		Entry("fifo", NameFIFO),
		Entry("lru", NameLRU),
		Entry("second chance", NameSecondChance),
		Entry("enhanced second chance", NameEnhancedSecondChance),
	)

	DescribeTable("should be deterministic",
		func(name string) {
			first, _ := New(name, 3)
			second, _ := New(name, 3)

			Expect(Run(first, refs)).To(Equal(Run(second, refs)))
			Expect(first.Resident()).To(Equal(second.Resident()))
		},
		Entry("fifo", NameFIFO),
		Entry("lru", NameLRU),
		Entry("second chance", NameSecondChance),
		Entry("enhanced second chance", NameEnhancedSecondChance),
	)

	It("should never hold the same page twice", func() {
		for _, name := range Names() {
			p, _ := New(name, 4)

			for _, ref := range refs {
				p.Access(ref)

				resident := p.Resident()
				seen := map[int]bool{}
				for _, page := range resident {
					Expect(seen[page]).To(BeFalse(), "%s holds %d twice", name, page)
					seen[page] = true
				}
			}
		}
	})
})
