package trace

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("PageReference", func() {
	It("should parse access kinds", func() {
		Expect(ParseAccessKind("r")).To(Equal(Read))
		Expect(ParseAccessKind("w")).To(Equal(Write))

		_, err := ParseAccessKind("x")
		Expect(err).To(HaveOccurred())

		_, err = ParseAccessKind("R")
		Expect(err).To(HaveOccurred())

		_, err = ParseAccessKind("W")
		Expect(err).To(HaveOccurred())

		_, err = ParseAccessKind("rw")
		Expect(err).To(HaveOccurred())
	})

	It("should expose page and kind", func() {
		ref := NewReference(12, Write)

		Expect(ref.Page()).To(Equal(12))
		Expect(ref.Kind()).To(Equal(Write))
		Expect(ref.IsWrite()).To(BeTrue())
		Expect(ref.String()).To(Equal("12 w"))
	})

	It("should build sequences in order", func() {
		seq := append(Reads(1, 2), Writes(3)...)

		Expect(seq).To(HaveLen(3))
		Expect(seq[0]).To(Equal(NewReference(1, Read)))
		Expect(seq[2]).To(Equal(NewReference(3, Write)))
	})

	It("should take prefixes", func() {
		seq := Reads(1, 2, 3)

		Expect(seq.Prefix(2)).To(Equal(Reads(1, 2)))
		Expect(seq.Prefix(10)).To(Equal(seq))
		Expect(seq.Prefix(-1)).To(BeEmpty())
	})

	It("should count distinct pages", func() {
		Expect(Reads(1, 2, 1, 3, 2).DistinctPages()).To(Equal(3))
	})
})
