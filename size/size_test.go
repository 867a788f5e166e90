package size_test

import (
	. "github.com/parasolnet/netcore/size"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Constants", func() {
	It("are powers of 1024 relative to each other", func() {
		Expect(SizeNul).To(Equal(Size(0)))
		Expect(SizeUnit).To(Equal(Size(1)))
		Expect(SizeKilo).To(Equal(Size(1024)))
		Expect(SizeMega).To(Equal(SizeKilo * 1024))
		Expect(SizeGiga).To(Equal(SizeMega * 1024))
		Expect(SizeTera).To(Equal(SizeGiga * 1024))
		Expect(SizePeta).To(Equal(SizeTera * 1024))
		Expect(SizeExa).To(Equal(SizePeta * 1024))
	})
})

var _ = Describe("String", func() {
	It("renders plain bytes below one kilobyte", func() {
		Expect(Size(512).String()).To(Equal("512 B"))
	})

	It("renders the largest unit that keeps the value >= 1", func() {
		Expect(Size(5 * 1024).String()).To(Equal("5.00 KB"))
		Expect((3 * SizeMega).String()).To(Equal("3.00 MB"))
		Expect((2 * SizeGiga).String()).To(Equal("2.00 GB"))
	})
})

var _ = Describe("Unit helpers", func() {
	It("truncate toward the named unit", func() {
		Expect((5*SizeKilo + 500).KiloBytes()).To(Equal(uint64(5)))
		Expect((2 * SizeMega).MegaBytes()).To(Equal(uint64(2)))
		Expect((1 * SizeGiga).GigaBytes()).To(Equal(uint64(1)))
	})
})

var _ = Describe("Mul/Div", func() {
	It("Mul scales in place, rounding up", func() {
		s := Size(100)
		s.Mul(1.5)
		Expect(s).To(Equal(Size(150)))
	})

	It("Div scales in place, rounding up", func() {
		s := Size(100)
		s.Div(3)
		Expect(s).To(Equal(Size(34)))
	})

	It("Div by zero leaves the value unchanged", func() {
		s := Size(100)
		s.Div(0)
		Expect(s).To(Equal(Size(100)))
	})
})

var _ = Describe("Parse", func() {
	It("parses a bare number as bytes", func() {
		v, err := Parse("1024")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(SizeKilo))
	})

	It("parses a unit suffix", func() {
		v, err := Parse("5MB")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(5 * SizeMega))
	})

	It("parses fractional values", func() {
		v, err := Parse("1.5G")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(Size(1.5 * float64(SizeGiga))))
	})

	It("tolerates surrounding whitespace and lowercase units", func() {
		v, err := Parse(" 2 gb ")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(2 * SizeGiga))
	})

	It("rejects an empty string", func() {
		_, err := Parse("")
		Expect(err).To(HaveOccurred())
	})

	It("rejects an unknown unit", func() {
		_, err := Parse("10QB")
		Expect(err).To(HaveOccurred())
	})

	It("ParseSize is an alias of Parse", func() {
		v, err := ParseSize("1KB")
		Expect(err).ToNot(HaveOccurred())
		Expect(v).To(Equal(SizeKilo))
	})
})

var _ = Describe("Text and JSON encoding", func() {
	It("round-trips through MarshalText/UnmarshalText", func() {
		s := 3 * SizeMega
		b, err := s.MarshalText()
		Expect(err).ToNot(HaveOccurred())

		var out Size
		Expect(out.UnmarshalText(b)).To(Succeed())
		Expect(out).To(Equal(s))
	})

	It("marshals to a quoted human-readable JSON string", func() {
		s := 2 * SizeGiga
		b, err := s.MarshalJSON()
		Expect(err).ToNot(HaveOccurred())
		Expect(string(b)).To(Equal(`"2.00 GB"`))
	})

	It("unmarshals a quoted JSON string", func() {
		var out Size
		Expect(out.UnmarshalJSON([]byte(`"5MB"`))).To(Succeed())
		Expect(out).To(Equal(5 * SizeMega))
	})

	It("unmarshals a bare numeric JSON value", func() {
		var out Size
		Expect(out.UnmarshalJSON([]byte(`1048576`))).To(Succeed())
		Expect(out).To(Equal(SizeMega))
	})
})
