package arm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"GoArmOps/internal/arm"
)

var _ = Describe("Arrangement lookups", func() {
	DescribeTable("name, size and lanes",
		func(a arm.Arrangement, name string, size, lanes, laneBits uint32) {
			gotName, err := arm.ArrangementName(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotName).To(Equal(name))

			gotSize, err := arm.ArrangementSize(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotSize).To(Equal(size))

			gotLanes, err := arm.ArrangementLanes(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotLanes).To(Equal(lanes))

			gotLaneBits, err := arm.ArrangementLaneBits(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotLaneBits).To(Equal(laneBits))

			Expect(a.String()).To(Equal(name))
		},
		Entry("8B", arm.Arrangement8B, "8B", uint32(64), uint32(8), uint32(8)),
		Entry("16B", arm.Arrangement16B, "16B", uint32(128), uint32(16), uint32(8)),
		Entry("4H", arm.Arrangement4H, "4H", uint32(64), uint32(4), uint32(16)),
		Entry("8H", arm.Arrangement8H, "8H", uint32(128), uint32(8), uint32(16)),
		Entry("2S", arm.Arrangement2S, "2S", uint32(64), uint32(2), uint32(32)),
		Entry("4S", arm.Arrangement4S, "4S", uint32(128), uint32(4), uint32(32)),
		Entry("1D", arm.Arrangement1D, "1D", uint32(64), uint32(1), uint32(64)),
		Entry("2D", arm.Arrangement2D, "2D", uint32(128), uint32(2), uint32(64)),
		Entry("1Q", arm.Arrangement1Q, "1Q", uint32(128), uint32(1), uint32(128)),
	)

	It("should map every defined arrangement to 64 or 128 bits and a name", func() {
		all := arm.Arrangements()
		Expect(all).To(HaveLen(9))
		for _, a := range all {
			size, err := arm.ArrangementSize(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(size).To(BeElementOf(uint32(64), uint32(128)))

			name, err := arm.ArrangementName(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(name).NotTo(BeEmpty())
		}
	})

	It("should not list ArrangementNone", func() {
		Expect(arm.Arrangements()).NotTo(ContainElement(arm.ArrangementNone))
	})

	DescribeTable("unknown arrangements",
		func(a arm.Arrangement) {
			_, err := arm.ArrangementName(a)
			Expect(err).To(MatchError(arm.ErrUnknownArrangement))
			_, err = arm.ArrangementSize(a)
			Expect(err).To(MatchError(arm.ErrUnknownArrangement))
			_, err = arm.ArrangementLanes(a)
			Expect(err).To(MatchError(arm.ErrUnknownArrangement))
		},
		Entry("none", arm.ArrangementNone),
		Entry("past the table", arm.Arrangement(10)),
		Entry("max", arm.Arrangement(255)),
	)

	Describe("ArrangementFor", func() {
		It("should find 4S from 32-bit lanes in 128 bits", func() {
			a, err := arm.ArrangementFor(32, 128)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(arm.Arrangement4S))
		})

		It("should find 1D and 1Q", func() {
			a, err := arm.ArrangementFor(64, 64)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(arm.Arrangement1D))

			a, err = arm.ArrangementFor(128, 128)
			Expect(err).NotTo(HaveOccurred())
			Expect(a).To(Equal(arm.Arrangement1Q))
		})

		It("should invert every table entry", func() {
			for _, a := range arm.Arrangements() {
				size, _ := arm.ArrangementSize(a)
				laneBits, _ := arm.ArrangementLaneBits(a)
				got, err := arm.ArrangementFor(laneBits, size)
				Expect(err).NotTo(HaveOccurred())
				Expect(got).To(Equal(a))
			}
		})

		It("should reject 64-bit lanes in a 32-bit vector", func() {
			_, err := arm.ArrangementFor(64, 32)
			Expect(err).To(MatchError(arm.ErrUnknownArrangement))
		})
	})

	It("should print none for ArrangementNone", func() {
		Expect(arm.ArrangementNone.String()).To(Equal("none"))
	})
})

var _ = Describe("Shift and extend kinds", func() {
	DescribeTable("shift mnemonics",
		func(s arm.ShiftType, name string) {
			Expect(s.String()).To(Equal(name))
		},
		Entry("none", arm.ShiftNone, ""),
		Entry("LSL", arm.ShiftLSL, "LSL"),
		Entry("LSR", arm.ShiftLSR, "LSR"),
		Entry("ASR", arm.ShiftASR, "ASR"),
		Entry("ROR", arm.ShiftROR, "ROR"),
		Entry("RRX", arm.ShiftRRX, "RRX"),
		Entry("MSL", arm.ShiftMSL, "MSL"),
		Entry("unknown", arm.ShiftType(99), "ShiftType(99)"),
	)

	DescribeTable("extend descriptions",
		func(e arm.ExtendType, name string, bits uint32, signed bool) {
			Expect(e.String()).To(Equal(name))
			Expect(e.SourceBits()).To(Equal(bits))
			Expect(e.Signed()).To(Equal(signed))
		},
		Entry("none", arm.ExtendNone, "", uint32(0), false),
		Entry("UXTB", arm.ExtendUXTB, "UXTB", uint32(8), false),
		Entry("UXTH", arm.ExtendUXTH, "UXTH", uint32(16), false),
		Entry("UXTW", arm.ExtendUXTW, "UXTW", uint32(32), false),
		Entry("UXTX", arm.ExtendUXTX, "UXTX", uint32(64), false),
		Entry("SXTB", arm.ExtendSXTB, "SXTB", uint32(8), true),
		Entry("SXTH", arm.ExtendSXTH, "SXTH", uint32(16), true),
		Entry("SXTW", arm.ExtendSXTW, "SXTW", uint32(32), true),
		Entry("SXTX", arm.ExtendSXTX, "SXTX", uint32(64), true),
		Entry("unknown", arm.ExtendType(42), "ExtendType(42)", uint32(0), false),
	)

	It("should print shift amounts", func() {
		Expect(arm.ShiftByImmediate(4).String()).To(Equal("#4"))
		Expect(arm.ShiftByRegister(arm.Register(2)).String()).To(Equal("reg2"))
		Expect(arm.ShiftValue{}.String()).To(BeEmpty())
	})
})
