package goasm_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/twitchyliquid64/golang-asm/obj/arm64"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/goasm"
)

var _ = Describe("arrangement codes", func() {
	DescribeTable("ToGoAsm",
		func(a arm.Arrangement, code int) {
			got, err := goasm.ToGoAsm(a)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(code))
		},
		Entry("8B", arm.Arrangement8B, arm64.ARNG_8B),
		Entry("16B", arm.Arrangement16B, arm64.ARNG_16B),
		Entry("4H", arm.Arrangement4H, arm64.ARNG_4H),
		Entry("8H", arm.Arrangement8H, arm64.ARNG_8H),
		Entry("2S", arm.Arrangement2S, arm64.ARNG_2S),
		Entry("4S", arm.Arrangement4S, arm64.ARNG_4S),
		Entry("1D", arm.Arrangement1D, arm64.ARNG_1D),
		Entry("2D", arm.Arrangement2D, arm64.ARNG_2D),
		Entry("1Q", arm.Arrangement1Q, arm64.ARNG_1Q),
	)

	It("should map every arrangement both ways", func() {
		for _, a := range arm.Arrangements() {
			code, err := goasm.ToGoAsm(a)
			Expect(err).NotTo(HaveOccurred())
			back, err := goasm.FromGoAsm(code)
			Expect(err).NotTo(HaveOccurred())
			Expect(back).To(Equal(a))
		}
	})

	It("should reject the absent arrangement", func() {
		_, err := goasm.ToGoAsm(arm.ArrangementNone)
		Expect(err).To(MatchError(arm.ErrUnknownArrangement))
	})

	It("should reject element codes", func() {
		a, err := goasm.FromGoAsm(arm64.ARNG_S)
		Expect(err).To(MatchError(arm.ErrUnknownArrangement))
		Expect(a).To(Equal(arm.ArrangementNone))
	})
})

var _ = Describe("VectorRegister", func() {
	It("should encode a whole vector as REG_ARNG", func() {
		props := arm.NewOperandProperties()
		props.SetVASType(arm.Arrangement4S)

		reg, index, err := goasm.VectorRegister(3, props)
		Expect(err).NotTo(HaveOccurred())
		Expect(reg).To(Equal(int16(arm64.REG_ARNG + (arm64.ARNG_4S&15)<<5 + 3)))
		Expect(index).To(BeZero())
	})

	It("should encode a lane as REG_ELEM with its index", func() {
		props := arm.NewOperandProperties()
		props.SetVASType(arm.Arrangement8H)
		props.SetVectorIndex(5)

		reg, index, err := goasm.VectorRegister(31, props)
		Expect(err).NotTo(HaveOccurred())
		Expect(reg).To(Equal(int16(arm64.REG_ELEM + (arm64.ARNG_H&15)<<5 + 31)))
		Expect(index).To(Equal(int16(5)))
	})

	It("should fail without an arrangement", func() {
		_, _, err := goasm.VectorRegister(0, arm.NewOperandProperties())
		Expect(err).To(MatchError(arm.ErrUnknownArrangement))
	})
})
