package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/cpu"
)

var _ = Describe("Registers", func() {
	var regs *cpu.Registers

	BeforeEach(func() {
		regs = cpu.NewRegisters()
	})

	It("should start in supervisor mode", func() {
		Expect(regs.GetMode()).To(Equal(uint8(cpu.SVCMode)))
		Expect(regs.Width()).To(Equal(uint32(32)))
	})

	It("should truncate values to 32 bits", func() {
		regs.SetReg(cpu.Reg(3), 0x1_2345_6789)
		Expect(regs.GetReg(cpu.Reg(3))).To(Equal(uint64(0x2345_6789)))
	})

	It("should bank SP per mode", func() {
		regs.SetReg(cpu.Reg(13), 0x100)
		regs.SetMode(cpu.IRQMode)
		Expect(regs.GetReg(cpu.Reg(13))).To(Equal(uint64(0)))
		regs.SetReg(cpu.Reg(13), 0x200)

		regs.SetMode(cpu.SVCMode)
		Expect(regs.GetReg(cpu.Reg(13))).To(Equal(uint64(0x100)))
	})

	It("should bank R8-R12 in FIQ mode only", func() {
		regs.SetReg(cpu.Reg(8), 1)
		regs.SetReg(cpu.Reg(7), 2)
		regs.SetMode(cpu.FIQMode)

		Expect(regs.GetReg(cpu.Reg(8))).To(Equal(uint64(0)))
		Expect(regs.GetReg(cpu.Reg(7))).To(Equal(uint64(2)))
	})

	It("should share the user bank with system mode", func() {
		regs.SetMode(cpu.USRMode)
		regs.SetReg(cpu.Reg(14), 0xAB)
		regs.SetMode(cpu.SYSMode)
		Expect(regs.GetReg(cpu.Reg(14))).To(Equal(uint64(0xAB)))
	})

	It("should panic on ids outside r0-r15", func() {
		Expect(func() { regs.GetReg(arm.RegisterInvalid) }).To(Panic())
		Expect(func() { regs.SetReg(arm.Register(17), 0) }).To(Panic())
	})

	It("should keep flags in CPSR", func() {
		regs.SetFlagC(true)
		Expect(regs.GetFlagC()).To(BeTrue())
		Expect(regs.CPSR & (1 << 29)).NotTo(BeZero())
		regs.SetFlagC(false)
		Expect(regs.GetFlagC()).To(BeFalse())
	})

	DescribeTable("condition codes",
		func(cond cpu.ARMCondition, n, z, c, v, want bool) {
			regs.SetFlagN(n)
			regs.SetFlagZ(z)
			regs.SetFlagC(c)
			regs.SetFlagV(v)
			Expect(regs.ConditionPassed(cond)).To(Equal(want))
		},
		Entry("EQ with Z", cpu.EQ, false, true, false, false, true),
		Entry("NE with Z", cpu.NE, false, true, false, false, false),
		Entry("HI with C and !Z", cpu.HI, false, false, true, false, true),
		Entry("LS with Z", cpu.LS, false, true, true, false, true),
		Entry("GE with N==V", cpu.GE, true, false, false, true, true),
		Entry("LT with N!=V", cpu.LT, true, false, false, false, true),
		Entry("GT with Z", cpu.GT, false, true, false, false, false),
		Entry("LE with Z", cpu.LE, false, true, false, false, true),
		Entry("AL", cpu.AL, false, false, false, false, true),
		Entry("NV", cpu.NV, true, true, true, true, false),
	)

	It("should print the register file", func() {
		regs.SetReg(cpu.Reg(15), 0x8000)
		Expect(regs.String()).To(ContainSubstring("PC =00008000"))
		Expect(regs.String()).To(ContainSubstring("SVC"))
	})
})
