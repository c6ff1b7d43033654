package cpu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/cpu"
)

var _ = Describe("DecodeInstruction_Arm", func() {
	Describe("data processing operand2", func() {
		It("should record an immediate shift", func() {
			// add r0, r1, r2, lsl #3
			inst, err := cpu.DecodeInstruction_Arm(0xE0810182)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITDataProcessing))
			Expect(inst.OpcodeDP).To(Equal(cpu.ADD))
			Expect(inst.Rn).To(Equal(uint8(1)))
			Expect(inst.Rd).To(Equal(uint8(0)))
			Expect(inst.Rm).To(Equal(uint8(2)))

			Expect(inst.Operand2.ShiftType()).To(Equal(arm.ShiftLSL))
			imm, ok := inst.Operand2.ShiftImmediate()
			Expect(ok).To(BeTrue())
			Expect(imm).To(Equal(uint32(3)))
			Expect(inst.Operand2.IsSubtracted()).To(BeFalse())
		})

		It("should store LSL #0 as no shift", func() {
			// mov r0, r1
			inst, err := cpu.DecodeInstruction_Arm(0xE1A00001)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Operand2).To(Equal(arm.NewOperandProperties()))
		})

		DescribeTable("shift by 32 encodings",
			func(word uint32, shiftType arm.ShiftType) {
				inst, err := cpu.DecodeInstruction_Arm(word)
				Expect(err).NotTo(HaveOccurred())
				Expect(inst.Operand2.ShiftType()).To(Equal(shiftType))
				imm, ok := inst.Operand2.ShiftImmediate()
				Expect(ok).To(BeTrue())
				Expect(imm).To(Equal(uint32(32)))
			},
			// mov r0, r1, lsr #32
			Entry("LSR #0", uint32(0xE1A00021), arm.ShiftLSR),
			// mov r0, r1, asr #32
			Entry("ASR #0", uint32(0xE1A00041), arm.ShiftASR),
		)

		It("should decode ROR #0 as RRX without an amount", func() {
			// mov r0, r1, rrx
			inst, err := cpu.DecodeInstruction_Arm(0xE1A00061)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Operand2.ShiftType()).To(Equal(arm.ShiftRRX))
			Expect(inst.Operand2.ShiftValue().IsNone()).To(BeTrue())
			Expect(inst.Disassemble()).To(Equal("MOV r0, r1, RRX"))
		})

		It("should record a register shift", func() {
			// mov r0, r1, lsl r2
			inst, err := cpu.DecodeInstruction_Arm(0xE1A00211)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Operand2.ShiftType()).To(Equal(arm.ShiftLSL))

			_, ok := inst.Operand2.ShiftImmediate()
			Expect(ok).To(BeFalse())
			reg, ok := inst.Operand2.ShiftRegister()
			Expect(ok).To(BeTrue())
			Expect(reg).To(Equal(cpu.Reg(2)))
			Expect(inst.Disassemble()).To(Equal("MOV r0, r1, LSL r2"))
		})

		It("should reject a register shift with bit 7 set", func() {
			_, err := cpu.DecodeInstruction_Arm(0xE1A00291)
			Expect(err).To(MatchError(cpu.ErrUndefinedInstruction))
		})

		It("should rotate the immediate operand", func() {
			// add r0, r1, #0xFF000000
			inst, err := cpu.DecodeInstruction_Arm(0xE28104FF)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.I).To(BeTrue())
			Expect(inst.Immediate).To(Equal(uint32(0xFF000000)))
			Expect(inst.Operand2).To(Equal(arm.NewOperandProperties()))
		})

		It("should carry the condition into the mnemonic", func() {
			// cmpne r0, #1
			inst, err := cpu.DecodeInstruction_Arm(0x13500001)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Cond).To(Equal(cpu.NE))
			Expect(inst.Disassemble()).To(Equal("CMPNE r0, #1"))
		})

		It("should recognise MRS", func() {
			// mrs r0, cpsr
			inst, err := cpu.DecodeInstruction_Arm(0xE10F0000)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITTransferMRS))
			Expect(inst.SPSR).To(BeFalse())
			Expect(inst.Disassemble()).To(Equal("MRS r0, CPSR"))
		})

		It("should name SPSR when bit 22 is set", func() {
			// mrs r3, spsr
			inst, err := cpu.DecodeInstruction_Arm(0xE14F3000)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITTransferMRS))
			Expect(inst.SPSR).To(BeTrue())
			Expect(inst.Disassemble()).To(Equal("MRS r3, SPSR"))
		})
	})

	Describe("single data transfer", func() {
		It("should mark a down register offset as subtracted", func() {
			// ldr r0, [r1, -r2, lsl #2]
			inst, err := cpu.DecodeInstruction_Arm(0xE7110102)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITLoadStore))
			Expect(inst.L).To(BeTrue())
			Expect(inst.Operand2.IsSubtracted()).To(BeTrue())
			Expect(inst.Operand2.ShiftType()).To(Equal(arm.ShiftLSL))
			Expect(inst.Disassemble()).To(Equal("LDR r0, [r1, -r2, LSL #2]"))
		})

		It("should mark a down immediate offset as subtracted", func() {
			// ldr r0, [r1, #-8]
			inst, err := cpu.DecodeInstruction_Arm(0xE5110008)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Offset).To(Equal(uint32(8)))
			Expect(inst.Operand2.IsSubtracted()).To(BeTrue())
			Expect(inst.Disassemble()).To(Equal("LDR r0, [r1, #-8]"))
		})

		It("should reject a register-shifted offset", func() {
			_, err := cpu.DecodeInstruction_Arm(0xE6000010)
			Expect(err).To(MatchError(cpu.ErrUndefinedInstruction))
		})
	})

	Describe("halfword transfer", func() {
		It("should decode a down immediate STRH", func() {
			// strh r0, [r1, #-4]
			inst, err := cpu.DecodeInstruction_Arm(0xE14100B4)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITHalfwordTransfer))
			Expect(inst.H).To(BeTrue())
			Expect(inst.Offset).To(Equal(uint32(4)))
			Expect(inst.Operand2.IsSubtracted()).To(BeTrue())
			Expect(inst.Disassemble()).To(Equal("STRH r0, [r1, #-4]"))
		})

		It("should decode a post-indexed LDRSB", func() {
			// ldrsb r0, [r1], r2
			inst, err := cpu.DecodeInstruction_Arm(0xE09100D2)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Signed).To(BeTrue())
			Expect(inst.H).To(BeFalse())
			Expect(inst.Operand2.IsSubtracted()).To(BeFalse())
			Expect(inst.Disassemble()).To(Equal("LDRSB r0, [r1], r2"))
		})
	})

	Describe("other classes", func() {
		It("should decode MULS", func() {
			// muls r0, r1, r2
			inst, err := cpu.DecodeInstruction_Arm(0xE0100291)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITMultiply))
			Expect(inst.Disassemble()).To(Equal("MULS r0, r1, r2"))
		})

		It("should name long multiplies", func() {
			// umull r1, r2, r1, r0
			inst, err := cpu.DecodeInstruction_Arm(0xE0821091)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Long).To(BeTrue())
			Expect(inst.Mnemonic()).To(Equal("UMULL"))

			// smlal r1, r2, r1, r0
			inst, err = cpu.DecodeInstruction_Arm(0xE0E21091)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Mnemonic()).To(Equal("SMLAL"))
		})

		It("should sign extend a branch offset", func() {
			// b .
			inst, err := cpu.DecodeInstruction_Arm(0xEAFFFFFE)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Type).To(Equal(cpu.ARMITBranch))
			Expect(inst.OffsetBranch).To(Equal(int32(-8)))
		})

		It("should decode BX", func() {
			// bx lr
			inst, err := cpu.DecodeInstruction_Arm(0xE12FFF1E)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Exchange).To(BeTrue())
			Expect(inst.Disassemble()).To(Equal("BX lr"))
		})

		It("should decode SWI", func() {
			inst, err := cpu.DecodeInstruction_Arm(0xEF123456)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.SWIComment).To(Equal(uint32(0x123456)))
		})

		It("should reject coprocessor instructions", func() {
			_, err := cpu.DecodeInstruction_Arm(0xEE000000)
			Expect(err).To(MatchError(cpu.ErrUndefinedInstruction))
		})
	})
})

var _ = Describe("Decoder", func() {
	It("should implement the decoder contract", func() {
		d := cpu.NewDecoder()
		inst, err := d.Decode(0xE0810182)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Disassemble()).To(Equal("ADD r0, r1, r2, LSL #3"))

		ops := inst.DecoratedOperands()
		Expect(ops).To(HaveLen(3))
		Expect(ops[2].Reg).To(Equal(cpu.Reg(2)))
		Expect(ops[2].Props.ShiftType()).To(Equal(arm.ShiftLSL))
	})

	It("should return no instruction on error", func() {
		inst, err := cpu.NewDecoder().Decode(0xEE000000)
		Expect(err).To(HaveOccurred())
		Expect(inst).To(BeNil())
	})

	DescribeTable("register names",
		func(n uint8, name string) {
			Expect(cpu.NewDecoder().RegisterName(cpu.Reg(n))).To(Equal(name))
			back, ok := cpu.RegNum(cpu.Reg(n))
			Expect(ok).To(BeTrue())
			Expect(back).To(Equal(n))
		},
		Entry("r0", uint8(0), "r0"),
		Entry("r12", uint8(12), "r12"),
		Entry("sp", uint8(13), "sp"),
		Entry("lr", uint8(14), "lr"),
		Entry("pc", uint8(15), "pc"),
	)

	It("should not name ids outside r0-r15", func() {
		_, ok := cpu.RegNum(arm.RegisterInvalid)
		Expect(ok).To(BeFalse())
		Expect(cpu.RegisterName(arm.Register(40))).To(Equal("reg40"))
	})
})
