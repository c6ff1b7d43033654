package thumb_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/cpu"
	"GoArmOps/internal/lift"
	"GoArmOps/internal/thumb"
)

var _ = Describe("DecodeInstruction", func() {
	DescribeTable("disassembly",
		func(word uint32, want string) {
			inst, err := thumb.DecodeInstruction(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Disassemble()).To(Equal(want))
		},
		Entry(nil, uint32(0xA008), "ADR r0, #32"),

		Entry(nil, uint32(0xE891003C), "LDM r1, {r2, r3, r4, r5}"),
		Entry(nil, uint32(0xC93C), "LDM r1!, {r2, r3, r4, r5}"),
		Entry(nil, uint32(0xE881003C), "STM r1, {r2, r3, r4, r5}"),
		Entry(nil, uint32(0xC13C), "STM r1!, {r2, r3, r4, r5}"),

		Entry(nil, uint32(0x6808), "LDR r0, [r1]"),
		Entry(nil, uint32(0x6848), "LDR r0, [r1, #4]"),
		Entry(nil, uint32(0xF8510C04), "LDR r0, [r1, #-4]"),
		Entry(nil, uint32(0xF8510F00), "LDR r0, [r1]!"),
		Entry(nil, uint32(0xF8510F04), "LDR r0, [r1, #4]!"),
		Entry(nil, uint32(0xF8510D04), "LDR r0, [r1, #-4]!"),
		Entry(nil, uint32(0xF8510B04), "LDR r0, [r1], #4"),
		Entry(nil, uint32(0xF8510904), "LDR r0, [r1], #-4"),
		Entry(nil, uint32(0xF8D1D000), "LDR sp, [r1]"),
		Entry(nil, uint32(0x9800), "LDR r0, [sp]"),

		Entry(nil, uint32(0x7808), "LDRB r0, [r1]"),
		Entry(nil, uint32(0x7908), "LDRB r0, [r1, #4]"),
		Entry(nil, uint32(0xF8110C04), "LDRB r0, [r1, #-4]"),
		Entry(nil, uint32(0xF8110F00), "LDRB r0, [r1]!"),
		Entry(nil, uint32(0xF8110F04), "LDRB r0, [r1, #4]!"),
		Entry(nil, uint32(0xF8110D04), "LDRB r0, [r1, #-4]!"),
		Entry(nil, uint32(0xF8110B04), "LDRB r0, [r1], #4"),
		Entry(nil, uint32(0xF8110904), "LDRB r0, [r1], #-4"),

		Entry(nil, uint32(0xE9D10200), "LDRD r0, r2, [r1]"),
		Entry(nil, uint32(0xE9D10201), "LDRD r0, r2, [r1, #4]"),
		Entry(nil, uint32(0xE9510201), "LDRD r0, r2, [r1, #-4]"),
		Entry(nil, uint32(0xE9F10200), "LDRD r0, r2, [r1]!"),
		Entry(nil, uint32(0xE9F10201), "LDRD r0, r2, [r1, #4]!"),
		Entry(nil, uint32(0xE9710201), "LDRD r0, r2, [r1, #-4]!"),
		Entry(nil, uint32(0xE8F10201), "LDRD r0, r2, [r1], #4"),
		Entry(nil, uint32(0xE8710201), "LDRD r0, r2, [r1], #-4"),

		Entry(nil, uint32(0x6008), "STR r0, [r1]"),
		Entry(nil, uint32(0x6048), "STR r0, [r1, #4]"),
		Entry(nil, uint32(0xF8410C04), "STR r0, [r1, #-4]"),
		Entry(nil, uint32(0xF8410F00), "STR r0, [r1]!"),
		Entry(nil, uint32(0xF8410F04), "STR r0, [r1, #4]!"),
		Entry(nil, uint32(0xF8410D04), "STR r0, [r1, #-4]!"),
		Entry(nil, uint32(0xF8410B04), "STR r0, [r1], #4"),
		Entry(nil, uint32(0xF8410904), "STR r0, [r1], #-4"),
		Entry(nil, uint32(0xF8C1D000), "STR sp, [r1]"),
		Entry(nil, uint32(0x9000), "STR r0, [sp]"),

		Entry(nil, uint32(0x7008), "STRB r0, [r1]"),
		Entry(nil, uint32(0x7108), "STRB r0, [r1, #4]"),
		Entry(nil, uint32(0xF8010C04), "STRB r0, [r1, #-4]"),
		Entry(nil, uint32(0xF8010F00), "STRB r0, [r1]!"),
		Entry(nil, uint32(0xF8010F04), "STRB r0, [r1, #4]!"),
		Entry(nil, uint32(0xF8010D04), "STRB r0, [r1, #-4]!"),
		Entry(nil, uint32(0xF8010B04), "STRB r0, [r1], #4"),
		Entry(nil, uint32(0xF8010904), "STRB r0, [r1], #-4"),

		Entry(nil, uint32(0xE9C10200), "STRD r0, r2, [r1]"),
		Entry(nil, uint32(0xE9C10201), "STRD r0, r2, [r1, #4]"),
		Entry(nil, uint32(0xE9410201), "STRD r0, r2, [r1, #-4]"),
		Entry(nil, uint32(0xE9E10200), "STRD r0, r2, [r1]!"),
		Entry(nil, uint32(0xE9E10201), "STRD r0, r2, [r1, #4]!"),
		Entry(nil, uint32(0xE9610201), "STRD r0, r2, [r1, #-4]!"),
		Entry(nil, uint32(0xE8E10201), "STRD r0, r2, [r1], #4"),
		Entry(nil, uint32(0xE8610201), "STRD r0, r2, [r1], #-4"),

		Entry(nil, uint32(0x8008), "STRH r0, [r1]"),
		Entry(nil, uint32(0x8088), "STRH r0, [r1, #4]"),
		Entry(nil, uint32(0xF8210C04), "STRH r0, [r1, #-4]"),
		Entry(nil, uint32(0xF8210F00), "STRH r0, [r1]!"),
		Entry(nil, uint32(0xF8210F04), "STRH r0, [r1, #4]!"),
		Entry(nil, uint32(0xF8210D04), "STRH r0, [r1, #-4]!"),
		Entry(nil, uint32(0xF8210B04), "STRH r0, [r1], #4"),
		Entry(nil, uint32(0xF8210904), "STRH r0, [r1], #-4"),
	)

	DescribeTable("other load/store forms",
		func(word uint32, want string) {
			inst, err := thumb.DecodeInstruction(word)
			Expect(err).NotTo(HaveOccurred())
			Expect(inst.Disassemble()).To(Equal(want))
		},
		Entry("register offset", uint32(0x5888), "LDR r0, [r1, r2]"),
		Entry("signed halfword register offset", uint32(0x5E88), "LDRSH r0, [r1, r2]"),
		Entry("shifted register offset", uint32(0xF8510022), "LDR r0, [r1, r2, LSL #2]"),
		Entry("16-bit literal", uint32(0x4801), "LDR r0, [pc, #4]"),
		Entry("literal below pc", uint32(0xF85F0008), "LDR r0, [pc, #-8]"),
		Entry("literal above pc", uint32(0xF8DF0008), "LDR r0, [pc, #8]"),
		Entry("unprivileged", uint32(0xF8510E04), "LDRT r0, [r1, #4]"),
		Entry("signed byte imm12", uint32(0xF9910004), "LDRSB r0, [r1, #4]"),
		Entry("decrement before", uint32(0xE931003C), "LDMDB r1!, {r2, r3, r4, r5}"),
		Entry("push", uint32(0xB510), "PUSH {r4, lr}"),
		Entry("pop", uint32(0xBD10), "POP {r4, pc}"),
		Entry("ldm with base in list", uint32(0xC906), "LDM r1, {r1, r2}"),
	)

	DescribeTable("undefined encodings",
		func(word uint32) {
			_, err := thumb.DecodeInstruction(word)
			Expect(err).To(MatchError(thumb.ErrUndefined))
		},
		Entry("ALU operation", uint32(0x4000)),
		Entry("lone first halfword", uint32(0xF851)),
		Entry("16-bit instruction in the top half", uint32(0x68080000)),
		Entry("doubleword size", uint32(0xF8710C04)),
		Entry("signed store", uint32(0xF9010004)),
		Entry("neither indexed nor offset", uint32(0xF8510804)),
		Entry("reserved register offset bits", uint32(0xF8510040)),
		Entry("exclusive", uint32(0xE8510000)),
		Entry("SRS/RFE", uint32(0xE9810000)),
		Entry("empty list", uint32(0xC100)),
		Entry("empty wide list", uint32(0xE8910000)),
		Entry("store to a literal", uint32(0xF84F0004)),
	)

	It("should store a negative offset as a subtracted magnitude", func() {
		inst, err := thumb.DecodeInstruction(0xF8510D04)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Wide).To(BeTrue())
		Expect(inst.IndexMode).To(Equal(thumb.IndexPre))
		Expect(inst.Imm).To(Equal(uint32(4)))

		ops := inst.DecoratedOperands()
		Expect(ops).To(HaveLen(3))
		Expect(ops[2].Text).To(Equal("#4"))
		Expect(ops[2].Props.IsSubtracted()).To(BeTrue())
		Expect(ops[2].Reg).To(Equal(arm.RegisterInvalid))
	})

	It("should record the shift of a register offset", func() {
		inst, err := thumb.DecodeInstruction(0xF8510022)
		Expect(err).NotTo(HaveOccurred())

		off := inst.DecoratedOperands()[2]
		Expect(off.Reg).To(Equal(cpu.Reg(2)))
		Expect(off.Props.ShiftType()).To(Equal(arm.ShiftLSL))
		imm, ok := off.Props.ShiftImmediate()
		Expect(ok).To(BeTrue())
		Expect(imm).To(Equal(uint32(2)))
	})

	It("should keep a zero offset operand", func() {
		inst, err := thumb.DecodeInstruction(0x6808)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Wide).To(BeFalse())
		Expect(inst.Format).To(Equal(thumb.FormatSingle))

		ops := inst.DecoratedOperands()
		Expect(ops).To(HaveLen(3))
		Expect(ops[2].Text).To(Equal("#0"))
	})

	It("should list the transfer registers of a multiple", func() {
		inst, err := thumb.DecodeInstruction(0xC93C)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Writeback).To(BeTrue())
		Expect(inst.RegisterList).To(Equal(uint16(0x3C)))
		Expect(inst.DecoratedOperands()).To(HaveLen(5))
	})
})

var _ = Describe("Size", func() {
	It("should tell the two encodings apart", func() {
		Expect(thumb.Is32Bit(0xF851)).To(BeTrue())
		Expect(thumb.Is32Bit(0xE9D1)).To(BeTrue())
		Expect(thumb.Is32Bit(0xE000)).To(BeFalse())
		Expect(thumb.Is32Bit(0x6808)).To(BeFalse())

		Expect(thumb.Size(0x6808)).To(Equal(2))
		Expect(thumb.Size(0xF8510C04)).To(Equal(4))
	})
})

var _ = Describe("Decoder", func() {
	It("should implement the decoder interface", func() {
		d := thumb.NewDecoder()
		inst, err := d.Decode(0xF8510C04)
		Expect(err).NotTo(HaveOccurred())
		Expect(inst.Mnemonic()).To(Equal("LDR"))
		Expect(inst.String()).To(Equal("LDR r0, [r1, #-4] (single, 32-bit)"))
		Expect(d.RegisterName(cpu.Reg(13))).To(Equal("sp"))

		_, err = d.Decode(0x4000)
		Expect(err).To(MatchError(thumb.ErrUndefined))
	})
})

var _ = Describe("Evaluating Thumb operands", func() {
	var (
		regs *cpu.Registers
		eval *lift.Evaluator
	)

	BeforeEach(func() {
		regs = cpu.NewRegisters()
		eval = lift.NewEvaluator(regs)
		regs.SetReg(cpu.Reg(1), 0x100)
		regs.SetReg(cpu.Reg(2), 3)
	})

	DescribeTable("effective addresses",
		func(word uint32, base int, want uint64) {
			inst, err := thumb.DecodeInstruction(word)
			Expect(err).NotTo(HaveOccurred())

			ops := inst.DecoratedOperands()
			addr, err := eval.MemoryAddress(ops[base].Reg, ops[base+1])
			Expect(err).NotTo(HaveOccurred())
			Expect(addr).To(Equal(want))
		},
		Entry("ldr r0, [r1, #-4]", uint32(0xF8510C04), 1, uint64(0xFC)),
		Entry("ldr r0, [r1, #4]", uint32(0x6848), 1, uint64(0x104)),
		Entry("ldr r0, [r1, r2, lsl #2]", uint32(0xF8510022), 1, uint64(0x10C)),
		Entry("ldrd r0, r2, [r1, #-4]", uint32(0xE9510201), 2, uint64(0xFC)),
	)
})
