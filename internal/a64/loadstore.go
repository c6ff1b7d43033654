package a64

import (
	"fmt"

	"GoArmOps/internal/arm"
)

// loadStoreOp returns the operation selected by size and opc and whether Rt
// is an X register.
func loadStoreOp(word uint32) (Op, bool, error) {
	size := (word >> 30) & 0x3 // bits [31:30]
	opc := (word >> 22) & 0x3  // bits [23:22]

	switch size {
	case 0b11: // 64-bit
		switch opc {
		case 0b00:
			return OpSTR, true, nil
		case 0b01:
			return OpLDR, true, nil
		}
	case 0b10: // 32-bit
		switch opc {
		case 0b00:
			return OpSTR, false, nil
		case 0b01:
			return OpLDR, false, nil
		case 0b10:
			return OpLDRSW, true, nil // LDRSW sign-extends to 64-bit
		}
	case 0b01: // 16-bit (halfword)
		switch opc {
		case 0b00:
			return OpSTRH, false, nil
		case 0b01:
			return OpLDRH, false, nil
		case 0b10, 0b11:
			return OpLDRSH, opc == 0b10, nil // 10=extend to 64-bit
		}
	case 0b00: // 8-bit (byte)
		switch opc {
		case 0b00:
			return OpSTRB, false, nil
		case 0b01:
			return OpLDRB, false, nil
		case 0b10, 0b11:
			return OpLDRSB, opc == 0b10, nil // 10=extend to 64-bit
		}
	}
	return OpUnknown, false, unallocated(word, "load/store size and opc (PRFM is not decoded)")
}

// decodeLoadStoreCommon fills Rt and the base register shared by every
// load/store form.
func (d *Decoder) decodeLoadStoreCommon(word uint32, inst *Instruction) error {
	inst.Format = FormatLoadStore
	if (word>>26)&0x1 == 1 {
		return unallocated(word, "SIMD&FP load/store")
	}

	op, rtIs64, err := loadStoreOp(word)
	if err != nil {
		return err
	}
	inst.Op = op
	inst.Is64Bit = rtIs64
	inst.Rd = uint8(word & 0x1F)        // Rt
	inst.Rn = uint8((word >> 5) & 0x1F) // base

	inst.addReg(GPR(inst.Rd, rtIs64, false), arm.NewOperandProperties())
	inst.addReg(GPR(inst.Rn, true, true), arm.NewOperandProperties())
	return nil
}

// isLoadStoreRegOffset checks for load/store register (register offset).
// bits [29:27] == 111, bits [25:24] == 00, bit 21 == 1, bits [11:10] == 10
func (d *Decoder) isLoadStoreRegOffset(word uint32) bool {
	op1 := (word >> 27) & 0x7      // bits [29:27]
	op2 := (word >> 24) & 0x3      // bits [25:24]
	bit21 := (word >> 21) & 0x1    // bit 21
	bits1110 := (word >> 10) & 0x3 // bits [11:10]
	return op1 == 0b111 && op2 == 0b00 && bit21 == 1 && bits1110 == 0b10
}

// decodeLoadStoreRegOffset decodes LDR/STR with register offset addressing.
// Format: size | 111 | V | 00 | opc | 1 | Rm | option | S | 10 | Rn | Rt
// option[15:13]: 010=UXTW, 011=LSL, 110=SXTW, 111=SXTX
// S[12]: scale - if 1, shift by log2(size)
func (d *Decoder) decodeLoadStoreRegOffset(word uint32, inst *Instruction) error {
	if err := d.decodeLoadStoreCommon(word, inst); err != nil {
		return err
	}
	inst.IndexMode = IndexRegBase

	size := (word >> 30) & 0x3
	option := (word >> 13) & 0x7
	s := (word >> 12) & 0x1
	inst.Rm = uint8((word >> 16) & 0x1F)

	props := arm.NewOperandProperties()
	switch option {
	case 0b011: // LSL, an X index taken as is
	case 0b010, 0b110, 0b111:
		props.SetExtendType(extendTypes[option])
		// the index is extended to the 64-bit address width
		props.SetExtendedSize(64)
	default:
		return unallocated(word, "register offset option")
	}
	if s == 1 {
		props.SetShiftType(arm.ShiftLSL)
		props.SetShiftImmediate(size)
	}
	inst.Imm = uint64(size * s)

	inst.addReg(GPR(inst.Rm, option&0x1 == 1, false), props)
	return nil
}

// isLoadStoreRegIndexed checks for load/store register with a 9-bit signed
// offset: unscaled, post-index, unprivileged or pre-index.
// bits [29:27] == 111, bits [25:24] == 00, bit 21 == 0
func (d *Decoder) isLoadStoreRegIndexed(word uint32) bool {
	op1 := (word >> 27) & 0x7   // bits [29:27]
	op2 := (word >> 24) & 0x3   // bits [25:24]
	bit21 := (word >> 21) & 0x1 // bit 21
	return op1 == 0b111 && op2 == 0b00 && bit21 == 0
}

// decodeLoadStoreRegIndexed decodes LDUR/STUR, LDTR/STTR and the pre/post
// indexed LDR/STR forms.
// Format: size | 111 | V | 00 | opc | 0 | imm9 | mode | Rn | Rt
// A negative imm9 is recorded as its magnitude with the subtracted flag.
func (d *Decoder) decodeLoadStoreRegIndexed(word uint32, inst *Instruction) error {
	if err := d.decodeLoadStoreCommon(word, inst); err != nil {
		return err
	}

	imm9 := (word >> 12) & 0x1FF // bits [20:12]
	switch (word >> 10) & 0x3 {  // bits [11:10]
	case 0b00:
		inst.IndexMode = IndexUnscaled
	case 0b01:
		inst.IndexMode = IndexPost
	case 0b10:
		inst.IndexMode = IndexUnprivileged
	case 0b11:
		inst.IndexMode = IndexPre
	}

	// Sign-extend imm9
	offset := int64(imm9)
	if (imm9 >> 8) == 1 {
		offset |= ^int64(0x1FF)
	}

	props := arm.NewOperandProperties()
	if offset < 0 {
		props.SetSubtracted(true)
		offset = -offset
	}
	inst.Imm = uint64(offset)
	inst.addImm(fmt.Sprintf("#%d", offset), props)
	return nil
}

// isLoadStoreUnsignedImm checks for load/store register (unsigned immediate).
// bits [29:27] == 111, bits [25:24] == 01
func (d *Decoder) isLoadStoreUnsignedImm(word uint32) bool {
	return (word>>27)&0x7 == 0b111 && (word>>24)&0x3 == 0b01
}

// decodeLoadStoreUnsignedImm decodes LDR/STR with a scaled 12-bit offset.
// Format: size | 111 | V | 01 | opc | imm12 | Rn | Rt
func (d *Decoder) decodeLoadStoreUnsignedImm(word uint32, inst *Instruction) error {
	if err := d.decodeLoadStoreCommon(word, inst); err != nil {
		return err
	}
	inst.IndexMode = IndexUnsigned

	size := (word >> 30) & 0x3
	imm12 := (word >> 10) & 0xFFF
	inst.Imm = uint64(imm12) << size
	inst.addImm(fmt.Sprintf("#%d", inst.Imm), arm.NewOperandProperties())
	return nil
}
