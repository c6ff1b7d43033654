package thumb

import "GoArmOps/internal/arm"

// decode32 decodes the 32-bit load/store groups. hw1 is the first halfword.
func decode32(hw1, hw2 uint16, inst *Instruction) error {
	word := uint32(hw1)<<16 | uint32(hw2)
	switch {
	case hw1&0xFE00 == 0xF800:
		return decodeSingle32(word, hw1, hw2, inst)
	case hw1&0xFE40 == 0xE840:
		return decodeDual(word, hw1, hw2, inst)
	case hw1&0xFE40 == 0xE800:
		return decodeMultiple32(word, hw1, hw2, inst)
	}
	return undefined(word, "not a load/store")
}

// singleOps maps size, bits [6:5] of hw1, to the unsigned store and load.
var singleOps = [3][2]Op{
	{OpSTRB, OpLDRB},
	{OpSTRH, OpLDRH},
	{OpSTR, OpLDR},
}

// decodeSingle32 decodes LDR/STR and their byte, halfword and signed forms.
// Format: 1111100 S U size L Rn | Rt ...
// hw2 is Rt imm12 when U (bit 7) is set, Rt 1 P U W imm8 for the indexed
// forms, and Rt 000000 imm2 Rm for a register offset.
func decodeSingle32(word uint32, hw1, hw2 uint16, inst *Instruction) error {
	signed := hw1&0x0100 != 0 // bit 8
	size := (hw1 >> 5) & 0x3  // bits [6:5]
	load := hw1&0x0010 != 0   // bit 4
	inst.Rn = uint8(hw1 & 0xF)
	inst.Rt = uint8(hw2 >> 12)
	inst.Format = FormatSingle

	if size == 0b11 {
		return undefined(word, "doubleword size")
	}
	if signed && (!load || size == 0b10) {
		return undefined(word, "signed store or signed word")
	}
	inst.Op = singleOps[size][0]
	if load {
		inst.Op = singleOps[size][1]
	}
	if signed {
		inst.Op = OpLDRSB
		if size == 0b01 {
			inst.Op = OpLDRSH
		}
	}

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addReg(inst.Rn, arm.NewOperandProperties())

	// PC +/- imm12, bit 7 is U
	if inst.Rn == regPC {
		if !load {
			return undefined(word, "store to a literal")
		}
		inst.addOffset(uint32(hw2&0xFFF), hw1&0x0080 == 0)
		return nil
	}

	if hw1&0x0080 != 0 {
		inst.addOffset(uint32(hw2&0xFFF), false)
		return nil
	}

	if hw2&0x0800 != 0 { // bit 11
		p := hw2&0x0400 != 0 // bit 10
		u := hw2&0x0200 != 0 // bit 9
		w := hw2&0x0100 != 0 // bit 8
		switch {
		case p && u && !w:
			inst.IndexMode = IndexUnprivileged
		case p && w:
			inst.IndexMode = IndexPre
		case !p && w:
			inst.IndexMode = IndexPost
		case !p && !w:
			return undefined(word, "neither indexed nor offset")
		}
		inst.addOffset(uint32(hw2&0xFF), !u)
		return nil
	}

	if (hw2>>6)&0x3F != 0 {
		return undefined(word, "reserved bits in register offset")
	}
	inst.Rm = uint8(hw2 & 0xF)
	props := arm.NewOperandProperties()
	if imm2 := uint32(hw2>>4) & 0x3; imm2 != 0 {
		props.SetShiftType(arm.ShiftLSL)
		props.SetShiftImmediate(imm2)
	}
	inst.addReg(inst.Rm, props)
	return nil
}

// decodeDual decodes LDRD/STRD Rt, Rt2, [Rn, #imm8 << 2].
// Format: 1110100 P U 1 W L Rn | Rt Rt2 imm8
func decodeDual(word uint32, hw1, hw2 uint16, inst *Instruction) error {
	p := hw1&0x0100 != 0 // bit 8
	u := hw1&0x0080 != 0 // bit 7
	w := hw1&0x0020 != 0 // bit 5
	if !p && !w {
		return undefined(word, "exclusive or table branch")
	}

	inst.Format = FormatDual
	inst.Op = OpSTRD
	if hw1&0x0010 != 0 { // bit 4: L
		inst.Op = OpLDRD
	}
	inst.Rn = uint8(hw1 & 0xF)
	inst.Rt = uint8(hw2 >> 12)
	inst.Rt2 = uint8(hw2>>8) & 0xF
	switch {
	case p && w:
		inst.IndexMode = IndexPre
	case !p:
		inst.IndexMode = IndexPost
	}

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addReg(inst.Rt2, arm.NewOperandProperties())
	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addOffset(uint32(hw2&0xFF)<<2, !u)
	return nil
}

// decodeMultiple32 decodes LDM/STM (increment after) and LDMDB/STMDB.
// Format: 1110100 op 0 W L Rn | list, op 01 is IA and op 10 is DB
func decodeMultiple32(word uint32, hw1, hw2 uint16, inst *Instruction) error {
	op := (hw1 >> 7) & 0x3
	if op != 0b01 && op != 0b10 {
		return undefined(word, "SRS or RFE")
	}
	if hw2 == 0 {
		return undefined(word, "empty register list")
	}

	inst.Format = FormatMultiple
	inst.DecrementBefore = op == 0b10
	inst.Writeback = hw1&0x0020 != 0
	inst.Op = OpSTM
	if hw1&0x0010 != 0 {
		inst.Op = OpLDM
	}
	inst.Rn = uint8(hw1 & 0xF)

	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addList(hw2)
	return nil
}
