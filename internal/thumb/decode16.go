package thumb

import "GoArmOps/internal/arm"

// Register numbers with a fixed role.
const (
	regSP = 13
	regLR = 14
	regPC = 15
)

// registerOffsetOps maps opB, bits [11:9] of a register offset transfer.
var registerOffsetOps = [8]Op{OpSTR, OpSTRH, OpSTRB, OpLDRSB, OpLDR, OpLDRH, OpLDRB, OpLDRSH}

// decode16 decodes the 16-bit load/store formats, working down the format
// table from the most specific mask.
func decode16(hw uint16, inst *Instruction) error {
	switch {
	case hw&0xF000 == 0xC000:
		return decodeMultiple16(hw, inst)
	case hw&0xF600 == 0xB400:
		return decodePushPop(hw, inst)
	case hw&0xF800 == 0xA000:
		return decodeADR(hw, inst)
	case hw&0xF000 == 0x9000:
		return decodeSPRelative(hw, inst)
	case hw&0xF000 == 0x8000:
		return decodeImmOffset(hw, inst, OpSTRH, OpLDRH, 1)
	case hw&0xF000 == 0x7000:
		return decodeImmOffset(hw, inst, OpSTRB, OpLDRB, 0)
	case hw&0xF000 == 0x6000:
		return decodeImmOffset(hw, inst, OpSTR, OpLDR, 2)
	case hw&0xF000 == 0x5000:
		return decodeRegisterOffset(hw, inst)
	case hw&0xF800 == 0x4800:
		return decodeLiteral16(hw, inst)
	}
	return undefined(uint32(hw), "not a load/store")
}

// decodeImmOffset decodes LDR/STR Rt, [Rn, #imm5 << scale].
// Format: 011B L imm5 Rn Rt (words and bytes), 1000 L imm5 Rn Rt (halfwords)
func decodeImmOffset(hw uint16, inst *Instruction, store, load Op, scale uint) error {
	inst.Format = FormatSingle
	inst.Op = store
	if hw&0x0800 != 0 { // bit 11: L
		inst.Op = load
	}
	imm5 := uint32(hw>>6) & 0x1F // bits [10:6]
	inst.Rn = uint8(hw>>3) & 0x7
	inst.Rt = uint8(hw) & 0x7

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addOffset(imm5<<scale, false)
	return nil
}

// decodeRegisterOffset decodes the [Rn, Rm] transfers.
// Format: 0101 opB Rm Rn Rt
func decodeRegisterOffset(hw uint16, inst *Instruction) error {
	inst.Format = FormatSingle
	inst.Op = registerOffsetOps[(hw>>9)&0x7]
	inst.Rm = uint8(hw>>6) & 0x7
	inst.Rn = uint8(hw>>3) & 0x7
	inst.Rt = uint8(hw) & 0x7

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addReg(inst.Rm, arm.NewOperandProperties())
	return nil
}

// decodeSPRelative decodes LDR/STR Rt, [sp, #imm8 << 2].
// Format: 1001 L Rt imm8
func decodeSPRelative(hw uint16, inst *Instruction) error {
	inst.Format = FormatSingle
	inst.Op = OpSTR
	if hw&0x0800 != 0 {
		inst.Op = OpLDR
	}
	inst.Rt = uint8(hw>>8) & 0x7
	inst.Rn = regSP

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addOffset(uint32(hw&0xFF)<<2, false)
	return nil
}

// decodeLiteral16 decodes LDR Rt, [pc, #imm8 << 2].
// Format: 01001 Rt imm8
func decodeLiteral16(hw uint16, inst *Instruction) error {
	inst.Format = FormatSingle
	inst.Op = OpLDR
	inst.Rt = uint8(hw>>8) & 0x7
	inst.Rn = regPC

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addOffset(uint32(hw&0xFF)<<2, false)
	return nil
}

// decodeADR decodes ADR Rd, #imm8 << 2.
// Format: 10100 Rd imm8
func decodeADR(hw uint16, inst *Instruction) error {
	inst.Format = FormatAddress
	inst.Op = OpADR
	inst.Rt = uint8(hw>>8) & 0x7

	inst.addReg(inst.Rt, arm.NewOperandProperties())
	inst.addOffset(uint32(hw&0xFF)<<2, false)
	return nil
}

// decodeMultiple16 decodes LDM/STM Rn!, {list}. STM always writes back; LDM
// writes back unless Rn is in the list.
// Format: 1100 L Rn list
func decodeMultiple16(hw uint16, inst *Instruction) error {
	list := hw & 0xFF
	if list == 0 {
		return undefined(uint32(hw), "empty register list")
	}
	inst.Format = FormatMultiple
	inst.Rn = uint8(hw>>8) & 0x7
	inst.Op = OpSTM
	inst.Writeback = true
	if hw&0x0800 != 0 {
		inst.Op = OpLDM
		inst.Writeback = list&(1<<inst.Rn) == 0
	}

	inst.addReg(inst.Rn, arm.NewOperandProperties())
	inst.addList(list)
	return nil
}

// decodePushPop decodes PUSH {list, lr} and POP {list, pc}.
// Format: 1011 L 10 R list
func decodePushPop(hw uint16, inst *Instruction) error {
	list := hw & 0xFF
	load := hw&0x0800 != 0
	if hw&0x0100 != 0 { // bit 8: R
		if load {
			list |= 1 << regPC
		} else {
			list |= 1 << regLR
		}
	}
	if list == 0 {
		return undefined(uint32(hw), "empty register list")
	}
	inst.Format = FormatStack
	inst.Rn = regSP
	inst.Op = OpPUSH
	if load {
		inst.Op = OpPOP
	}
	inst.addList(list)
	return nil
}
