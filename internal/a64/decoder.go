package a64

import (
	"errors"
	"fmt"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
	"GoArmOps/util/dbg"
)

// ErrUnallocated is returned for encodings outside the decoded classes and
// for reserved field values inside them.
var ErrUnallocated = errors.New("unallocated or unsupported AArch64 encoding")

func unallocated(word uint32, why string) error {
	return fmt.Errorf("%w: %08X: %s", ErrUnallocated, word, why)
}

// shiftTypes maps the 2-bit shift field of register forms to a shift kind.
var shiftTypes = [4]arm.ShiftType{arm.ShiftLSL, arm.ShiftLSR, arm.ShiftASR, arm.ShiftROR}

// extendTypes maps the 3-bit option field of extended register forms.
var extendTypes = [8]arm.ExtendType{
	arm.ExtendUXTB, arm.ExtendUXTH, arm.ExtendUXTW, arm.ExtendUXTX,
	arm.ExtendSXTB, arm.ExtendSXTH, arm.ExtendSXTW, arm.ExtendSXTX,
}

// Decoder decodes AArch64 machine code into instructions.
type Decoder struct{}

// NewDecoder creates a new AArch64 instruction decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode implements interfaces.DecoderInterface.
func (d *Decoder) Decode(word uint32) (interfaces.InstructionInterface, error) {
	inst, err := d.DecodeInstruction(word)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (d *Decoder) RegisterName(r arm.Register) string {
	return RegisterName(r)
}

// DecodeInstruction decodes a 32-bit AArch64 instruction word.
func (d *Decoder) DecodeInstruction(word uint32) (*Instruction, error) {
	inst := &Instruction{Op: OpUnknown, Format: FormatUnknown}

	var err error
	switch {
	case d.isSIMDCopy(word):
		err = d.decodeSIMDCopy(word, inst)
	case d.isSIMDThreeSame(word):
		err = d.decodeSIMDThreeSame(word, inst)
	case d.isSIMDModifiedImm(word):
		err = d.decodeSIMDModifiedImm(word, inst)
	case d.isSIMDShiftImm(word):
		err = d.decodeSIMDShiftImm(word, inst)
	case d.isLoadStoreRegOffset(word):
		err = d.decodeLoadStoreRegOffset(word, inst)
	case d.isLoadStoreRegIndexed(word):
		err = d.decodeLoadStoreRegIndexed(word, inst)
	case d.isLoadStoreUnsignedImm(word):
		err = d.decodeLoadStoreUnsignedImm(word, inst)
	case d.isMoveWide(word):
		err = d.decodeMoveWide(word, inst)
	case d.isDataProcessingImm(word):
		d.decodeDataProcessingImm(word, inst)
	case d.isAddSubExtended(word):
		err = d.decodeAddSubExtended(word, inst)
	case d.isDataProcessingReg(word):
		err = d.decodeDataProcessingReg(word, inst)
	default:
		err = unallocated(word, "unknown class")
	}
	if err != nil {
		return nil, err
	}

	dbg.Printf("decoded %08X: %s\n", word, inst)
	for _, op := range inst.operands {
		dbg.Dump(op.Props)
	}
	return inst, nil
}

// isDataProcessingImm checks if instruction is Add/Sub (immediate).
// bits [28:23] == 0b100010
func (d *Decoder) isDataProcessingImm(word uint32) bool {
	return (word>>23)&0x3F == 0b100010
}

// decodeDataProcessingImm decodes Add/Sub immediate instructions.
// Format: sf | op | S | 100010 | sh | imm12 | Rn | Rd
// sh=1 shifts imm12 left by 12, recorded as LSL #12 on the immediate.
func (d *Decoder) decodeDataProcessingImm(word uint32, inst *Instruction) {
	inst.Format = FormatDPImm

	sf := (word >> 31) & 0x1      // bit 31: 1=64-bit, 0=32-bit
	op := (word >> 30) & 0x1      // bit 30: 0=ADD, 1=SUB
	s := (word >> 29) & 0x1       // bit 29: 1=set flags
	sh := (word >> 22) & 0x1      // bit 22: shift
	imm12 := (word >> 10) & 0xFFF // bits [21:10]

	inst.Is64Bit = sf == 1
	inst.SetFlags = s == 1
	inst.Rd = uint8(word & 0x1F)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Imm = uint64(imm12)
	inst.Op = OpADD
	if op == 1 {
		inst.Op = OpSUB
	}

	immProps := arm.NewOperandProperties()
	if sh == 1 {
		immProps.SetShiftType(arm.ShiftLSL)
		immProps.SetShiftImmediate(12)
	}

	// Rd is SP unless flags are set; Rn is always SP-capable.
	inst.addReg(GPR(inst.Rd, inst.Is64Bit, !inst.SetFlags), arm.NewOperandProperties())
	inst.addReg(GPR(inst.Rn, inst.Is64Bit, true), arm.NewOperandProperties())
	inst.addImm(fmt.Sprintf("#%d", imm12), immProps)
}

// isAddSubExtended checks for Add/Sub (extended register).
// bits [28:24] == 0b01011, bit 21 == 1
func (d *Decoder) isAddSubExtended(word uint32) bool {
	return (word>>24)&0x1F == 0b01011 && (word>>21)&0x1 == 1
}

// decodeAddSubExtended decodes Add/Sub extended register instructions.
// Format: sf | op | S | 01011 | opt | 1 | Rm | option | imm3 | Rn | Rd
// Rm is extended by option then shifted left by imm3.
func (d *Decoder) decodeAddSubExtended(word uint32, inst *Instruction) error {
	inst.Format = FormatDPExt

	sf := (word >> 31) & 0x1
	opt := (word >> 22) & 0x3
	option := (word >> 13) & 0x7 // bits [15:13]
	imm3 := (word >> 10) & 0x7   // bits [12:10]

	if opt != 0 {
		return unallocated(word, "extended register opt")
	}
	if imm3 > 4 {
		return unallocated(word, "extended register shift above 4")
	}

	inst.Is64Bit = sf == 1
	inst.SetFlags = (word>>29)&0x1 == 1
	inst.Rd = uint8(word & 0x1F)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Rm = uint8((word >> 16) & 0x1F)
	inst.Imm = uint64(imm3)
	inst.Op = OpADD
	if (word>>30)&0x1 == 1 {
		inst.Op = OpSUB
	}

	props := arm.NewOperandProperties()
	props.SetExtendType(extendTypes[option])
	if inst.Is64Bit {
		props.SetExtendedSize(64)
	} else {
		props.SetExtendedSize(32)
	}
	if imm3 != 0 {
		props.SetShiftType(arm.ShiftLSL)
		props.SetShiftImmediate(imm3)
	}

	// UXTX/SXTX take an X register, the other extends a W register.
	rmIs64 := inst.Is64Bit && option&0x3 == 0x3

	inst.addReg(GPR(inst.Rd, inst.Is64Bit, !inst.SetFlags), arm.NewOperandProperties())
	inst.addReg(GPR(inst.Rn, inst.Is64Bit, true), arm.NewOperandProperties())
	inst.addReg(GPR(inst.Rm, rmIs64, false), props)
	return nil
}

// isDataProcessingReg checks if instruction is Data Processing (Register).
// Add/Sub shifted register: bits [28:24] == 0b01011, bit 21 == 0
// Logical shifted register: bits [28:24] == 0b01010
func (d *Decoder) isDataProcessingReg(word uint32) bool {
	op := (word >> 24) & 0x1F // bits [28:24]
	return (op == 0b01011 && (word>>21)&0x1 == 0) || op == 0b01010
}

// decodeDataProcessingReg decodes Add/Sub/Logical shifted register instructions.
// Add/Sub format: sf | op | S | 01011 | shift | 0 | Rm | imm6 | Rn | Rd
// Logical format: sf | opc | 01010 | shift | N | Rm | imm6 | Rn | Rd
func (d *Decoder) decodeDataProcessingReg(word uint32, inst *Instruction) error {
	inst.Format = FormatDPReg

	sf := (word >> 31) & 0x1    // bit 31
	op := (word >> 24) & 0x1F   // bits [28:24]
	imm6 := (word >> 10) & 0x3F // bits [15:10]
	shift := (word >> 22) & 0x3 // bits [23:22]

	inst.Is64Bit = sf == 1
	inst.Rd = uint8(word & 0x1F)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Rm = uint8((word >> 16) & 0x1F)

	if !inst.Is64Bit && imm6 >= 32 {
		return unallocated(word, "shift amount above 31 in 32-bit form")
	}

	if op == 0b01011 {
		if shift == 0b11 {
			return unallocated(word, "ROR in add/sub")
		}
		inst.SetFlags = (word>>29)&0x1 == 1
		inst.Op = OpADD
		if (word>>30)&0x1 == 1 {
			inst.Op = OpSUB
		}
	} else {
		opc := (word >> 29) & 0x3  // bits [30:29]
		nBit := (word >> 21) & 0x1 // bit 21: invert Rm
		ops := [4][2]Op{
			{OpAND, OpBIC},
			{OpORR, OpORN},
			{OpEOR, OpEON},
			{OpAND, OpBIC}, // ANDS / BICS
		}
		inst.Op = ops[opc][nBit]
		inst.SetFlags = opc == 0b11
	}

	props := arm.NewOperandProperties()
	if imm6 != 0 {
		props.SetShiftType(shiftTypes[shift])
		props.SetShiftImmediate(imm6)
	}
	inst.Imm = uint64(imm6)

	inst.addReg(GPR(inst.Rd, inst.Is64Bit, false), arm.NewOperandProperties())
	inst.addReg(GPR(inst.Rn, inst.Is64Bit, false), arm.NewOperandProperties())
	inst.addReg(GPR(inst.Rm, inst.Is64Bit, false), props)
	return nil
}

// isMoveWide checks for move wide immediate instructions.
// bits [28:23] == 0b100101
func (d *Decoder) isMoveWide(word uint32) bool {
	return (word>>23)&0x3F == 0b100101
}

// decodeMoveWide decodes MOVN, MOVZ and MOVK.
// Format: sf | opc | 100101 | hw | imm16 | Rd
// hw selects the 16-bit slot, recorded as LSL #(hw*16) on the immediate.
func (d *Decoder) decodeMoveWide(word uint32, inst *Instruction) error {
	inst.Format = FormatMoveWide

	sf := (word >> 31) & 0x1
	opc := (word >> 29) & 0x3
	hw := (word >> 21) & 0x3
	imm16 := (word >> 5) & 0xFFFF

	switch opc {
	case 0b00:
		inst.Op = OpMOVN
	case 0b10:
		inst.Op = OpMOVZ
	case 0b11:
		inst.Op = OpMOVK
	default:
		return unallocated(word, "move wide opc")
	}
	if sf == 0 && hw >= 2 {
		return unallocated(word, "hw above 1 in 32-bit form")
	}

	inst.Is64Bit = sf == 1
	inst.Rd = uint8(word & 0x1F)
	inst.Imm = uint64(imm16)

	props := arm.NewOperandProperties()
	if hw != 0 {
		props.SetShiftType(arm.ShiftLSL)
		props.SetShiftImmediate(hw * 16)
	}
	inst.addReg(GPR(inst.Rd, inst.Is64Bit, false), arm.NewOperandProperties())
	inst.addImm(fmt.Sprintf("#%d", imm16), props)
	return nil
}
