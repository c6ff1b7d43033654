package a64

import (
	"fmt"
	"math/bits"

	"GoArmOps/internal/arm"
)

// arrangement returns the arrangement of esize-bit lanes filling a D (q
// false) or Q register. 1D is reserved in the forms decoded here.
func arrangement(word uint32, esize uint32, q bool) (arm.Arrangement, error) {
	total := uint32(64)
	if q {
		total = 128
	}
	a, err := arm.ArrangementFor(esize, total)
	if err != nil || a == arm.Arrangement1D {
		return arm.ArrangementNone, unallocated(word, fmt.Sprintf("arrangement of %d-bit lanes in %d bits", esize, total))
	}
	return a, nil
}

// isSIMDThreeSame checks for Advanced SIMD three same.
// bit 31 == 0, bits [28:24] == 0b01110, bit 21 == 1, bit 10 == 1
func (d *Decoder) isSIMDThreeSame(word uint32) bool {
	return word&0x9F200400 == 0x0E200400
}

// decodeSIMDThreeSame decodes SIMD Three Same instructions.
// Format: 0 | Q | U | 01110 | size | 1 | Rm | opcode | 1 | Rn | Rd
func (d *Decoder) decodeSIMDThreeSame(word uint32, inst *Instruction) error {
	inst.Format = FormatSIMDReg

	q := (word >> 30) & 0x1       // bit 30: 0=64-bit (D), 1=128-bit (Q)
	u := (word >> 29) & 0x1       // bit 29: unsigned flag
	size := (word >> 22) & 0x3    // bits [23:22]
	opcode := (word >> 11) & 0x1F // bits [15:11]

	inst.Rd = uint8(word & 0x1F)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Rm = uint8((word >> 16) & 0x1F)
	inst.Is64Bit = q == 1 // For SIMD, this indicates 128-bit (Q) vs 64-bit (D)

	esize := uint32(8) << size
	switch {
	case opcode == 0b10000: // ADD or SUB
		inst.Op = OpVADD
		if u == 1 {
			inst.Op = OpVSUB
		}
	case opcode == 0b10011 && u == 0 && size != 0b11: // MUL (integer only)
		inst.Op = OpVMUL
	case opcode == 0b00011: // logical, size selects the operation
		logical := [2][4]Op{
			{OpVAND, OpVBIC, OpVORR, OpVORN},
			{OpVEOR, OpUnknown, OpUnknown, OpUnknown}, // BSL, BIT, BIF
		}
		inst.Op = logical[u][size]
		esize = 8
	case opcode == 0b11010 && u == 0: // FADD / FSUB, bit 23 selects
		inst.Op = OpVFADD
		if size&0x2 != 0 {
			inst.Op = OpVFSUB
		}
		esize = 32 << (size & 0x1)
	case opcode == 0b11011 && u == 1 && size&0x2 == 0: // FMUL
		inst.Op = OpVFMUL
		esize = 32 << (size & 0x1)
	}
	if inst.Op == OpUnknown {
		return unallocated(word, "SIMD three same opcode")
	}

	a, err := arrangement(word, esize, inst.Is64Bit)
	if err != nil {
		return err
	}
	inst.Arrangement = a
	inst.addVec(inst.Rd, a, -1)
	inst.addVec(inst.Rn, a, -1)
	inst.addVec(inst.Rm, a, -1)
	return nil
}

// isSIMDCopy checks for Advanced SIMD copy.
// bit 31 == 0, bits [28:21] == 0b01110000, bit 15 == 0, bit 10 == 1
func (d *Decoder) isSIMDCopy(word uint32) bool {
	return word&0x9FE08400 == 0x0E000400
}

// decodeSIMDCopy decodes DUP, INS, SMOV and UMOV.
// Format: 0 | Q | op | 01110000 | imm5 | 0 | imm4 | 1 | Rn | Rd
// The lowest set bit of imm5 gives the element size, the bits above it
// the lane index.
func (d *Decoder) decodeSIMDCopy(word uint32, inst *Instruction) error {
	inst.Format = FormatSIMDCopy

	q := (word>>30)&0x1 == 1
	op := (word >> 29) & 0x1
	imm5 := (word >> 16) & 0x1F // bits [20:16]
	imm4 := (word >> 11) & 0xF  // bits [14:11]

	if imm5&0xF == 0 {
		return unallocated(word, "imm5 element size")
	}
	size := uint32(bits.TrailingZeros32(imm5))
	esize := uint32(8) << size
	index := int32(imm5 >> (size + 1))

	inst.Rd = uint8(word & 0x1F)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Is64Bit = q
	inst.Imm = uint64(imm5)

	// Indexed operands name the element size over a full Q register, so the
	// index range is the lane count.
	lanes, err := arrangement(word, esize, true)
	if err != nil {
		return err
	}

	switch {
	case op == 0 && imm4 == 0b0000: // DUP Vd.T, Vn.Ts[index]
		inst.Op = OpDUP
		a, err := arrangement(word, esize, q)
		if err != nil {
			return err
		}
		inst.Arrangement = a
		inst.addVec(inst.Rd, a, -1)
		inst.addVec(inst.Rn, lanes, index)

	case op == 0 && imm4 == 0b0001: // DUP Vd.T, Rn
		inst.Op = OpDUP
		a, err := arrangement(word, esize, q)
		if err != nil {
			return err
		}
		inst.Arrangement = a
		inst.addVec(inst.Rd, a, -1)
		inst.addReg(GPR(inst.Rn, size == 3, false), arm.NewOperandProperties())

	case op == 0 && imm4 == 0b0011 && q: // INS Vd.Ts[index], Rn
		inst.Op = OpINS
		inst.Arrangement = lanes
		inst.addVec(inst.Rd, lanes, index)
		inst.addReg(GPR(inst.Rn, size == 3, false), arm.NewOperandProperties())

	case op == 0 && imm4 == 0b0101: // SMOV Rd, Vn.Ts[index]
		if (q && size > 2) || (!q && size > 1) {
			return unallocated(word, "SMOV element size")
		}
		inst.Op = OpSMOV
		inst.addReg(GPR(inst.Rd, q, false), arm.NewOperandProperties())
		inst.addVec(inst.Rn, lanes, index)

	case op == 0 && imm4 == 0b0111: // UMOV Rd, Vn.Ts[index]
		if (q && size != 3) || (!q && size > 2) {
			return unallocated(word, "UMOV element size")
		}
		inst.Op = OpUMOV
		inst.addReg(GPR(inst.Rd, q, false), arm.NewOperandProperties())
		inst.addVec(inst.Rn, lanes, index)

	case op == 1 && q: // INS Vd.Ts[index1], Vn.Ts[index2]
		inst.Op = OpINS
		inst.Arrangement = lanes
		inst.addVec(inst.Rd, lanes, index)
		inst.addVec(inst.Rn, lanes, int32(imm4>>size))

	default:
		return unallocated(word, "SIMD copy imm4")
	}
	return nil
}

// isSIMDShiftImm checks for Advanced SIMD shift by immediate.
// bit 31 == 0, bits [28:23] == 0b011110, bit 10 == 1, immh != 0
func (d *Decoder) isSIMDShiftImm(word uint32) bool {
	return word&0x9F800400 == 0x0F000400 && (word>>19)&0xF != 0
}

// decodeSIMDShiftImm decodes SHL, SSHR and USHR.
// Format: 0 | Q | U | 011110 | immh | immb | opcode | 1 | Rn | Rd
// The highest set bit of immh gives the element size; immh:immb encodes
// the shift relative to it.
func (d *Decoder) decodeSIMDShiftImm(word uint32, inst *Instruction) error {
	inst.Format = FormatSIMDShift

	q := (word>>30)&0x1 == 1
	u := (word >> 29) & 0x1
	immh := (word >> 19) & 0xF
	immhb := (word >> 16) & 0x7F // immh:immb
	opcode := (word >> 11) & 0x1F

	esize := uint32(8) << (bits.Len32(immh) - 1)
	a, err := arrangement(word, esize, q)
	if err != nil {
		return err
	}

	var amount uint32
	switch {
	case opcode == 0b01010 && u == 0:
		inst.Op = OpSHL
		amount = immhb - esize
	case opcode == 0b00000:
		inst.Op = OpSSHR
		if u == 1 {
			inst.Op = OpUSHR
		}
		amount = 2*esize - immhb
	default:
		return unallocated(word, "SIMD shift opcode")
	}

	inst.Rd = uint8(word & 0x1F)
	inst.Rn = uint8((word >> 5) & 0x1F)
	inst.Is64Bit = q
	inst.Imm = uint64(amount)
	inst.Arrangement = a
	inst.addVec(inst.Rd, a, -1)
	inst.addVec(inst.Rn, a, -1)
	inst.addImm(fmt.Sprintf("#%d", amount), arm.NewOperandProperties())
	return nil
}

// isSIMDModifiedImm checks for Advanced SIMD modified immediate.
// bit 31 == 0, bits [28:19] == 0b0111100000, bit 10 == 1
func (d *Decoder) isSIMDModifiedImm(word uint32) bool {
	return word&0x9FF80400 == 0x0F000400
}

// decodeSIMDModifiedImm decodes MOVI, MVNI and the immediate forms of ORR
// and BIC.
// Format: 0 | Q | op | 0111100000 | a:b:c | cmode | o2 | 1 | d:e:f:g:h | Rd
// The shift of the 8-bit immediate is LSL for the shifted forms and MSL
// (ones shifted in) for cmode 110x.
func (d *Decoder) decodeSIMDModifiedImm(word uint32, inst *Instruction) error {
	inst.Format = FormatSIMDImm

	q := (word>>30)&0x1 == 1
	op := (word >> 29) & 0x1
	cmode := (word >> 12) & 0xF
	imm8 := ((word >> 11) & 0xE0) | ((word >> 5) & 0x1F)

	if (word>>11)&0x1 == 1 {
		return unallocated(word, "modified immediate o2")
	}

	props := arm.NewOperandProperties()
	var esize uint32
	imm := uint64(imm8)
	movOrMvn := [2]Op{OpMOVI, OpMVNI}
	orrOrBic := [2]Op{OpVORR, OpVBIC}

	switch {
	case cmode&0x9 == 0x0: // 0xx0: 32-bit shifted immediate
		inst.Op = movOrMvn[op]
		esize = 32
		if amount := 8 * ((cmode >> 1) & 0x3); amount != 0 {
			props.SetShiftType(arm.ShiftLSL)
			props.SetShiftImmediate(amount)
		}
	case cmode&0x9 == 0x1: // 0xx1: 32-bit shifted immediate, ORR/BIC
		inst.Op = orrOrBic[op]
		esize = 32
		if amount := 8 * ((cmode >> 1) & 0x3); amount != 0 {
			props.SetShiftType(arm.ShiftLSL)
			props.SetShiftImmediate(amount)
		}
	case cmode&0xD == 0x8: // 10x0: 16-bit shifted immediate
		inst.Op = movOrMvn[op]
		esize = 16
		if cmode&0x2 != 0 {
			props.SetShiftType(arm.ShiftLSL)
			props.SetShiftImmediate(8)
		}
	case cmode&0xD == 0x9: // 10x1: 16-bit shifted immediate, ORR/BIC
		inst.Op = orrOrBic[op]
		esize = 16
		if cmode&0x2 != 0 {
			props.SetShiftType(arm.ShiftLSL)
			props.SetShiftImmediate(8)
		}
	case cmode&0xE == 0xC: // 110x: 32-bit shifting ones
		inst.Op = movOrMvn[op]
		esize = 32
		props.SetShiftType(arm.ShiftMSL)
		props.SetShiftImmediate(8 * (cmode&0x1 + 1))
	case cmode == 0xE && op == 0: // 8-bit immediate
		inst.Op = OpMOVI
		esize = 8
	case cmode == 0xE && op == 1: // 64-bit byte mask
		inst.Op = OpMOVI
		esize = 64
		imm = 0
		for i := 0; i < 8; i++ {
			if imm8&(1<<i) != 0 {
				imm |= 0xFF << (8 * i)
			}
		}
	default:
		return unallocated(word, "modified immediate cmode")
	}

	var a arm.Arrangement
	if esize == 64 && !q {
		a = arm.Arrangement1D // MOVI Dd, #imm
	} else {
		var err error
		if a, err = arrangement(word, esize, q); err != nil {
			return err
		}
	}

	inst.Rd = uint8(word & 0x1F)
	inst.Is64Bit = q
	inst.Imm = imm
	inst.Arrangement = a
	inst.addVec(inst.Rd, a, -1)
	inst.addImm(fmt.Sprintf("#0x%x", imm), props)
	return nil
}
