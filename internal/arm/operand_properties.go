// Package arm holds the architecture-specific decorations an ARM or AArch64
// operand carries beyond its bare value: shift and extend modifiers, vector
// arrangement, vector lane index and the sign used in address computation.
//
// A decoder fills an OperandProperties per operand, a semantics layer reads
// it back. Nothing here checks that a combination is legal for an opcode.
package arm

import (
	"fmt"
	"strings"
)

// OperandProperties describes the modifiers of one decoded operand.
//
// The zero value is the "no modifiers" state: no shift, no extend, no
// arrangement, no lane index, added (not subtracted). It is a plain value:
// assignment copies every field and shares nothing. It does no locking, so
// concurrent reads are fine once it is no longer mutated.
type OperandProperties struct {
	shiftType  ShiftType
	shiftValue ShiftValue
	extendType ExtendType
	extendSize uint32 // bits after extension, as stored by the decoder
	vasType    Arrangement

	// lane index, valid only when hasIndex is set
	vectorIndex int32
	hasIndex    bool

	// Used in memory operands: the operand is subtracted from the base
	// register instead of added.
	subtracted bool
}

// NewOperandProperties returns properties in the default state.
func NewOperandProperties() OperandProperties {
	return OperandProperties{}
}

// Clone returns an independent copy of p.
func (p *OperandProperties) Clone() *OperandProperties {
	c := *p
	return &c
}

// ShiftType returns the type of the shift.
func (p OperandProperties) ShiftType() ShiftType {
	return p.shiftType
}

// ShiftValue returns the shift amount, whichever alternative was stored last.
func (p OperandProperties) ShiftValue() ShiftValue {
	return p.shiftValue
}

// ShiftImmediate returns the shift amount if it was stored as an immediate.
func (p OperandProperties) ShiftImmediate() (uint32, bool) {
	return p.shiftValue.Immediate()
}

// ShiftRegister returns the register holding the shift amount if the amount
// was stored as a register.
func (p OperandProperties) ShiftRegister() (Register, bool) {
	return p.shiftValue.Register()
}

// ExtendType returns the type of the extend.
func (p OperandProperties) ExtendType() ExtendType {
	return p.extendType
}

// ExtendSize returns the size in bits after extension. It is whatever was
// stored with SetExtendedSize; it is not derived from the extend type.
func (p OperandProperties) ExtendSize() uint32 {
	return p.extendSize
}

// VASType returns the vector arrangement specifier.
func (p OperandProperties) VASType() Arrangement {
	return p.vasType
}

// VASName returns the mnemonic of the vector arrangement, e.g. "4S".
func (p OperandProperties) VASName() (string, error) {
	return ArrangementName(p.vasType)
}

// VASSize returns the vector width in bits (64 or 128).
func (p OperandProperties) VASSize() (uint32, error) {
	return ArrangementSize(p.vasType)
}

// VectorIndex returns the lane index; ok is false for whole-vector operands.
func (p OperandProperties) VectorIndex() (index int32, ok bool) {
	if !p.hasIndex {
		return 0, false
	}
	return p.vectorIndex, true
}

// RawVectorIndex returns the lane index, or -1 if there is none. A negative
// value passed to SetVectorIndex is not kept, so this never echoes it: after
// SetVectorIndex(-7) it returns -1.
func (p OperandProperties) RawVectorIndex() int32 {
	if !p.hasIndex {
		return -1
	}
	return p.vectorIndex
}

// IsSubtracted returns true if the operand has to be subtracted when
// computing a memory address.
func (p OperandProperties) IsSubtracted() bool {
	return p.subtracted
}

// SetShiftType sets the type of the shift.
func (p *OperandProperties) SetShiftType(t ShiftType) {
	p.shiftType = t
}

// SetShiftImmediate stores the shift amount as an immediate, replacing any
// register amount.
func (p *OperandProperties) SetShiftImmediate(imm uint32) {
	p.shiftValue = ShiftByImmediate(imm)
}

// SetShiftRegister stores the shift amount as a register, replacing any
// immediate amount.
func (p *OperandProperties) SetShiftRegister(reg Register) {
	p.shiftValue = ShiftByRegister(reg)
}

// SetShiftValue stores v as the shift amount.
func (p *OperandProperties) SetShiftValue(v ShiftValue) {
	p.shiftValue = v
}

// ClearShiftValue forgets the shift amount.
func (p *OperandProperties) ClearShiftValue() {
	p.shiftValue = ShiftValue{}
}

// SetExtendType sets the type of the extend.
func (p *OperandProperties) SetExtendType(t ExtendType) {
	p.extendType = t
}

// SetExtendedSize sets the size in bits after extension. The caller is
// responsible for it matching the destination width.
func (p *OperandProperties) SetExtendedSize(bits uint32) {
	p.extendSize = bits
}

// SetVASType sets the vector arrangement specifier.
func (p *OperandProperties) SetVASType(a Arrangement) {
	p.vasType = a
}

// SetVectorIndex sets the lane index. Any negative index, the -1 sentinel
// included, clears the index instead of being stored, so RawVectorIndex
// reports -1 rather than the value passed in.
func (p *OperandProperties) SetVectorIndex(index int32) {
	if index < 0 {
		p.ClearVectorIndex()
		return
	}
	p.vectorIndex = index
	p.hasIndex = true
}

// ClearVectorIndex marks the operand as a whole-vector operand.
func (p *OperandProperties) ClearVectorIndex() {
	p.vectorIndex = 0
	p.hasIndex = false
}

// SetSubtracted sets the subtracted flag.
func (p *OperandProperties) SetSubtracted(v bool) {
	p.subtracted = v
}

// Sign returns "-" for a subtracted operand and "" otherwise, the prefix it
// takes in disassembly.
func (p OperandProperties) Sign() string {
	if p.subtracted {
		return "-"
	}
	return ""
}

// String renders the decorations the way they follow an operand in
// disassembly, e.g. ".4S[1]" or ", UXTW #2". The sign is not included, see
// Sign. Registers print with their numeric fallback; use Format to name them.
func (p OperandProperties) String() string {
	return p.Format(nil)
}

// Format is String with registers rendered by name. A nil name uses
// Register.String.
func (p OperandProperties) Format(name RegisterNamer) string {
	if name == nil {
		name = Register.String
	}

	var b strings.Builder
	if vas, err := p.VASName(); err == nil {
		b.WriteString("." + vas)
	}
	if idx, ok := p.VectorIndex(); ok {
		fmt.Fprintf(&b, "[%d]", idx)
	}

	switch {
	case p.extendType != ExtendNone:
		// An extended register carries its left shift as "UXTW #2".
		b.WriteString(", " + p.extendType.String())
		if p.shiftType != ShiftNone && p.shiftType != ShiftLSL {
			b.WriteString(" " + p.shiftType.String())
		}
	case p.shiftType != ShiftNone:
		b.WriteString(", " + p.shiftType.String())
	default:
		return b.String()
	}
	if imm, ok := p.shiftValue.Immediate(); ok {
		fmt.Fprintf(&b, " #%d", imm)
	} else if reg, ok := p.shiftValue.Register(); ok {
		b.WriteString(" " + name(reg))
	}
	return b.String()
}
