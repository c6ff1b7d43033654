package lift

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
	"GoArmOps/util/dbg"
)

// Evaluator computes operand values against a register file. Width is the
// general purpose register width in bits, 32 for A32 and 64 for A64.
type Evaluator struct {
	Regs  interfaces.RegisterReader
	Width uint32
}

// NewEvaluator returns an evaluator over regs at the register file's width.
func NewEvaluator(regs interfaces.RegistersInterface) *Evaluator {
	return &Evaluator{Regs: regs, Width: regs.Width()}
}

func (e *Evaluator) carry() bool {
	if f, ok := e.Regs.(interfaces.FlagReader); ok {
		return f.GetFlagC()
	}
	return false
}

// shiftAmount resolves the shift amount, whichever alternative is stored.
// A register amount uses its bottom byte.
func (e *Evaluator) shiftAmount(props arm.OperandProperties) uint32 {
	if imm, ok := props.ShiftImmediate(); ok {
		return imm
	}
	if reg, ok := props.ShiftRegister(); ok {
		return uint32(e.Regs.GetReg(reg) & 0xFF)
	}
	return 0
}

// Value returns the value of reg after its decorations: extended to
// ExtendSize bits (the register width if unset), then shifted. A shift with
// no extend happens at the width of reg itself when the register file
// implements interfaces.RegisterWidther, so W registers shift at 32 bits.
// The second result is the shifter carry out.
func (e *Evaluator) Value(reg arm.Register, props arm.OperandProperties) (uint64, bool, error) {
	width := e.Width
	if rw, ok := e.Regs.(interfaces.RegisterWidther); ok {
		width = rw.RegisterWidth(reg)
	}
	return e.apply(e.Regs.GetReg(reg), width, props)
}

// Apply runs the extend and shift of props on an already read value at the
// evaluator's width.
func (e *Evaluator) Apply(value uint64, props arm.OperandProperties) (uint64, bool, error) {
	return e.apply(value, e.Width, props)
}

func (e *Evaluator) apply(value uint64, width uint32, props arm.OperandProperties) (uint64, bool, error) {
	if props.ExtendType() != arm.ExtendNone {
		width = e.Width
		if size := props.ExtendSize(); size != 0 {
			width = size
		}
		value = Extend(value, props.ExtendType(), width)
	}

	result, carry, err := Shift(value, width, props.ShiftType(), e.shiftAmount(props), e.carry())
	if err != nil {
		return 0, false, fmt.Errorf("evaluating %s: %w", props, err)
	}
	dbg.Printf("lift: %#x%s = %#x (C=%t)\n", value, props, result, carry)
	return result, carry, nil
}

// Address returns base plus offset, or base minus offset for a subtracted
// operand, wrapped to the register width.
func (e *Evaluator) Address(base, offset uint64, props arm.OperandProperties) uint64 {
	if props.IsSubtracted() {
		return (base - offset) & mask(e.Width)
	}
	return (base + offset) & mask(e.Width)
}

// immediate parses the text of an immediate operand. Negative immediates
// wrap to the evaluator's width. Text without a leading '#', such as a
// status register name, returns ErrNoValue.
func (e *Evaluator) immediate(text string) (uint64, error) {
	digits, ok := strings.CutPrefix(text, "#")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrNoValue, text)
	}
	if n, err := strconv.ParseInt(digits, 0, 64); err == nil {
		return uint64(n) & mask(e.Width), nil
	}
	n, err := strconv.ParseUint(digits, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("operand %q: %w", text, err)
	}
	return n & mask(e.Width), nil
}

// Operand evaluates a decoded operand. Immediates have no register and
// evaluate to the immediate parsed from their text; indexed vector operands
// evaluate to their lane. Operands with neither, like CPSR, return
// ErrNoValue.
func (e *Evaluator) Operand(op interfaces.DecoratedOperand) (uint64, error) {
	if op.Reg == arm.RegisterInvalid {
		imm, err := e.immediate(op.Text)
		if err != nil {
			return 0, err
		}
		v, _, err := e.Apply(imm, op.Props)
		return v, err
	}
	if _, ok := op.Props.VectorIndex(); ok {
		return e.VectorLane(op.Reg, op.Props)
	}
	v, _, err := e.Value(op.Reg, op.Props)
	return v, err
}

// MemoryAddress is the address of a [base, offset] operand: the offset is
// evaluated with its decorations and then added to or subtracted from the
// base register.
func (e *Evaluator) MemoryAddress(base arm.Register, offset interfaces.DecoratedOperand) (uint64, error) {
	off, err := e.Operand(offset)
	if err != nil {
		return 0, err
	}
	return e.Address(e.Regs.GetReg(base), off, offset.Props), nil
}

// Lane returns the bytes of the lane props selects in vector, a little
// endian SIMD register image.
func Lane(vector []byte, props arm.OperandProperties) ([]byte, error) {
	idx, ok := props.VectorIndex()
	if !ok {
		return nil, ErrNoLane
	}
	laneBits, err := arm.ArrangementLaneBits(props.VASType())
	if err != nil {
		return nil, err
	}
	lanes, err := arm.ArrangementLanes(props.VASType())
	if err != nil {
		return nil, err
	}
	if uint32(idx) >= lanes {
		return nil, fmt.Errorf("%w: index %d of %s", ErrNoLane, idx, props.VASType())
	}

	n := int(laneBits / 8)
	start := int(idx) * n
	if start+n > len(vector) {
		return nil, fmt.Errorf("%w: lane %d past a %d-byte vector", ErrNoLane, idx, len(vector))
	}
	return vector[start : start+n], nil
}

// LaneValue is Lane read as an unsigned integer. Lanes wider than 64 bits
// return ErrWidth.
func LaneValue(vector []byte, props arm.OperandProperties) (uint64, error) {
	lane, err := Lane(vector, props)
	if err != nil {
		return 0, err
	}
	switch len(lane) {
	case 1:
		return uint64(lane[0]), nil
	case 2:
		return uint64(binary.LittleEndian.Uint16(lane)), nil
	case 4:
		return uint64(binary.LittleEndian.Uint32(lane)), nil
	case 8:
		return binary.LittleEndian.Uint64(lane), nil
	}
	return 0, fmt.Errorf("%w: %d-bit lane", ErrWidth, len(lane)*8)
}

// VectorLane reads the lane an indexed vector operand selects from the
// register file. The register file must implement interfaces.VectorReader.
func (e *Evaluator) VectorLane(reg arm.Register, props arm.OperandProperties) (uint64, error) {
	vr, ok := e.Regs.(interfaces.VectorReader)
	if !ok {
		return 0, fmt.Errorf("%w: no vector registers", ErrNoLane)
	}
	return LaneValue(vr.GetVector(reg), props)
}
