package arm

import "fmt"

// ShiftType defines the shift or rotate applied to a register operand.
type ShiftType uint8

const (
	ShiftNone ShiftType = iota // No shift
	ShiftLSL                   // Logical Shift Left
	ShiftLSR                   // Logical Shift Right
	ShiftASR                   // Arithmetic Shift Right
	ShiftROR                   // Rotate Right
	ShiftRRX                   // Rotate Right Extended (through carry, by one)
	ShiftMSL                   // Masking Shift Left (AArch64 MOVI/MVNI, shifts in ones)
)

var shiftNames = [...]string{
	ShiftNone: "",
	ShiftLSL:  "LSL",
	ShiftLSR:  "LSR",
	ShiftASR:  "ASR",
	ShiftROR:  "ROR",
	ShiftRRX:  "RRX",
	ShiftMSL:  "MSL",
}

func (s ShiftType) String() string {
	if int(s) < len(shiftNames) {
		return shiftNames[s]
	}
	return fmt.Sprintf("ShiftType(%d)", uint8(s))
}

type shiftValueKind uint8

const (
	shiftValueNone shiftValueKind = iota
	shiftValueImmediate
	shiftValueRegister
)

// ShiftValue is the amount of a shift: either an immediate or the register
// holding the amount. Only the alternative that was stored can be read back.
type ShiftValue struct {
	kind shiftValueKind
	imm  uint32
	reg  Register
}

// ShiftByImmediate returns a shift amount given by an immediate.
func ShiftByImmediate(imm uint32) ShiftValue {
	return ShiftValue{kind: shiftValueImmediate, imm: imm}
}

// ShiftByRegister returns a shift amount held in a register.
func ShiftByRegister(reg Register) ShiftValue {
	return ShiftValue{kind: shiftValueRegister, reg: reg}
}

// IsNone reports whether no shift amount has been stored.
func (v ShiftValue) IsNone() bool {
	return v.kind == shiftValueNone
}

// Immediate returns the immediate amount, ok is false if the amount is not
// an immediate.
func (v ShiftValue) Immediate() (imm uint32, ok bool) {
	if v.kind != shiftValueImmediate {
		return 0, false
	}
	return v.imm, true
}

// Register returns the register holding the amount, ok is false if the
// amount is not a register.
func (v ShiftValue) Register() (reg Register, ok bool) {
	if v.kind != shiftValueRegister {
		return RegisterInvalid, false
	}
	return v.reg, true
}

func (v ShiftValue) String() string {
	switch v.kind {
	case shiftValueImmediate:
		return fmt.Sprintf("#%d", v.imm)
	case shiftValueRegister:
		return v.reg.String()
	}
	return ""
}
