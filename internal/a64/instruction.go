// Package a64 decodes a subset of AArch64 instructions, the classes whose
// operands carry shifts, extends, vector arrangements and lane indexes, and
// records those decorations in arm.OperandProperties.
package a64

import (
	"fmt"
	"strings"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
)

// Op represents an AArch64 operation.
type Op uint16

const (
	OpUnknown Op = iota

	// Data processing
	OpADD
	OpSUB
	OpAND
	OpBIC
	OpORR
	OpORN
	OpEOR
	OpEON
	OpMOVN
	OpMOVZ
	OpMOVK

	// Load/store
	OpSTR
	OpLDR
	OpSTRB
	OpLDRB
	OpSTRH
	OpLDRH
	OpLDRSB
	OpLDRSH
	OpLDRSW

	// SIMD
	OpVADD
	OpVSUB
	OpVMUL
	OpVAND
	OpVBIC
	OpVORR
	OpVORN
	OpVEOR
	OpVFADD
	OpVFSUB
	OpVFMUL
	OpDUP
	OpINS
	OpUMOV
	OpSMOV
	OpSHL
	OpSSHR
	OpUSHR
	OpMOVI
	OpMVNI
)

var opNames = map[Op]string{
	OpADD: "ADD", OpSUB: "SUB", OpAND: "AND", OpBIC: "BIC",
	OpORR: "ORR", OpORN: "ORN", OpEOR: "EOR", OpEON: "EON",
	OpMOVN: "MOVN", OpMOVZ: "MOVZ", OpMOVK: "MOVK",

	OpSTR: "STR", OpLDR: "LDR", OpSTRB: "STRB", OpLDRB: "LDRB",
	OpSTRH: "STRH", OpLDRH: "LDRH", OpLDRSB: "LDRSB", OpLDRSH: "LDRSH",
	OpLDRSW: "LDRSW",

	OpVADD: "ADD", OpVSUB: "SUB", OpVMUL: "MUL", OpVAND: "AND",
	OpVBIC: "BIC", OpVORR: "ORR", OpVORN: "ORN", OpVEOR: "EOR",
	OpVFADD: "FADD", OpVFSUB: "FSUB", OpVFMUL: "FMUL",
	OpDUP: "DUP", OpINS: "INS", OpUMOV: "UMOV", OpSMOV: "SMOV",
	OpSHL: "SHL", OpSSHR: "SSHR", OpUSHR: "USHR",
	OpMOVI: "MOVI", OpMVNI: "MVNI",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Format represents the encoding class of an instruction.
type Format uint8

const (
	FormatUnknown Format = iota
	FormatDPImm          // Add/sub (immediate)
	FormatDPReg          // Add/sub and logical (shifted register)
	FormatDPExt          // Add/sub (extended register)
	FormatMoveWide       // MOVN, MOVZ, MOVK
	FormatLoadStore      // Load/store register, all addressing modes
	FormatSIMDReg        // Advanced SIMD three same
	FormatSIMDCopy       // Advanced SIMD copy
	FormatSIMDShift      // Advanced SIMD shift by immediate
	FormatSIMDImm        // Advanced SIMD modified immediate
)

var formatNames = [...]string{
	FormatUnknown:   "unknown",
	FormatDPImm:     "add/sub immediate",
	FormatDPReg:     "shifted register",
	FormatDPExt:     "extended register",
	FormatMoveWide:  "move wide",
	FormatLoadStore: "load/store",
	FormatSIMDReg:   "SIMD three same",
	FormatSIMDCopy:  "SIMD copy",
	FormatSIMDShift: "SIMD shift by immediate",
	FormatSIMDImm:   "SIMD modified immediate",
}

func (f Format) String() string {
	if int(f) < len(formatNames) {
		return formatNames[f]
	}
	return fmt.Sprintf("Format(%d)", uint8(f))
}

// IndexMode is the addressing mode of a load/store.
type IndexMode uint8

const (
	IndexNone         IndexMode = iota
	IndexUnsigned               // [Xn, #imm], scaled unsigned offset
	IndexUnscaled               // [Xn, #simm] (LDUR/STUR)
	IndexUnprivileged           // [Xn, #simm] (LDTR/STTR)
	IndexPre                    // [Xn, #simm]!
	IndexPost                   // [Xn], #simm
	IndexRegBase                // [Xn, Xm{, extend {#amount}}]
)

// Instruction represents a decoded AArch64 instruction.
type Instruction struct {
	Op     Op
	Format Format

	Is64Bit  bool // X (or 128-bit Q for SIMD) rather than W (64-bit D)
	SetFlags bool
	Rd       uint8 // Destination register, Rt for load/store
	Rn       uint8
	Rm       uint8
	Imm      uint64 // Immediate before any shift applied to it

	IndexMode   IndexMode
	Arrangement arm.Arrangement // Vector arrangement of Vd

	operands []interfaces.DecoratedOperand
}

func (inst *Instruction) add(op interfaces.DecoratedOperand) {
	inst.operands = append(inst.operands, op)
}

func (inst *Instruction) addReg(r arm.Register, props arm.OperandProperties) {
	inst.add(interfaces.DecoratedOperand{Text: RegisterName(r), Reg: r, Props: props})
}

func (inst *Instruction) addImm(text string, props arm.OperandProperties) {
	inst.add(interfaces.DecoratedOperand{Text: text, Props: props})
}

// addVec adds Vn with arrangement a; a negative index is a whole-vector
// operand.
func (inst *Instruction) addVec(n uint8, a arm.Arrangement, index int32) {
	props := arm.NewOperandProperties()
	props.SetVASType(a)
	props.SetVectorIndex(index)
	inst.addReg(V(n), props)
}

// Mnemonic returns the assembler mnemonic.
func (inst *Instruction) Mnemonic() string {
	m := inst.Op.String()
	if inst.SetFlags {
		m += "S"
	}
	if inst.Format == FormatLoadStore {
		switch inst.IndexMode {
		case IndexUnscaled:
			m = m[:2] + "U" + m[2:]
		case IndexUnprivileged:
			m = m[:2] + "T" + m[2:]
		}
	}
	return m
}

// DecoratedOperands lists the operands in assembler order. Load/stores list
// Rt, the base register and the offset, if any.
func (inst *Instruction) DecoratedOperands() []interfaces.DecoratedOperand {
	return inst.operands
}

// Disassemble renders inst as one line of assembler.
func (inst *Instruction) Disassemble() string {
	parts := make([]string, 0, len(inst.operands))
	for _, op := range inst.operands {
		parts = append(parts, op.Format(RegisterName))
	}

	if inst.Format == FormatLoadStore && len(parts) >= 2 {
		base, offset := parts[1], ""
		if len(parts) > 2 && inst.operands[2].Text != "#0" {
			offset = parts[2]
		}
		var mem []string
		switch {
		case inst.IndexMode == IndexPost && offset != "":
			mem = []string{"[" + base + "]", offset}
		case inst.IndexMode == IndexPre:
			if offset == "" {
				offset = "#0"
			}
			mem = []string{"[" + base + ", " + offset + "]!"}
		case offset == "":
			mem = []string{"[" + base + "]"}
		default:
			mem = []string{"[" + base + ", " + offset + "]"}
		}
		parts = append(parts[:1], mem...)
	}

	if len(parts) == 0 {
		return inst.Mnemonic()
	}
	return inst.Mnemonic() + " " + strings.Join(parts, ", ")
}

func (inst *Instruction) String() string {
	return fmt.Sprintf("%s (%s)", inst.Disassemble(), inst.Format)
}
