package thumb

import (
	"fmt"
	"strings"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/cpu"
	"GoArmOps/internal/interfaces"
)

// Op represents a Thumb load/store operation.
type Op uint8

const (
	OpUnknown Op = iota

	OpLDR
	OpSTR
	OpLDRB
	OpSTRB
	OpLDRH
	OpSTRH
	OpLDRSB
	OpLDRSH
	OpLDRD
	OpSTRD
	OpLDM
	OpSTM
	OpPUSH
	OpPOP
	OpADR
)

var opNames = map[Op]string{
	OpLDR:   "LDR",
	OpSTR:   "STR",
	OpLDRB:  "LDRB",
	OpSTRB:  "STRB",
	OpLDRH:  "LDRH",
	OpSTRH:  "STRH",
	OpLDRSB: "LDRSB",
	OpLDRSH: "LDRSH",
	OpLDRD:  "LDRD",
	OpSTRD:  "STRD",
	OpLDM:   "LDM",
	OpSTM:   "STM",
	OpPUSH:  "PUSH",
	OpPOP:   "POP",
	OpADR:   "ADR",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}
	return "UNKNOWN"
}

// Format is the encoding group an instruction was decoded from.
type Format uint8

const (
	FormatUnknown  Format = iota
	FormatSingle          // LDR/STR and their byte, halfword and signed forms
	FormatDual            // LDRD/STRD
	FormatMultiple        // LDM/STM
	FormatStack           // PUSH/POP
	FormatAddress         // ADR
)

func (f Format) String() string {
	switch f {
	case FormatSingle:
		return "single"
	case FormatDual:
		return "dual"
	case FormatMultiple:
		return "multiple"
	case FormatStack:
		return "stack"
	case FormatAddress:
		return "address"
	}
	return "unknown"
}

// IndexMode is the addressing mode of a single or dual transfer.
type IndexMode uint8

const (
	IndexOffset       IndexMode = iota // [Rn, #imm]
	IndexPre                           // [Rn, #imm]!
	IndexPost                          // [Rn], #imm
	IndexUnprivileged                  // [Rn, #imm] (LDRT/STRT)
)

// Instruction is a decoded Thumb instruction. Wide is set for the 32-bit
// encodings.
type Instruction struct {
	Op     Op
	Format Format
	Wide   bool

	Rt  uint8 // Rd for ADR
	Rt2 uint8
	Rn  uint8
	Rm  uint8
	Imm uint32 // offset magnitude, scaled

	IndexMode       IndexMode
	Writeback       bool // multiple transfers
	DecrementBefore bool // LDMDB/STMDB
	RegisterList    uint16

	operands []interfaces.DecoratedOperand
}

func (inst *Instruction) addReg(n uint8, props arm.OperandProperties) {
	r := cpu.Reg(n)
	inst.operands = append(inst.operands, interfaces.DecoratedOperand{Text: cpu.RegisterName(r), Reg: r, Props: props})
}

// addOffset adds the immediate offset; subtract stores the U bit clear.
func (inst *Instruction) addOffset(imm uint32, subtract bool) {
	props := arm.NewOperandProperties()
	props.SetSubtracted(subtract)
	inst.Imm = imm
	inst.operands = append(inst.operands, interfaces.DecoratedOperand{Text: fmt.Sprintf("#%d", imm), Props: props})
}

func (inst *Instruction) addList(list uint16) {
	inst.RegisterList = list
	for i := uint8(0); i < 16; i++ {
		if list&(1<<i) != 0 {
			inst.addReg(i, arm.NewOperandProperties())
		}
	}
}

// Mnemonic returns the assembler mnemonic.
func (inst *Instruction) Mnemonic() string {
	m := inst.Op.String()
	switch {
	case inst.IndexMode == IndexUnprivileged:
		m += "T"
	case inst.DecrementBefore:
		m += "DB"
	}
	return m
}

// DecoratedOperands lists the operands in assembler order. Single transfers
// list Rt, Rn and the offset; dual transfers list Rt, Rt2, Rn and the
// offset. The offset is always present, "#0" when the encoding has none.
// LDM/STM list Rn and then the register list.
func (inst *Instruction) DecoratedOperands() []interfaces.DecoratedOperand {
	return inst.operands
}

func isZero(op interfaces.DecoratedOperand) bool {
	return op.Reg == arm.RegisterInvalid && op.Text == "#0"
}

// Disassemble renders inst as one line of assembler.
func (inst *Instruction) Disassemble() string {
	parts := make([]string, 0, len(inst.operands))
	for _, op := range inst.operands {
		parts = append(parts, op.Format(cpu.RegisterName))
	}

	switch inst.Format {
	case FormatSingle, FormatDual:
		b := 1
		if inst.Format == FormatDual {
			b = 2
		}
		base, offset := parts[b], parts[b+1]
		if isZero(inst.operands[b+1]) {
			offset = ""
		}
		var mem []string
		switch {
		case inst.IndexMode == IndexPost:
			mem = []string{"[" + base + "]", parts[b+1]}
		case inst.IndexMode == IndexPre && offset == "":
			mem = []string{"[" + base + "]!"}
		case inst.IndexMode == IndexPre:
			mem = []string{"[" + base + ", " + offset + "]!"}
		case offset == "":
			mem = []string{"[" + base + "]"}
		default:
			mem = []string{"[" + base + ", " + offset + "]"}
		}
		parts = append(parts[:b], mem...)
	case FormatMultiple:
		base := parts[0]
		if inst.Writeback {
			base += "!"
		}
		parts = []string{base, "{" + strings.Join(parts[1:], ", ") + "}"}
	case FormatStack:
		parts = []string{"{" + strings.Join(parts, ", ") + "}"}
	}

	if len(parts) == 0 {
		return inst.Mnemonic()
	}
	return inst.Mnemonic() + " " + strings.Join(parts, ", ")
}

func (inst *Instruction) String() string {
	size := 16
	if inst.Wide {
		size = 32
	}
	return fmt.Sprintf("%s (%s, %d-bit)", inst.Disassemble(), inst.Format, size)
}
