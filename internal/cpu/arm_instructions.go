package cpu

import (
	"fmt"
	"strings"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
)

var conditionNames = [16]string{
	"EQ", "NE", "CS", "CC", "MI", "PL", "VS", "VC",
	"HI", "LS", "GE", "LT", "GT", "LE", "", "NV",
}

// String returns the mnemonic suffix of c; AL is the empty string.
func (c ARMCondition) String() string {
	return conditionNames[c&0xF]
}

var dataProcessingNames = [16]string{
	"AND", "EOR", "SUB", "RSB", "ADD", "ADC", "SBC", "RSC",
	"TST", "TEQ", "CMP", "CMN", "ORR", "MOV", "BIC", "MVN",
}

func (op ARMDataProcessingOperation) String() string {
	return dataProcessingNames[op&0xF]
}

// writesRd is false for the compare ops.
func (op ARMDataProcessingOperation) writesRd() bool {
	return op < TST || op > CMN
}

// readsRn is false for the move ops.
func (op ARMDataProcessingOperation) readsRn() bool {
	return op != MOV && op != MVN
}

// Reg converts an A32 register number (0-15) to its operand id.
func Reg(n uint8) arm.Register {
	return arm.Register(n&0xF) + 1
}

// RegNum is the inverse of Reg.
func RegNum(r arm.Register) (uint8, bool) {
	if r == arm.RegisterInvalid || r > 16 {
		return 0, false
	}
	return uint8(r - 1), true
}

// RegisterName returns the assembler name of an A32 register.
func RegisterName(r arm.Register) string {
	n, ok := RegNum(r)
	if !ok {
		return r.String()
	}
	switch n {
	case 13:
		return "sp"
	case 14:
		return "lr"
	case 15:
		return "pc"
	}
	return fmt.Sprintf("r%d", n)
}

// Mnemonic returns the assembler mnemonic including the condition suffix.
func (inst ARMInstruction) Mnemonic() string {
	var m string
	switch inst.Type {
	case ARMITDataProcessing:
		m = inst.OpcodeDP.String()
		if inst.S && inst.OpcodeDP.writesRd() {
			m += "S"
		}
	case ARMITLoadStore:
		m = "STR"
		if inst.L {
			m = "LDR"
		}
		if inst.B {
			m += "B"
		}
	case ARMITHalfwordTransfer:
		m = "STR"
		if inst.L {
			m = "LDR"
		}
		switch {
		case inst.Signed && inst.H:
			m += "SH"
		case inst.Signed:
			m += "SB"
		default:
			m += "H"
		}
	case ARMITBranch:
		switch {
		case inst.Exchange && inst.Link:
			m = "BLX"
		case inst.Exchange:
			m = "BX"
		case inst.Link:
			m = "BL"
		default:
			m = "B"
		}
	case ARMITSWI:
		m = "SWI"
	case ARMITBlockDataTransfer:
		m = "STM"
		if inst.L {
			m = "LDM"
		}
	case ARMITMultiply:
		switch {
		case inst.Long:
			m = "U"
			if inst.Signed {
				m = "S"
			}
			m += "MULL"
			if inst.A {
				m = m[:1] + "MLAL"
			}
		case inst.A:
			m = "MLA"
		default:
			m = "MUL"
		}
		if inst.S {
			m += "S"
		}
	case ARMITTransferMRS:
		m = "MRS"
	case ARMITTransferMSR:
		m = "MSR"
	default:
		return "UNDEFINED"
	}
	return m + inst.Cond.String()
}

func plain(n uint8) interfaces.DecoratedOperand {
	return interfaces.DecoratedOperand{Text: RegisterName(Reg(n)), Reg: Reg(n)}
}

func decorated(n uint8, props arm.OperandProperties) interfaces.DecoratedOperand {
	op := plain(n)
	op.Props = props
	return op
}

// DecoratedOperands lists the operands of inst in assembler order. The
// shifter operand of data processing and the offset of transfers carry
// Operand2.
func (inst ARMInstruction) DecoratedOperands() []interfaces.DecoratedOperand {
	var ops []interfaces.DecoratedOperand
	switch inst.Type {
	case ARMITDataProcessing:
		if inst.OpcodeDP.writesRd() {
			ops = append(ops, plain(inst.Rd))
		}
		if inst.OpcodeDP.readsRn() {
			ops = append(ops, plain(inst.Rn))
		}
		if inst.I {
			ops = append(ops, interfaces.DecoratedOperand{Text: fmt.Sprintf("#%d", inst.Immediate)})
		} else {
			ops = append(ops, decorated(inst.Rm, inst.Operand2))
		}
	case ARMITLoadStore, ARMITHalfwordTransfer:
		ops = append(ops, plain(inst.Rd), plain(inst.Rn))
		if inst.hasImmediateOffset() {
			ops = append(ops, interfaces.DecoratedOperand{Text: fmt.Sprintf("#%d", inst.Offset), Props: inst.Operand2})
		} else {
			ops = append(ops, decorated(inst.Rm, inst.Operand2))
		}
	case ARMITMultiply:
		if inst.Long {
			ops = append(ops, plain(inst.RdLo), plain(inst.RdHi), plain(inst.Rm), plain(inst.Rs))
		} else {
			ops = append(ops, plain(inst.Rd), plain(inst.Rm), plain(inst.Rs))
			if inst.A {
				ops = append(ops, plain(inst.Rn))
			}
		}
	case ARMITBranch:
		if inst.Exchange {
			ops = append(ops, plain(inst.Rm))
		} else {
			ops = append(ops, interfaces.DecoratedOperand{Text: fmt.Sprintf("#%d", inst.OffsetBranch)})
		}
	case ARMITBlockDataTransfer:
		ops = append(ops, plain(inst.Rn))
		for i := uint8(0); i < 16; i++ {
			if inst.RegisterList&(1<<i) != 0 {
				ops = append(ops, plain(i))
			}
		}
	case ARMITSWI:
		ops = append(ops, interfaces.DecoratedOperand{Text: fmt.Sprintf("#0x%X", inst.SWIComment)})
	case ARMITTransferMRS:
		psr := "CPSR"
		if inst.SPSR {
			psr = "SPSR"
		}
		ops = append(ops, plain(inst.Rd), interfaces.DecoratedOperand{Text: psr})
	}
	return ops
}

// Disassemble renders inst as one line of assembler, memory operands in
// brackets.
func (inst ARMInstruction) Disassemble() string {
	ops := inst.DecoratedOperands()
	parts := make([]string, 0, len(ops))
	for _, op := range ops {
		parts = append(parts, op.Format(RegisterName))
	}

	if (inst.Type == ARMITLoadStore || inst.Type == ARMITHalfwordTransfer) && len(parts) == 3 {
		offset := parts[2]
		if inst.hasImmediateOffset() && inst.Offset == 0 {
			offset = ""
		}
		switch {
		case offset == "":
			parts = []string{parts[0], "[" + parts[1] + "]"}
		case inst.P:
			mem := "[" + parts[1] + ", " + offset + "]"
			if inst.W {
				mem += "!"
			}
			parts = []string{parts[0], mem}
		default:
			parts = []string{parts[0], "[" + parts[1] + "]", offset}
		}
	}

	if len(parts) == 0 {
		return inst.Mnemonic()
	}
	return inst.Mnemonic() + " " + strings.Join(parts, ", ")
}
