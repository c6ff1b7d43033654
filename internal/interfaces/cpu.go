package interfaces

import (
	"fmt"
	"strings"

	"GoArmOps/internal/arm"
)

// DecoratedOperand is one operand of a decoded instruction: the register or
// immediate text and the decorations that apply to it. Reg is
// arm.RegisterInvalid for immediates.
type DecoratedOperand struct {
	Text  string
	Reg   arm.Register
	Props arm.OperandProperties
}

// Format renders the operand with its sign and decorations, e.g.
// "-r2, LSL r3" or "#-8", naming registers with name.
func (o DecoratedOperand) Format(name arm.RegisterNamer) string {
	if imm, ok := strings.CutPrefix(o.Text, "#"); ok {
		return "#" + o.Props.Sign() + imm + o.Props.Format(name)
	}
	return o.Props.Sign() + o.Text + o.Props.Format(name)
}

func (o DecoratedOperand) String() string {
	return o.Format(nil)
}

// InstructionInterface is a decoded instruction as seen by the CLI and the
// lifting layer.
type InstructionInterface interface {
	fmt.Stringer
	Mnemonic() string
	DecoratedOperands() []DecoratedOperand
	Disassemble() string
}

// DecoderInterface turns one instruction word into an instruction.
type DecoderInterface interface {
	Decode(word uint32) (InstructionInterface, error)
	RegisterName(arm.Register) string
}
