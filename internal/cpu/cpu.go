// Package cpu decodes 32-bit ARM (A32) instructions and records the
// modifiers of their operands in arm.OperandProperties.
package cpu

import (
	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
)

// Decoder is the A32 instruction decoder.
type Decoder struct {
	interfaces.DecoderInterface
}

func NewDecoder() interfaces.DecoderInterface {
	return &Decoder{}
}

// Decode decodes one little-endian-assembled ARM instruction word.
func (d *Decoder) Decode(word uint32) (interfaces.InstructionInterface, error) {
	inst, err := DecodeInstruction_Arm(word)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (d *Decoder) RegisterName(r arm.Register) string {
	return RegisterName(r)
}
