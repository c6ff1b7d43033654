// Package thumb decodes Thumb load and store instructions, both the 16-bit
// encodings and the 32-bit Thumb-2 single, dual and multiple transfers, and
// records the sign and shift of their offsets in arm.OperandProperties.
//
// A 16-bit instruction is passed as a word no larger than 0xFFFF. A 32-bit
// instruction is passed with its first halfword in the top half, so the
// bytes 51 F8 04 0C in memory form the word 0xF8510C04.
package thumb

import (
	"errors"
	"fmt"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/cpu"
	"GoArmOps/internal/interfaces"
	"GoArmOps/util/dbg"
)

// ErrUndefined is returned for encodings outside the decoded load/store
// groups and for reserved field values inside them.
var ErrUndefined = errors.New("undefined or unsupported Thumb encoding")

func undefined(word uint32, why string) error {
	return fmt.Errorf("%w: %04X: %s", ErrUndefined, word, why)
}

// Is32Bit reports whether hw is the first halfword of a 32-bit instruction.
func Is32Bit(hw uint16) bool {
	return hw&0xF800 == 0xE800 || hw&0xF000 == 0xF000
}

// Size is the length in bytes of the instruction held in word.
func Size(word uint32) int {
	if word > 0xFFFF {
		return 4
	}
	return 2
}

// Decoder is the Thumb instruction decoder.
type Decoder struct {
	interfaces.DecoderInterface
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

func (d *Decoder) Decode(word uint32) (interfaces.InstructionInterface, error) {
	inst, err := DecodeInstruction(word)
	if err != nil {
		return nil, err
	}
	return inst, nil
}

func (d *Decoder) RegisterName(r arm.Register) string {
	return cpu.RegisterName(r)
}

// Size lets a caller step over 16-bit and 32-bit instructions.
func (d *Decoder) Size(word uint32) int {
	return Size(word)
}

// DecodeInstruction decodes one 16-bit or 32-bit Thumb instruction.
func DecodeInstruction(word uint32) (*Instruction, error) {
	inst := &Instruction{}
	var err error
	if word > 0xFFFF {
		hw1 := uint16(word >> 16)
		if !Is32Bit(hw1) {
			return nil, undefined(word, "first halfword is a 16-bit instruction")
		}
		inst.Wide = true
		err = decode32(hw1, uint16(word), inst)
	} else {
		hw := uint16(word)
		if Is32Bit(hw) {
			return nil, undefined(word, "first half of a 32-bit instruction")
		}
		err = decode16(hw, inst)
	}
	if err != nil {
		return nil, err
	}
	dbg.Printf("thumb: %08X %s\n", word, inst)
	return inst, nil
}
