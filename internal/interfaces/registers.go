package interfaces

import "GoArmOps/internal/arm"

// RegisterReader gives read access to a register file. Registers are named
// by the ids the decoder put into the operand.
type RegisterReader interface {
	GetReg(arm.Register) uint64
}

// FlagReader exposes the carry flag, the input of RRX.
type FlagReader interface {
	GetFlagC() bool
}

// RegistersInterface is a register file the lifting layer can evaluate
// operands against.
type RegistersInterface interface {
	RegisterReader
	FlagReader
	SetReg(arm.Register, uint64)
	SetFlagC(bool)
	Width() uint32 // general purpose register width in bits
}

// VectorReader gives access to SIMD register images, little endian.
type VectorReader interface {
	GetVector(arm.Register) []byte
}

// RegisterWidther reports the width in bits of a single register when a file
// mixes widths, as A64 does with its W views of the X registers.
type RegisterWidther interface {
	RegisterWidth(arm.Register) uint32
}
