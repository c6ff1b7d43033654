package a64

import (
	"fmt"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
)

// Register ids. X and W views of the same register have distinct ids so
// an operand names its width; V registers name the whole 128-bit vector.
const (
	regX   arm.Register = 1       // X0-X30
	XZR    arm.Register = regX + 31
	SP     arm.Register = regX + 32
	regW   arm.Register = SP + 1 // W0-W30
	WZR    arm.Register = regW + 31
	WSP    arm.Register = regW + 32
	regV   arm.Register = WSP + 1 // V0-V31
	regEnd arm.Register = regV + 32
)

// X returns the id of Xn; 31 is XZR.
func X(n uint8) arm.Register {
	return regX + arm.Register(n&0x1F)
}

// W returns the id of Wn; 31 is WZR.
func W(n uint8) arm.Register {
	return regW + arm.Register(n&0x1F)
}

// V returns the id of vector register Vn.
func V(n uint8) arm.Register {
	return regV + arm.Register(n&0x1F)
}

// GPR returns Xn or Wn. Register 31 is SP/WSP when sp is set and the zero
// register otherwise, which depends on the operand position.
func GPR(n uint8, is64, sp bool) arm.Register {
	n &= 0x1F
	switch {
	case n == 31 && sp && is64:
		return SP
	case n == 31 && sp:
		return WSP
	case is64:
		return X(n)
	}
	return W(n)
}

// RegisterName returns the assembler name of an A64 register id.
func RegisterName(r arm.Register) string {
	switch {
	case r == XZR:
		return "xzr"
	case r == SP:
		return "sp"
	case r == WZR:
		return "wzr"
	case r == WSP:
		return "wsp"
	case r >= regX && r < XZR:
		return fmt.Sprintf("x%d", r-regX)
	case r >= regW && r < WZR:
		return fmt.Sprintf("w%d", r-regW)
	case r >= regV && r < regEnd:
		return fmt.Sprintf("v%d", r-regV)
	}
	return r.String()
}

// Registers is an AArch64 register file: X0-X30, SP, V0-V31 and NZCV.
type Registers struct {
	interfaces.RegistersInterface

	X    [31]uint64
	SP   uint64
	V    [32][16]byte // little endian images
	NZCV uint8        // N=bit 3, Z=bit 2, C=bit 1, V=bit 0
}

func NewRegisters() *Registers {
	return &Registers{}
}

func (r *Registers) Width() uint32 { return 64 }

// RegisterWidth is 32 for W0-W30, WZR and WSP and 64 for everything else.
func (r *Registers) RegisterWidth(reg arm.Register) uint32 {
	if reg >= regW && reg <= WSP {
		return 32
	}
	return 64
}

// GetReg reads a register through the view its id names. W registers and
// WSP read the low 32 bits, V registers read their low 64 bits and the zero
// registers read 0. It panics for unknown ids.
func (r *Registers) GetReg(reg arm.Register) uint64 {
	switch {
	case reg == XZR, reg == WZR:
		return 0
	case reg == SP:
		return r.SP
	case reg == WSP:
		return r.SP & 0xFFFFFFFF
	case reg >= regX && reg < XZR:
		return r.X[reg-regX]
	case reg >= regW && reg < WZR:
		return r.X[reg-regW] & 0xFFFFFFFF
	case reg >= regV && reg < regEnd:
		v := r.V[reg-regV]
		var lo uint64
		for i := 7; i >= 0; i-- {
			lo = lo<<8 | uint64(v[i])
		}
		return lo
	}
	panic(fmt.Sprintf("read from undefined register %s", reg))
}

// SetReg writes a register. W writes zero the upper half, V writes zero
// bits 64-127 and writes to the zero registers are dropped. It panics for
// unknown ids.
func (r *Registers) SetReg(reg arm.Register, value uint64) {
	switch {
	case reg == XZR, reg == WZR:
	case reg == SP:
		r.SP = value
	case reg == WSP:
		r.SP = value & 0xFFFFFFFF
	case reg >= regX && reg < XZR:
		r.X[reg-regX] = value
	case reg >= regW && reg < WZR:
		r.X[reg-regW] = value & 0xFFFFFFFF
	case reg >= regV && reg < regEnd:
		v := &r.V[reg-regV]
		*v = [16]byte{}
		for i := 0; i < 8; i++ {
			v[i] = byte(value >> (8 * i))
		}
	default:
		panic(fmt.Sprintf("write to undefined register %s", reg))
	}
}

// GetVector returns the full image of a V register, nil for other ids.
func (r *Registers) GetVector(reg arm.Register) []byte {
	if reg < regV || reg >= regEnd {
		return nil
	}
	return r.V[reg-regV][:]
}

func (r *Registers) GetFlagC() bool { return r.NZCV&0x2 != 0 }

func (r *Registers) SetFlagC(set bool) {
	if set {
		r.NZCV |= 0x2
	} else {
		r.NZCV &^= 0x2
	}
}
