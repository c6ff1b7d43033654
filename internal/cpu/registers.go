package cpu

import (
	"fmt"

	"GoArmOps/internal/arm"
	"GoArmOps/internal/interfaces"
	"GoArmOps/util/dbg"
)

// ARM processor modes
const (
	USRMode = 0b10000 // User mode
	FIQMode = 0b10001 // FIQ mode (Fast Interrupt Request)
	IRQMode = 0b10010 // IRQ mode (Interrupt Request)
	SVCMode = 0b10011 // Supervisor mode
	ABTMode = 0b10111 // Abort mode
	UNDMode = 0b11011 // Undefined instruction mode
	SYSMode = 0b11111 // System mode (shares User mode registers)
)

// SP/LR bank per mode
const (
	bankUSR = iota // also SYS
	bankFIQ
	bankIRQ
	bankSVC
	bankABT
	bankUND
	numBanks
)

var modeNames = map[uint8]string{
	USRMode: "USR", FIQMode: "FIQ", IRQMode: "IRQ", SVCMode: "SVC",
	ABTMode: "ABT", UNDMode: "UND", SYSMode: "SYS",
}

// Registers is the A32 register file operands are evaluated against.
// R8-R12 are banked in FIQ mode, SP and LR in every exception mode.
type Registers struct {
	interfaces.RegistersInterface

	R      [13]uint32 // R0-R12 outside FIQ mode
	fiq    [5]uint32  // R8_fiq-R12_fiq
	sp, lr [numBanks]uint32
	PC     uint32
	CPSR   uint32
}

// NewRegisters returns a register file in supervisor mode with interrupts
// disabled, the reset state.
func NewRegisters() *Registers {
	return &Registers{
		CPSR: uint32(SVCMode) | (1 << 7) | (1 << 6),
	}
}

// GetMode returns the current CPU operating mode from CPSR.
func (r *Registers) GetMode() uint8 {
	return uint8(r.CPSR & 0x1F)
}

// SetMode updates the mode bits of CPSR. Banked registers keep their values
// and GetReg/SetReg pick them by mode.
func (r *Registers) SetMode(mode uint8) {
	r.CPSR = (r.CPSR &^ 0x1F) | uint32(mode&0x1F)
}

func (r *Registers) bank() int {
	switch r.GetMode() {
	case USRMode, SYSMode:
		return bankUSR
	case FIQMode:
		return bankFIQ
	case IRQMode:
		return bankIRQ
	case SVCMode:
		return bankSVC
	case ABTMode:
		return bankABT
	case UNDMode:
		return bankUND
	}
	dbg.Printf("Warning: unknown mode %02X, using USR bank\n", r.GetMode())
	return bankUSR
}

// slot returns the storage behind register n in the current mode.
func (r *Registers) slot(n uint8) *uint32 {
	switch {
	case n == 15:
		return &r.PC
	case n == 14:
		return &r.lr[r.bank()]
	case n == 13:
		return &r.sp[r.bank()]
	case n >= 8 && r.GetMode() == FIQMode:
		return &r.fiq[n-8]
	}
	return &r.R[n]
}

// GetReg returns the value of reg, zero-extended. It panics for ids that are
// not R0-R15.
func (r *Registers) GetReg(reg arm.Register) uint64 {
	n, ok := RegNum(reg)
	if !ok {
		panic(fmt.Sprintf("read from undefined register %s", reg))
	}
	return uint64(*r.slot(n))
}

// SetReg truncates value to 32 bits and stores it in reg. It panics for ids
// that are not R0-R15.
func (r *Registers) SetReg(reg arm.Register, value uint64) {
	n, ok := RegNum(reg)
	if !ok {
		panic(fmt.Sprintf("write to undefined register %s", reg))
	}
	*r.slot(n) = uint32(value)
}

func (r *Registers) Width() uint32 { return 32 }

func (r *Registers) setFlag(bit uint, set bool) {
	if set {
		r.CPSR |= 1 << bit
	} else {
		r.CPSR &^= 1 << bit
	}
}

func (r *Registers) GetFlagN() bool { return (r.CPSR>>31)&1 == 1 }
func (r *Registers) GetFlagZ() bool { return (r.CPSR>>30)&1 == 1 }
func (r *Registers) GetFlagC() bool { return (r.CPSR>>29)&1 == 1 }
func (r *Registers) GetFlagV() bool { return (r.CPSR>>28)&1 == 1 }

func (r *Registers) SetFlagN(set bool) { r.setFlag(31, set) }
func (r *Registers) SetFlagZ(set bool) { r.setFlag(30, set) }
func (r *Registers) SetFlagC(set bool) { r.setFlag(29, set) }
func (r *Registers) SetFlagV(set bool) { r.setFlag(28, set) }

// String returns a string representation of the registers for debugging.
func (r *Registers) String() string {
	modeStr, ok := modeNames[r.GetMode()]
	if !ok {
		modeStr = fmt.Sprintf("?%02X?", r.GetMode())
	}

	var v [16]uint64
	for i := range v {
		v[i] = r.GetReg(Reg(uint8(i)))
	}
	return fmt.Sprintf(
		"R0 =%08X  R1 =%08X  R2 =%08X  R3 =%08X\n"+
			"R4 =%08X  R5 =%08X  R6 =%08X  R7 =%08X\n"+
			"R8 =%08X  R9 =%08X  R10=%08X  R11=%08X\n"+
			"R12=%08X  SP =%08X  LR =%08X  PC =%08X\n"+
			"CPSR=%08X (%s N:%t Z:%t C:%t V:%t)",
		v[0], v[1], v[2], v[3],
		v[4], v[5], v[6], v[7],
		v[8], v[9], v[10], v[11],
		v[12], v[13], v[14], v[15],
		r.CPSR, modeStr,
		r.GetFlagN(), r.GetFlagZ(), r.GetFlagC(), r.GetFlagV(),
	)
}

// ConditionPassed reports whether an instruction with condition cond
// executes under the current flags.
func (r *Registers) ConditionPassed(cond ARMCondition) bool {
	n, z, c, v := r.GetFlagN(), r.GetFlagZ(), r.GetFlagC(), r.GetFlagV()

	switch cond {
	case EQ:
		return z
	case NE:
		return !z
	case CS:
		return c
	case CC:
		return !c
	case MI:
		return n
	case PL:
		return !n
	case VS:
		return v
	case VC:
		return !v
	case HI:
		return c && !z
	case LS:
		return !c || z
	case GE:
		return n == v
	case LT:
		return n != v
	case GT:
		return !z && (n == v)
	case LE:
		return z || (n != v)
	case AL:
		return true
	}
	return false // NV
}
