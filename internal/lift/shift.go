// Package lift gives decoded operands their meaning: it reads the
// decorations in arm.OperandProperties and computes operand values, memory
// addresses and vector lanes against a register file.
package lift

import (
	"errors"
	"fmt"

	"GoArmOps/internal/arm"
	"GoArmOps/util/convert"
)

var (
	ErrUnsupportedShift = errors.New("unsupported shift")
	ErrWidth            = errors.New("unsupported operand width")
	ErrNoLane           = errors.New("operand has no vector lane")
	ErrNoValue          = errors.New("operand has no value")
)

func mask(bits uint32) uint64 {
	if bits >= 64 {
		return ^uint64(0)
	}
	return (uint64(1) << bits) - 1
}

func bit(v uint64, n uint32) bool {
	return (v>>n)&1 == 1
}

// Shift applies shiftType by amount to the low width bits of value and
// returns the result and the shifter carry out. An amount of zero leaves the
// value and carryIn untouched, except for RRX which always rotates by one
// through the carry.
func Shift(value uint64, width uint32, shiftType arm.ShiftType, amount uint32, carryIn bool) (uint64, bool, error) {
	if width == 0 || width > 64 {
		return 0, false, fmt.Errorf("%w: %d", ErrWidth, width)
	}
	m := mask(width)
	value &= m

	if shiftType == arm.ShiftRRX {
		return (convert.BoolToUint64(carryIn)<<(width-1) | value>>1) & m, bit(value, 0), nil
	}
	if shiftType == arm.ShiftNone || amount == 0 {
		return value, carryIn, nil
	}

	switch shiftType {
	case arm.ShiftLSL:
		switch {
		case amount < width:
			return (value << amount) & m, bit(value, width-amount), nil
		case amount == width:
			return 0, bit(value, 0), nil
		}
		return 0, false, nil

	case arm.ShiftLSR:
		switch {
		case amount < width:
			return value >> amount, bit(value, amount-1), nil
		case amount == width:
			return 0, bit(value, width-1), nil
		}
		return 0, false, nil

	case arm.ShiftASR:
		negative := bit(value, width-1)
		if amount >= width {
			if negative {
				return m, true, nil
			}
			return 0, false, nil
		}
		result := value >> amount
		if negative {
			result |= m &^ (m >> amount)
		}
		return result, bit(value, amount-1), nil

	case arm.ShiftROR:
		r := amount % width
		if r == 0 {
			return value, bit(value, width-1), nil
		}
		result := (value>>r | value<<(width-r)) & m
		return result, bit(result, width-1), nil

	case arm.ShiftMSL:
		// Shifts ones in, SIMD modified immediates only.
		if amount >= width {
			return m, carryIn, nil
		}
		return ((value << amount) | mask(amount)) & m, carryIn, nil
	}
	return 0, false, fmt.Errorf("%w: %s", ErrUnsupportedShift, shiftType)
}

// Extend takes the low SourceBits of value, zero or sign extends them and
// truncates the result to dstBits. ExtendNone only truncates.
func Extend(value uint64, extendType arm.ExtendType, dstBits uint32) uint64 {
	src := extendType.SourceBits()
	if src == 0 || src >= 64 {
		return value & mask(dstBits)
	}
	v := value & mask(src)
	if extendType.Signed() && bit(v, src-1) {
		v |= ^mask(src)
	}
	return v & mask(dstBits)
}
