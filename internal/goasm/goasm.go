// Package goasm maps vector arrangements to the arrangement and register
// encodings of the golang-asm arm64 backend.
package goasm

import (
	"fmt"

	"github.com/twitchyliquid64/golang-asm/obj/arm64"

	"GoArmOps/internal/arm"
)

var toGoAsm = map[arm.Arrangement]int{
	arm.Arrangement8B:  arm64.ARNG_8B,
	arm.Arrangement16B: arm64.ARNG_16B,
	arm.Arrangement4H:  arm64.ARNG_4H,
	arm.Arrangement8H:  arm64.ARNG_8H,
	arm.Arrangement2S:  arm64.ARNG_2S,
	arm.Arrangement4S:  arm64.ARNG_4S,
	arm.Arrangement1D:  arm64.ARNG_1D,
	arm.Arrangement2D:  arm64.ARNG_2D,
	arm.Arrangement1Q:  arm64.ARNG_1Q,
}

var fromGoAsm = func() map[int]arm.Arrangement {
	m := make(map[int]arm.Arrangement, len(toGoAsm))
	for a, code := range toGoAsm {
		m[code] = a
	}
	return m
}()

// elementCodes are the element arrangements of indexed operands, by lane
// width in bits.
var elementCodes = map[uint32]int{
	8:  arm64.ARNG_B,
	16: arm64.ARNG_H,
	32: arm64.ARNG_S,
	64: arm64.ARNG_D,
}

// ToGoAsm returns the ARNG_* code of a.
func ToGoAsm(a arm.Arrangement) (int, error) {
	if code, ok := toGoAsm[a]; ok {
		return code, nil
	}
	return 0, fmt.Errorf("%w: %s has no arm64 arrangement", arm.ErrUnknownArrangement, a)
}

// FromGoAsm returns the arrangement of an ARNG_* code. Element codes such
// as ARNG_S name no whole-vector arrangement and are rejected.
func FromGoAsm(code int) (arm.Arrangement, error) {
	if a, ok := fromGoAsm[code]; ok {
		return a, nil
	}
	return arm.ArrangementNone, fmt.Errorf("%w: arm64 arrangement %d", arm.ErrUnknownArrangement, code)
}

// VectorRegister encodes Vn with the decorations of props as an obj.Addr
// register: REG_ARNG for a whole vector, REG_ELEM for an indexed lane. The
// lane index itself goes in obj.Addr.Index and is returned alongside.
func VectorRegister(n uint8, props arm.OperandProperties) (reg int16, index int16, err error) {
	if idx, ok := props.VectorIndex(); ok {
		laneBits, err := arm.ArrangementLaneBits(props.VASType())
		if err != nil {
			return 0, 0, err
		}
		code, ok := elementCodes[laneBits]
		if !ok {
			return 0, 0, fmt.Errorf("%w: %d-bit element", arm.ErrUnknownArrangement, laneBits)
		}
		return int16(arm64.REG_ELEM + (code&15)<<5 + int(n&31)), int16(idx), nil
	}

	code, err := ToGoAsm(props.VASType())
	if err != nil {
		return 0, 0, err
	}
	return int16(arm64.REG_ARNG + (code&15)<<5 + int(n&31)), 0, nil
}
