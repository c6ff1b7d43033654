package arm

import "fmt"

// ExtendType defines the zero or sign extension applied to a narrower
// register value before it is used in a wider context.
type ExtendType uint8

const (
	ExtendNone ExtendType = iota // No extension
	ExtendUXTB                   // Zero-extend byte
	ExtendUXTH                   // Zero-extend halfword
	ExtendUXTW                   // Zero-extend word
	ExtendUXTX                   // Zero-extend doubleword (no-op on 64-bit)
	ExtendSXTB                   // Sign-extend byte
	ExtendSXTH                   // Sign-extend halfword
	ExtendSXTW                   // Sign-extend word
	ExtendSXTX                   // Sign-extend doubleword (no-op on 64-bit)
)

type extendInfo struct {
	name       string
	sourceBits uint32
	signed     bool
}

var extendTable = [...]extendInfo{
	ExtendNone: {},
	ExtendUXTB: {"UXTB", 8, false},
	ExtendUXTH: {"UXTH", 16, false},
	ExtendUXTW: {"UXTW", 32, false},
	ExtendUXTX: {"UXTX", 64, false},
	ExtendSXTB: {"SXTB", 8, true},
	ExtendSXTH: {"SXTH", 16, true},
	ExtendSXTW: {"SXTW", 32, true},
	ExtendSXTX: {"SXTX", 64, true},
}

func (e ExtendType) String() string {
	if int(e) < len(extendTable) {
		return extendTable[e].name
	}
	return fmt.Sprintf("ExtendType(%d)", uint8(e))
}

// SourceBits returns the width of the value that is read before extension,
// or 0 for ExtendNone and unknown values.
//
// This describes the extend kind only; OperandProperties never uses it to
// fill in the extend size, which stays whatever the decoder stored.
func (e ExtendType) SourceBits() uint32 {
	if int(e) < len(extendTable) {
		return extendTable[e].sourceBits
	}
	return 0
}

// Signed reports whether the extension replicates the sign bit.
func (e ExtendType) Signed() bool {
	if int(e) < len(extendTable) {
		return extendTable[e].signed
	}
	return false
}
