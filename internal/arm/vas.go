package arm

import (
	"errors"
	"fmt"
)

// Arrangement is a vector arrangement specifier (VAS): the lane count and
// lane width of a SIMD operand, e.g. 4S is four 32-bit lanes.
type Arrangement uint8

const (
	ArrangementNone Arrangement = iota // No arrangement (scalar or non-vector operand)
	Arrangement8B                      // 8 lanes of 8 bits
	Arrangement16B                     // 16 lanes of 8 bits
	Arrangement4H                      // 4 lanes of 16 bits
	Arrangement8H                      // 8 lanes of 16 bits
	Arrangement2S                      // 2 lanes of 32 bits
	Arrangement4S                      // 4 lanes of 32 bits
	Arrangement1D                      // 1 lane of 64 bits
	Arrangement2D                      // 2 lanes of 64 bits
	Arrangement1Q                      // 1 lane of 128 bits

	numArrangements
)

// ErrUnknownArrangement is returned by the arrangement lookups for
// ArrangementNone and for values that have no table entry.
var ErrUnknownArrangement = errors.New("unknown vector arrangement")

type arrangementInfo struct {
	name  string
	size  uint32 // total vector width in bits
	lanes uint32
}

// Adding an arrangement is a single entry here plus its enumerator above.
var arrangementTable = [numArrangements]arrangementInfo{
	ArrangementNone: {},
	Arrangement8B:   {"8B", 64, 8},
	Arrangement16B:  {"16B", 128, 16},
	Arrangement4H:   {"4H", 64, 4},
	Arrangement8H:   {"8H", 128, 8},
	Arrangement2S:   {"2S", 64, 2},
	Arrangement4S:   {"4S", 128, 4},
	Arrangement1D:   {"1D", 64, 1},
	Arrangement2D:   {"2D", 128, 2},
	Arrangement1Q:   {"1Q", 128, 1},
}

func lookupArrangement(a Arrangement) (arrangementInfo, error) {
	if a == ArrangementNone || a >= numArrangements {
		return arrangementInfo{}, fmt.Errorf("%w: %d", ErrUnknownArrangement, uint8(a))
	}
	return arrangementTable[a], nil
}

// ArrangementName returns the mnemonic of a, e.g. "4S".
func ArrangementName(a Arrangement) (string, error) {
	info, err := lookupArrangement(a)
	if err != nil {
		return "", err
	}
	return info.name, nil
}

// ArrangementSize returns the total width of a in bits, always 64 or 128.
func ArrangementSize(a Arrangement) (uint32, error) {
	info, err := lookupArrangement(a)
	if err != nil {
		return 0, err
	}
	return info.size, nil
}

// ArrangementLanes returns the number of lanes of a.
func ArrangementLanes(a Arrangement) (uint32, error) {
	info, err := lookupArrangement(a)
	if err != nil {
		return 0, err
	}
	return info.lanes, nil
}

// ArrangementLaneBits returns the width of a single lane of a in bits.
func ArrangementLaneBits(a Arrangement) (uint32, error) {
	info, err := lookupArrangement(a)
	if err != nil {
		return 0, err
	}
	return info.size / info.lanes, nil
}

// ArrangementFor finds the arrangement with the given lane width and total
// width, e.g. (32, 128) is 4S.
func ArrangementFor(laneBits, totalBits uint32) (Arrangement, error) {
	for a := Arrangement8B; a < numArrangements; a++ {
		info := arrangementTable[a]
		if info.size == totalBits && info.size/info.lanes == laneBits {
			return a, nil
		}
	}
	return ArrangementNone, fmt.Errorf("%w: %d-bit lanes in %d bits", ErrUnknownArrangement, laneBits, totalBits)
}

// Arrangements returns every defined arrangement, ArrangementNone excluded,
// in table order.
func Arrangements() []Arrangement {
	ret := make([]Arrangement, 0, numArrangements-1)
	for a := Arrangement8B; a < numArrangements; a++ {
		ret = append(ret, a)
	}
	return ret
}

func (a Arrangement) String() string {
	name, err := ArrangementName(a)
	if err != nil {
		if a == ArrangementNone {
			return "none"
		}
		return fmt.Sprintf("Arrangement(%d)", uint8(a))
	}
	return name
}
