package convert

// BoolToInt converts a boolean value to an integer.
// It returns 0 for false and 1 for true.
func BoolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BoolToUint64 is BoolToInt for bit arithmetic on register values, e.g.
// shifting a carry flag into the top bit.
func BoolToUint64(b bool) uint64 {
	return uint64(BoolToInt(b))
}
