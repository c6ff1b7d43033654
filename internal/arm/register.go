package arm

import "fmt"

// Register identifies an architectural register. Its numbering belongs to
// the architecture description that hands it to the decoder; this package
// treats it as opaque.
type Register uint32

// RegisterInvalid is the zero Register and names no register.
const RegisterInvalid Register = 0

// RegisterNamer renders a Register for display, e.g. as r3 or x3.
type RegisterNamer func(Register) string

func (r Register) String() string {
	if r == RegisterInvalid {
		return "<invalid>"
	}
	return fmt.Sprintf("reg%d", uint32(r))
}
