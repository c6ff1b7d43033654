// Package disasm drives a decoder over a stream of instruction words and
// reports each instruction with the decorations of its operands.
package disasm

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"GoArmOps/internal/a64"
	"GoArmOps/internal/arm"
	"GoArmOps/internal/cpu"
	"GoArmOps/internal/goasm"
	"GoArmOps/internal/interfaces"
	"GoArmOps/internal/lift"
	"GoArmOps/internal/thumb"
	"GoArmOps/util/dbg"
)

var (
	ErrUnknownISA      = errors.New("unknown instruction set")
	ErrUnknownRegister = errors.New("unknown register")
)

// maxRegister bounds the register ids searched when resolving a name.
const maxRegister arm.Register = 128

// Disassembler decodes words for one instruction set. With Verbose set
// every operand gets a line listing its decorations; with Eval set operands
// are also evaluated against Regs.
type Disassembler struct {
	Decoder interfaces.DecoderInterface
	Regs    interfaces.RegistersInterface
	Out     io.Writer

	Verbose bool
	Eval    bool
	Dump    bool

	eval *lift.Evaluator
}

// New returns a disassembler for isa, "a32", "t32" or "a64", with a zeroed
// register file. Thumb shares the A32 register file.
func New(isa string, out io.Writer) (*Disassembler, error) {
	d := &Disassembler{Out: out}
	switch strings.ToLower(isa) {
	case "a32", "arm":
		d.Decoder = cpu.NewDecoder()
		d.Regs = cpu.NewRegisters()
	case "t32", "thumb":
		d.Decoder = thumb.NewDecoder()
		d.Regs = cpu.NewRegisters()
	case "a64", "aarch64", "arm64":
		d.Decoder = a64.NewDecoder()
		d.Regs = a64.NewRegisters()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownISA, isa)
	}
	d.eval = lift.NewEvaluator(d.Regs)
	return d, nil
}

// Lookup resolves a register name such as "r3", "sp" or "x1" to its id.
func (d *Disassembler) Lookup(name string) (arm.Register, error) {
	name = strings.ToLower(name)
	for r := arm.Register(1); r < maxRegister; r++ {
		if d.Decoder.RegisterName(r) == name {
			return r, nil
		}
	}
	return arm.RegisterInvalid, fmt.Errorf("%w: %q", ErrUnknownRegister, name)
}

// SetRegisters applies assignments of the form "x1=0x1000".
func (d *Disassembler) SetRegisters(assignments []string) error {
	for _, a := range assignments {
		name, value, ok := strings.Cut(a, "=")
		if !ok {
			return fmt.Errorf("register assignment %q: missing '='", a)
		}
		reg, err := d.Lookup(strings.TrimSpace(name))
		if err != nil {
			return err
		}
		v, err := strconv.ParseUint(strings.TrimSpace(value), 0, 64)
		if err != nil {
			return fmt.Errorf("register assignment %q: %w", a, err)
		}
		d.Regs.SetReg(reg, v)
	}
	return nil
}

// sizer is a decoder whose instructions are not all four bytes long.
type sizer interface {
	Size(word uint32) int
}

func (d *Disassembler) size(word uint32) uint64 {
	if s, ok := d.Decoder.(sizer); ok {
		return uint64(s.Size(word))
	}
	return 4
}

// Run reports every word, addressed from base. Words that do not decode are
// reported and counted; the count is returned with any write error.
func (d *Disassembler) Run(words []uint32, base uint64) (int, error) {
	failed := 0
	addr := base
	for _, word := range words {
		step := d.size(word)
		inst, err := d.Decoder.Decode(word)
		if err != nil {
			failed++
			dbg.Printf("%08x: %v\n", addr, err)
			if _, werr := fmt.Fprintf(d.Out, "%08x: %08X  .word 0x%08x ; %v\n", addr, word, word, err); werr != nil {
				return failed, werr
			}
			addr += step
			continue
		}
		if err := d.report(addr, word, inst); err != nil {
			return failed, err
		}
		addr += step
	}
	return failed, nil
}

func (d *Disassembler) report(addr uint64, word uint32, inst interfaces.InstructionInterface) error {
	if _, err := fmt.Fprintf(d.Out, "%08x: %08X  %s\n", addr, word, inst.Disassemble()); err != nil {
		return err
	}
	if d.Dump {
		if _, err := io.WriteString(d.Out, dbg.Sdump(inst)); err != nil {
			return err
		}
	}
	if !d.Verbose && !d.Eval {
		return nil
	}
	for i, op := range inst.DecoratedOperands() {
		line := fmt.Sprintf("    op%d %-6s", i, op.Text)
		if d.Verbose {
			line += Describe(op)
		}
		if d.Eval {
			switch v, err := d.eval.Operand(op); {
			case errors.Is(err, lift.ErrNoValue):
			case err != nil:
				line += fmt.Sprintf(" eval: %v", err)
			default:
				line += fmt.Sprintf(" = %#x", v)
			}
		}
		if _, err := fmt.Fprintln(d.Out, strings.TrimRight(line, " ")); err != nil {
			return err
		}
	}
	return nil
}

// Describe lists the decorations of op as key=value pairs, each preceded
// by a space. Operands without decorations describe as "".
func Describe(op interfaces.DecoratedOperand) string {
	var b strings.Builder
	p := op.Props
	if p.IsSubtracted() {
		b.WriteString(" sign=-")
	}
	if t := p.ShiftType(); t != arm.ShiftNone {
		fmt.Fprintf(&b, " shift=%s", t)
		if v := p.ShiftValue(); !v.IsNone() {
			fmt.Fprintf(&b, "(%s)", v)
		}
	}
	if t := p.ExtendType(); t != arm.ExtendNone {
		fmt.Fprintf(&b, " extend=%s/%d", t, p.ExtendSize())
	}
	if name, err := p.VASName(); err == nil {
		size, _ := p.VASSize()
		fmt.Fprintf(&b, " vas=%s/%d", name, size)
		if idx, ok := p.VectorIndex(); ok {
			fmt.Fprintf(&b, " lane=%d", idx)
		}
		if reg, index, err := goasm.VectorRegister(uint8(vectorNumber(op.Text)), p); err == nil {
			fmt.Fprintf(&b, " goasm=%d", reg)
			if _, ok := p.VectorIndex(); ok {
				fmt.Fprintf(&b, "[%d]", index)
			}
		}
	}
	return b.String()
}

// vectorNumber is n of a "vN" operand, 0 when the text is not one.
func vectorNumber(text string) int {
	n, err := strconv.Atoi(strings.TrimPrefix(text, "v"))
	if err != nil {
		return 0
	}
	return n
}
