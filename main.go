package main

import (
	"flag"
	"log"
	"os"
	"strings"

	"github.com/xyproto/env/v2"

	"GoArmOps/internal/code"
	"GoArmOps/internal/disasm"
	"GoArmOps/util/dbg"
)

func main() {
	isa := flag.String("isa", env.Str("ARMOPS_ISA", "a64"), "Instruction set: a32, t32 or a64")
	fp := flag.String("file", "", "Path to a raw binary of instruction words")
	order := flag.String("order", "little", "Byte order of -file: little or big")
	base := flag.Uint64("base", 0, "Address of the first word")
	verbose := flag.Bool("v", false, "List the decorations of every operand")
	eval := flag.Bool("eval", false, "Evaluate operands against the register file")
	regs := flag.String("regs", "", "Comma separated register assignments for -eval, e.g. x1=0x1000,x2=2")
	dump := flag.Bool("dump", false, "Dump each decoded instruction")
	flag.Parse()

	words, err := loadWords(*fp, *order, *isa, flag.Args())
	if err != nil {
		log.Fatal(err)
	}

	d, err := disasm.New(*isa, os.Stdout)
	if err != nil {
		log.Fatal(err)
	}
	d.Verbose = *verbose
	d.Eval = *eval
	d.Dump = *dump
	if *regs != "" {
		if err := d.SetRegisters(strings.Split(*regs, ",")); err != nil {
			log.Fatal(err)
		}
	}

	failed, err := d.Run(words, *base)
	if err != nil {
		log.Fatal(err)
	}
	dbg.Printf("%d of %d words did not decode\n", failed, len(words))
	if failed > 0 {
		os.Exit(1)
	}
}

// loadWords reads words from the file at path or, without one, parses them
// from the command line. Thumb files are read as a halfword stream.
func loadWords(path, order, isa string, args []string) ([]uint32, error) {
	if path == "" {
		return code.ParseWords(args)
	}
	bo, err := code.ByteOrder(order)
	if err != nil {
		return nil, err
	}
	c, err := code.Load(path)
	if err != nil {
		return nil, err
	}
	if isa = strings.ToLower(isa); isa == "t32" || isa == "thumb" {
		return c.Thumb(bo)
	}
	return c.Words(bo)
}
