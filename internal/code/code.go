// Package code loads raw machine code for the disassembler.
package code

import (
	"encoding/binary"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"GoArmOps/internal/thumb"
)

var (
	ErrEmpty    = errors.New("no machine code")
	ErrTrailing = errors.New("machine code is not a whole number of words")
)

type Code struct {
	Data []byte
}

// Load loads a raw binary of instruction words.
func Load(path string) (*Code, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read code file: %w", err)
	}

	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrEmpty, path)
	}

	return &Code{Data: data}, nil
}

// Words splits the code into 32-bit instruction words.
func (c *Code) Words(order binary.ByteOrder) ([]uint32, error) {
	if len(c.Data)%4 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailing, len(c.Data))
	}
	words := make([]uint32, 0, len(c.Data)/4)
	for i := 0; i < len(c.Data); i += 4 {
		words = append(words, order.Uint32(c.Data[i:]))
	}
	return words, nil
}

// Thumb splits the code into Thumb instructions. A halfword that opens a
// 32-bit instruction is joined with the next one, first halfword on top;
// every other halfword is a 16-bit instruction on its own.
func (c *Code) Thumb(order binary.ByteOrder) ([]uint32, error) {
	if len(c.Data)%2 != 0 {
		return nil, fmt.Errorf("%w: %d bytes", ErrTrailing, len(c.Data))
	}
	words := make([]uint32, 0, len(c.Data)/2)
	for i := 0; i < len(c.Data); i += 2 {
		hw := order.Uint16(c.Data[i:])
		if !thumb.Is32Bit(hw) {
			words = append(words, uint32(hw))
			continue
		}
		if i+4 > len(c.Data) {
			return nil, fmt.Errorf("%w: 32-bit instruction cut short at byte %d", ErrTrailing, i)
		}
		words = append(words, uint32(hw)<<16|uint32(order.Uint16(c.Data[i+2:])))
		i += 2
	}
	return words, nil
}

// ParseWords parses instruction words written in hex, with or without a
// 0x prefix.
func ParseWords(args []string) ([]uint32, error) {
	if len(args) == 0 {
		return nil, ErrEmpty
	}
	words := make([]uint32, 0, len(args))
	for _, arg := range args {
		w, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(arg), "0x"), 16, 32)
		if err != nil {
			return nil, fmt.Errorf("instruction word %q: %w", arg, err)
		}
		words = append(words, uint32(w))
	}
	return words, nil
}

// ByteOrder returns the byte order named little or big.
func ByteOrder(name string) (binary.ByteOrder, error) {
	switch strings.ToLower(name) {
	case "little", "le":
		return binary.LittleEndian, nil
	case "big", "be":
		return binary.BigEndian, nil
	}
	return nil, fmt.Errorf("unknown byte order %q", name)
}
