package cpu

import (
	"fmt"
	"iter"
)

// Disassemble lists a program image loaded at PROGRAM_START, one entry per
// instruction word. Words that do not decode are listed as data.
func Disassemble(rom []byte) iter.Seq2[uint16, string] {
	return func(yield func(addr uint16, text string) bool) {
		for n := 0; n < len(rom); n += 2 {
			addr := uint16(PROGRAM_START + n)
			if n+1 >= len(rom) {
				yield(addr, fmt.Sprintf(".byte 0x%02x", rom[n]))
				return
			}
			word := (uint16(rom[n]) << 8) | uint16(rom[n+1])
			text := fmt.Sprintf(".word 0x%04x", word)
			code, err := Decode(word)
			if err == nil {
				text = code.String()
			}
			if !yield(addr, text) {
				return
			}
		}
	}
}
