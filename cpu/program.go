package cpu

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and
// generated instructions or data.
type Opcode struct {
	LineNo    int
	Addr      int
	Words     []string
	Codes     []Code
	Data      []byte
	LinkLabel string
}

// Size is the number of bytes the opcode occupies in memory.
func (op *Opcode) Size() int {
	return 2*len(op.Codes) + len(op.Data)
}

// Program is an assembled listing.
type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug locates the opcode that generated the byte at addr. Index is the
// instruction index within the opcode.
func (prog *Program) Debug(addr uint16) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(addr) >= op.Addr && int(addr) < op.Addr+op.Size() {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  (int(addr) - op.Addr) / 2,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program, starting at PROGRAM_START.
func (prog *Program) Binary() (bin []byte) {
	for _, op := range prog.Opcodes {
		for len(bin) < op.Addr-PROGRAM_START {
			bin = append(bin, 0)
		}
		for _, code := range op.Codes {
			word := code.Word()
			bin = append(bin, byte(word>>8), byte(word))
		}
		bin = append(bin, op.Data...)
	}

	return
}

// Codes iterates over the instructions of the program and their addresses.
func (prog *Program) Codes() iter.Seq2[uint16, Code] {
	return func(yield func(addr uint16, code Code) bool) {
		for _, op := range prog.Opcodes {
			addr := uint16(op.Addr)
			for n, code := range op.Codes {
				if !yield(addr+uint16(2*n), code) {
					return
				}
			}
		}
	}
}
