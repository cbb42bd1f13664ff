package machine

import (
	"iter"
)

// Opcode represents a line of assembled code with its source location and generated bytes.
type Opcode struct {
	LineNo    int
	Pc        int
	Words     []string
	Bytes     []uint8
	LinkLabel string
	Data      bool // Set for .byte data, clear for an instruction.
}

type Program struct {
	Opcodes []Opcode
}

type Debug struct {
	*Opcode
	Index int
}

// Debug returns the opcode whose bytes include the address pc.
func (prog *Program) Debug(pc uint8) (dbg Debug) {
	for n, op := range prog.Opcodes {
		if int(pc) >= op.Pc && int(pc) < op.Pc+len(op.Bytes) {
			dbg = Debug{
				Opcode: &prog.Opcodes[n],
				Index:  int(pc) - op.Pc,
			}
			break
		}
	}

	return
}

// Binary returns the memory image of the program.
func (prog *Program) Binary() (image [MEMORY_SIZE]uint8) {
	prog.Overlay(&image)
	return
}

// Overlay writes the assembled bytes of the program into memory, leaving
// all other addresses as they were.
func (prog *Program) Overlay(memory *[MEMORY_SIZE]uint8) {
	for _, op := range prog.Opcodes {
		for n, data := range op.Bytes {
			memory[uint8(op.Pc+n)] = data
		}
	}
}

// Codes iterates over the instruction words of the program and their addresses.
func (prog *Program) Codes() iter.Seq2[uint8, Code] {
	return func(yield func(pc uint8, code Code) bool) {
		for _, op := range prog.Opcodes {
			if op.Data || len(op.Bytes) != INSTRUCTION_SIZE {
				continue
			}
			code := Code((uint16(op.Bytes[0]) << 8) | uint16(op.Bytes[1]))
			if !yield(uint8(op.Pc), code) {
				return
			}
		}
	}
}
