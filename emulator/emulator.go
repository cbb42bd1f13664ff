// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"io"
	"iter"
	"maps"
	"slices"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/ezrec/rrmachine/internal"
	"github.com/ezrec/rrmachine/machine"
)

var _emulator_defines = map[string]string{
	"RRMACHINE": "1",
}

// Emulator state. Machine + program listing + breakpoints.
type Emulator struct {
	Verbose          bool             // If set, enables verbose logging.
	*machine.Machine                  // Reference to the machine simulation.
	Program          *machine.Program // Reference to the currently loaded program listing.
	Breakpoints      []uint8          // Addresses that stop Run at an instruction boundary.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{
		Machine: machine.NewMachine(),
		Program: &machine.Program{},
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Machine.Defines(),
	)
}

// Assemble a program, replacing memory with its image and resetting
// the registers.
func (emu *Emulator) Assemble(input io.Reader) (err error) {
	prog, err := emu.assemble(input)
	if err != nil {
		return
	}

	emu.Program = prog
	emu.Machine.Memory = prog.Binary()
	emu.Reset()

	return
}

// Patch assembles a program over the current memory image, changing only
// the bytes the program assembles to, and resets the registers.
func (emu *Emulator) Patch(input io.Reader) (err error) {
	prog, err := emu.assemble(input)
	if err != nil {
		return
	}

	emu.Program = prog
	prog.Overlay(&emu.Machine.Memory)
	emu.Reset()

	return
}

// assemble parses a program with the emulator predefines.
func (emu *Emulator) assemble(input io.Reader) (prog *machine.Program, err error) {
	asm := &machine.Assembler{Verbose: emu.Verbose}
	for equ, value := range emu.Defines() {
		asm.Predefine(equ, value)
	}

	prog, err = asm.Parse(input)
	return
}

// Reset the registers, keeping memory.
func (emu *Emulator) Reset() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.ResetRegisters()
}

// Clear memory and forget the program listing.
func (emu *Emulator) Clear() {
	emu.Machine.Verbose = emu.Verbose
	emu.Machine.ClearMemory()
	emu.Program = &machine.Program{}
}

// LineNo returns the source line number of the program counter, or 0 if the
// program counter is outside of the assembled program.
func (emu *Emulator) LineNo() int {
	dbg := emu.Program.Debug(emu.Pc)
	if dbg.Opcode == nil {
		return 0
	}

	return dbg.LineNo
}

// Step performs count sub-steps if part is set, or count full steps if not.
// Stepping stops early once the machine halts, or with ctx.Err() once the
// context is cancelled.
func (emu *Emulator) Step(ctx context.Context, part bool, count int) (halted bool, err error) {
	emu.Machine.Verbose = emu.Verbose

	for range count {
		if emu.Halted() {
			break
		}
		err = ctx.Err()
		if err != nil {
			break
		}
		if part {
			emu.SubStep()
		} else {
			emu.FullStep()
		}
	}

	halted = emu.Halted()
	return
}

// atBreakpoint returns true if the machine is about to fetch from a breakpoint.
func (emu *Emulator) atBreakpoint() bool {
	if emu.Status.State() != machine.STATE_FETCH {
		return false
	}

	return slices.Contains(emu.Breakpoints, emu.Pc)
}

// Run the machine until it halts, by sub-steps if part is set or by full
// steps if not. A breakpoint stops the run with ErrBreakpoint, except at the
// first instruction so that a stopped run can be resumed. A positive delay
// is waited between steps.
func (emu *Emulator) Run(ctx context.Context, part bool, delay time.Duration) (err error) {
	emu.Machine.Verbose = emu.Verbose

	for first := true; !emu.Halted(); first = false {
		err = ctx.Err()
		if err != nil {
			return
		}

		if !first && emu.atBreakpoint() {
			if emu.Verbose {
				logrus.WithField("pc", emu.Pc).Debug("emulator: breakpoint")
			}
			err = &ErrRuntime{LineNo: emu.LineNo(), Pc: emu.Pc, Err: ErrBreakpoint}
			return
		}

		if part {
			emu.SubStep()
		} else {
			emu.FullStep()
		}

		if delay > 0 && !emu.Halted() {
			select {
			case <-ctx.Done():
				err = ctx.Err()
				return
			case <-time.After(delay):
			}
		}
	}

	return
}

// Disassemble iterates over count instruction words in memory from an address.
func (emu *Emulator) Disassemble(start uint8, count int) iter.Seq2[uint8, machine.Code] {
	return func(yield func(pc uint8, code machine.Code) bool) {
		pc := start
		for range count {
			code := machine.Code((uint16(emu.Memory[pc]) << 8) | uint16(emu.Memory[pc+1]))
			if !yield(pc, code) {
				return
			}
			pc += machine.INSTRUCTION_SIZE
		}
	}
}
