package shell

import (
	"context"
	"errors"
	"maps"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/ezrec/rrmachine/emulator"
	"github.com/ezrec/rrmachine/image"
	"github.com/ezrec/rrmachine/machine"
)

const (
	DISASSEMBLE_COUNT = 8 // Default number of instructions shown by dis.
)

type command struct {
	usage    string
	help     string
	min, max int // Argument count limits.
	action   func(sh *Shell, ctx context.Context, args []string) (err error)
}

var commands map[string]*command

func init() {
	commands = map[string]*command{
		"save":  {"save <file>", "save memory to an image file", 1, 1, (*Shell).cmdSave},
		"load":  {"load <file>", "load memory from an image file", 1, 1, (*Shell).cmdLoad},
		"asm":   {"asm <file>", "assemble a source file into memory", 1, 1, (*Shell).cmdAsm},
		"step":  {"step [part|full] [n]", "advance n sub-steps or instructions", 0, 2, (*Shell).cmdStep},
		"run":   {"run [part|full] [delay-ms]", "run until halted or a breakpoint", 0, 2, (*Shell).cmdRun},
		"poke":  {"poke <loc> <value>", "store a value in memory or a register", 2, 2, (*Shell).cmdPoke},
		"peek":  {"peek <loc>", "show a value in memory or a register", 1, 1, (*Shell).cmdPeek},
		"dump":  {"dump", "show all of memory and the registers", 0, 0, (*Shell).cmdDump},
		"regs":  {"regs", "show the registers and the top of the stack", 0, 0, (*Shell).cmdRegs},
		"reset": {"reset", "reset the registers, keeping memory", 0, 0, (*Shell).cmdReset},
		"clear": {"clear", "clear memory, keeping the registers", 0, 0, (*Shell).cmdClear},
		"dis":   {"dis [addr] [count]", "disassemble memory", 0, 2, (*Shell).cmdDis},
		"break": {"break [add <addr>|list|remove <n>|clear]", "manage breakpoints", 0, 2, (*Shell).cmdBreak},
		"help":  {"help [command]", "show commands", 0, 1, (*Shell).cmdHelp},
	}
}

// parseMode parses an optional leading part or full mode word.
func parseMode(args []string) (part bool, rest []string) {
	rest = args
	if len(rest) > 0 {
		switch strings.ToLower(rest[0]) {
		case "part":
			part = true
			rest = rest[1:]
		case "full":
			rest = rest[1:]
		}
	}

	return
}

func (sh *Shell) cmdSave(ctx context.Context, args []string) (err error) {
	err = image.WriteFile(sh.Emu.Machine, args[0])
	if err != nil {
		return
	}

	sh.printf("Saved %v\n", args[0])
	return
}

func (sh *Shell) cmdLoad(ctx context.Context, args []string) (err error) {
	err = image.ReadFile(sh.Emu.Machine, args[0])
	if err != nil {
		return
	}

	// The listing no longer describes memory.
	sh.Emu.Program = &machine.Program{}

	sh.printf("Loaded %v\n", args[0])
	return
}

func (sh *Shell) cmdAsm(ctx context.Context, args []string) (err error) {
	inf, err := os.Open(args[0])
	if err != nil {
		return
	}
	defer inf.Close()

	err = sh.Emu.Assemble(inf)
	if err != nil {
		return
	}

	size := 0
	for _, op := range sh.Emu.Program.Opcodes {
		size += len(op.Bytes)
	}

	sh.printf("Assembled %v: %d bytes\n", args[0], size)
	return
}

// interrupted reports a cancelled command, which is not an error.
func (sh *Shell) interrupted(err error) error {
	if errors.Is(err, context.Canceled) {
		sh.printf("Interrupted\n")
		return nil
	}

	return err
}

// status writes a one line summary of the machine state.
func (sh *Shell) status() {
	emu := sh.Emu
	sh.printf("PC: [%02X] IR: [%04X] SR: %v", emu.Pc, emu.Ir, emu.Status)
	if lineno := emu.LineNo(); lineno != 0 {
		sh.printf(" (line %d)", lineno)
	}
	sh.printf("\n")
	if emu.Halted() {
		sh.printf("Halted after %d instructions\n", emu.Instructions)
	}
}

func (sh *Shell) cmdStep(ctx context.Context, args []string) (err error) {
	part, rest := parseMode(args)

	count := uint64(1)
	if len(rest) > 1 {
		err = ErrArguments
		return
	}
	if len(rest) == 1 {
		count, err = emulator.ParseNumber(rest[0])
		if err != nil {
			return
		}
	}

	_, err = sh.Emu.Step(ctx, part, int(count))
	err = sh.interrupted(err)
	if err != nil {
		return
	}

	sh.status()
	return
}

func (sh *Shell) cmdRun(ctx context.Context, args []string) (err error) {
	part, rest := parseMode(args)

	delay := uint64(0)
	if len(rest) > 1 {
		err = ErrArguments
		return
	}
	if len(rest) == 1 {
		delay, err = emulator.ParseNumber(rest[0])
		if err != nil {
			return
		}
	}

	err = sh.Emu.Run(ctx, part, time.Duration(delay)*time.Millisecond)
	if errors.Is(err, emulator.ErrBreakpoint) {
		sh.printf("Breakpoint at [%02X]\n", sh.Emu.Pc)
		err = nil
	}
	err = sh.interrupted(err)
	if err != nil {
		return
	}

	sh.status()
	return
}

func (sh *Shell) cmdPoke(ctx context.Context, args []string) (err error) {
	loc, err := emulator.ParseLocation(args[0])
	if err != nil {
		return
	}

	value, err := emulator.ParseNumber(args[1])
	if err != nil {
		return
	}

	sh.Emu.Poke(loc, value)
	return
}

func (sh *Shell) cmdPeek(ctx context.Context, args []string) (err error) {
	loc, err := emulator.ParseLocation(args[0])
	if err != nil {
		return
	}

	emu := sh.Emu
	value := emu.Peek(loc)

	yn := func(set bool) rune {
		if set {
			return 'Y'
		}
		return 'N'
	}

	switch loc.Kind {
	case emulator.LOCATION_MEMORY:
		sh.printf("[%02X]: $%02X\n", loc.Index, value)
	case emulator.LOCATION_REGISTER:
		if loc.Index == machine.REGISTER_SP {
			sh.printf("Stack pointer: $%02X (%d elements)\n", value, emu.Depth())
		} else {
			sh.printf("Register %d: $%02X\n", loc.Index, value)
		}
	case emulator.LOCATION_PC:
		sh.printf("Program counter: %02X\n", value)
	case emulator.LOCATION_IR:
		state := emu.Status.State()
		if state == machine.STATE_EXECUTE || state == machine.STATE_HALT {
			operand := emu.Operand
			sh.printf("Instruction register: $%04X (%v, %02X, %02X, %02X)\n", value,
				machine.Op(operand[0]), operand[1], operand[2], operand[3])
		} else {
			sh.printf("Instruction register: $%04X\n", value)
		}
	case emulator.LOCATION_SR:
		sr := emu.Status
		sh.printf("Status register: %X (State: %v, Zero: %c, Carry: %c)\n", value,
			sr.State(), yn(sr.Zero()), yn(sr.Carry()))
	}

	return
}

func (sh *Shell) cmdDump(ctx context.Context, args []string) (err error) {
	return sh.Emu.Dump(sh.Out)
}

func (sh *Shell) cmdRegs(ctx context.Context, args []string) (err error) {
	m := sh.Emu.Machine

	sh.printf("%v", m.String())
	if top, ok := m.Peek(); ok {
		sh.printf("Stack top: $%02X (%d elements)\n", top, m.Depth())
	}

	return
}

func (sh *Shell) cmdReset(ctx context.Context, args []string) (err error) {
	sh.Emu.Reset()
	return
}

func (sh *Shell) cmdClear(ctx context.Context, args []string) (err error) {
	sh.Emu.Clear()
	return
}

func (sh *Shell) cmdDis(ctx context.Context, args []string) (err error) {
	emu := sh.Emu

	start := emu.Pc
	count := uint64(DISASSEMBLE_COUNT)

	if len(args) > 0 {
		var loc emulator.Location
		loc, err = emulator.ParseLocation(args[0])
		if err != nil {
			return
		}
		if loc.Kind != emulator.LOCATION_MEMORY {
			err = ErrArguments
			return
		}
		start = loc.Index
	}

	if len(args) > 1 {
		count, err = emulator.ParseNumber(args[1])
		if err != nil {
			return
		}
	}

	for pc, code := range emu.Disassemble(start, int(count)) {
		if ctx.Err() != nil {
			err = sh.interrupted(ctx.Err())
			return
		}
		marker := ' '
		if pc == emu.Pc {
			marker = '>'
		}
		sh.printf("%c%02X: %04X  %v", marker, pc, uint16(code), code)
		dbg := emu.Program.Debug(pc)
		if dbg.Opcode != nil && dbg.Index == 0 && !dbg.Data {
			sh.printf("\t; line %d", dbg.LineNo)
		}
		sh.printf("\n")
	}

	return
}

func (sh *Shell) cmdBreak(ctx context.Context, args []string) (err error) {
	emu := sh.Emu

	verb := "list"
	if len(args) > 0 {
		verb = strings.ToLower(args[0])
	}

	switch verb {
	case "list":
		if len(args) > 1 {
			err = ErrArguments
			return
		}
		for n, pc := range emu.Breakpoints {
			sh.printf("%d: [%02X]\n", n, pc)
		}
	case "add":
		if len(args) != 2 {
			err = ErrArguments
			return
		}
		var loc emulator.Location
		loc, err = emulator.ParseLocation(args[1])
		if err != nil {
			return
		}
		if loc.Kind != emulator.LOCATION_MEMORY {
			err = ErrArguments
			return
		}
		if !slices.Contains(emu.Breakpoints, loc.Index) {
			emu.Breakpoints = append(emu.Breakpoints, loc.Index)
		}
	case "remove":
		if len(args) != 2 {
			err = ErrArguments
			return
		}
		var n int
		n, err = strconv.Atoi(args[1])
		if err != nil {
			err = ErrArguments
			return
		}
		if n < 0 || n >= len(emu.Breakpoints) {
			err = ErrBreakpointNone
			return
		}
		emu.Breakpoints = slices.Delete(emu.Breakpoints, n, n+1)
	case "clear":
		if len(args) > 1 {
			err = ErrArguments
			return
		}
		emu.Breakpoints = nil
	default:
		err = ErrArguments
	}

	return
}

func (sh *Shell) cmdHelp(ctx context.Context, args []string) (err error) {
	if len(args) == 1 {
		cmd, ok := commands[strings.ToLower(args[0])]
		if !ok {
			err = ErrCommandUnknown
			return
		}
		sh.printf("%v\n    %v\n", cmd.usage, cmd.help)
		return
	}

	for _, name := range slices.Sorted(maps.Keys(commands)) {
		cmd := commands[name]
		sh.printf("%-42v %v\n", cmd.usage, cmd.help)
	}
	sh.printf("%-42v %v\n", "quit", "leave the shell")

	return
}
