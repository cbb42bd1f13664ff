package emulator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/ezrec/rrmachine/machine"
)

// LocationKind selects the storage a Location refers to.
type LocationKind int

const (
	LOCATION_MEMORY   = LocationKind(iota) // Main memory byte.
	LOCATION_REGISTER                      // Register bank byte.
	LOCATION_PC                            // Program counter.
	LOCATION_IR                            // Instruction register.
	LOCATION_SR                            // Status register.
)

// Location is a peekable and pokeable piece of machine state.
type Location struct {
	Kind  LocationKind
	Index uint8 // Memory address or register number.
}

// Mask returns the bits of a value the location can hold.
func (loc Location) Mask() uint16 {
	switch loc.Kind {
	case LOCATION_IR:
		return 0xffff
	case LOCATION_SR:
		return uint16(machine.STATUS_MASK)
	}

	return 0xff
}

func (loc Location) String() string {
	switch loc.Kind {
	case LOCATION_REGISTER:
		if loc.Index == machine.REGISTER_SP {
			return "sp"
		}
		return fmt.Sprintf("r%d", loc.Index)
	case LOCATION_PC:
		return "pc"
	case LOCATION_IR:
		return "ir"
	case LOCATION_SR:
		return "sr"
	}

	return fmt.Sprintf("[%02X]", loc.Index)
}

// ParseNumber parses an unsigned number. A leading '%' is binary, '$' is
// hexadecimal and '0' is octal; '0x' and '0b' are also accepted. Anything
// else is decimal.
func ParseNumber(text string) (value uint64, err error) {
	base := 10
	digits := text

	lower := strings.ToLower(text)
	switch {
	case strings.HasPrefix(lower, "%"):
		base, digits = 2, text[1:]
	case strings.HasPrefix(lower, "$"):
		base, digits = 16, text[1:]
	case strings.HasPrefix(lower, "0x"):
		base, digits = 16, text[2:]
	case strings.HasPrefix(lower, "0b"):
		base, digits = 2, text[2:]
	case len(text) > 1 && text[0] == '0':
		base, digits = 8, text[1:]
	}

	value, err = strconv.ParseUint(digits, base, 64)
	if err != nil {
		err = ErrParseNumber(text)
	}

	return
}

// ParseLocation parses a register name (r0 to r15, sp), pc, ir, sr or a
// memory address.
func ParseLocation(text string) (loc Location, err error) {
	name := strings.ToLower(text)

	switch name {
	case "pc":
		loc.Kind = LOCATION_PC
		return
	case "ir":
		loc.Kind = LOCATION_IR
		return
	case "sr":
		loc.Kind = LOCATION_SR
		return
	case "sp":
		loc = Location{Kind: LOCATION_REGISTER, Index: machine.REGISTER_SP}
		return
	}

	if strings.HasPrefix(name, "r") {
		index, perr := strconv.ParseUint(name[1:], 10, 8)
		if perr != nil || index >= machine.REGISTER_COUNT {
			err = fmt.Errorf("%w: %v", ErrLocationInvalid, text)
			return
		}
		loc = Location{Kind: LOCATION_REGISTER, Index: uint8(index)}
		return
	}

	addr, err := ParseNumber(text)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrLocationInvalid, err)
		return
	}
	if addr >= machine.MEMORY_SIZE {
		err = fmt.Errorf("%w: %v", ErrLocationInvalid, text)
		return
	}

	loc = Location{Kind: LOCATION_MEMORY, Index: uint8(addr)}
	return
}

// Peek returns the value held at a location.
func (emu *Emulator) Peek(loc Location) (value uint16) {
	switch loc.Kind {
	case LOCATION_MEMORY:
		value = uint16(emu.Memory[loc.Index])
	case LOCATION_REGISTER:
		value = uint16(emu.Register[loc.Index&0xf])
	case LOCATION_PC:
		value = uint16(emu.Pc)
	case LOCATION_IR:
		value = emu.Ir
	case LOCATION_SR:
		value = uint16(emu.Status)
	}

	return
}

// Poke stores a value at a location, truncated to the location's width.
func (emu *Emulator) Poke(loc Location, value uint64) {
	v16 := uint16(value) & loc.Mask()

	switch loc.Kind {
	case LOCATION_MEMORY:
		emu.Memory[loc.Index] = uint8(v16)
	case LOCATION_REGISTER:
		emu.Register[loc.Index&0xf] = uint8(v16)
	case LOCATION_PC:
		emu.Pc = uint8(v16)
	case LOCATION_IR:
		emu.Ir = v16
	case LOCATION_SR:
		emu.Status = machine.Status(v16)
	}
}
