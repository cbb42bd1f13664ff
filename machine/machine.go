package machine

import (
	"fmt"
	"iter"
	"maps"

	"github.com/sirupsen/logrus"
)

const (
	MEMORY_SIZE      = 256  // Bytes of main memory.
	REGISTER_COUNT   = 16   // Registers in the register bank.
	REGISTER_SP      = 15   // Register used as the stack pointer.
	STACK_TOP        = 0xff // Stack pointer after reset; the stack grows down.
	INSTRUCTION_SIZE = 2    // Bytes per instruction word.
	OPERAND_COUNT    = 4    // Decoded operand fields.
)

var _machine_defines = map[string]string{
	"MEMORY_SIZE":      fmt.Sprintf("%v", MEMORY_SIZE),
	"STACK_TOP":        fmt.Sprintf("%#x", STACK_TOP),
	"INSTRUCTION_SIZE": fmt.Sprintf("%v", INSTRUCTION_SIZE),
}

// Machine is the simulation context of the processor.
type Machine struct {
	Verbose bool // Set to enable verbose logging.

	Memory   [MEMORY_SIZE]uint8    // Main memory.
	Register [REGISTER_COUNT]uint8 // Register bank; r15 is the stack pointer.
	Pc       uint8                 // Program counter.
	Ir       uint16                // Instruction register.
	Status   Status                // Status register, SSZC.
	Operand  [OPERAND_COUNT]uint8  // Decoded operands; operand 0 is the opcode.

	Cycles       int // Sub-steps since reset.
	Instructions int // Completed instructions since reset.
}

// NewMachine creates a machine with zeroed memory and registers,
// the stack pointer at the top of memory and the cycle state at Fetch.
func NewMachine() (m *Machine) {
	m = &Machine{}
	m.SetSp(STACK_TOP)

	return
}

// Defines for the machine.
func (m *Machine) Defines() iter.Seq2[string, string] {
	return maps.All(_machine_defines)
}

// ResetRegisters returns the program counter, status, instruction register,
// decoded operands and register bank to their construction values.
// Memory is not altered.
func (m *Machine) ResetRegisters() {
	if m.Verbose {
		logrus.Debug("machine: reset")
	}

	m.Pc = 0
	m.Ir = 0
	m.Status = Status(0).WithState(STATE_FETCH)
	clear(m.Operand[:])
	clear(m.Register[:])
	m.SetSp(STACK_TOP)

	m.Cycles = 0
	m.Instructions = 0
}

// ClearMemory zeroes all of memory. Registers and status are not altered.
func (m *Machine) ClearMemory() {
	if m.Verbose {
		logrus.Debug("machine: clear memory")
	}

	clear(m.Memory[:])
}

// Sp returns the stack pointer.
func (m *Machine) Sp() uint8 {
	return m.Register[REGISTER_SP]
}

// SetSp sets the stack pointer.
func (m *Machine) SetSp(sp uint8) {
	m.Register[REGISTER_SP] = sp
}

// Code returns the instruction word held in the instruction register.
func (m *Machine) Code() Code {
	return Code(m.Ir)
}

// String returns the current machine state as a string.
func (m *Machine) String() (text string) {
	text += fmt.Sprintf("% 5s: %02X\n", "pc", m.Pc)
	text += fmt.Sprintf("% 5s: %04X\n", "ir", m.Ir)
	text += fmt.Sprintf("% 5s: %X (%v)\n", "sr", uint8(m.Status), m.Status)
	for n, val := range m.Register {
		name := registerName(uint8(n))
		if n == REGISTER_SP {
			name = "sp"
		}
		text += fmt.Sprintf("% 5s: %02X\n", name, val)
	}

	return
}

// fields returns the structured logging fields of the machine state.
func (m *Machine) fields() logrus.Fields {
	return logrus.Fields{
		"pc": fmt.Sprintf("%02X", m.Pc),
		"ir": fmt.Sprintf("%04X", m.Ir),
		"sr": m.Status.String(),
		"sp": fmt.Sprintf("%02X", m.Sp()),
	}
}
