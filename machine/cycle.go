package machine

import (
	"time"

	"github.com/sirupsen/logrus"
)

// Halted returns true once the machine has executed a HLT.
func (m *Machine) Halted() bool {
	return m.Status.State() == STATE_HALT
}

// fetch loads the two bytes at the program counter into the instruction register.
func (m *Machine) fetch() {
	m.Ir = (uint16(m.Memory[m.Pc]) << 8) | uint16(m.Memory[m.Pc+1])
}

// decode replaces the operand fields with those of the instruction register.
// Fields unused by the opcode's shape are zero.
func (m *Machine) decode() {
	m.Operand = m.Code().Decode()
}

// execute runs the decoded instruction and returns the next cycle state.
func (m *Machine) execute() (next State) {
	op := Op(m.Operand[0])

	flow := m.Execute(op, m.Operand)
	m.Instructions++

	next = STATE_FETCH
	switch flow {
	case FLOW_NEXT:
		m.Pc += INSTRUCTION_SIZE
	case FLOW_JUMP, FLOW_RETURN:
		// PC already holds the next instruction address.
	case FLOW_HALT:
		m.Pc += INSTRUCTION_SIZE
		next = STATE_HALT
	}

	if m.Verbose {
		logrus.WithFields(m.fields()).WithField("op", Code(m.Ir).String()).Debug("machine: execute")
	}

	return
}

// SubStep performs the action of the current cycle state and advances to the
// next state. A halted machine is left untouched.
func (m *Machine) SubStep() {
	state := m.Status.State()

	switch state {
	case STATE_FETCH:
		m.fetch()
		if m.Verbose {
			logrus.WithFields(m.fields()).Debug("machine: fetch")
		}
	case STATE_DECODE:
		m.decode()
		if m.Verbose {
			logrus.WithFields(m.fields()).WithField("operand", m.Operand).Debug("machine: decode")
		}
	case STATE_EXECUTE:
		m.Cycles++
		m.Status = m.Status.WithState(m.execute())
		return
	case STATE_HALT:
		return
	}

	m.Cycles++
	m.Status = m.Status.WithState(state.Next())
}

// FullStep runs sub-steps until the current instruction has finished its
// Execute phase, from whichever phase the machine is in.
func (m *Machine) FullStep() {
	for !m.Halted() {
		executing := m.Status.State() == STATE_EXECUTE
		m.SubStep()
		if executing {
			return
		}
	}
}

// RunPart runs sub-steps until the machine halts. A positive delay is slept
// between sub-steps for display pacing only.
func (m *Machine) RunPart(delay time.Duration) {
	m.run(m.SubStep, delay)
}

// RunFull runs full steps until the machine halts. A positive delay is slept
// between instructions for display pacing only.
func (m *Machine) RunFull(delay time.Duration) {
	m.run(m.FullStep, delay)
}

// run calls step until halted.
func (m *Machine) run(step func(), delay time.Duration) {
	for !m.Halted() {
		step()
		if delay > 0 && !m.Halted() {
			time.Sleep(delay)
		}
	}
}
