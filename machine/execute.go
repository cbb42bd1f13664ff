package machine

// Flow tells the cycle engine how the program counter moves after Execute.
type Flow int

const (
	FLOW_NEXT   = Flow(iota) // Advance to the following instruction.
	FLOW_JUMP                // PC was replaced by a target address.
	FLOW_RETURN              // PC was replaced by a return address.
	FLOW_HALT                // Enter the Halt state.
)

// rotate9 rotates value through carry as a nine bit ring by amount (1-7)
// positions, returning the low eight bits and the bit left in the carry.
func rotate9(value uint8, carry bool, amount uint8, right bool) (output uint8, carry_out bool) {
	// A right rotate of n is a left rotate of 9-n on a nine bit ring.
	if right {
		amount = 9 - amount
	}

	ring := uint16(value)
	if carry {
		ring |= 1 << 8
	}
	ring = ((ring << amount) | (ring >> (9 - amount))) & 0x1ff

	output = uint8(ring)
	carry_out = (ring & 0x100) != 0
	return
}

// Execute applies the semantics of an opcode to the machine, using operand
// fields as populated by Code.Decode. The cycle state is never altered;
// the returned Flow tells the caller what to do with the program counter.
func (m *Machine) Execute(op Op, operand [OPERAND_COUNT]uint8) (flow Flow) {
	reg := &m.Register

	switch op {
	case OP_HLT:
		flow = FLOW_HALT
	case OP_ADC:
		r, s, t := operand[1]&0xf, operand[2]&0xf, operand[3]&0xf
		sum := uint16(reg[s]) + uint16(reg[t])
		if m.Status.Carry() {
			sum++
		}
		reg[r] = uint8(sum)
		m.Status = m.Status.WithZero(reg[r] == 0).WithCarry(sum > 0xff)
	case OP_AND:
		r, s, t := operand[1]&0xf, operand[2]&0xf, operand[3]&0xf
		reg[r] = reg[s] & reg[t]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_XOR:
		r, s, t := operand[1]&0xf, operand[2]&0xf, operand[3]&0xf
		reg[r] = reg[s] ^ reg[t]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_ROT:
		r, s, t := operand[1]&0xf, operand[2]&0xf, operand[3]&0xf
		amount := reg[t] & 0x7
		if amount == 0 {
			break
		}
		right := (reg[t] & 0x8) != 0
		// Zero reflects R before the rotate is written back.
		prior := reg[r]
		output, carry := rotate9(reg[s], m.Status.Carry(), amount, right)
		reg[r] = output
		m.Status = m.Status.WithZero(prior == 0).WithCarry(carry)
	case OP_LDI:
		r := operand[1] & 0xf
		reg[r] = operand[2]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_LDM:
		r := operand[1] & 0xf
		reg[r] = m.Memory[operand[2]]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_LDR:
		r, s := operand[1]&0xf, operand[2]&0xf
		reg[r] = m.Memory[reg[s]]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_STO:
		r := operand[1] & 0xf
		m.Memory[operand[2]] = reg[r]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_STR:
		r, s := operand[1]&0xf, operand[2]&0xf
		m.Memory[reg[s]] = reg[r]
		m.Status = m.Status.WithZero(reg[r] == 0)
	case OP_PSH:
		m.Push(reg[operand[1]&0xf])
	case OP_POP:
		r := operand[1] & 0xf
		value := m.Pop()
		reg[r] = value
		m.Status = m.Status.WithZero(value == 0)
	case OP_JSR:
		m.Push(m.Pc + INSTRUCTION_SIZE)
		m.Pc = operand[1]
		flow = FLOW_JUMP
	case OP_RET:
		m.Pc = m.Pop()
		flow = FLOW_RETURN
	case OP_BRA:
		sel, state := operand[1]&0x3, operand[2]&0x3
		if (sel & (m.Status.Flags() ^ state)) == 0 {
			m.Pc = operand[3]
			flow = FLOW_JUMP
		}
	case OP_MDF:
		sel, state := operand[1]&0x3, operand[2]&0x3
		if (sel & uint8(STATUS_ZERO)) != 0 {
			m.Status = m.Status.WithZero((state & uint8(STATUS_ZERO)) != 0)
		}
		if (sel & uint8(STATUS_CARRY)) != 0 {
			m.Status = m.Status.WithCarry((state & uint8(STATUS_CARRY)) != 0)
		}
	}

	return
}
