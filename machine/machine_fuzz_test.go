package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func FuzzMachine(f *testing.F) {
	for op := range 0x10 {
		f.Add(uint16(op<<12), false, false)
		f.Add(uint16(op<<12)|0x0fff, true, true)
		f.Add(uint16(op<<12)|0x0a5a, true, false)
	}

	f.Fuzz(func(t *testing.T, word uint16, zero bool, carry bool) {
		assert := assert.New(t)

		code := Code(word)

		m := NewMachine()
		for n := range m.Register[:REGISTER_SP] {
			m.Register[n] = uint8(0x10*n + n)
		}
		m.Register[REGISTER_SP] = 0x80
		for n := range m.Memory {
			m.Memory[n] = uint8(n ^ 0x5a)
		}
		m.Pc = 0x40
		word_bytes := code.Bytes()
		m.Memory[0x40] = word_bytes[0]
		m.Memory[0x41] = word_bytes[1]
		m.Status = Status(0).WithZero(zero).WithCarry(carry)

		before := *m

		m.FullStep()

		assert.Equal(uint16(code), m.Ir)
		assert.Equal(Status(0), m.Status&^STATUS_MASK)
		assert.Equal(1, m.Instructions)
		assert.Equal(3, m.Cycles)

		operand := code.Decode()
		switch code.Op() {
		case OP_HLT:
			assert.True(m.Halted())
			assert.Equal(uint8(0x42), m.Pc)
			assert.Equal(before.Register, m.Register)
		case OP_JSR:
			assert.Equal(operand[1], m.Pc)
			assert.Equal(uint8(0x7f), m.Sp())
			assert.Equal(uint8(0x42), m.Memory[0x80])
		case OP_RET:
			assert.Equal(before.Memory[0x81], m.Pc)
			assert.Equal(uint8(0x81), m.Sp())
		case OP_BRA:
			taken := (operand[1] & (before.Status.Flags() ^ operand[2])) == 0
			if taken {
				assert.Equal(operand[3], m.Pc)
			} else {
				assert.Equal(uint8(0x42), m.Pc)
			}
			assert.Equal(before.Status.Flags(), m.Status.Flags())
		case OP_PSH:
			assert.Equal(uint8(0x42), m.Pc)
			assert.Equal(uint8(0x7f), m.Sp())
			assert.Equal(before.Status, m.Status)
		case OP_POP:
			assert.Equal(uint8(0x42), m.Pc)
			assert.Equal(before.Memory[0x81], m.Register[operand[1]])
		default:
			assert.Equal(uint8(0x42), m.Pc)
			assert.False(m.Halted())
		}

		switch code.Op() {
		case OP_ADC, OP_AND, OP_XOR, OP_ROT, OP_LDI, OP_LDM, OP_LDR:
			// Only the destination register changes.
			for n := range m.Register {
				if n != int(operand[1]) {
					assert.Equal(before.Register[n], m.Register[n], "r%d", n)
				}
			}
		case OP_STO, OP_STR, OP_MDF, OP_BRA, OP_HLT:
			assert.Equal(before.Register, m.Register)
		}
	})
}
