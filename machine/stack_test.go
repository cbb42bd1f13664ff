package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStack_Push(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	assert.True(m.Empty())
	assert.Equal(0, m.Depth())

	m.Push(0x12)
	assert.False(m.Empty())
	assert.Equal(1, m.Depth())
	assert.Equal(uint8(0x12), m.Memory[0xff])
	assert.Equal(uint8(0xfe), m.Sp())
}

func TestStack_Pop(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Push(0x12)
	m.Push(0xab)

	assert.Equal(uint8(0xab), m.Pop())
	assert.Equal(1, m.Depth())

	assert.Equal(uint8(0x12), m.Pop())
	assert.True(m.Empty())
}

func TestStack_Pop_Empty(t *testing.T) {
	assert := assert.New(t)

	// The stack pointer wraps, reading address 0.
	m := NewMachine()
	m.Memory[0] = 0x77
	assert.Equal(uint8(0x77), m.Pop())
	assert.Equal(uint8(0x00), m.Sp())
}

func TestStack_Peek(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Push(0x12)
	m.Push(0xab)

	val, ok := m.Peek()
	assert.True(ok)
	assert.Equal(uint8(0xab), val)
	assert.Equal(2, m.Depth())
}

func TestStack_Peek_Empty(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	val, ok := m.Peek()
	assert.False(ok)
	assert.Equal(uint8(0), val)
}

func TestStack_Register(t *testing.T) {
	assert := assert.New(t)

	m := NewMachine()
	m.Register[REGISTER_SP] = 0x80
	m.Push(0x55)
	assert.Equal(uint8(0x55), m.Memory[0x80])
	assert.Equal(uint8(0x7f), m.Register[REGISTER_SP])
	assert.Equal(0x80, m.Depth())
}
