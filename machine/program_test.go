package machine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProgramDebug(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("ldi r0, 1\n.byte 7, 8, 9\nhlt\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	dbg := prog.Debug(0)
	assert.NotNil(dbg.Opcode)
	assert.Equal(1, dbg.LineNo)
	assert.Equal(0, dbg.Index)

	dbg = prog.Debug(3)
	assert.Equal(2, dbg.LineNo)
	assert.Equal(1, dbg.Index)
	assert.True(dbg.Data)

	dbg = prog.Debug(6)
	assert.Equal(3, dbg.LineNo)
	assert.Equal(1, dbg.Index)

	dbg = prog.Debug(0x80)
	assert.Nil(dbg.Opcode)
}

func TestProgramCodes(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("ldi r0, 1\n.byte 7, 8\nhlt\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	pcs := []uint8{}
	codes := []Code{}
	for pc, code := range prog.Codes() {
		pcs = append(pcs, pc)
		codes = append(codes, code)
	}
	assert.Equal([]uint8{0, 4}, pcs)
	assert.Equal([]Code{0x5001, 0x0000}, codes)

	for range prog.Codes() {
		break
	}
}

func TestProgramBinary(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader("ldi r0, 1\n.org 0xf0\n.byte 7, 8\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	var expect [MEMORY_SIZE]uint8
	expect[0] = 0x50
	expect[1] = 0x01
	expect[0xf0] = 7
	expect[0xf1] = 8
	assert.Equal(expect, prog.Binary())
}

func TestProgramOverlay(t *testing.T) {
	assert := assert.New(t)

	asm := &Assembler{}
	prog, err := asm.Parse(strings.NewReader(".org 0x10\n.byte 1, 2\n"))
	assert.NoError(err)
	if err != nil {
		t.Fatal(err)
	}

	var memory [MEMORY_SIZE]uint8
	for n := range memory {
		memory[n] = 0xee
	}
	prog.Overlay(&memory)

	assert.Equal(uint8(0xee), memory[0x0f])
	assert.Equal(uint8(1), memory[0x10])
	assert.Equal(uint8(2), memory[0x11])
	assert.Equal(uint8(0xee), memory[0x12])

	binary := prog.Binary()
	assert.Equal(uint8(0), binary[0x0f])
	assert.Equal(uint8(1), binary[0x10])
}
