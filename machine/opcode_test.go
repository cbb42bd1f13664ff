package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeEncoding(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		code    Code
		word    uint16
		operand [OPERAND_COUNT]uint8
		text    string
	}){
		{MakeCodeNone(OP_HLT), 0x0000, [4]uint8{0x0, 0, 0, 0}, "HLT"},
		{MakeCodeRST(OP_ADC, 2, 0, 1), 0x1201, [4]uint8{0x1, 2, 0, 1}, "ADC r2, r0, r1"},
		{MakeCodeRST(OP_AND, 3, 4, 5), 0x2345, [4]uint8{0x2, 3, 4, 5}, "AND r3, r4, r5"},
		{MakeCodeRST(OP_XOR, 0xf, 0xe, 0xd), 0x3fed, [4]uint8{0x3, 15, 14, 13}, "XOR r15, r14, r13"},
		{MakeCodeRST(OP_ROT, 1, 1, 2), 0x4112, [4]uint8{0x4, 1, 1, 2}, "ROT r1, r1, r2"},
		{MakeCodeRByte(OP_LDI, 0, 5), 0x5005, [4]uint8{0x5, 0, 5, 0}, "LDI r0, 0x05"},
		{MakeCodeRByte(OP_LDM, 7, 0x80), 0x6780, [4]uint8{0x6, 7, 0x80, 0}, "LDM r7, 0x80"},
		{MakeCodeRS(OP_LDR, 1, 2), 0x7012, [4]uint8{0x7, 1, 2, 0}, "LDR r1, r2"},
		{MakeCodeRByte(OP_STO, 7, 0xfe), 0x87fe, [4]uint8{0x8, 7, 0xfe, 0}, "STO r7, 0xfe"},
		{MakeCodeRS(OP_STR, 3, 4), 0x9034, [4]uint8{0x9, 3, 4, 0}, "STR r3, r4"},
		{MakeCodeR(OP_PSH, 3), 0xa300, [4]uint8{0xa, 3, 0, 0}, "PSH r3"},
		{MakeCodeR(OP_POP, 4), 0xb400, [4]uint8{0xb, 4, 0, 0}, "POP r4"},
		{MakeCodeTarget(OP_JSR, 0x20), 0xc020, [4]uint8{0xc, 0x20, 0, 0}, "JSR 0x20"},
		{MakeCodeNone(OP_RET), 0xd000, [4]uint8{0xd, 0, 0, 0}, "RET"},
		{MakeCodeFlagsTarget(OP_BRA, 0b10, 0b10, 0x20), 0xea20, [4]uint8{0xe, 2, 2, 0x20}, "BRA 0b10, 0b10, 0x20"},
		{MakeCodeFlags(OP_MDF, 0b11, 0b10), 0xfe00, [4]uint8{0xf, 3, 2, 0}, "MDF 0b11, 0b10"},
	}

	for _, entry := range table {
		assert.Equal(entry.word, uint16(entry.code), entry.text)
		assert.Equal(entry.operand, entry.code.Decode(), entry.text)
		assert.Equal(entry.text, entry.code.String())
		assert.Equal(Op(entry.operand[0]), entry.code.Op(), entry.text)
	}
}

func TestCodeMakeCode(t *testing.T) {
	assert := assert.New(t)

	for word := range 0x10000 {
		code := Code(word)
		operand := code.Decode()
		remade := MakeCode(code.Op(), operand[1:]...)
		// Remaking a decoded word keeps every bit the opcode uses.
		assert.Equal(operand, remade.Decode())
	}

	assert.Equal(Code(0x1201), MakeCode(OP_ADC, 2, 0, 1))
	assert.Equal(Code(0xd000), MakeCode(OP_RET, 1, 2, 3))
	assert.Equal(Code(0xc000), MakeCode(OP_JSR))
}

func TestCodeBytes(t *testing.T) {
	assert := assert.New(t)

	assert.Equal([2]uint8{0x12, 0x01}, Code(0x1201).Bytes())
	assert.Equal([2]uint8{0xea, 0x20}, Code(0xea20).Bytes())
}

func TestOpShape(t *testing.T) {
	assert := assert.New(t)

	arity := map[Op]int{
		OP_HLT: 0, OP_ADC: 3, OP_AND: 3, OP_XOR: 3,
		OP_ROT: 3, OP_LDI: 2, OP_LDM: 2, OP_LDR: 2,
		OP_STO: 2, OP_STR: 2, OP_PSH: 1, OP_POP: 1,
		OP_JSR: 1, OP_RET: 0, OP_BRA: 3, OP_MDF: 2,
	}

	for op, count := range arity {
		assert.Equal(count, op.Shape().Arity(), op.String())
	}

	assert.Panics(func() { Op(0x10).Shape() })
}
