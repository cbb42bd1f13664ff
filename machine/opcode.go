package machine

import (
	"fmt"
)

// Op is the opcode nibble of an instruction word.
type Op uint8

//go:generate go tool stringer -linecomment -type=Op
const (
	OP_HLT = Op(0x0) // HLT
	OP_ADC = Op(0x1) // ADC
	OP_AND = Op(0x2) // AND
	OP_XOR = Op(0x3) // XOR
	OP_ROT = Op(0x4) // ROT
	OP_LDI = Op(0x5) // LDI
	OP_LDM = Op(0x6) // LDM
	OP_LDR = Op(0x7) // LDR
	OP_STO = Op(0x8) // STO
	OP_STR = Op(0x9) // STR
	OP_PSH = Op(0xa) // PSH
	OP_POP = Op(0xb) // POP
	OP_JSR = Op(0xc) // JSR
	OP_RET = Op(0xd) // RET
	OP_BRA = Op(0xe) // BRA
	OP_MDF = Op(0xf) // MDF
)

// Shape is the operand layout of an instruction word.
type Shape int

const (
	SHAPE_NONE         = Shape(iota) // No operands.
	SHAPE_RST                        // R bits 11-8, S bits 7-4, T bits 3-0.
	SHAPE_R_BYTE                     // R bits 11-8, byte bits 7-0.
	SHAPE_RS                         // R bits 7-4, S bits 3-0.
	SHAPE_R                          // R bits 11-8.
	SHAPE_TARGET                     // Target bits 7-0.
	SHAPE_FLAGS_TARGET               // Select bits 11-10, state bits 9-8, target bits 7-0.
	SHAPE_FLAGS                      // Select bits 11-10, state bits 9-8.
)

// Shape returns the operand layout of the opcode.
func (op Op) Shape() Shape {
	switch op {
	case OP_HLT, OP_RET:
		return SHAPE_NONE
	case OP_ADC, OP_AND, OP_XOR, OP_ROT:
		return SHAPE_RST
	case OP_LDI, OP_LDM, OP_STO:
		return SHAPE_R_BYTE
	case OP_LDR, OP_STR:
		return SHAPE_RS
	case OP_PSH, OP_POP:
		return SHAPE_R
	case OP_JSR:
		return SHAPE_TARGET
	case OP_BRA:
		return SHAPE_FLAGS_TARGET
	case OP_MDF:
		return SHAPE_FLAGS
	}

	panic(fmt.Sprintf("unknown opcode %#x", uint8(op)))
}

// Arity returns the number of operand fields of the shape.
func (shape Shape) Arity() int {
	switch shape {
	case SHAPE_RST, SHAPE_FLAGS_TARGET:
		return 3
	case SHAPE_R_BYTE, SHAPE_RS, SHAPE_FLAGS:
		return 2
	case SHAPE_R, SHAPE_TARGET:
		return 1
	}

	return 0
}

// Code is a single 16-bit instruction word.
type Code uint16

// makeOp places the opcode nibble above the operand bits.
func makeOp(op Op, bits uint16) Code {
	return Code((uint16(op&0xf) << 12) | (bits & 0xfff))
}

// MakeCodeNone creates an instruction without operands.
func MakeCodeNone(op Op) Code {
	return makeOp(op, 0)
}

// MakeCodeRST creates a three register instruction.
func MakeCodeRST(op Op, r, s, t uint8) Code {
	return makeOp(op, (uint16(r&0xf)<<8)|(uint16(s&0xf)<<4)|(uint16(t&0xf)<<0))
}

// MakeCodeRByte creates a register and immediate byte instruction.
func MakeCodeRByte(op Op, r, value uint8) Code {
	return makeOp(op, (uint16(r&0xf)<<8)|uint16(value))
}

// MakeCodeRS creates a two register instruction.
func MakeCodeRS(op Op, r, s uint8) Code {
	return makeOp(op, (uint16(r&0xf)<<4)|(uint16(s&0xf)<<0))
}

// MakeCodeR creates a single register instruction.
func MakeCodeR(op Op, r uint8) Code {
	return makeOp(op, uint16(r&0xf)<<8)
}

// MakeCodeTarget creates an instruction with a target address.
func MakeCodeTarget(op Op, target uint8) Code {
	return makeOp(op, uint16(target))
}

// MakeCodeFlags creates a flag select and state instruction.
func MakeCodeFlags(op Op, sel, state uint8) Code {
	return makeOp(op, (uint16(sel&0x3)<<10)|(uint16(state&0x3)<<8))
}

// MakeCodeFlagsTarget creates a flag select, state and target instruction.
func MakeCodeFlagsTarget(op Op, sel, state, target uint8) Code {
	return makeOp(op, (uint16(sel&0x3)<<10)|(uint16(state&0x3)<<8)|uint16(target))
}

// MakeCode creates an instruction from operand fields in the order of the
// opcode's shape. Missing fields are zero, extra fields are ignored.
func MakeCode(op Op, operand ...uint8) Code {
	var field [3]uint8
	copy(field[:], operand)

	switch op.Shape() {
	case SHAPE_RST:
		return MakeCodeRST(op, field[0], field[1], field[2])
	case SHAPE_R_BYTE:
		return MakeCodeRByte(op, field[0], field[1])
	case SHAPE_RS:
		return MakeCodeRS(op, field[0], field[1])
	case SHAPE_R:
		return MakeCodeR(op, field[0])
	case SHAPE_TARGET:
		return MakeCodeTarget(op, field[0])
	case SHAPE_FLAGS_TARGET:
		return MakeCodeFlagsTarget(op, field[0], field[1], field[2])
	case SHAPE_FLAGS:
		return MakeCodeFlags(op, field[0], field[1])
	}

	return MakeCodeNone(op)
}

// Op returns the opcode nibble of the instruction word.
func (code Code) Op() Op {
	return Op((uint16(code) >> 12) & 0xf)
}

// Decode returns the operand fields of the instruction word.
// Operand 0 is always the opcode, the remainder follow the opcode's shape.
func (code Code) Decode() (operand [4]uint8) {
	word := uint16(code)
	op := code.Op()

	operand[0] = uint8(op)

	switch op.Shape() {
	case SHAPE_NONE:
		// no operands
	case SHAPE_RST:
		operand[1] = uint8((word >> 8) & 0xf)
		operand[2] = uint8((word >> 4) & 0xf)
		operand[3] = uint8((word >> 0) & 0xf)
	case SHAPE_R_BYTE:
		operand[1] = uint8((word >> 8) & 0xf)
		operand[2] = uint8((word >> 0) & 0xff)
	case SHAPE_RS:
		operand[1] = uint8((word >> 4) & 0xf)
		operand[2] = uint8((word >> 0) & 0xf)
	case SHAPE_R:
		operand[1] = uint8((word >> 8) & 0xf)
	case SHAPE_TARGET:
		operand[1] = uint8((word >> 0) & 0xff)
	case SHAPE_FLAGS_TARGET:
		operand[1] = uint8((word >> 10) & 0x3)
		operand[2] = uint8((word >> 8) & 0x3)
		operand[3] = uint8((word >> 0) & 0xff)
	case SHAPE_FLAGS:
		operand[1] = uint8((word >> 10) & 0x3)
		operand[2] = uint8((word >> 8) & 0x3)
	}

	return
}

// Bytes returns the instruction word as it is laid out in memory.
func (code Code) Bytes() [2]uint8 {
	return [2]uint8{uint8(code >> 8), uint8(code)}
}

// registerName returns the assembler name of a register.
func registerName(r uint8) string {
	return fmt.Sprintf("r%d", r)
}

// flagsName returns a two bit flag field as a binary literal.
func flagsName(bits uint8) string {
	return fmt.Sprintf("0b%02b", bits&0x3)
}

// String returns the assembly language representation of this instruction.
func (code Code) String() (out string) {
	op := code.Op()
	operand := code.Decode()

	switch op.Shape() {
	case SHAPE_NONE:
		out = op.String()
	case SHAPE_RST:
		out = fmt.Sprintf("%v %v, %v, %v", op, registerName(operand[1]), registerName(operand[2]), registerName(operand[3]))
	case SHAPE_R_BYTE:
		out = fmt.Sprintf("%v %v, 0x%02x", op, registerName(operand[1]), operand[2])
	case SHAPE_RS:
		out = fmt.Sprintf("%v %v, %v", op, registerName(operand[1]), registerName(operand[2]))
	case SHAPE_R:
		out = fmt.Sprintf("%v %v", op, registerName(operand[1]))
	case SHAPE_TARGET:
		out = fmt.Sprintf("%v 0x%02x", op, operand[1])
	case SHAPE_FLAGS_TARGET:
		out = fmt.Sprintf("%v %v, %v, 0x%02x", op, flagsName(operand[1]), flagsName(operand[2]), operand[3])
	case SHAPE_FLAGS:
		out = fmt.Sprintf("%v %v, %v", op, flagsName(operand[1]), flagsName(operand[2]))
	}

	return
}
