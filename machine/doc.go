// Package machine implements the processor and assembler for the rr machine.
//
// The machine is an 8-bit processor with sixteen registers (r15 doubles as
// the stack pointer), 256 bytes of memory, a 16-bit instruction register and
// a four bit status register holding the cycle state and the Zero and Carry
// flags. Each instruction is two bytes wide and is run through three visible
// phases: Fetch, Decode and Execute.
//
// The assembler translates a small assembly language, with labels, equates,
// macros and compile-time expressions, into a 256 byte memory image.
package machine
