package machine

import (
	"fmt"
)

// State is a cycle state of the control unit.
type State uint8

//go:generate go tool stringer -linecomment -type=State
const (
	STATE_FETCH   = State(0b00) // Fetch
	STATE_DECODE  = State(0b01) // Decode
	STATE_EXECUTE = State(0b10) // Execute
	STATE_HALT    = State(0b11) // Halt
)

// Status is the SSZC status register.
// Bits 3-2 hold the cycle state, bit 1 the Zero flag and bit 0 the Carry flag.
type Status uint8

const (
	STATUS_CARRY       = Status(1 << 0) // Carry flag.
	STATUS_ZERO        = Status(1 << 1) // Zero flag.
	STATUS_FLAGS_MASK  = Status(0b0011) // Mask of the flag bits.
	STATUS_STATE_MASK  = Status(0b1100) // Mask of the cycle state bits.
	STATUS_MASK        = Status(0b1111) // Mask of all meaningful bits.
	STATUS_STATE_SHIFT = 2
)

// State returns the cycle state.
func (sr Status) State() State {
	return State((sr & STATUS_STATE_MASK) >> STATUS_STATE_SHIFT)
}

// Zero returns the Zero flag.
func (sr Status) Zero() bool {
	return (sr & STATUS_ZERO) != 0
}

// Carry returns the Carry flag.
func (sr Status) Carry() bool {
	return (sr & STATUS_CARRY) != 0
}

// Flags returns the ZC flag bits.
func (sr Status) Flags() uint8 {
	return uint8(sr & STATUS_FLAGS_MASK)
}

// WithState returns the status with the cycle state replaced.
func (sr Status) WithState(st State) Status {
	return (sr &^ STATUS_STATE_MASK) | ((Status(st) << STATUS_STATE_SHIFT) & STATUS_STATE_MASK)
}

// WithZero returns the status with the Zero flag replaced.
func (sr Status) WithZero(zero bool) Status {
	if zero {
		return sr | STATUS_ZERO
	}
	return sr &^ STATUS_ZERO
}

// WithCarry returns the status with the Carry flag replaced.
func (sr Status) WithCarry(carry bool) Status {
	if carry {
		return sr | STATUS_CARRY
	}
	return sr &^ STATUS_CARRY
}

// String returns the status as the state name and flags, ie "Fetch Z-".
func (sr Status) String() string {
	z := '-'
	if sr.Zero() {
		z = 'Z'
	}
	c := '-'
	if sr.Carry() {
		c = 'C'
	}

	return fmt.Sprintf("%v %c%c", sr.State(), z, c)
}

// Next returns the state following st in the instruction cycle.
// Execute is followed by Fetch; Halt is terminal.
func (st State) Next() State {
	switch st {
	case STATE_FETCH:
		return STATE_DECODE
	case STATE_DECODE:
		return STATE_EXECUTE
	case STATE_EXECUTE:
		return STATE_FETCH
	}

	return STATE_HALT
}
