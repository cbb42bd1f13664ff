package machine

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusState(t *testing.T) {
	assert := assert.New(t)

	sr := Status(0)
	assert.Equal(STATE_FETCH, sr.State())

	for _, st := range []State{STATE_FETCH, STATE_DECODE, STATE_EXECUTE, STATE_HALT} {
		sr = Status(0).WithZero(true).WithCarry(true).WithState(st)
		assert.Equal(st, sr.State())
		assert.True(sr.Zero())
		assert.True(sr.Carry())
		assert.Equal(uint8(0b11), sr.Flags())
		assert.Equal(Status(0), sr&^STATUS_MASK)
	}
}

func TestStatusFlags(t *testing.T) {
	assert := assert.New(t)

	sr := Status(0).WithState(STATE_EXECUTE)

	sr = sr.WithZero(true)
	assert.Equal(uint8(0b10), sr.Flags())
	sr = sr.WithCarry(true)
	assert.Equal(uint8(0b11), sr.Flags())
	sr = sr.WithZero(false)
	assert.Equal(uint8(0b01), sr.Flags())
	sr = sr.WithCarry(false)
	assert.Equal(uint8(0b00), sr.Flags())

	assert.Equal(STATE_EXECUTE, sr.State())
}

func TestStatusString(t *testing.T) {
	assert := assert.New(t)

	table := [](struct {
		sr     Status
		expect string
	}){
		{Status(0), "Fetch --"},
		{Status(0).WithState(STATE_DECODE).WithZero(true), "Decode Z-"},
		{Status(0).WithState(STATE_EXECUTE).WithCarry(true), "Execute -C"},
		{Status(0).WithState(STATE_HALT).WithZero(true).WithCarry(true), "Halt ZC"},
	}

	for _, entry := range table {
		assert.Equal(entry.expect, entry.sr.String())
	}
}

func TestStateNext(t *testing.T) {
	assert := assert.New(t)

	assert.Equal(STATE_DECODE, STATE_FETCH.Next())
	assert.Equal(STATE_EXECUTE, STATE_DECODE.Next())
	assert.Equal(STATE_FETCH, STATE_EXECUTE.Next())
	assert.Equal(STATE_HALT, STATE_HALT.Next())
}
