package emulator

import (
	"errors"

	"github.com/ezrec/rrmachine/translate"
)

var f = translate.From

var (
	ErrBreakpoint      = errors.New(f("breakpoint"))
	ErrLocationInvalid = errors.New(f("location invalid"))
)

// ErrRuntime indicates the location of a runtime stop.
type ErrRuntime struct {
	LineNo int
	Pc     uint8
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d [%02X] %v", err.LineNo, err.Pc, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrParseNumber is returned for text that is not a number.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}
