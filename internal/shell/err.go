package shell

import (
	"errors"

	"github.com/ezrec/rrmachine/translate"
)

var f = translate.From

var (
	ErrCommandUnknown = errors.New(f("unknown command"))
	ErrArguments      = errors.New(f("invalid arguments"))
	ErrBreakpointNone = errors.New(f("no such breakpoint"))
)

// ErrCommand records the command that failed.
type ErrCommand struct {
	Command string
	Err     error
}

func (err *ErrCommand) Error() string {
	return f("%v: %v", err.Command, err.Err)
}

func (err *ErrCommand) Unwrap() error {
	return err.Err
}
