package image

import (
	"errors"

	"github.com/ezrec/rrmachine/translate"
)

var f = translate.From

var (
	ErrNotFound   = errors.New(f("image not found"))
	ErrUnreadable = errors.New(f("image unreadable"))
	ErrUnwritable = errors.New(f("image unwritable"))
	ErrShortInput = errors.New(f("image too short"))
)

// ErrImage records the image file and cause of a failed load or save.
// It matches both its kind and its cause with errors.Is.
type ErrImage struct {
	Name string // Image name, empty for a plain reader or writer.
	Kind error  // One of ErrNotFound, ErrUnreadable, ErrUnwritable or ErrShortInput.
	Err  error  // Underlying cause.
}

func (err *ErrImage) Error() string {
	if len(err.Name) == 0 {
		return f("%v: %v", err.Kind, err.Err)
	}
	return f("%v: %v: %v", err.Name, err.Kind, err.Err)
}

func (err *ErrImage) Unwrap() []error {
	return []error{err.Kind, err.Err}
}
