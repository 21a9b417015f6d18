package emulator

import (
	"errors"

	"github.com/ezrec/duet/translate"
)

var f = translate.From

var ErrProgramMissing = errors.New(f("program missing"))

// ErrRuntime indicates the program and location of a runtime fault.
type ErrRuntime struct {
	Program int
	LineNo  int
	Err     error
}

func (err *ErrRuntime) Error() string {
	return f("program %d line %d %v", err.Program, err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
