package emulator

import (
	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/translate"
)

var f = translate.From

// ErrRuntime indicates the location of a runtime error.
type ErrRuntime struct {
	LineNo int
	Err    error
}

func (err *ErrRuntime) Error() string {
	return f("line %d %v", err.LineNo, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}

// ErrTickLimit indicates the watchdog expired before the machine halted.
type ErrTickLimit int

func (err ErrTickLimit) Error() string {
	return f("no halt within %d clock cycles", int(err))
}
