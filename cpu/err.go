package cpu

import (
	"errors"

	"github.com/Backseating-Committee-2k/BackseatSafeSystem2k/translate"
)

var f = translate.From

var (
	// Assembler errors
	ErrEquateSyntax    = errors.New(f(".equ syntax"))
	ErrEquateDuplicate = errors.New(f(".equ duplicated"))
	ErrLabelDuplicate  = errors.New(f("label duplicated"))
	ErrOpcodeInvalid   = errors.New(f("opcode invalid"))
	ErrOpcodeExtraArgs = errors.New(f("excessive arguments"))
	ErrOperandMissing  = errors.New(f("operand missing"))
)

// ErrOpcode is the fatal decode error: an unrecognized operation selector.
// The sequencer latches it and enters the halted state.
type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("bad opcode 0x%04x in 0x%016x", uint16(Instruction(eo).Op()), uint64(eo))
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

// ErrLabelMissing reports a reference to an undefined label.
type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrSyntax wraps an assembler error with its source location.
type ErrSyntax struct {
	LineNo int
	Line   string
	Err    error
}

func (err ErrSyntax) Error() string {
	return f("line %d '%v' %v", err.LineNo, err.Line, err.Err)
}

func (err ErrSyntax) Unwrap() error {
	return err.Err
}

// ErrParseNumber reports a word that is not a numeric literal.
type ErrParseNumber string

func (err ErrParseNumber) Error() string {
	return f("'%v' is not a number", string(err))
}

// ErrRegisterInvalid reports a word that is not a register name.
type ErrRegisterInvalid string

func (err ErrRegisterInvalid) Error() string {
	return f("'%v' is not a register", string(err))
}

// ErrParseExpression reports an invalid compile-time $() expression.
type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
