package cpu

import (
	"errors"

	"github.com/ezrec/duet/translate"
)

var f = translate.From

var (
	// Cpu errors
	ErrIpEmpty        = errors.New(f("ip empty"))
	ErrTickLimit      = errors.New(f("tick limit exceeded"))
	ErrInvalidOperand = errors.New(f("constant operand is not writable"))
	ErrArithmetic     = errors.New(f("modulo by zero"))
	ErrChannelMissing = errors.New(f("channel missing"))

	// Instruction decode errors
	ErrOpcodeDecode = errors.New(f("decode"))
	ErrOpcodeAlu    = errors.New(f("alu"))
	ErrOpcodeJump   = errors.New(f("jump"))
	ErrOpcodeIo     = errors.New(f("io"))
	ErrOpcodeArg1   = errors.New(f("arg1"))
	ErrOpcodeArg2   = errors.New(f("arg2"))

	// Assembler errors
	ErrEquateSyntax       = errors.New(f(".equ syntax"))
	ErrEquateDuplicate    = errors.New(f(".equ duplicated"))
	ErrEquateName         = errors.New(f(".equ name is a register"))
	ErrLabelDuplicate     = errors.New(f("label duplicated"))
	ErrLabelName          = errors.New(f("label name invalid"))
	ErrOpcodeExtraArgs    = errors.New(f("excessive arguments"))
	ErrOpcodeValueMissing = errors.New(f("value missing"))
	ErrOpcodeInvalid      = errors.New(f("opcode invalid"))
	ErrRegisterInvalid    = errors.New(f("register invalid"))
	ErrDialect            = errors.New(f("opcode not in dialect"))
	ErrDialectInvalid     = errors.New(f("dialect invalid"))
)

type ErrLabelMissing string

func (el ErrLabelMissing) Error() string {
	return f("label %v missing", string(el))
}

// ErrOpcode annotates an execution failure with the failing instruction.
type ErrOpcode Instruction

func (eo ErrOpcode) Error() string {
	return f("bad instruction '%v'", Instruction(eo).String())
}

func (eo ErrOpcode) Is(err error) (ok bool) {
	_, ok = err.(ErrOpcode)
	return
}

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

type ErrParseValue string

func (err ErrParseValue) Error() string {
	return f("'%v' is not a value or register", string(err))
}

type ErrParseExpression string

func (err ErrParseExpression) Error() string {
	return f("$(%v) is not a valid expression", string(err))
}
