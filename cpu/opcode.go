package cpu

import (
	"fmt"
	"math"
	"strings"
)

// Opcode is an instruction operation.
type Opcode int

//go:generate go tool stringer -linecomment -type=Opcode
const (
	OP_SND = Opcode(0) // snd
	OP_SET = Opcode(1) // set
	OP_ADD = Opcode(2) // add
	OP_SUB = Opcode(3) // sub
	OP_MUL = Opcode(4) // mul
	OP_MOD = Opcode(5) // mod
	OP_RCV = Opcode(6) // rcv
	OP_JGZ = Opcode(7) // jgz
	OP_JNZ = Opcode(8) // jnz
)

// OP_COUNT is the number of opcodes.
const OP_COUNT = int(OP_JNZ) + 1

// Arity returns the number of operands taken by the opcode.
func (op Opcode) Arity() int {
	switch op {
	case OP_SND, OP_RCV:
		return 1
	default:
		return 2
	}
}

// Mutates returns true if the first operand of the opcode is always a
// mutation target.
func (op Opcode) Mutates() bool {
	switch op {
	case OP_SET, OP_ADD, OP_SUB, OP_MUL, OP_MOD:
		return true
	default:
		return false
	}
}

// Dialect is one of the closed instruction sets.
type Dialect int

//go:generate go tool stringer -linecomment -type=Dialect
const (
	DIALECT_DUET        = Dialect(0) // duet
	DIALECT_COPROCESSOR = Dialect(1) // coprocessor
)

var dialectOpcodes = [...][]Opcode{
	DIALECT_DUET:        {OP_SND, OP_SET, OP_ADD, OP_MUL, OP_MOD, OP_RCV, OP_JGZ},
	DIALECT_COPROCESSOR: {OP_SET, OP_SUB, OP_MUL, OP_JNZ},
}

// Opcodes returns the opcodes of the dialect.
func (dialect Dialect) Opcodes() []Opcode {
	if dialect < 0 || int(dialect) >= len(dialectOpcodes) {
		return nil
	}
	return dialectOpcodes[dialect]
}

// Allows returns true if the opcode is part of the dialect.
func (dialect Dialect) Allows(op Opcode) bool {
	for _, allowed := range dialect.Opcodes() {
		if allowed == op {
			return true
		}
	}
	return false
}

// ParseDialect returns the dialect for a name. The names 'a' and 'b' are
// accepted as aliases of duet and coprocessor.
func ParseDialect(name string) (dialect Dialect, err error) {
	switch strings.ToLower(name) {
	case DIALECT_DUET.String(), "a":
		dialect = DIALECT_DUET
	case DIALECT_COPROCESSOR.String(), "b":
		dialect = DIALECT_COPROCESSOR
	default:
		err = fmt.Errorf("%w: %v", ErrDialectInvalid, name)
	}
	return
}

// JumpKind is the type of control flow directive.
type JumpKind int

//go:generate go tool stringer -linecomment -type=JumpKind
const (
	JUMP_NONE     = JumpKind(0) // none
	JUMP_RELATIVE = JumpKind(1) // relative
	JUMP_ABSOLUTE = JumpKind(2) // absolute
	JUMP_STOP     = JumpKind(3) // stop
)

// Jump is the control flow directive produced by an instruction.
// The zero Jump advances to the next instruction.
type Jump struct {
	Kind   JumpKind
	Offset int64 // Relative offset, or absolute index.
}

// JumpRelative creates a jump relative to the current instruction.
func JumpRelative(offset int64) Jump {
	return Jump{Kind: JUMP_RELATIVE, Offset: offset}
}

// JumpAbsolute creates a jump to an instruction index.
func JumpAbsolute(index int64) Jump {
	return Jump{Kind: JUMP_ABSOLUTE, Offset: index}
}

// JumpStop creates a directive that halts the program.
func JumpStop() Jump {
	return Jump{Kind: JUMP_STOP}
}

// Apply returns the program counter following ip.
// ok is false if the program must terminate: a stop directive, or a target
// that cannot be represented as an instruction index.
func (jump Jump) Apply(ip int64) (next int64, ok bool) {
	switch jump.Kind {
	case JUMP_NONE:
		if ip == math.MaxInt64 {
			return
		}
		next = ip + 1
	case JUMP_RELATIVE:
		d := jump.Offset
		if (d > 0 && ip > math.MaxInt64-d) || (d < 0 && ip < math.MinInt64-d) {
			return
		}
		next = ip + d
	case JUMP_ABSOLUTE:
		next = jump.Offset
	default:
		return
	}

	ok = next >= 0
	if !ok {
		next = 0
	}

	return
}

func (jump Jump) String() string {
	switch jump.Kind {
	case JUMP_RELATIVE, JUMP_ABSOLUTE:
		return fmt.Sprintf("%v(%d)", jump.Kind, jump.Offset)
	default:
		return jump.Kind.String()
	}
}

// Status is the execution state of a program.
type Status int

//go:generate go tool stringer -linecomment -type=Status
const (
	STATUS_NOT_STARTED = Status(0) // not-started
	STATUS_RUNNING     = Status(1) // running
	STATUS_WAITING     = Status(2) // waiting
	STATUS_ENDED       = Status(3) // ended
)

// Runnable returns true if a program in this state can execute without
// new input.
func (status Status) Runnable() bool {
	return status == STATUS_NOT_STARTED || status == STATUS_RUNNING
}
