package cpu

import (
	"errors"
	"fmt"
)

// Instruction is a decoded instruction: an opcode and its operands.
// Y is unused by single operand opcodes.
type Instruction struct {
	Op Opcode
	X  Operand
	Y  Operand
}

// Snd creates a 'snd x' instruction.
func Snd(x Operand) Instruction { return Instruction{Op: OP_SND, X: x} }

// Rcv creates a 'rcv x' instruction.
func Rcv(x Operand) Instruction { return Instruction{Op: OP_RCV, X: x} }

// Set creates a 'set x y' instruction.
func Set(x, y Operand) Instruction { return Instruction{Op: OP_SET, X: x, Y: y} }

// Add creates an 'add x y' instruction.
func Add(x, y Operand) Instruction { return Instruction{Op: OP_ADD, X: x, Y: y} }

// Sub creates a 'sub x y' instruction.
func Sub(x, y Operand) Instruction { return Instruction{Op: OP_SUB, X: x, Y: y} }

// Mul creates a 'mul x y' instruction.
func Mul(x, y Operand) Instruction { return Instruction{Op: OP_MUL, X: x, Y: y} }

// Mod creates a 'mod x y' instruction.
func Mod(x, y Operand) Instruction { return Instruction{Op: OP_MOD, X: x, Y: y} }

// Jgz creates a 'jgz x y' instruction.
func Jgz(x, y Operand) Instruction { return Instruction{Op: OP_JGZ, X: x, Y: y} }

// Jnz creates a 'jnz x y' instruction.
func Jnz(x, y Operand) Instruction { return Instruction{Op: OP_JNZ, X: x, Y: y} }

// Validate checks the instruction is well formed for a dialect.
func (inst Instruction) Validate(dialect Dialect) (err error) {
	if inst.Op < 0 || int(inst.Op) >= OP_COUNT {
		err = ErrOpcodeDecode
		return
	}

	if !dialect.Allows(inst.Op) {
		err = fmt.Errorf("%w: %v not in %v", ErrDialect, inst.Op, dialect)
		return
	}

	if !inst.X.Present() {
		err = errors.Join(ErrOpcodeArg1, ErrOpcodeValueMissing)
		return
	}

	if inst.Op.Mutates() && !inst.X.Writable() {
		err = errors.Join(ErrOpcodeArg1, ErrInvalidOperand)
		return
	}

	switch inst.Op.Arity() {
	case 1:
		if inst.Y.Present() {
			err = errors.Join(ErrOpcodeArg2, ErrOpcodeExtraArgs)
			return
		}
	case 2:
		if !inst.Y.Present() {
			err = errors.Join(ErrOpcodeArg2, ErrOpcodeValueMissing)
			return
		}
	}

	return
}

// Eval executes a register-only instruction against a register file and
// returns the resulting jump directive. The snd and rcv opcodes need a
// machine to talk to, see Cpu.Execute.
func (inst Instruction) Eval(regs Registers) (jump Jump, err error) {
	switch inst.Op {
	case OP_SET, OP_ADD, OP_SUB, OP_MUL, OP_MOD:
		var value int64
		value, err = inst.Y.Resolve(regs)
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, ErrOpcodeArg2, err)
			return
		}
		err = regs.Mutate(inst.X, func(input int64) (int64, error) {
			return doAlu(inst.Op, input, value)
		})
		if err != nil {
			err = errors.Join(ErrOpcodeAlu, err)
			return
		}
	case OP_JGZ, OP_JNZ:
		var cond int64
		cond, err = inst.X.Resolve(regs)
		if err != nil {
			err = errors.Join(ErrOpcodeJump, ErrOpcodeArg1, err)
			return
		}
		taken := cond != 0
		if inst.Op == OP_JGZ {
			taken = cond > 0
		}
		if !taken {
			return
		}
		var offset int64
		offset, err = inst.Y.Resolve(regs)
		if err != nil {
			err = errors.Join(ErrOpcodeJump, ErrOpcodeArg2, err)
			return
		}
		jump = JumpRelative(offset)
	case OP_SND, OP_RCV:
		err = errors.Join(ErrOpcodeIo, ErrChannelMissing)
	default:
		err = ErrOpcodeDecode
	}

	return
}

// doAlu performs the requested arithmetic, and returns the output value.
// Overflow wraps as two's complement.
func doAlu(op Opcode, input int64, value int64) (output int64, err error) {
	switch op {
	case OP_SET: // set
		output = value
	case OP_ADD: // add
		output = input + value
	case OP_SUB: // sub
		output = input - value
	case OP_MUL: // mul
		output = input * value
	case OP_MOD: // mod, sign follows the dividend
		if value == 0 {
			err = ErrArithmetic
			return
		}
		output = input % value
	default:
		err = ErrOpcodeDecode
	}

	return
}

// String returns the assembly language representation of the instruction.
func (inst Instruction) String() string {
	if inst.Op.Arity() == 1 {
		return fmt.Sprintf("%v %v", inst.Op, inst.X)
	}
	return fmt.Sprintf("%v %v %v", inst.Op, inst.X, inst.Y)
}
