package cpu

import (
	"fmt"
	"iter"
	"maps"
	"slices"
	"strings"
)

// Register is a single letter register name, 'a' through 'z'.
type Register byte

const (
	REGISTER_FIRST = Register('a')
	REGISTER_LAST  = Register('z')
)

// Valid returns true if the register name is a lowercase letter.
func (reg Register) Valid() bool {
	return reg >= REGISTER_FIRST && reg <= REGISTER_LAST
}

func (reg Register) String() string {
	return string(rune(reg))
}

// OperandKind is the type of value an operand refers to.
type OperandKind int

const (
	OPERAND_NONE     = OperandKind(0) // Missing operand.
	OPERAND_REGISTER = OperandKind(1) // Register reference.
	OPERAND_CONSTANT = OperandKind(2) // Immediate constant.
)

// Operand is either a register reference or an immediate constant.
type Operand struct {
	Kind     OperandKind
	Register Register
	Value    int64
}

// Reg creates a register operand.
func Reg(reg Register) Operand {
	return Operand{Kind: OPERAND_REGISTER, Register: reg}
}

// Const creates a constant operand.
func Const(value int64) Operand {
	return Operand{Kind: OPERAND_CONSTANT, Value: value}
}

// Present returns true if the operand is not missing.
func (op Operand) Present() bool {
	return op.Kind == OPERAND_REGISTER || op.Kind == OPERAND_CONSTANT
}

// Writable returns true if the operand can be a mutation target.
func (op Operand) Writable() bool {
	return op.Kind == OPERAND_REGISTER && op.Register.Valid()
}

// Resolve returns the constant, or the current value of the register.
func (op Operand) Resolve(regs Registers) (value int64, err error) {
	switch op.Kind {
	case OPERAND_CONSTANT:
		value = op.Value
	case OPERAND_REGISTER:
		if !op.Register.Valid() {
			err = ErrRegisterInvalid
			return
		}
		value = regs.Get(op.Register)
	default:
		err = ErrOpcodeValueMissing
	}

	return
}

func (op Operand) String() string {
	switch op.Kind {
	case OPERAND_REGISTER:
		return op.Register.String()
	case OPERAND_CONSTANT:
		return fmt.Sprintf("%d", op.Value)
	default:
		return "-"
	}
}

// Registers is a sparse register file. Unset registers read as zero.
type Registers map[Register]int64

// NewRegisters creates an empty register file.
func NewRegisters() Registers {
	return make(Registers, 8)
}

// Get returns the value of a register.
func (regs Registers) Get(reg Register) int64 {
	return regs[reg]
}

// Set writes a register, creating it if needed.
func (regs Registers) Set(reg Register, value int64) {
	regs[reg] = value
}

// Mutate replaces the register named by the operand with the result of
// update. Constant operands cannot be mutated, and yield ErrInvalidOperand.
func (regs Registers) Mutate(op Operand, update func(value int64) (int64, error)) (err error) {
	if !op.Writable() {
		err = ErrInvalidOperand
		return
	}

	value, err := update(regs[op.Register])
	if err != nil {
		return
	}

	regs[op.Register] = value

	return
}

// All iterates over the set registers in name order.
func (regs Registers) All() iter.Seq2[Register, int64] {
	return func(yield func(Register, int64) bool) {
		for _, reg := range slices.Sorted(maps.Keys(regs)) {
			if !yield(reg, regs[reg]) {
				return
			}
		}
	}
}

// Clone returns an independent copy of the register file.
func (regs Registers) Clone() Registers {
	clone := NewRegisters()
	maps.Copy(clone, regs)
	return clone
}

func (regs Registers) String() string {
	var text []string
	for reg, value := range regs.All() {
		text = append(text, fmt.Sprintf("%v=%d", reg, value))
	}
	return strings.Join(text, " ")
}
