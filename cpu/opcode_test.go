package cpu

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDialect_Allows(t *testing.T) {
	assert := assert.New(t)

	for _, op := range []Opcode{OP_SND, OP_SET, OP_ADD, OP_MUL, OP_MOD, OP_RCV, OP_JGZ} {
		assert.True(DIALECT_DUET.Allows(op), op.String())
	}
	assert.False(DIALECT_DUET.Allows(OP_SUB))
	assert.False(DIALECT_DUET.Allows(OP_JNZ))

	for _, op := range []Opcode{OP_SET, OP_SUB, OP_MUL, OP_JNZ} {
		assert.True(DIALECT_COPROCESSOR.Allows(op), op.String())
	}
	assert.False(DIALECT_COPROCESSOR.Allows(OP_SND))
	assert.False(DIALECT_COPROCESSOR.Allows(OP_RCV))

	assert.Nil(Dialect(9).Opcodes())
	assert.False(Dialect(9).Allows(OP_SET))
}

func TestParseDialect(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name    string
		dialect Dialect
		ok      bool
	}{
		{"duet", DIALECT_DUET, true},
		{"A", DIALECT_DUET, true},
		{"coprocessor", DIALECT_COPROCESSOR, true},
		{"b", DIALECT_COPROCESSOR, true},
		{"forth", DIALECT_DUET, false},
	}

	for _, entry := range table {
		dialect, err := ParseDialect(entry.name)
		if entry.ok {
			assert.NoError(err, entry.name)
			assert.Equal(entry.dialect, dialect, entry.name)
		} else {
			assert.ErrorIs(err, ErrDialectInvalid, entry.name)
		}
	}
}

func TestOpcode_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("snd", OP_SND.String())
	assert.Equal("jnz", OP_JNZ.String())
	assert.Equal("Opcode(42)", Opcode(42).String())
	assert.Equal(1, OP_RCV.Arity())
	assert.Equal(2, OP_JGZ.Arity())
	assert.True(OP_MOD.Mutates())
	assert.False(OP_JNZ.Mutates())
}

func TestJump_Apply(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		jump Jump
		ip   int64
		next int64
		ok   bool
	}{
		{"none", Jump{}, 4, 5, true},
		{"forward", JumpRelative(3), 4, 7, true},
		{"backward", JumpRelative(-4), 4, 0, true},
		{"self", JumpRelative(0), 4, 4, true},
		{"before-start", JumpRelative(-5), 4, 0, false},
		{"overflow", JumpRelative(math.MaxInt64), 4, 0, false},
		{"underflow", JumpRelative(math.MinInt64), 4, 0, false},
		{"absolute", JumpAbsolute(9), 4, 9, true},
		{"absolute-negative", JumpAbsolute(-1), 4, 0, false},
		{"stop", JumpStop(), 4, 0, false},
	}

	for _, entry := range table {
		next, ok := entry.jump.Apply(entry.ip)
		assert.Equal(entry.ok, ok, entry.name)
		assert.Equal(entry.next, next, entry.name)
	}
}

func TestJump_String(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("none", Jump{}.String())
	assert.Equal("relative(-2)", JumpRelative(-2).String())
	assert.Equal("absolute(3)", JumpAbsolute(3).String())
	assert.Equal("stop", JumpStop().String())
}

func TestStatus_Runnable(t *testing.T) {
	assert := assert.New(t)

	assert.True(STATUS_NOT_STARTED.Runnable())
	assert.True(STATUS_RUNNING.Runnable())
	assert.False(STATUS_WAITING.Runnable())
	assert.False(STATUS_ENDED.Runnable())
	assert.Equal("waiting", STATUS_WAITING.String())
}
