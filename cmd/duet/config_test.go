package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ezrec/duet/cpu"
)

func TestLoadConfig(t *testing.T) {
	assert := assert.New(t)

	config, err := LoadConfig(strings.NewReader(`
program: day23.asm
dialect: coprocessor
mode: single
seed:
  a: 1
define:
  COUNT: "8"
limit: 1000
prefix: 8
step: 17
verbose: true
`))
	assert.NoError(err)
	assert.Equal(&Config{
		Program: "day23.asm",
		Dialect: "coprocessor",
		Mode:    MODE_SINGLE,
		Seed:    map[string]int64{"a": 1},
		Define:  map[string]string{"COUNT": "8"},
		Limit:   1000,
		Prefix:  8,
		Step:    17,
		Verbose: true,
		Input:   "-",
		Output:  "-",
	}, config)

	assert.Equal(cpu.Registers{'a': 1}, config.Registers())

	asm, err := config.Assembler()
	assert.NoError(err)
	assert.Equal(cpu.DIALECT_COPROCESSOR, asm.Dialect)
	assert.True(asm.Verbose)
}

func TestLoadConfig_Empty(t *testing.T) {
	assert := assert.New(t)

	config, err := LoadConfig(strings.NewReader(""))
	assert.NoError(err)
	assert.Equal(DefaultConfig(), config)
}

func TestLoadConfig_Errors(t *testing.T) {
	assert := assert.New(t)

	table := []struct {
		name string
		text string
		err  error
	}{
		{"mode", "mode: triple\n", ErrConfigMode},
		{"dialect", "dialect: c\n", cpu.ErrDialectInvalid},
		{"seed-name", "seed:\n  ab: 1\n", ErrConfigSeed},
		{"seed-upper", "seed:\n  A: 1\n", ErrConfigSeed},
		{"prefix", "prefix: -1\n", ErrConfigSign},
		{"step-mode", "dialect: coprocessor\nstep: 17\n", ErrConfigStep},
		{"step-dialect", "mode: single\nstep: 17\n", ErrConfigStep},
	}

	for _, entry := range table {
		config, err := LoadConfig(strings.NewReader(entry.text))
		assert.ErrorIs(err, entry.err, entry.name)
		assert.Nil(config, entry.name)
	}

	// Unknown fields are rejected by the decoder.
	config, err := LoadConfig(strings.NewReader("speed: 9\n"))
	assert.Error(err)
	assert.Nil(config)
}
