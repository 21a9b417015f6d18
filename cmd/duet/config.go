package main

import (
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/translate"
)

var f = translate.From

var (
	ErrConfigMode = errors.New(f("run mode invalid"))
	ErrConfigSeed = errors.New(f("seed register invalid"))
	ErrConfigStep = errors.New(f("step needs a single mode coprocessor listing"))
	ErrConfigSign = errors.New(f("value must not be negative"))
)

// Mode selects how a listing is run.
type Mode string

const (
	MODE_SINGLE = Mode("single") // One machine in sound mode.
	MODE_DUET   = Mode("duet")   // Two machines exchanging messages.
	MODE_TAPE   = Mode("tape")   // One machine reading and writing tapes.
)

// Config is a run file, optionally overridden by command line flags.
type Config struct {
	Program string            `yaml:"program"`
	Dialect string            `yaml:"dialect"`
	Mode    Mode              `yaml:"mode"`
	Seed    map[string]int64  `yaml:"seed"`
	Define  map[string]string `yaml:"define"`
	Limit   int               `yaml:"limit"`
	Prefix  int               `yaml:"prefix"`
	Step    int64             `yaml:"step"`
	Verbose bool              `yaml:"verbose"`
	Input   string            `yaml:"input"`
	Output  string            `yaml:"output"`
}

// DefaultConfig returns the configuration used when no run file is given.
func DefaultConfig() *Config {
	return &Config{
		Dialect: cpu.DIALECT_DUET.String(),
		Mode:    MODE_DUET,
		Input:   "-",
		Output:  "-",
	}
}

// LoadConfig decodes a YAML run file over the default configuration.
// Unknown fields are rejected.
func LoadConfig(input io.Reader) (config *Config, err error) {
	config = DefaultConfig()

	decoder := yaml.NewDecoder(input)
	decoder.KnownFields(true)
	err = decoder.Decode(config)
	if errors.Is(err, io.EOF) {
		err = nil
	}
	if err != nil {
		err = fmt.Errorf("config: %w", err)
		config = nil
		return
	}

	err = config.Validate()
	if err != nil {
		config = nil
		return
	}

	return
}

// Validate checks the mode, dialect, counts and seed registers.
func (config *Config) Validate() (err error) {
	switch config.Mode {
	case MODE_SINGLE, MODE_DUET, MODE_TAPE:
	default:
		err = fmt.Errorf("%w: %v", ErrConfigMode, config.Mode)
		return
	}

	dialect, err := cpu.ParseDialect(config.Dialect)
	if err != nil {
		return
	}

	for name, value := range map[string]int64{
		"limit":  int64(config.Limit),
		"prefix": int64(config.Prefix),
		"step":   config.Step,
	} {
		if value < 0 {
			err = fmt.Errorf("%w: %v %v", ErrConfigSign, name, value)
			return
		}
	}

	if config.Step > 0 && (config.Mode != MODE_SINGLE || dialect != cpu.DIALECT_COPROCESSOR) {
		err = ErrConfigStep
		return
	}

	for name := range config.Seed {
		if len(name) != 1 || !cpu.Register(name[0]).Valid() {
			err = fmt.Errorf("%w: %v", ErrConfigSeed, name)
			return
		}
	}

	return
}

// Registers returns the seed registers.
func (config *Config) Registers() (regs cpu.Registers) {
	regs = cpu.NewRegisters()
	for name, value := range config.Seed {
		regs.Set(cpu.Register(name[0]), value)
	}
	return
}

// Assembler returns an assembler for the configured dialect and defines.
func (config *Config) Assembler() (asm *cpu.Assembler, err error) {
	dialect, err := cpu.ParseDialect(config.Dialect)
	if err != nil {
		return
	}

	asm = &cpu.Assembler{
		Verbose: config.Verbose,
		Dialect: dialect,
	}
	for name, value := range config.Define {
		asm.Predefine(name, value)
	}

	return
}
