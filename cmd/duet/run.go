package main

import (
	"errors"
	"fmt"
	"log"

	"github.com/kr/pretty"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/emulator"
	"github.com/ezrec/duet/io"
)

var ErrNotRecovered = errors.New(f("no value recovered"))

// Run executes an assembled program as configured, and returns its result:
//   - single mode, duet dialect: the recovered value.
//   - single mode, coprocessor dialect: the number of mul executions, or
//     with a Step, the count of composites from register b to c.
//   - duet mode: the number of values sent by program 1.
//   - tape mode: the number of values written to the output tape.
//
// With a Prefix, only the first Prefix instructions of the listing are run.
func Run(config *Config, prog *cpu.Program, tape *io.Tape) (result int64, err error) {
	if config.Prefix > 0 {
		prog = prog.Slice(0, config.Prefix)
	}

	switch config.Mode {
	case MODE_SINGLE:
		result, err = runSingle(config, prog)
	case MODE_DUET:
		result, err = runDuet(config, prog)
	case MODE_TAPE:
		result, err = runTape(config, prog, tape)
	default:
		err = fmt.Errorf("%w: %v", ErrConfigMode, config.Mode)
	}

	return
}

func newCpu(config *Config, prog *cpu.Program) (c *cpu.Cpu) {
	c = cpu.NewCpu(prog)
	c.Verbose = config.Verbose
	c.Limit = config.Limit
	for reg, value := range config.Registers().All() {
		c.Register.Set(reg, value)
	}
	return
}

func dumpCpu(config *Config, c *cpu.Cpu) {
	if config.Verbose {
		log.Printf("cpu%d: %# v", c.Id, pretty.Formatter(c.Register))
		log.Printf("cpu%d: %v after %d ticks", c.Id, c.Status, c.Ticks)
	}
}

func runSingle(config *Config, prog *cpu.Program) (result int64, err error) {
	c := newCpu(config, prog)
	defer dumpCpu(config, c)

	err = c.Run()
	if err != nil {
		return
	}

	if prog.Dialect == cpu.DIALECT_COPROCESSOR {
		if config.Step > 0 {
			result = countComposite(c.Register.Get('b'), c.Register.Get('c'), config.Step)
			return
		}
		result = int64(c.Executed[cpu.OP_MUL])
		return
	}

	result, ok := c.Recovered()
	if !ok {
		err = ErrNotRecovered
		return
	}

	return
}

// countComposite counts the composite numbers in lo, lo+step, ... up to hi.
func countComposite(lo, hi, step int64) (count int64) {
	for n := lo; n <= hi; n += step {
		for d := int64(2); d*d <= n; d++ {
			if n%d == 0 {
				count++
				break
			}
		}
	}
	return
}

func runDuet(config *Config, prog *cpu.Program) (result int64, err error) {
	emu := emulator.NewEmulator()
	emu.Verbose = config.Verbose
	emu.Program = prog
	emu.Limit = config.Limit
	emu.Seed = config.Registers()

	err = emu.Reset()
	if err != nil {
		return
	}

	sent, err := emu.Run()
	result = int64(sent)

	if config.Verbose {
		for _, c := range emu.Cpu {
			dumpCpu(config, c)
		}
		log.Printf("emulator: %# v", pretty.Formatter(emu.Pending()))
	}

	return
}

func runTape(config *Config, prog *cpu.Program, tape *io.Tape) (result int64, err error) {
	c := newCpu(config, prog)
	defer dumpCpu(config, c)

	c.SetChannels(tape, tape)

	err = c.Run()
	if err == nil {
		err = tape.Err
	}
	result = int64(c.Sent)

	return
}
