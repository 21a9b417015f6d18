// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package emulator runs two copies of a duet listing side by side, each
// sending to the other over a message queue, until neither can progress.
package emulator

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"

	"github.com/ezrec/duet/cpu"
	"github.com/ezrec/duet/internal"
	"github.com/ezrec/duet/io"
)

const (
	PROGRAM_COUNT = 2                 // Number of programs run by the emulator.
	ID_REGISTER   = cpu.Register('p') // Register seeded with the program id.
)

var _emulator_defines = map[string]string{
	"PROGRAM_COUNT": fmt.Sprintf("%v", PROGRAM_COUNT),
}

// Emulator state. Two CPUs and their outbound queues.
//
// Program i sends to Queue[i], and receives from Queue[1-i].
type Emulator struct {
	Verbose bool         // If set, enables verbose logging.
	Program *cpu.Program // Listing run by both programs.

	Cpu   [PROGRAM_COUNT]*cpu.Cpu // Per-program machine state.
	Queue [PROGRAM_COUNT]io.Queue // Per-program outbound queue.
	Limit int                     // Per-program tick limit, or 0 for no limit.
	Seed  cpu.Registers           // Registers applied to both programs on reset.

	Faults []error // Runtime faults, in order of occurrence.
	Slices int     // Scheduling slices run since reset.
}

// NewEmulator creates a new emulator.
func NewEmulator() (emu *Emulator) {
	emu = &Emulator{}

	for id := range emu.Cpu {
		emu.Cpu[id] = cpu.NewCpu(nil)
		emu.Cpu[id].Id = id
	}

	return
}

// Defines returns an iterator over all of the defines
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(_emulator_defines),
		emu.Cpu[0].Defines(),
	)
}

// Reset the emulator to run the current Program from the start.
func (emu *Emulator) Reset() (err error) {
	if emu.Program == nil {
		err = ErrProgramMissing
		return
	}

	if emu.Program.Dialect != cpu.DIALECT_DUET {
		err = fmt.Errorf("%w: %v", cpu.ErrDialect, emu.Program.Dialect)
		return
	}

	err = emu.Program.Validate()
	if err != nil {
		return
	}

	emu.Faults = nil
	emu.Slices = 0

	for id := range emu.Cpu {
		emu.Queue[id].Rewind()
	}

	for id, c := range emu.Cpu {
		c.Verbose = emu.Verbose
		c.Id = id
		c.Program = emu.Program
		c.Limit = emu.Limit
		c.Reset()
		for reg, value := range emu.Seed.All() {
			c.Register.Set(reg, value)
		}
		c.Register.Set(ID_REGISTER, int64(id))
		c.SetChannels(&emu.Queue[1-id], &emu.Queue[id])
	}

	if emu.Verbose {
		log.Printf("emulator: reset, %d instructions", emu.Program.Len())
	}

	return
}

// Runnable returns true if the program can make progress.
//
// A waiting program is runnable only when its peer has sent it a value.
func (emu *Emulator) Runnable(id int) bool {
	c := emu.Cpu[id]
	switch c.Status {
	case cpu.STATUS_WAITING:
		return !emu.Queue[1-id].Empty()
	default:
		return c.Status.Runnable()
	}
}

// Next returns the id of the next program to run, giving program 0
// priority, or false if neither program can progress.
func (emu *Emulator) Next() (id int, ok bool) {
	for id = range emu.Cpu {
		if emu.Runnable(id) {
			ok = true
			return
		}
	}

	return
}

// Deadlocked returns true when neither program can progress.
func (emu *Emulator) Deadlocked() bool {
	_, ok := emu.Next()
	return !ok
}

// Tick runs a single scheduling slice: the next runnable program is run
// until it waits for input or ends.
//
// A fault ends the faulting program only. It is recorded in Faults, and
// returned as an *ErrRuntime, but the peer may still be ticked.
func (emu *Emulator) Tick() (done bool, err error) {
	if emu.Deadlocked() {
		if emu.Verbose {
			log.Printf("emulator: no runnable program after %d slices", emu.Slices)
		}
		done = true
		return
	}

	id, _ := emu.Next()
	c := emu.Cpu[id]
	c.Verbose = emu.Verbose

	emu.Slices++

	defer func() {
		if err != nil {
			err = &ErrRuntime{Program: id, LineNo: c.LineNo(), Err: err}
			emu.Faults = append(emu.Faults, err)
			if emu.Verbose {
				log.Printf("emulator: %v", err)
			}
		}
	}()

	if emu.Verbose {
		log.Printf("emulator: slice %d, program %d %v at %03d", emu.Slices, id, c.Status, c.Ip)
	}

	err = c.Run()

	return
}

// Run ticks the emulator until neither program can progress, and returns the
// number of values sent by program 1. Faults do not stop the run, and are
// returned joined once it completes.
func (emu *Emulator) Run() (sent int, err error) {
	for {
		var done bool
		done, _ = emu.Tick()
		if done {
			break
		}
	}

	sent = emu.Sent(1)
	err = errors.Join(emu.Faults...)

	return
}

// Sent returns the number of values sent by a program.
func (emu *Emulator) Sent(id int) int {
	return emu.Cpu[id].Sent
}

// Pending returns the number of values sent but never received, per queue.
func (emu *Emulator) Pending() (pending [PROGRAM_COUNT]int) {
	for id := range emu.Queue {
		pending[id] = emu.Queue[id].Len()
	}

	return
}
