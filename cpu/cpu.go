package cpu

import (
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"math"

	"github.com/ezrec/duet/io"
)

// Channel is a message channel interface.
type Channel io.Channel

var _cpu_defines = map[string]string{
	"INT_MAX": fmt.Sprintf("%d", int64(math.MaxInt64)),
	"INT_MIN": fmt.Sprintf("%d", int64(math.MinInt64)),
}

// Cpu is the simulation context for a single program.
//
// Without channels the machine runs in sound mode: snd records the last
// value played, and the first rcv of a non-zero value recovers it and stops
// the machine. With channels attached, snd sends to the outbox and rcv
// receives from the inbox, waiting when the inbox is empty.
type Cpu struct {
	Verbose bool // Set to enable verbose logging.
	Id      int  // Program id, used in logs.

	Program *Program // Listing being executed.

	Ip       int64     // Current instruction pointer.
	Register Registers // Register file.
	Status   Status    // Execution state.

	Inbox  Channel // Values received by rcv, or nil for sound mode.
	Outbox Channel // Values sent by snd, or nil for sound mode.

	Limit    int           // Maximum instructions to execute, or 0 for no limit.
	Ticks    int           // Instructions executed since reset.
	Executed [OP_COUNT]int // Instructions executed, by opcode.
	Sent     int           // Values sent by snd.
	Received int           // Values received by rcv.

	played    int64
	hasPlayed bool
	recovered int64
	hasRecov  bool
}

// NewCpu creates a new machine for a program.
func NewCpu(prog *Program) (cpu *Cpu) {
	cpu = &Cpu{
		Program: prog,
	}

	cpu.Reset()

	return
}

// Defines for the cpu
func (cpu *Cpu) Defines() iter.Seq2[string, string] {
	return maps.All(_cpu_defines)
}

// Reset the machine state.
// - Clears the registers.
// - Zeros statistics counters.
// - Sets the instruction pointer to the start of the program.
//
// Attached channels are kept, but not rewound.
func (cpu *Cpu) Reset() {
	if cpu.Verbose {
		log.Printf("cpu%d: reset", cpu.Id)
	}

	cpu.Ip = 0
	cpu.Register = NewRegisters()
	cpu.Status = STATUS_NOT_STARTED

	cpu.Ticks = 0
	clear(cpu.Executed[:])
	cpu.Sent = 0
	cpu.Received = 0

	cpu.played = 0
	cpu.hasPlayed = false
	cpu.recovered = 0
	cpu.hasRecov = false
}

// SetChannels attaches the message channels. Passing nil for both returns
// the machine to sound mode.
func (cpu *Cpu) SetChannels(inbox, outbox Channel) {
	cpu.Inbox = inbox
	cpu.Outbox = outbox
}

// Played returns the last value played by snd in sound mode.
func (cpu *Cpu) Played() (value int64, ok bool) {
	return cpu.played, cpu.hasPlayed
}

// Recovered returns the value recovered by rcv in sound mode.
func (cpu *Cpu) Recovered() (value int64, ok bool) {
	return cpu.recovered, cpu.hasRecov
}

// LineNo returns the source line of the current instruction, or 0.
func (cpu *Cpu) LineNo() int {
	dbg := cpu.Program.Debug(cpu.Ip)
	if dbg.Line == nil {
		return 0
	}
	return dbg.LineNo
}

// String returns the current machine state as a string.
func (cpu *Cpu) String() (text string) {
	text = fmt.Sprintf("%5s: %d\n", "id", cpu.Id)
	text += fmt.Sprintf("%5s: %v\n", "state", cpu.Status)
	text += fmt.Sprintf("%5s: %03d\n", "ip", cpu.Ip)
	for reg, value := range cpu.Register.All() {
		text += fmt.Sprintf("%5s: %d\n", reg, value)
	}
	text += fmt.Sprintf("%5s: %d\n", "ticks", cpu.Ticks)
	text += fmt.Sprintf("%5s: %d\n", "sent", cpu.Sent)

	return
}

// FetchInstruction fetches the instruction at the instruction pointer.
func (cpu *Cpu) FetchInstruction() (inst Instruction, err error) {
	inst, ok := cpu.Program.At(cpu.Ip)
	if !ok {
		err = ErrIpEmpty
		return
	}

	return
}

// Tick executes a single instruction cycle.
//
// ErrIpEmpty is returned, and the machine ends, when the instruction pointer
// is outside the program. When a rcv finds no input the machine waits and
// the instruction pointer is not advanced, so the next Tick retries it.
// Any other error ends the machine.
func (cpu *Cpu) Tick() (err error) {
	defer func() {
		if err != nil {
			cpu.Status = STATUS_ENDED
		}
	}()

	if cpu.Status == STATUS_ENDED {
		err = ErrIpEmpty
		return
	}

	inst, err := cpu.FetchInstruction()
	if err != nil {
		return
	}

	if cpu.Limit > 0 && cpu.Ticks >= cpu.Limit {
		err = ErrTickLimit
		return
	}

	cpu.Status = STATUS_RUNNING

	jump, err := cpu.Execute(inst)
	if err != nil {
		return
	}

	if cpu.Status == STATUS_WAITING {
		return
	}

	cpu.Ticks++
	cpu.Executed[inst.Op]++

	next, ok := jump.Apply(cpu.Ip)
	if !ok {
		if cpu.Verbose {
			log.Printf("cpu%d: %03d: %v ends", cpu.Id, cpu.Ip, jump)
		}
		cpu.Status = STATUS_ENDED
		return
	}

	cpu.Ip = next

	return
}

// Run ticks the machine until it ends, or waits for input.
// Normal termination is not an error.
func (cpu *Cpu) Run() (err error) {
	for {
		err = cpu.Tick()
		if errors.Is(err, ErrIpEmpty) {
			err = nil
			return
		}
		if err != nil {
			return
		}
		if cpu.Status == STATUS_WAITING || cpu.Status == STATUS_ENDED {
			return
		}
	}
}

// Execute executes a single instruction, and returns its jump directive.
func (cpu *Cpu) Execute(inst Instruction) (jump Jump, err error) {
	defer func() {
		if err != nil {
			err = errors.Join(ErrOpcode(inst), err)
		}
	}()

	if cpu.Verbose {
		log.Printf("cpu%d: %03d: %v", cpu.Id, cpu.Ip, inst)
	}

	if cpu.Program != nil && !cpu.Program.Dialect.Allows(inst.Op) {
		err = ErrDialect
		return
	}

	switch inst.Op {
	case OP_SND:
		var value int64
		value, err = inst.X.Resolve(cpu.Register)
		if err != nil {
			err = errors.Join(ErrOpcodeIo, ErrOpcodeArg1, err)
			return
		}
		if cpu.Outbox == nil {
			cpu.played = value
			cpu.hasPlayed = true
		} else {
			err = cpu.Outbox.Send(value)
			if err != nil {
				err = errors.Join(ErrOpcodeIo, err)
				return
			}
		}
		cpu.Sent++
	case OP_RCV:
		if cpu.Inbox == nil {
			var value int64
			value, err = inst.X.Resolve(cpu.Register)
			if err != nil {
				err = errors.Join(ErrOpcodeIo, ErrOpcodeArg1, err)
				return
			}
			if value != 0 {
				cpu.recovered = cpu.played
				cpu.hasRecov = cpu.hasPlayed
				jump = JumpStop()
			}
			return
		}
		// Check the target before consuming input, so a bad target
		// never loses a value.
		if !inst.X.Writable() {
			err = errors.Join(ErrOpcodeIo, ErrOpcodeArg1, ErrInvalidOperand)
			return
		}
		value, ok := cpu.Inbox.Receive()
		if !ok {
			if cpu.Verbose {
				log.Printf("cpu%d: %03d: waiting", cpu.Id, cpu.Ip)
			}
			cpu.Status = STATUS_WAITING
			return
		}
		cpu.Register.Set(inst.X.Register, value)
		cpu.Received++
	default:
		jump, err = inst.Eval(cpu.Register)
	}

	return
}
