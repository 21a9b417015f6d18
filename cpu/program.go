package cpu

import (
	"iter"
	"slices"
)

// Line represents a line of assembled code with its source location and
// decoded instruction.
type Line struct {
	LineNo      int
	Ip          int
	Words       []string
	Instruction Instruction
	LinkLabel   string
}

// Program is an assembled instruction listing of a single dialect.
// A program is never modified once assembled, and may be shared by several
// machines.
type Program struct {
	Dialect Dialect
	Lines   []Line
}

// NewProgram creates a program directly from instructions, numbering lines
// from 1.
func NewProgram(dialect Dialect, insts ...Instruction) (prog *Program) {
	prog = &Program{Dialect: dialect}
	for n, inst := range insts {
		prog.Lines = append(prog.Lines, Line{
			LineNo:      n + 1,
			Ip:          n,
			Instruction: inst,
		})
	}
	return
}

// Len returns the number of instructions in the program.
func (prog *Program) Len() int {
	if prog == nil {
		return 0
	}
	return len(prog.Lines)
}

// At returns the instruction at an index.
// ok is false if the index is outside the listing.
func (prog *Program) At(ip int64) (inst Instruction, ok bool) {
	if ip < 0 || ip >= int64(prog.Len()) {
		return
	}
	return prog.Lines[ip].Instruction, true
}

// Debug is the source line of an instruction, nil when there is none.
type Debug struct {
	*Line
}

// Debug returns the source line for an instruction index, or an empty
// Debug if the index is outside the listing.
func (prog *Program) Debug(ip int64) (dbg Debug) {
	if ip < 0 || ip >= int64(prog.Len()) {
		return
	}
	dbg = Debug{Line: &prog.Lines[ip]}
	return
}

// Validate checks every instruction against the program dialect.
func (prog *Program) Validate() (err error) {
	for _, line := range prog.Lines {
		err = line.Instruction.Validate(prog.Dialect)
		if err != nil {
			err = &ErrSyntax{LineNo: line.LineNo, Line: line.Instruction.String(), Err: err}
			return
		}
	}
	return
}

// Instructions iterates over the listing by instruction index.
func (prog *Program) Instructions() iter.Seq2[int, Instruction] {
	return func(yield func(ip int, inst Instruction) bool) {
		for _, line := range prog.Lines {
			if !yield(line.Ip, line.Instruction) {
				return
			}
		}
	}
}

// Slice returns the sub-listing [lo, hi) as a new program.
// Jumps keep their relative offsets, so a jump out of the slice ends the
// sliced program.
func (prog *Program) Slice(lo, hi int) (slice *Program) {
	lo = max(0, min(lo, prog.Len()))
	hi = max(lo, min(hi, prog.Len()))

	slice = &Program{
		Dialect: prog.Dialect,
		Lines:   slices.Clone(prog.Lines[lo:hi]),
	}
	for n := range slice.Lines {
		slice.Lines[n].Ip -= lo
	}

	return
}
