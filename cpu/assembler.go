// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package cpu

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"log"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"go.starlark.net/starlark"
	"go.starlark.net/syntax"

	"github.com/ezrec/duet/internal"
)

// Predefined system equates
var sysEquate = map[string]string{
	"LINENO": "0",
}

// Assembler is a single pass assembler for duet program listings.
//
// Each line holds one instruction, 'op x' or 'op x y'. Registers are single
// lowercase letters, values are signed decimal integers. In addition:
//   - ';' starts a comment.
//   - 'NAME:' defines a label, usable as the offset of a jump.
//   - '.equ NAME VALUE' defines an equate.
//   - '$(expr)' is evaluated at assembly time.
//
// Label and equate names must be at least two characters long, so they
// can never be mistaken for registers.
type Assembler struct {
	Verbose bool    // If set, verbosely logs the assembler actions.
	Dialect Dialect // Dialect of the listing.
	Line    []Line  // List of generated lines.

	predefine map[string]string // Predefines
	Label     map[string]int    // Map of jump labels to instruction indexes.
	Equate    map[string]string // Map of equates.
}

// Predefine defines a new equate or redefines an existing equate.
func (asm *Assembler) Predefine(equ string, value string) {
	if asm.predefine == nil {
		asm.predefine = map[string]string{equ: value}
	} else {
		asm.predefine[equ] = value
	}
}

// Defines returns the equates every listing starts with.
func (asm *Assembler) Defines() iter.Seq2[string, string] {
	return internal.IterSeq2Concat(maps.All(sysEquate),
		maps.All(_cpu_defines),
		maps.All(asm.predefine),
	)
}

// opcodeMap maps opcode names.
var opcodeMap = map[string]Opcode{
	"snd": OP_SND,
	"set": OP_SET,
	"add": OP_ADD,
	"sub": OP_SUB,
	"mul": OP_MUL,
	"mod": OP_MOD,
	"rcv": OP_RCV,
	"jgz": OP_JGZ,
	"jnz": OP_JNZ,
}

// isRegister returns true if the word is a register name.
func isRegister(word string) bool {
	return len(word) == 1 && Register(word[0]).Valid()
}

// nameRe matches label and equate names.
var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]+$`)

// valueOf returns the value of a simple word.
func (asm *Assembler) valueOf(word string) (value int64, err error) {
	value, err = strconv.ParseInt(word, 10, 64)
	if err != nil {
		err = ErrParseValue(word)
		return
	}

	return
}

// operandOf decodes a word as a register or constant operand.
func (asm *Assembler) operandOf(word string) (op Operand, err error) {
	if isRegister(word) {
		op = Reg(Register(word[0]))
		return
	}

	value, err := asm.valueOf(word)
	if err != nil {
		return
	}

	op = Const(value)

	return
}

// parenEval does compile-time $(...) evaluations
func (asm *Assembler) parenEval(expr string) (value int64, err error) {
	thread := starlark.Thread{}
	opts := syntax.FileOptions{}
	pred := starlark.StringDict{}
	for key, str := range asm.Equate {
		var value64 int64
		value64, err = asm.valueOf(str)
		if err != nil {
			// Ignore non-integer equates. They may be registers
			// or something else.
			err = nil
			continue
		}
		pred[key] = starlark.MakeInt64(value64)
	}
	prog := "rc=" + expr + "\n"
	dict, err := starlark.ExecFileOptions(&opts, &thread, "expr", prog, pred)
	if err != nil {
		err = errors.Join(ErrParseExpression(expr), err)
		return
	}
	st_rc, ok := dict["rc"]
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	st_int, ok := st_rc.(starlark.Int)
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	value, ok = st_int.Int64()
	if !ok {
		err = ErrParseExpression(expr)
		return
	}
	return
}

// parseLine expands a single line into words, handling equates and labels.
func (asm *Assembler) parseLine(line string, lineno int) (words []string, err error) {
	// Set line number.
	asm.Equate["LINENO"] = fmt.Sprintf("%v", lineno)

	// Do $() evaluations
	re := regexp.MustCompile(`\$\([^\$]*\)`)
	line = re.ReplaceAllStringFunc(line, func(str string) string {
		value, _err := asm.parenEval(str[2 : len(str)-1])
		if _err != nil && err == nil {
			err = _err
		}
		return fmt.Sprintf("%d", value)
	})
	if err != nil {
		return
	}

	words = strings.Fields(line)

	if len(words) == 0 {
		return
	}

	// .equ NAME VALUE
	if words[0] == ".equ" {
		if len(words) != 3 {
			err = ErrEquateSyntax
			return
		}
		if isRegister(words[1]) {
			err = ErrEquateName
			return
		}
		if !nameRe.MatchString(words[1]) {
			err = ErrEquateSyntax
			return
		}
		_, ok := asm.Equate[words[1]]
		if ok {
			err = ErrEquateDuplicate
			return
		}
		asm.Equate[words[1]] = words[2]
		words = words[:0]
		return
	}

	for strings.HasSuffix(words[0], ":") {
		label := words[0][:len(words[0])-1]
		if !nameRe.MatchString(label) {
			err = ErrLabelName
			return
		}
		_, ok := asm.Label[label]
		if ok {
			err = ErrLabelDuplicate
			return
		}

		if asm.Label == nil {
			asm.Label = make(map[string]int, 16)
		}
		asm.Label[label] = asm.currentIp()
		words = words[1:]
		if len(words) == 0 {
			return
		}
	}

	// Equates replace operands, never the opcode itself.
	for n, word := range words[1:] {
		equate, ok := asm.Equate[word]
		if ok {
			words[1+n] = equate
		}
	}

	return
}

// currentIp gets the current Ip
func (asm *Assembler) currentIp() int {
	return len(asm.Line)
}

// Parse parses an input stream into a Program of the assembler's dialect.
func (asm *Assembler) Parse(input io.Reader) (prog *Program, err error) {

	scanner := bufio.NewScanner(input)

	var line string
	var lineno int

	defer func() {
		if err != nil {
			err = &ErrSyntax{LineNo: lineno, Line: line, Err: err}
		}
	}()

	clear(asm.Label)
	asm.Line = asm.Line[:0]
	asm.Equate = maps.Collect(asm.Defines())

	for scanner.Scan() {
		text := scanner.Text()
		lineno += 1

		if asm.Verbose {
			log.Printf("%v: %v\n", lineno, text)
		}

		text_comment := strings.Split(text, ";")
		line = strings.TrimSpace(text_comment[0])

		var words []string
		words, err = asm.parseLine(line, lineno)
		if err != nil {
			return
		}

		err = asm.parseWords(words, lineno)
		if err != nil {
			return
		}
	}

	err = scanner.Err()
	if err != nil {
		return
	}

	// Final linking of jump labels.
	for n := range asm.Line {
		op := &asm.Line[n]

		if len(op.LinkLabel) == 0 {
			continue
		}
		label := op.LinkLabel
		ip, ok := asm.Label[label]
		if !ok {
			lineno = op.LineNo
			line = strings.Join(op.Words, " ")
			err = ErrLabelMissing(label)
			return
		}
		op.Instruction.Y = Const(int64(ip - op.Ip))
	}

	prog = &Program{
		Dialect: asm.Dialect,
		Lines:   slices.Clone(asm.Line),
	}

	return
}

// parseWords evaluates the words in a line of assembly text.
func (asm *Assembler) parseWords(words []string, lineno int) (err error) {
	// no-op
	if len(words) == 0 {
		return
	}

	op, ok := opcodeMap[words[0]]
	if !ok {
		err = ErrOpcodeInvalid
		return
	}

	if !asm.Dialect.Allows(op) {
		err = fmt.Errorf("%w: %v not in %v", ErrDialect, op, asm.Dialect)
		return
	}

	args := words[1:]
	if len(args) < op.Arity() {
		err = ErrOpcodeValueMissing
		return
	}
	if len(args) > op.Arity() {
		err = ErrOpcodeExtraArgs
		return
	}

	inst := Instruction{Op: op}
	var label string

	if op.Mutates() && !isRegister(args[0]) {
		err = errors.Join(ErrRegisterInvalid, ErrParseValue(args[0]))
		return
	}

	inst.X, err = asm.operandOf(args[0])
	if err != nil {
		return
	}

	if op.Arity() == 2 {
		inst.Y, err = asm.operandOf(args[1])
		if err != nil && (op == OP_JGZ || op == OP_JNZ) && nameRe.MatchString(args[1]) {
			// Jump to a label, linked at the end of the listing.
			err = nil
			label = args[1]
			inst.Y = Const(0)
		}
		if err != nil {
			return
		}
	}

	asm.Line = append(asm.Line, Line{
		LineNo:      lineno,
		Ip:          asm.currentIp(),
		Words:       slices.Clone(words),
		Instruction: inst,
		LinkLabel:   label,
	})

	return
}
