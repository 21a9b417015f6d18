package io

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Tape connects a program to a text stream.
// Received values are whitespace separated signed integers read from Input,
// sent values are written to Output one per line.
type Tape struct {
	Input  io.Reader
	Output io.Writer

	scanner  *bufio.Scanner
	hasInput bool
	next     int64

	// Err is the first read or write error seen by the tape.
	Err error
}

var _ Channel = (*Tape)(nil)

// Rewind is not possible on a tape. It only clears Err, so reading resumes
// after a bad value; buffered input is kept.
func (tc *Tape) Rewind() {
	tc.Err = nil
}

// fill reads ahead one value from the input, if one is available.
func (tc *Tape) fill() {
	if tc.hasInput || tc.Err != nil || tc.Input == nil {
		return
	}

	if tc.scanner == nil {
		tc.scanner = bufio.NewScanner(tc.Input)
		tc.scanner.Split(bufio.ScanWords)
	}

	if !tc.scanner.Scan() {
		tc.Err = tc.scanner.Err()
		return
	}

	word := tc.scanner.Text()
	value, err := strconv.ParseInt(word, 10, 64)
	if err != nil {
		tc.Err = ErrTapeValue(word)
		return
	}

	tc.next = value
	tc.hasInput = true
}

// Len returns 1 if a value can be read from the input, 0 otherwise.
func (tc *Tape) Len() int {
	tc.fill()
	if tc.hasInput {
		return 1
	}
	return 0
}

// Receive reads the next integer from the input.
func (tc *Tape) Receive() (value int64, ok bool) {
	tc.fill()
	if !tc.hasInput {
		return
	}

	value = tc.next
	ok = true
	tc.hasInput = false

	return
}

// Send writes a value as a decimal line to the output.
func (tc *Tape) Send(value int64) (err error) {
	if tc.Output == nil {
		err = ErrChannelClosed
		return
	}

	_, err = fmt.Fprintf(tc.Output, "%d\n", value)
	if err != nil && tc.Err == nil {
		tc.Err = err
	}

	return
}
