package io

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

type failWriter struct{}

func (failWriter) Write(p []byte) (int, error) {
	return 0, errors.New("write failed")
}

func TestTape_Receive(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1 -2\n  30\n")}

	assert.Equal(1, tape.Len())
	assert.Equal(1, tape.Len(), "Len must not consume")

	var values []int64
	for value := range ReceiveAll(tape) {
		values = append(values, value)
	}

	assert.Equal([]int64{1, -2, 30}, values)
	assert.Equal(0, tape.Len())
	assert.NoError(tape.Err)
}

func TestTape_ReceiveBadValue(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("5 five 6")}

	value, ok := tape.Receive()
	assert.True(ok)
	assert.Equal(int64(5), value)

	_, ok = tape.Receive()
	assert.False(ok)
	assert.Equal(ErrTapeValue("five"), tape.Err)
	assert.Contains(tape.Err.Error(), "five")
}

func TestTape_Rewind(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{Input: strings.NewReader("1 2 3 x 4")}

	value, ok := tape.Receive()
	assert.True(ok)
	assert.Equal(int64(1), value)

	// Len reads ahead one value, which a rewind must keep.
	assert.Equal(1, tape.Len())
	tape.Rewind()

	var values []int64
	for value := range ReceiveAll(tape) {
		values = append(values, value)
	}
	assert.Equal([]int64{2, 3}, values)
	assert.Equal(ErrTapeValue("x"), tape.Err)

	// Reading resumes past the bad value.
	tape.Rewind()
	value, ok = tape.Receive()
	assert.True(ok)
	assert.Equal(int64(4), value)
	assert.NoError(tape.Err)
}

func TestTape_NoInput(t *testing.T) {
	assert := assert.New(t)

	tape := &Tape{}
	assert.Equal(0, tape.Len())
	_, ok := tape.Receive()
	assert.False(ok)
}

func TestTape_Send(t *testing.T) {
	assert := assert.New(t)

	output := &bytes.Buffer{}
	tape := &Tape{Output: output}

	assert.NoError(SendAll(tape, 3, -4, 0))
	assert.Equal("3\n-4\n0\n", output.String())

	tape = &Tape{}
	assert.Equal(ErrChannelClosed, tape.Send(1))

	tape = &Tape{Output: failWriter{}}
	assert.Error(tape.Send(1))
	assert.Error(tape.Err)
}
