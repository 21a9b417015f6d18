package io

import (
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQueue_ZeroValue(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	assert.True(q.Empty())
	assert.Equal(0, q.Len())

	value, ok := q.Receive()
	assert.False(ok)
	assert.Equal(int64(0), value)

	assert.NoError(q.Send(-7))
	assert.Equal(1, q.Len())

	value, ok = q.Receive()
	assert.True(ok)
	assert.Equal(int64(-7), value)
	assert.True(q.Empty())
}

func TestQueue_Fifo(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	q.Rewind()

	var sent []int64
	var received []int64

	// Interleave sends and receives so the ring wraps and grows.
	for n := range int64(100) {
		assert.NoError(q.Send(n))
		sent = append(sent, n)
		if n%3 == 0 {
			value, ok := q.Receive()
			assert.True(ok)
			received = append(received, value)
		}
	}

	for value := range ReceiveAll(q) {
		received = append(received, value)
	}

	assert.Equal(sent, received)
	assert.True(q.Empty())
}

func TestQueue_All(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	assert.NoError(SendAll(q, 1, 2, 3))

	assert.Equal([]int64{1, 2, 3}, slices.Collect(q.All()))
	assert.Equal(3, q.Len(), "All must not consume")

	for value := range q.All() {
		assert.Equal(int64(1), value)
		break
	}
}

func TestQueue_Limit(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{Limit: 2}

	assert.NoError(q.Send(1))
	assert.NoError(q.Send(2))
	assert.Equal(ErrChannelFull, q.Send(3))

	value, ok := q.Receive()
	assert.True(ok)
	assert.Equal(int64(1), value)
	assert.NoError(q.Send(3))

	assert.Equal([]int64{2, 3}, slices.Collect(ReceiveAll(q)))
}

func TestQueue_Rewind(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{}
	assert.NoError(SendAll(q, 4, 5, 6))
	q.Receive()

	q.Rewind()
	assert.True(q.Empty())
	assert.Equal(0, q.ReadIndex)
	assert.Equal(0, q.WriteIndex)

	assert.NoError(q.Send(9))
	value, ok := q.Receive()
	assert.True(ok)
	assert.Equal(int64(9), value)
}

func TestSendAll_Error(t *testing.T) {
	assert := assert.New(t)

	q := &Queue{Limit: 1}
	err := SendAll(q, 1, 2, 3)
	assert.Equal(ErrChannelFull, err)
	assert.Equal(1, q.Len())
}
