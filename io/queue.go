package io

import (
	"iter"
)

const (
	// QUEUE_DEFAULT_CAPACITY is the initial allocation, in values, of a queue.
	QUEUE_DEFAULT_CAPACITY = 16
)

// Queue implements a circular FIFO buffer of values.
// With a zero Limit the queue grows without bound, otherwise Send fails with
// ErrChannelFull once Limit values are pending.
type Queue struct {
	Limit int // Maximum pending values, or 0 for unbounded.

	ReadIndex  int
	WriteIndex int
	Size       int
	Data       []int64
}

var _ Channel = (*Queue)(nil)

// Rewind empties the queue, keeping its allocation.
func (q *Queue) Rewind() {
	q.ReadIndex = 0
	q.WriteIndex = 0
	q.Size = 0
	if q.Data == nil {
		q.Data = make([]int64, QUEUE_DEFAULT_CAPACITY)
	}
}

// Len returns the number of pending values.
func (q *Queue) Len() int {
	return q.Size
}

// Empty returns true if no values are pending.
func (q *Queue) Empty() bool {
	return q.Size == 0
}

// grow doubles the buffer, unrolling the ring so the oldest value is first.
func (q *Queue) grow() {
	size := len(q.Data) * 2
	if size == 0 {
		size = QUEUE_DEFAULT_CAPACITY
	}

	data := make([]int64, size)
	n := 0
	for value := range q.All() {
		data[n] = value
		n++
	}

	q.Data = data
	q.ReadIndex = 0
	q.WriteIndex = n
}

// Send appends a value at the current write position.
// Returns ErrChannelFull if the queue has reached its limit.
func (q *Queue) Send(value int64) (err error) {
	if q.Limit > 0 && q.Size >= q.Limit {
		err = ErrChannelFull
		return
	}

	if q.Size == len(q.Data) {
		q.grow()
	}

	q.Data[q.WriteIndex] = value

	q.WriteIndex++
	if q.WriteIndex == len(q.Data) {
		q.WriteIndex = 0
	}
	q.Size++

	return
}

// Receive removes the value at the current read position.
func (q *Queue) Receive() (value int64, ok bool) {
	if q.Size == 0 {
		return
	}

	value = q.Data[q.ReadIndex]
	ok = true

	q.ReadIndex++
	if q.ReadIndex == len(q.Data) {
		q.ReadIndex = 0
	}
	q.Size--

	return
}

// All returns an iterator over the pending values, oldest first, without
// removing them.
func (q *Queue) All() iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		index := q.ReadIndex
		for range q.Size {
			if !yield(q.Data[index]) {
				return
			}
			index++
			if index == len(q.Data) {
				index = 0
			}
		}
	}
}
