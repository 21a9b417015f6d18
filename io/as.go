package io

import (
	"iter"
)

// SendAll sends each value to the channel in order, stopping at the first
// error.
func SendAll(ch Channel, values ...int64) (err error) {
	for _, value := range values {
		err = ch.Send(value)
		if err != nil {
			return
		}
	}
	return
}

// ReceiveAll returns an iterator that drains the channel, yielding values in
// FIFO order until the channel is empty.
func ReceiveAll(ch Channel) iter.Seq[int64] {
	return func(yield func(value int64) bool) {
		for {
			value, ok := ch.Receive()
			if !ok {
				return
			}
			if !yield(value) {
				return
			}
		}
	}
}
