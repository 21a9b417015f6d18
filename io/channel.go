// Package io provides the message channels that connect duet programs.
// A channel is a one-directional FIFO of signed words: the owning program
// sends into it, and only its peer receives from it. Queue is the in-memory
// channel used between the two programs of an emulator, Tape connects a
// program to an external reader and writer.
package io

// Channel defines the interface for all message channels.
type Channel interface {
	// Rewind resets the channel to its initial state.
	Rewind()
	// Send appends a value to the channel.
	Send(value int64) error
	// Receive removes the oldest value from the channel.
	// ok is false if no value is available.
	Receive() (value int64, ok bool)
	// Len returns the number of values ready to be received.
	Len() int
}
