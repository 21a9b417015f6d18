// Package cpu implements the register machine and assembler for the duet
// system.
//
// A machine has a sparse file of single letter registers (a-z) holding signed
// 64-bit words, a signed program counter, and an optional pair of message
// channels. Instructions come from one of two closed dialects: the duet
// dialect (snd, set, add, mul, mod, rcv, jgz) whose programs talk over
// channels, and the coprocessor dialect (set, sub, mul, jnz) which is purely
// arithmetic.
//
// Every instruction evaluates to a Jump directive that the executor applies
// to the program counter. Leaving the listing, or a stop directive, ends the
// program normally.
//
// The assembler reads one instruction per line, and also accepts comments,
// labels, equates, and compile-time $(...) expressions.
package cpu
