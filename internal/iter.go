// Package internal holds iterator helpers shared by the duet packages.
package internal

import (
	"cmp"
	"iter"
	"maps"
	"slices"
)

// IterSeq2Concat chains key/value sequences, in order. Later sequences may
// repeat keys of earlier ones; collecting into a map lets the last one win.
func IterSeq2Concat[K any, V any](seqs ...iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		for _, seq := range seqs {
			for key, value := range seq {
				if !yield(key, value) {
					return
				}
			}
		}
	}
}

// IterSeq2Sorted collects a key/value sequence, and yields it in key order.
func IterSeq2Sorted[K cmp.Ordered, V any](seq iter.Seq2[K, V]) iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		collected := maps.Collect(seq)
		for _, key := range slices.Sorted(maps.Keys(collected)) {
			if !yield(key, collected[key]) {
				return
			}
		}
	}
}
