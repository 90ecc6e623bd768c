// Package gen builds test inputs for the ranking pipeline: random cyclic
// permutations or explicit cycle expressions, written in the input.bin
// layout, with the expected traversal alongside.
package gen

import (
	"math/rand"
	"os"

	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/stream"
)

// Random returns a random traversal order over {1..n}.
func Random(n int, rng *rand.Rand) []uint32 {
	order := make([]uint32, n)
	for i, v := range rng.Perm(n) {
		order[i] = uint32(v + 1)
	}
	return order
}

// Edges derives the shuffled edge list of a traversal order.
func Edges(order []uint32, rng *rand.Rand) [][2]uint32 {
	n := len(order)
	edges := make([][2]uint32, n)
	for i, id := range order {
		edges[i] = [2]uint32{id, order[(i+1)%n]}
	}
	rng.Shuffle(n, func(i, j int) {
		edges[i], edges[j] = edges[j], edges[i]
	})
	return edges
}

// Expected rotates a traversal order to start at its minimum identifier —
// the pipeline's output for that cycle.
func Expected(order []uint32) []uint32 {
	at := 0
	for i, id := range order {
		if id < order[at] {
			at = i
		}
	}
	out := make([]uint32, 0, len(order))
	out = append(out, order[at:]...)
	return append(out, order[:at]...)
}

// WriteInput writes an edge list in the input.bin layout.
func WriteInput(path string, edges [][2]uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, path)
	}
	w := stream.NewWriter(f, make([]byte, 1<<16))
	err = w.U32(uint32(len(edges)))
	for i := 0; err == nil && i < len(edges); i++ {
		if err = w.U32(edges[i][0]); err == nil {
			err = w.U32(edges[i][1])
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

// WriteExpected writes a headerless identifier stream (the output.bin
// layout).
func WriteExpected(path string, order []uint32) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, path)
	}
	w := stream.NewWriter(f, make([]byte, 1<<16))
	for i := 0; err == nil && i < len(order); i++ {
		err = w.U32(order[i])
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}
