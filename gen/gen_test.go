package gen

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/exmem-systems/listrank/listrank"
)

func TestParseCycle(t *testing.T) {
	order, err := ParseCycle("3>1>4>2")
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{3, 1, 4, 2}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("got %v, want %v", order, want)
		}
	}

	for _, bad := range []string{"", "1>2>1", "0>1", "1>>2", "a>b"} {
		if _, err := ParseCycle(bad); !errors.Is(err, listrank.ErrBadCycleExpr) {
			t.Fatalf("%q: expected ErrBadCycleExpr, got %v", bad, err)
		}
	}
}

func TestExpectedRotation(t *testing.T) {
	got := Expected([]uint32{5, 2, 4, 1, 3})
	want := []uint32{1, 3, 5, 2, 4}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestEdgesCloseTheCycle(t *testing.T) {
	rng := rand.New(rand.NewSource(3))
	order := Random(50, rng)
	edges := Edges(order, rng)

	if len(edges) != len(order) {
		t.Fatalf("%d edges for %d nodes", len(edges), len(order))
	}
	succ := make(map[uint32]uint32, len(edges))
	for _, e := range edges {
		if _, dup := succ[e[0]]; dup {
			t.Fatalf("node %d has two successors", e[0])
		}
		succ[e[0]] = e[1]
	}
	for i, id := range order {
		if succ[id] != order[(i+1)%len(order)] {
			t.Fatalf("edge from %d is %d, want %d", id, succ[id], order[(i+1)%len(order)])
		}
	}
}
