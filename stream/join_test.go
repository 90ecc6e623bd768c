package stream

import (
	"errors"
	"testing"

	"github.com/exmem-systems/listrank/listrank"
)

func TestJoinPositional(t *testing.T) {
	left := tmpFile(t, "left.bin")
	right := tmpFile(t, "right.bin")
	out := tmpFile(t, "out.bin")

	writeRecs(t, left, 2, [][]uint32{{1, 10}, {2, 20}, {3, 30}})
	writeRecs(t, right, 2, [][]uint32{{5, 1}, {6, 2}, {7, 3}})

	n, err := Join(left, right, out, make([]byte, 256), 2, 2, 3,
		func(l, r, dst []uint32) {
			dst[0] = l[0]
			dst[1] = l[1]
			dst[2] = r[0]
		})
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Fatalf("joined %d, want 3", n)
	}

	got := readRecs(t, out, 3)
	want := [][]uint32{{1, 10, 5}, {2, 20, 6}, {3, 30, 7}}
	for i := range want {
		for j := range want[i] {
			if got[i][j] != want[i][j] {
				t.Fatalf("rec %d: got %v, want %v", i, got[i], want[i])
			}
		}
	}
}

func TestJoinCountMismatch(t *testing.T) {
	left := tmpFile(t, "left.bin")
	right := tmpFile(t, "right.bin")
	out := tmpFile(t, "out.bin")

	writeRecs(t, left, 2, [][]uint32{{1, 10}})
	writeRecs(t, right, 2, [][]uint32{{1, 10}, {2, 20}})

	_, err := Join(left, right, out, make([]byte, 256), 2, 2, 2,
		func(l, r, dst []uint32) { copy(dst, l) })
	if !errors.Is(err, listrank.ErrBadHeader) {
		t.Fatalf("expected ErrBadHeader, got %v", err)
	}
}

func TestLeftJoinHeldCursor(t *testing.T) {
	left := tmpFile(t, "left.bin")
	right := tmpFile(t, "right.bin")
	out := tmpFile(t, "out.bin")

	// Left keys 1..5; the right side only knows 2 and 4. Unmatched rows
	// pass through with a zero annotation and must not steal the cursor.
	writeRecs(t, left, 1, [][]uint32{{1}, {2}, {3}, {4}, {5}})
	writeRecs(t, right, 2, [][]uint32{{2, 222}, {4, 444}})

	n, err := LeftJoin(left, right, out, make([]byte, 256), 1, 2, 2,
		func(l, r []uint32, rvalid bool, dst []uint32) (bool, bool) {
			dst[0] = l[0]
			match := rvalid && r[0] == l[0]
			if match {
				dst[1] = r[1]
			} else {
				dst[1] = 0
			}
			return true, match
		})
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 {
		t.Fatalf("emitted %d, want 5", n)
	}

	got := readRecs(t, out, 2)
	want := [][]uint32{{1, 0}, {2, 222}, {3, 0}, {4, 444}, {5, 0}}
	for i := range want {
		if got[i][0] != want[i][0] || got[i][1] != want[i][1] {
			t.Fatalf("rec %d: got %v, want %v", i, got[i], want[i])
		}
	}
}

func TestLeftJoinDropRewritesHeader(t *testing.T) {
	left := tmpFile(t, "left.bin")
	right := tmpFile(t, "right.bin")
	out := tmpFile(t, "out.bin")

	writeRecs(t, left, 1, [][]uint32{{1}, {2}, {3}})
	writeRecs(t, right, 2, [][]uint32{{2, 20}})

	n, err := LeftJoin(left, right, out, make([]byte, 256), 1, 2, 2,
		func(l, r []uint32, rvalid bool, dst []uint32) (bool, bool) {
			match := rvalid && r[0] == l[0]
			if match {
				dst[0] = l[0]
				dst[1] = r[1]
			}
			return match, match
		})
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 {
		t.Fatalf("emitted %d, want 1", n)
	}
	got := readRecs(t, out, 2)
	if len(got) != 1 || got[0][0] != 2 || got[0][1] != 20 {
		t.Fatalf("got %v", got)
	}
}

func TestLeftJoinEmptyRight(t *testing.T) {
	left := tmpFile(t, "left.bin")
	right := tmpFile(t, "right.bin")
	out := tmpFile(t, "out.bin")

	writeRecs(t, left, 1, [][]uint32{{1}, {2}})
	writeRecs(t, right, 2, nil)

	// A combiner that only emits on a match emits nothing against an
	// empty right side.
	n, err := LeftJoin(left, right, out, make([]byte, 256), 1, 2, 2,
		func(l, r []uint32, rvalid bool, dst []uint32) (bool, bool) {
			match := rvalid && r[0] == l[0]
			return match, match
		})
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("emitted %d, want 0", n)
	}
	if got := readRecs(t, out, 2); len(got) != 0 {
		t.Fatalf("got %d records, want 0", len(got))
	}
}
