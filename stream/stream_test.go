package stream

import (
	"math/rand"
	"os"
	"path/filepath"
	"testing"
)

func tmpFile(t *testing.T, name string) *os.File {
	t.Helper()
	f, err := os.OpenFile(filepath.Join(t.TempDir(), name), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { f.Close() })
	return f
}

func seekStart(t *testing.T, f *os.File) {
	t.Helper()
	if _, err := f.Seek(0, 0); err != nil {
		t.Fatal(err)
	}
}

func TestRoundtrip(t *testing.T) {
	f := tmpFile(t, "roundtrip.bin")

	vals := make([]uint32, 1001)
	rng := rand.New(rand.NewSource(7))
	for i := range vals {
		vals[i] = rng.Uint32()
	}

	// A 9-byte buffer forces values to straddle flushes and fills.
	w := NewWriter(f, make([]byte, 9))
	for _, v := range vals {
		if err := w.U32(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	seekStart(t, f)
	rd := NewReader(f, make([]byte, 9))
	for i, want := range vals {
		got, err := rd.U32()
		if err != nil {
			t.Fatal(err)
		}
		if got != want {
			t.Fatalf("value %d: got %d, want %d", i, got, want)
		}
	}
}

func TestReadPastEnd(t *testing.T) {
	f := tmpFile(t, "short.bin")

	w := NewWriter(f, nil)
	if err := w.U32(42); err != nil {
		t.Fatal(err)
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	seekStart(t, f)
	rd := NewReader(f, nil)
	if _, err := rd.U32(); err != nil {
		t.Fatal(err)
	}
	if _, err := rd.U32(); err == nil {
		t.Fatal("expected error past end of stream")
	}
}

func TestRewriteHeader(t *testing.T) {
	f := tmpFile(t, "hdr.bin")

	w := NewWriter(f, make([]byte, 64))
	for _, v := range []uint32{99, 1, 2, 3} {
		if err := w.U32(v); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	if err := RewriteHeader(f, 3); err != nil {
		t.Fatal(err)
	}

	seekStart(t, f)
	count, err := ReadHeader(f)
	if err != nil {
		t.Fatal(err)
	}
	if count != 3 {
		t.Fatalf("header: got %d, want 3", count)
	}
}
