package catalog_test

import (
	"errors"
	"os"
	"path"
	"testing"

	"github.com/exmem-systems/listrank/catalog"
	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

func TestImportAndLookup(t *testing.T) {
	dir := t.TempDir()

	ranked := path.Join(dir, "ranked.0.bin")
	f, err := os.Create(ranked)
	if err != nil {
		t.Fatal(err)
	}
	w := stream.NewWriter(f, make([]byte, 256))
	pairs := [][2]uint32{{1, 3}, {2, 0}, {3, 1}, {4, 2}}
	if err = w.U32(uint32(len(pairs))); err != nil {
		t.Fatal(err)
	}
	for _, p := range pairs {
		if err = w.Rec([]uint32{p[0], p[1]}); err != nil {
			t.Fatal(err)
		}
	}
	if err = w.Flush(); err != nil {
		t.Fatal(err)
	}
	if err = f.Close(); err != nil {
		t.Fatal(err)
	}

	cat, err := catalog.OpenCatalog(catalog.Opts{
		DbPathName: path.Join(dir, "TestImport"),
	})
	if err != nil {
		t.Fatal(err)
	}
	defer cat.Close()

	n, err := cat.ImportRanked(ranked)
	if err != nil {
		t.Fatal(err)
	}
	if n != 4 {
		t.Fatalf("imported %d, want 4", n)
	}

	for _, p := range pairs {
		r, err := cat.RankOf(p[0])
		if err != nil {
			t.Fatal(err)
		}
		if r != p[1] {
			t.Fatalf("rank of %d: got %d, want %d", p[0], r, p[1])
		}
	}

	if _, err = cat.RankOf(99); !errors.Is(err, listrank.ErrNotRanked) {
		t.Fatalf("expected ErrNotRanked, got %v", err)
	}
}
