package rank

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/extsort"
	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

// finalize turns the fully expanded ranking into the output stream: rotate
// the ranks so the smallest identifier lands on rank 0, order by rank, and
// project the identifiers with no header.
//
// The ranking is sorted by id, so its first record belongs to the smallest
// identifier; subtracting that record's rank from every rank — wrapping in
// u32 — rotates the cyclic order without disturbing it, since the ranks are
// N consecutive values modulo 2^32 (expansion can wrap a rank below zero).
func finalize(cfg *Config, arena []byte, out *os.File) error {
	dir := cfg.Dir

	ranked, err := open(listrank.RankedFile(dir, 0))
	if err != nil {
		return err
	}
	var first [12]byte
	if _, err = io.ReadFull(ranked, first[:]); err != nil {
		ranked.Close()
		return errors.Wrap(err, ranked.Name())
	}
	r0 := binary.LittleEndian.Uint32(first[8:])
	if _, err = ranked.Seek(0, io.SeekStart); err != nil {
		ranked.Close()
		return errors.Wrap(err, ranked.Name())
	}

	shifted, err := create(listrank.JoinResultFile(dir))
	if err != nil {
		ranked.Close()
		return err
	}
	_, err = stream.Map(ranked, shifted, arena, listrank.EdgeFields, listrank.EdgeFields, true,
		func(src, dst []uint32) bool {
			dst[0] = src[0]
			dst[1] = src[1] - r0
			return true
		})
	closeAll(ranked, shifted)
	if err != nil {
		return err
	}

	merger := extsort.NewMerger(arena, dir, listrank.EdgeFields)
	if err = sortFile(merger, listrank.JoinResultFile(dir), listrank.JoinLeftFile(dir),
		listrank.ByField(1), cfg.MergeRank); err != nil {
		return err
	}

	byRank, err := open(listrank.JoinLeftFile(dir))
	if err != nil {
		return err
	}
	_, err = stream.Map(byRank, out, arena, listrank.EdgeFields, 1, false,
		func(src, dst []uint32) bool {
			dst[0] = src[0]
			return true
		})
	byRank.Close()
	return err
}
