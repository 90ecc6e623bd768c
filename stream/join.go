package stream

import (
	"os"

	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/listrank"
)

// JoinFunc combines the records at the same position of two streams.
type JoinFunc func(l, r, dst []uint32)

// Join consumes two equal-length streams in lockstep, emitting one combined
// record per position. The caller must have arranged both inputs so that
// positional pairing is meaningful (e.g. both are the same record set sorted
// by keys that enumerate identically).
func Join(left, right, out *os.File, arena []byte, lFields, rFields, oFields int, fn JoinFunc) (uint32, error) {
	bufs, err := listrank.SplitArena(arena,
		listrank.RecBytes(lFields), listrank.RecBytes(rFields), listrank.RecBytes(oFields))
	if err != nil {
		return 0, err
	}
	lr := NewReader(left, bufs[0])
	rr := NewReader(right, bufs[1])
	w := NewWriter(out, bufs[2])

	lc, err := lr.U32()
	if err != nil {
		return 0, err
	}
	rc, err := rr.U32()
	if err != nil {
		return 0, err
	}
	if lc != rc {
		return 0, errors.Wrapf(listrank.ErrBadHeader, "join %d vs %d", lc, rc)
	}
	if err = w.U32(lc); err != nil {
		return 0, err
	}

	l := make([]uint32, lFields)
	r := make([]uint32, rFields)
	dst := make([]uint32, oFields)
	for i := uint32(0); i < lc; i++ {
		if err = lr.Rec(l); err != nil {
			return i, err
		}
		if err = rr.Rec(r); err != nil {
			return i, err
		}
		fn(l, r, dst)
		if err = w.Rec(dst); err != nil {
			return i, err
		}
	}
	return lc, w.Flush()
}

// LeftJoinFunc combines a left record with the current right record. rvalid
// is false once the right stream is exhausted. The two returned signals are
// independent: emit=false drops the left record, consume=true advances the
// right cursor. A combiner that never consumes on a mismatch keeps the right
// side aligned for the next left record that does match.
type LeftJoinFunc func(l, r []uint32, rvalid bool, dst []uint32) (emit, consume bool)

// LeftJoin drives from the left stream; the right cursor advances only when
// the combiner says it was consumed. The header is provisionally |L| and is
// rewritten with the true emitted count when records were dropped.
func LeftJoin(left, right, out *os.File, arena []byte, lFields, rFields, oFields int, fn LeftJoinFunc) (uint32, error) {
	bufs, err := listrank.SplitArena(arena,
		listrank.RecBytes(lFields), listrank.RecBytes(rFields), listrank.RecBytes(oFields))
	if err != nil {
		return 0, err
	}
	lr := NewReader(left, bufs[0])
	rr := NewReader(right, bufs[1])
	w := NewWriter(out, bufs[2])

	lc, err := lr.U32()
	if err != nil {
		return 0, err
	}
	rc, err := rr.U32()
	if err != nil {
		return 0, err
	}
	if err = w.U32(lc); err != nil {
		return 0, err
	}

	l := make([]uint32, lFields)
	r := make([]uint32, rFields)
	dst := make([]uint32, oFields)
	loaded := false
	emitted := uint32(0)
	for i := uint32(0); i < lc; i++ {
		if err = lr.Rec(l); err != nil {
			return emitted, err
		}
		if !loaded && rc > 0 {
			if err = rr.Rec(r); err != nil {
				return emitted, err
			}
			loaded = true
			rc--
		}
		emit, consume := fn(l, r, loaded, dst)
		if emit {
			if err = w.Rec(dst); err != nil {
				return emitted, err
			}
			emitted++
		}
		if consume && loaded {
			loaded = false
		}
	}
	if err = w.Flush(); err != nil {
		return emitted, err
	}
	if emitted != lc {
		if err = RewriteHeader(out, emitted); err != nil {
			return emitted, err
		}
	}
	return emitted, nil
}
