package stream

import (
	"os"

	"github.com/exmem-systems/listrank/listrank"
)

// MapFunc transforms one source record into one target record. Returning
// false drops the record from the output.
type MapFunc func(src, dst []uint32) bool

// Map streams one length-prefixed record stream into another. A provisional
// header equal to the input count is written first; once the true emitted
// count is known the header is rewritten in place. When withHeader is false
// the output carries no length prefix at all.
//
// Returns the number of records emitted.
func Map(in, out *os.File, arena []byte, srcFields, dstFields int, withHeader bool, fn MapFunc) (uint32, error) {
	bufs, err := listrank.SplitArena(arena,
		listrank.RecBytes(srcFields), listrank.RecBytes(dstFields))
	if err != nil {
		return 0, err
	}
	rd := NewReader(in, bufs[0])
	w := NewWriter(out, bufs[1])

	count, err := rd.U32()
	if err != nil {
		return 0, err
	}
	if withHeader {
		if err = w.U32(count); err != nil {
			return 0, err
		}
	}

	src := make([]uint32, srcFields)
	dst := make([]uint32, dstFields)
	emitted := uint32(0)
	for i := uint32(0); i < count; i++ {
		if err = rd.Rec(src); err != nil {
			return emitted, err
		}
		if !fn(src, dst) {
			continue
		}
		if err = w.Rec(dst); err != nil {
			return emitted, err
		}
		emitted++
	}
	if err = w.Flush(); err != nil {
		return emitted, err
	}
	if withHeader && emitted != count {
		if err = RewriteHeader(out, emitted); err != nil {
			return emitted, err
		}
	}
	return emitted, nil
}
