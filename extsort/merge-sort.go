package extsort

import (
	"encoding/binary"
	"io"
	"os"
	"sort"

	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

// Merger sorts streams of one fixed record size through a byte arena of
// budget B. During the merge phase each of the k input runs reads through a
// B/(2k) buffer and the output run writes through a B/2 buffer.
type Merger struct {
	ram    []byte
	dir    string
	fields int

	// WriteHeader controls the length prefix of the final output stream.
	WriteHeader bool
}

func NewMerger(ram []byte, dir string, fields int) *Merger {
	return &Merger{
		ram:         ram,
		dir:         dir,
		fields:      fields,
		WriteHeader: true,
	}
}

// Sort externally merge-sorts in into out under cmp. The input stream is
// split into ⌈N/M⌉ in-memory-sorted runs of M = ⌊B/S⌋ records, then merged
// mergeRank at a time until one remains; the last merge writes to out.
func (m *Merger) Sort(in, out *os.File, cmp listrank.Compare, mergeRank int) error {
	recBytes := listrank.RecBytes(m.fields)
	if mergeRank < listrank.MinMergeRank {
		return listrank.ErrBadMergeRank
	}
	if len(m.ram) < 2*mergeRank*recBytes {
		return listrank.ErrArenaTooSmall
	}

	count, err := stream.ReadHeader(in)
	if err != nil {
		return err
	}
	chunkRecs := len(m.ram) / recBytes
	runsCnt := listrank.CeilDiv(int(count), chunkRecs)

	if runsCnt == 0 {
		w := stream.NewWriter(out, m.ram)
		if m.WriteHeader {
			if err = w.U32(0); err != nil {
				return err
			}
		}
		return w.Flush()
	}

	pool, err := NewRunPool(m.dir, runsCnt+1)
	if err != nil {
		return err
	}
	if err = m.split(in, pool, int(count), chunkRecs, cmp); err != nil {
		return err
	}

	blockSize := len(m.ram) / 2 / mergeRank
	resultBuf := m.ram[mergeRank*blockSize:]

	result, err := pool.Get(resultBuf)
	if err != nil {
		return err
	}
	used := make([]*Run, 0, mergeRank)
	passLeft := 0
	for pool.Len() > 1 {
		// A round never takes runs from two passes, so runs are merged in
		// input order and equal keys keep their relative order.
		if passLeft == 0 {
			passLeft = pool.Len()
		}
		used = used[:0]
		for len(used) < mergeRank && passLeft > 0 {
			i := len(used)
			run, err := pool.Get(m.ram[i*blockSize : (i+1)*blockSize])
			if err != nil {
				return err
			}
			used = append(used, run)
			passLeft--
		}
		if _, err = result.f.Seek(0, io.SeekStart); err != nil {
			return errors.Wrap(err, result.Name())
		}
		if err = m.merge(used, result.NewWriter(), cmp, true); err != nil {
			return err
		}
		if err = pool.Put(result); err != nil {
			return err
		}
		for _, run := range used[1:] {
			if err = pool.Release(run); err != nil {
				return err
			}
		}
		result = used[0]
		result.buf = resultBuf
	}

	half := len(m.ram) / 2
	final, err := pool.Get(m.ram[:half])
	if err != nil {
		return err
	}
	outW := stream.NewWriter(out, m.ram[half:])
	if err = m.merge([]*Run{final}, outW, cmp, m.WriteHeader); err != nil {
		return err
	}
	if err = pool.Release(final); err != nil {
		return err
	}
	return pool.Release(result)
}

func (m *Merger) split(in *os.File, pool *RunPool, count, chunkRecs int, cmp listrank.Compare) error {
	recBytes := listrank.RecBytes(m.fields)
	var hdr [4]byte
	for remaining := count; remaining > 0; {
		recs := chunkRecs
		if remaining < recs {
			recs = remaining
		}
		remaining -= recs

		chunk := m.ram[:recs*recBytes]
		if _, err := io.ReadFull(in, chunk); err != nil {
			return errors.Wrap(err, in.Name())
		}
		sortChunk(chunk, m.fields, cmp)

		run, err := pool.Get(nil)
		if err != nil {
			return err
		}
		binary.LittleEndian.PutUint32(hdr[:], uint32(recs))
		if _, err = run.f.Write(hdr[:]); err != nil {
			return errors.Wrap(err, run.Name())
		}
		if _, err = run.f.Write(chunk); err != nil {
			return errors.Wrap(err, run.Name())
		}
		if err = pool.Put(run); err != nil {
			return err
		}
	}
	return nil
}

type mergeInput struct {
	rd     *stream.Reader
	rec    []uint32
	left   uint32
	loaded bool
}

// merge drains the checked-out runs into w, picking the minimum of the open
// records by linear scan.
func (m *Merger) merge(runs []*Run, w *stream.Writer, cmp listrank.Compare, writeHeader bool) error {
	inputs := make([]mergeInput, len(runs))
	total := uint32(0)
	for i, run := range runs {
		rd := run.NewReader()
		size, err := rd.U32()
		if err != nil {
			return err
		}
		inputs[i] = mergeInput{rd: rd, rec: make([]uint32, m.fields), left: size}
		total += size
	}
	if writeHeader {
		if err := w.U32(total); err != nil {
			return err
		}
	}
	for {
		min := -1
		for i := range inputs {
			inp := &inputs[i]
			if !inp.loaded {
				if inp.left == 0 {
					continue
				}
				if err := inp.rd.Rec(inp.rec); err != nil {
					return err
				}
				inp.loaded = true
				inp.left--
			}
			if min < 0 || cmp(inp.rec, inputs[min].rec) < 0 {
				min = i
			}
		}
		if min < 0 {
			break
		}
		if err := w.Rec(inputs[min].rec); err != nil {
			return err
		}
		inputs[min].loaded = false
	}
	return w.Flush()
}

type chunkSlice struct {
	buf     []byte
	rec     int
	cmp     listrank.Compare
	a, b    []uint32
	scratch []byte
}

func (c *chunkSlice) Len() int {
	return len(c.buf) / c.rec
}

func (c *chunkSlice) Less(i, j int) bool {
	decodeRec(c.buf[i*c.rec:], c.a)
	decodeRec(c.buf[j*c.rec:], c.b)
	return c.cmp(c.a, c.b) < 0
}

func (c *chunkSlice) Swap(i, j int) {
	ri := c.buf[i*c.rec : (i+1)*c.rec]
	rj := c.buf[j*c.rec : (j+1)*c.rec]
	copy(c.scratch, ri)
	copy(ri, rj)
	copy(rj, c.scratch)
}

// sortChunk sorts records in place. Stable, so sorting an already sorted
// stream is a no-op even among equal keys.
func sortChunk(chunk []byte, fields int, cmp listrank.Compare) {
	rec := listrank.RecBytes(fields)
	sort.Stable(&chunkSlice{
		buf:     chunk,
		rec:     rec,
		cmp:     cmp,
		a:       make([]uint32, fields),
		b:       make([]uint32, fields),
		scratch: make([]byte, rec),
	})
}

func decodeRec(b []byte, dst []uint32) {
	for i := range dst {
		dst[i] = binary.LittleEndian.Uint32(b[4*i:])
	}
}
