// Package stream reads and writes length-prefixed records of little-endian
// u32 tuples. Buffers are supplied by the caller so every operator can carve
// its share out of the one RAM arena; a nil buffer falls back to a minimal
// internal one (the unbuffered mode of the run pool).
package stream

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

const minBuf = 8

// Reader decodes u32 values from a file through a caller-owned buffer.
type Reader struct {
	f   *os.File
	buf []byte
	r   int
	w   int
}

func NewReader(f *os.File, buf []byte) *Reader {
	if len(buf) < minBuf {
		buf = make([]byte, minBuf)
	}
	return &Reader{f: f, buf: buf}
}

func (rd *Reader) fill() error {
	if rd.w-rd.r >= 4 {
		return nil
	}
	copy(rd.buf, rd.buf[rd.r:rd.w])
	rd.w -= rd.r
	rd.r = 0
	for rd.w < 4 {
		n, err := rd.f.Read(rd.buf[rd.w:])
		if n > 0 {
			rd.w += n
			continue
		}
		if err == io.EOF {
			return errors.Wrap(io.ErrUnexpectedEOF, rd.f.Name())
		}
		if err != nil {
			return errors.Wrap(err, rd.f.Name())
		}
	}
	return nil
}

// U32 reads the next little-endian u32.
func (rd *Reader) U32() (uint32, error) {
	if err := rd.fill(); err != nil {
		return 0, err
	}
	v := binary.LittleEndian.Uint32(rd.buf[rd.r:])
	rd.r += 4
	return v, nil
}

// Rec reads one record of len(dst) fields.
func (rd *Reader) Rec(dst []uint32) error {
	for i := range dst {
		v, err := rd.U32()
		if err != nil {
			return err
		}
		dst[i] = v
	}
	return nil
}

// Writer encodes u32 values into a file through a caller-owned buffer.
type Writer struct {
	f   *os.File
	buf []byte
	n   int
}

func NewWriter(f *os.File, buf []byte) *Writer {
	if len(buf) < minBuf {
		buf = make([]byte, minBuf)
	}
	return &Writer{f: f, buf: buf}
}

// U32 appends one little-endian u32.
func (w *Writer) U32(v uint32) error {
	if len(w.buf)-w.n < 4 {
		if err := w.Flush(); err != nil {
			return err
		}
	}
	binary.LittleEndian.PutUint32(w.buf[w.n:], v)
	w.n += 4
	return nil
}

// Rec appends one record.
func (w *Writer) Rec(rec []uint32) error {
	for _, v := range rec {
		if err := w.U32(v); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) Flush() error {
	if w.n == 0 {
		return nil
	}
	if _, err := w.f.Write(w.buf[:w.n]); err != nil {
		return errors.Wrap(err, w.f.Name())
	}
	w.n = 0
	return nil
}

// RewriteHeader overwrites the 4-byte count at the start of an already
// flushed stream. Used by operators that only know their emitted count
// after the fact.
func RewriteHeader(f *os.File, count uint32) error {
	var hdr [4]byte
	binary.LittleEndian.PutUint32(hdr[:], count)
	if _, err := f.WriteAt(hdr[:], 0); err != nil {
		return errors.Wrap(err, f.Name())
	}
	return nil
}

// ReadHeader reads a stream's record count directly, without buffering.
func ReadHeader(f *os.File) (uint32, error) {
	var hdr [4]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		return 0, errors.Wrap(err, f.Name())
	}
	return binary.LittleEndian.Uint32(hdr[:]), nil
}
