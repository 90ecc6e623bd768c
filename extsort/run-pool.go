// Package extsort is the external merge sorter and its pool of temporary
// run files.
package extsort

import (
	"os"

	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

// Run is one recyclable temp file. Between checkouts the descriptor is
// closed; while checked out it carries the I/O buffer bound at checkout.
type Run struct {
	id  int
	dir string
	f   *os.File
	buf []byte
}

func (r *Run) Name() string {
	return listrank.RunFile(r.dir, r.id)
}

func (r *Run) File() *os.File {
	return r.f
}

func (r *Run) NewReader() *stream.Reader {
	return stream.NewReader(r.f, r.buf)
}

func (r *Run) NewWriter() *stream.Writer {
	return stream.NewWriter(r.f, r.buf)
}

// RunPool is a FIFO of run files. Its only job is to recycle file names and
// to rebind checkout buffers; it is strictly single-threaded.
type RunPool struct {
	dir  string
	runs *linkedlistqueue.Queue
}

// NewRunPool creates n empty runs, each initialized with a 4-byte zero
// header so every member is a valid empty stream.
func NewRunPool(dir string, n int) (*RunPool, error) {
	pool := &RunPool{
		dir:  dir,
		runs: linkedlistqueue.New(),
	}
	zero := []byte{0, 0, 0, 0}
	for id := 0; id < n; id++ {
		run := &Run{id: id, dir: dir}
		f, err := os.OpenFile(run.Name(), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
		if err != nil {
			return nil, errors.Wrap(err, run.Name())
		}
		if _, err = f.Write(zero); err != nil {
			f.Close()
			return nil, errors.Wrap(err, run.Name())
		}
		if err = f.Close(); err != nil {
			return nil, errors.Wrap(err, run.Name())
		}
		pool.runs.Enqueue(run)
	}
	return pool, nil
}

// Get checks out the head run, reopened read-write at offset 0, with buf as
// its I/O buffer. A nil buf means unbuffered.
func (p *RunPool) Get(buf []byte) (*Run, error) {
	v, ok := p.runs.Dequeue()
	if !ok {
		return nil, listrank.ErrPoolExhausted
	}
	run := v.(*Run)
	f, err := os.OpenFile(run.Name(), os.O_RDWR, 0644)
	if err != nil {
		return nil, errors.Wrap(err, run.Name())
	}
	run.f = f
	run.buf = buf
	return run, nil
}

// Put closes the run's descriptor and re-enqueues the handle.
func (p *RunPool) Put(run *Run) error {
	run.buf = nil
	if err := run.f.Close(); err != nil {
		return errors.Wrap(err, run.Name())
	}
	run.f = nil
	p.runs.Enqueue(run)
	return nil
}

// Release closes the run and destroys the handle permanently. The file is
// left on disk.
func (p *RunPool) Release(run *Run) error {
	run.buf = nil
	if err := run.f.Close(); err != nil {
		return errors.Wrap(err, run.Name())
	}
	run.f = nil
	return nil
}

func (p *RunPool) Len() int {
	return p.runs.Size()
}
