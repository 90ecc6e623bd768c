// Package catalog stores a computed ranking in a badger database so single
// nodes can be looked up after the pipeline's streams are gone. This is
// post-run tooling; it plays no part in the pipeline itself.
package catalog

import (
	"encoding/binary"
	"os"

	"github.com/dgraph-io/badger/v3"
	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

type Catalog struct {
	db *badger.DB
}

type Opts struct {
	DbPathName string
	ReadOnly   bool
}

func OpenCatalog(opts Opts) (*Catalog, error) {
	if opts.DbPathName == "" {
		return nil, errors.New("catalog path required")
	}
	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.Logger = nil

	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, errors.Wrap(err, "opening rank catalog")
	}
	return &Catalog{db: db}, nil
}

func (cat *Catalog) Close() error {
	return cat.db.Close()
}

// ImportRanked loads an id-sorted rank stream (the ranked.0.bin layout)
// into the catalog. Keys are big-endian ids so the LSM iterates in id
// order; values are the little-endian rank.
func (cat *Catalog) ImportRanked(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, errors.Wrap(err, path)
	}
	defer f.Close()

	rd := stream.NewReader(f, make([]byte, 1<<16))
	count, err := rd.U32()
	if err != nil {
		return 0, err
	}

	wb := cat.db.NewWriteBatch()
	defer wb.Cancel()

	rec := make([]uint32, listrank.EdgeFields)
	for i := uint32(0); i < count; i++ {
		if err = rd.Rec(rec); err != nil {
			return i, err
		}
		var key [4]byte
		var val [4]byte
		binary.BigEndian.PutUint32(key[:], rec[0])
		binary.LittleEndian.PutUint32(val[:], rec[1])
		if err = wb.Set(key[:], val[:]); err != nil {
			return i, errors.Wrap(err, "catalog write")
		}
	}
	if err = wb.Flush(); err != nil {
		return count, errors.Wrap(err, "catalog flush")
	}
	return count, nil
}

// RankOf returns the stored rank of one node.
func (cat *Catalog) RankOf(node uint32) (uint32, error) {
	var key [4]byte
	binary.BigEndian.PutUint32(key[:], node)

	rank := uint32(0)
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(key[:])
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(listrank.ErrNotRanked, "node %d", node)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			rank = binary.LittleEndian.Uint32(val)
			return nil
		})
	})
	return rank, err
}
