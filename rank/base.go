package rank

import (
	"sort"

	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

// solveBase ranks the surviving list entirely in RAM: load the weighted
// stream, sort by node id for random access, then walk the cycle from the
// smallest id accumulating weights. Emits the (i, r(i)) stream sorted by i.
func solveBase(cfg *Config, arena []byte, k int) error {
	in, err := open(listrank.WeightedFile(cfg.Dir, k))
	if err != nil {
		return err
	}
	defer in.Close()

	rd := stream.NewReader(in, arena[:len(arena)/2])
	m, err := rd.U32()
	if err != nil {
		return err
	}

	recs := make([]uint32, 3*int(m))
	if err = rd.Rec(recs); err != nil {
		return err
	}
	sort.Sort(&tripleSlice{recs})

	ranks := make([]uint32, m)
	cur := 0
	r := uint32(0)
	for t := uint32(0); t < m; t++ {
		ranks[cur] = r
		r += recs[3*cur+2]
		next := recs[3*cur+1]
		cur = sort.Search(int(m), func(i int) bool { return recs[3*i] >= next })
		if cur >= int(m) || recs[3*cur] != next {
			return errors.Wrapf(listrank.ErrBrokenList, "node %d", next)
		}
	}

	out, err := create(listrank.RankedFile(cfg.Dir, k))
	if err != nil {
		return err
	}
	w := stream.NewWriter(out, arena[len(arena)/2:])
	err = w.U32(m)
	for i := 0; err == nil && i < int(m); i++ {
		if err = w.U32(recs[3*i]); err == nil {
			err = w.U32(ranks[i])
		}
	}
	if err == nil {
		err = w.Flush()
	}
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return err
}

type tripleSlice struct {
	recs []uint32
}

func (s *tripleSlice) Len() int {
	return len(s.recs) / 3
}

func (s *tripleSlice) Less(i, j int) bool {
	return s.recs[3*i] < s.recs[3*j]
}

func (s *tripleSlice) Swap(i, j int) {
	a, b := s.recs[3*i:3*i+3], s.recs[3*j:3*j+3]
	a[0], b[0] = b[0], a[0]
	a[1], b[1] = b[1], a[1]
	a[2], b[2] = b[2], a[2]
}
