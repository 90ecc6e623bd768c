package rank

import (
	"github.com/exmem-systems/listrank/extsort"
	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

// expand reconstructs the ranks of iteration k from the trace it left
// behind and the ranks of iteration k+1. Every trace row yields the rank of
// its predecessor column: directly from the contracted ranking when the
// predecessor survived, or as r(j) minus the spliced edge's weight when it
// died. The predecessor column is a bijection over the nodes alive at
// iteration k, so one emitted pair per row rebuilds the complete ranking.
func expand(cfg *Config, arena []byte, k int) error {
	dir := cfg.Dir

	// Attach r(j) to each trace row. A dying j has no rank yet; its row
	// passes through with the rank field zero and the right cursor held.
	// That zero is never read: a dying j implies a surviving predecessor,
	// which takes the other branch below.
	trace, err := open(listrank.TraceFile(dir, k))
	if err != nil {
		return err
	}
	ranked, err := open(listrank.RankedFile(dir, k+1))
	if err != nil {
		trace.Close()
		return err
	}
	withRank, err := create(listrank.JoinResultFile(dir))
	if err != nil {
		closeAll(trace, ranked)
		return err
	}
	_, err = stream.LeftJoin(trace, ranked, withRank, arena,
		listrank.TraceFields, listrank.EdgeFields, listrank.TraceRankFields,
		func(l, r []uint32, rvalid bool, dst []uint32) (bool, bool) {
			copy(dst, l)
			match := rvalid && r[0] == l[listrank.TraceNode]
			if match {
				dst[listrank.TraceFields] = r[1]
			} else {
				dst[listrank.TraceFields] = 0
			}
			return true, match
		})
	closeAll(trace, ranked, withRank)
	if err != nil {
		return err
	}

	// Re-key by predecessor and attach r(p(j)) the same way.
	merger := extsort.NewMerger(arena, dir, listrank.TraceRankFields)
	if err = sortFile(merger, listrank.JoinResultFile(dir), listrank.JoinLeftFile(dir),
		listrank.ByField(listrank.TracePred), cfg.MergeRank); err != nil {
		return err
	}

	byPred, err := open(listrank.JoinLeftFile(dir))
	if err != nil {
		return err
	}
	ranked, err = open(listrank.RankedFile(dir, k+1))
	if err != nil {
		byPred.Close()
		return err
	}
	full, err := create(listrank.JoinRightFile(dir))
	if err != nil {
		closeAll(byPred, ranked)
		return err
	}
	_, err = stream.LeftJoin(byPred, ranked, full, arena,
		listrank.TraceRankFields, listrank.EdgeFields, listrank.TraceFullFields,
		func(l, r []uint32, rvalid bool, dst []uint32) (bool, bool) {
			copy(dst[1:], l)
			match := rvalid && r[0] == l[listrank.TracePred]
			if match {
				dst[0] = r[1]
			} else {
				dst[0] = 0
			}
			return true, match
		})
	closeAll(byPred, ranked, full)
	if err != nil {
		return err
	}

	// Project each row to its predecessor's rank pair, still in p(j) order.
	full, err = open(listrank.JoinRightFile(dir))
	if err != nil {
		return err
	}
	out, err := create(listrank.RankedFile(dir, k))
	if err != nil {
		full.Close()
		return err
	}
	_, err = stream.Map(full, out, arena, listrank.TraceFullFields, listrank.EdgeFields, true,
		func(src, dst []uint32) bool {
			dst[0] = src[1+listrank.TracePred]
			if src[1+listrank.TracePredDying] == 0 {
				dst[1] = src[0]
			} else {
				dst[1] = src[1+listrank.TraceFields] - src[1+listrank.TracePredWeight]
			}
			return true
		})
	closeAll(full, out)
	return err
}
