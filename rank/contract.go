package rank

import (
	"os"

	"github.com/exmem-systems/listrank/extsort"
	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

// contract runs one random-mate pointer-jumping iteration: flag every node,
// self-join the list over the flags, write the seven-field trace for the
// expansion phase, and splice out the dying nodes. Returns the survivor
// count, expected to be 3/4 of the input.
func contract(cfg *Config, arena []byte, k int) (uint32, error) {
	dir := cfg.Dir

	// Flag: three -> four, appending a fresh coin flip per node.
	wk, err := open(listrank.WeightedFile(dir, k))
	if err != nil {
		return 0, err
	}
	flagged, err := create(listrank.JoinResultFile(dir))
	if err != nil {
		wk.Close()
		return 0, err
	}
	_, err = stream.Map(wk, flagged, arena, listrank.WeightedFields, listrank.FlaggedFields, true,
		func(src, dst []uint32) bool {
			copy(dst, src)
			dst[3] = cfg.Coin.Flip()
			return true
		})
	wk.Close()
	flagged.Close()
	if err != nil {
		return 0, err
	}

	// Two views of the flagged stream: sorted by node and by successor.
	merger := extsort.NewMerger(arena, dir, listrank.FlaggedFields)
	if err = sortFile(merger, listrank.JoinResultFile(dir), listrank.JoinLeftFile(dir),
		listrank.ByField(0), cfg.MergeRank); err != nil {
		return 0, err
	}
	if err = sortFile(merger, listrank.JoinResultFile(dir), listrank.JoinRightFile(dir),
		listrank.ByField(1), cfg.MergeRank); err != nil {
		return 0, err
	}

	// Self-join over the flags. Position t of the by-node view holds the
	// t-th smallest id; position t of the by-successor view holds the edge
	// arriving at that same id. The combined record describes the arriving
	// edge's origin x with its two-step window:
	// (x, n(x), n(n(x)), w(x), f(x), f(n(x))), emitted in n(x) order.
	left, right, result, err := openJoinFiles(dir)
	if err != nil {
		return 0, err
	}
	_, err = stream.Join(left, right, result, arena,
		listrank.FlaggedFields, listrank.FlaggedFields, listrank.WindowFields,
		func(l, r, dst []uint32) {
			dst[0] = r[0]
			dst[1] = r[1]
			dst[2] = l[1]
			dst[3] = r[2]
			dst[4] = r[3]
			dst[5] = l[3]
		})
	closeAll(left, right, result)
	if err != nil {
		return 0, err
	}

	// The trace wants each node j paired with its predecessor's window, so
	// sort a second view by the window's own node and join it positionally
	// against the by-successor ordering still in the result file.
	winMerger := extsort.NewMerger(arena, dir, listrank.WindowFields)
	if err = sortFile(winMerger, listrank.JoinResultFile(dir), listrank.JoinLeftFile(dir),
		listrank.ByField(0), cfg.MergeRank); err != nil {
		return 0, err
	}

	byNode, err := open(listrank.JoinLeftFile(dir))
	if err != nil {
		return 0, err
	}
	byNext, err := open(listrank.JoinResultFile(dir))
	if err != nil {
		byNode.Close()
		return 0, err
	}
	trace, err := create(listrank.TraceFile(dir, k))
	if err != nil {
		closeAll(byNode, byNext)
		return 0, err
	}
	_, err = stream.Join(byNode, byNext, trace, arena,
		listrank.WindowFields, listrank.WindowFields, listrank.TraceFields,
		func(l, r, dst []uint32) {
			// l is j's own window, r is p(j)'s window (its successor is j).
			dst[listrank.TracePred] = r[0]
			dst[listrank.TracePredDying] = r[4] &^ r[5]
			dst[listrank.TracePredWeight] = r[3]
			dst[listrank.TraceNode] = l[0]
			dst[listrank.TraceNext] = l[1]
			dst[listrank.TraceDying] = l[4] &^ l[5]
			dst[listrank.TraceWeight] = l[3]
		})
	closeAll(byNode, byNext, trace)
	if err != nil {
		return 0, err
	}

	// Reduce: splice dying nodes out of the list, summing weights. An edge
	// whose origin dies is dropped here and re-emitted, lengthened, by the
	// dying node's own row.
	traceIn, err := open(listrank.TraceFile(dir, k))
	if err != nil {
		return 0, err
	}
	next, err := create(listrank.WeightedFile(dir, k+1))
	if err != nil {
		traceIn.Close()
		return 0, err
	}
	survivors, err := stream.Map(traceIn, next, arena, listrank.TraceFields, listrank.WeightedFields, true,
		func(src, dst []uint32) bool {
			if src[listrank.TracePredDying] == 1 {
				return false
			}
			dst[0] = src[listrank.TracePred]
			if src[listrank.TraceDying] == 1 {
				dst[1] = src[listrank.TraceNext]
				dst[2] = src[listrank.TracePredWeight] + src[listrank.TraceWeight]
			} else {
				dst[1] = src[listrank.TraceNode]
				dst[2] = src[listrank.TracePredWeight]
			}
			return true
		})
	closeAll(traceIn, next)
	return survivors, err
}

func sortFile(m *extsort.Merger, inPath, outPath string, cmp listrank.Compare, mergeRank int) error {
	in, err := open(inPath)
	if err != nil {
		return err
	}
	out, err := create(outPath)
	if err != nil {
		in.Close()
		return err
	}
	err = m.Sort(in, out, cmp, mergeRank)
	closeAll(in, out)
	return err
}

func openJoinFiles(dir string) (left, right, result *os.File, err error) {
	if left, err = open(listrank.JoinLeftFile(dir)); err != nil {
		return nil, nil, nil, err
	}
	if right, err = open(listrank.JoinRightFile(dir)); err != nil {
		left.Close()
		return nil, nil, nil, err
	}
	if result, err = create(listrank.JoinResultFile(dir)); err != nil {
		closeAll(left, right)
		return nil, nil, nil, err
	}
	return left, right, result, nil
}

func closeAll(files ...*os.File) {
	for _, f := range files {
		f.Close()
	}
}
