// Package rank solves the external-memory linked-list ranking problem: an
// unordered stream of edges describing one cyclic list is materialized in
// traversal order starting from the smallest identifier, streaming through a
// bounded RAM arena with temp files for everything else.
//
// The pipeline: input edges → weighted triples → contraction iterations
// (random-mate pointer jumping, one trace file per iteration) until the
// survivors fit in RAM → in-RAM base ranking → expansion back through the
// traces → normalize, sort by rank, project identifiers.
package rank

import (
	"os"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/exmem-systems/listrank/listrank"
	"github.com/exmem-systems/listrank/stream"
)

type Config struct {
	// MemBudget is the arena size in bytes shared by every operator.
	MemBudget int

	// MergeRank is how many runs the sorter merges at a time.
	MergeRank int

	// Dir holds every temporary stream and the run pool.
	Dir string

	// Coin supplies the per-iteration random bits.
	Coin Coin
}

func (cfg *Config) setDefaults() {
	if cfg.MemBudget == 0 {
		cfg.MemBudget = listrank.DefaultMemBudget
	}
	if cfg.MergeRank == 0 {
		cfg.MergeRank = listrank.DefaultMergeRank
	}
	if cfg.Dir == "" {
		cfg.Dir = listrank.DefaultDir
	}
	if cfg.Coin == nil {
		cfg.Coin = NewEntropyCoin()
	}
}

// Run ranks the cyclic list described by in and writes the headerless
// traversal-order identifier stream to out.
func Run(in, out *os.File, cfg Config) error {
	cfg.setDefaults()
	arena := make([]byte, cfg.MemBudget)

	// Weight the raw edges: every edge initially spans one hop.
	w0, err := create(listrank.WeightedFile(cfg.Dir, 0))
	if err != nil {
		return err
	}
	n, err := stream.Map(in, w0, arena, listrank.EdgeFields, listrank.WeightedFields, true,
		func(src, dst []uint32) bool {
			dst[0] = src[0]
			dst[1] = src[1]
			dst[2] = 1
			return true
		})
	if cerr := w0.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return errors.Wrap(err, "weighting input")
	}
	if n == 0 {
		return nil
	}

	// Contract until the survivors fit the arena.
	fit := cfg.MemBudget / listrank.RecBytes(listrank.WindowFields)
	iters := 0
	for int(n) > fit {
		survivors, err := contract(&cfg, arena, iters)
		if err != nil {
			return errors.Wrapf(err, "contraction %d", iters)
		}
		klog.V(1).Infof("contraction %d: %d -> %d nodes", iters, n, survivors)
		n = survivors
		iters++
	}

	if err := solveBase(&cfg, arena, iters); err != nil {
		return errors.Wrap(err, "base ranking")
	}
	klog.V(1).Infof("base solved %d nodes after %d contractions", n, iters)

	for k := iters - 1; k >= 0; k-- {
		if err := expand(&cfg, arena, k); err != nil {
			return errors.Wrapf(err, "expansion %d", k)
		}
	}

	return errors.Wrap(finalize(&cfg, arena, out), "finalizing")
}

func create(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	return f, errors.Wrap(err, path)
}

func open(path string) (*os.File, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0644)
	return f, errors.Wrap(err, path)
}
