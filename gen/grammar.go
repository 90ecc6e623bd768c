package gen

import (
	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"

	"github.com/exmem-systems/listrank/listrank"
)

// CycleExpr is an explicit traversal order, e.g. "3>1>4>2" for the cycle
// 3→1→4→2→3. The closing edge is implied.
type CycleExpr struct {
	Nodes []uint32 `@Int (">" @Int)*`
}

var parseCycleExpr = participle.MustBuild[CycleExpr]()

// ParseCycle parses an explicit cycle expression into its traversal order.
// Identifiers must be positive and distinct.
func ParseCycle(expr string) ([]uint32, error) {
	cx, err := parseCycleExpr.ParseString("", expr)
	if err != nil {
		return nil, errors.Wrap(listrank.ErrBadCycleExpr, err.Error())
	}
	seen := make(map[uint32]bool, len(cx.Nodes))
	for _, id := range cx.Nodes {
		if id == 0 {
			return nil, errors.Wrap(listrank.ErrBadCycleExpr, "identifiers start at 1")
		}
		if seen[id] {
			return nil, errors.Wrapf(listrank.ErrBadCycleExpr, "duplicate node %d", id)
		}
		seen[id] = true
	}
	return cx.Nodes, nil
}
