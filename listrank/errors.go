package listrank

import "errors"

// Errors
var (
	ErrArenaTooSmall = errors.New("arena too small to split into record buffers")
	ErrBadMergeRank  = errors.New("merge rank below minimum")
	ErrBadHeader     = errors.New("stream header does not match contents")
	ErrPoolExhausted = errors.New("run pool has no runs left")
	ErrBrokenList    = errors.New("successor missing from list")
	ErrBadCycleExpr  = errors.New("bad cycle expression")
	ErrNotRanked     = errors.New("node has no rank in catalog")
)
