//go:build !localtest

package listrank

// DefaultDir is where the pipeline keeps its temporary streams.
const DefaultDir = "."
