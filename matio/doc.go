// Package matio reads and writes matrices in a small line-oriented text
// format, round-trip safe at full float64 precision.
//
// A dense matrix is a header line "# dense <rows> <cols>" followed by one
// whitespace-separated row per line. A sparse matrix is a header line
// "# sparse <rows> <cols>" followed by one "<i> <j> <value>" triplet per
// line with 1-based indices; repeated triplets for the same entry are summed
// on reading. Values are formatted with %.16g and round-trip at the written
// precision.
//
// The Save variants write to a file path and tag failures with ErrWrite and
// the path, so callers can report which output failed.
package matio
