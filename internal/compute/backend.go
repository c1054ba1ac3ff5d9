package compute

import (
	"context"

	"github.com/san-kum/gravsim/internal/dynamo"
)

// RowKernel accumulates every pair (i, j) with j > i into acc, in ascending j.
type RowKernel interface {
	AccumulateRow(bodies dynamo.Bodies, i int, acc dynamo.Forces)
}

type Backend interface {
	Name() string
	Workers() int
	Forces(ctx context.Context, bodies dynamo.Bodies, acc dynamo.Forces, k RowKernel) error
}

// Range is a half-open interval of outer row indices.
type Range struct {
	Start, End int
}

func (r Range) Len() int { return r.End - r.Start }

// Partition splits rows [0, n) into at most parts contiguous ranges holding
// roughly equal numbers of pairs. Row i owns n-1-i pairs, so early ranges
// are shorter.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > n {
		parts = n
	}

	total := int64(n) * int64(n-1) / 2
	ranges := make([]Range, 0, parts)
	start := 0
	var cum int64

	for i := 0; i < n-1 && len(ranges) < parts-1; i++ {
		cum += int64(n - 1 - i)
		target := total * int64(len(ranges)+1) / int64(parts)
		if cum >= target {
			ranges = append(ranges, Range{Start: start, End: i + 1})
			start = i + 1
		}
	}

	return append(ranges, Range{Start: start, End: n})
}

// PairCount returns the number of unordered pairs among n bodies.
func PairCount(n int) int64 {
	if n < 2 {
		return 0
	}
	return int64(n) * int64(n-1) / 2
}
