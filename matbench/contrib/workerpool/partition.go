// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"slices"

	"github.com/pkg/errors"
)

// Range is the half-open index interval [Start, End) assigned to one unit of work.
type Range struct {
	Start, End int
}

// Len returns the number of indices in the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// Overlaps reports whether r and o share at least one index.
func (r Range) Overlaps(o Range) bool {
	return r.Start < o.End && o.Start < r.End
}

// Partition splits [0, n) into at most parts contiguous, non-empty, disjoint ranges.
// Every range but possibly the last has ceil(n/parts) indices, matching the
// "divide and round up" assignment of rows or block-rows to workers.
func Partition(n, parts int) []Range {
	if n <= 0 {
		return nil
	}
	parts = max(min(parts, n), 1)
	chunkSize := (n + parts - 1) / parts
	ranges := make([]Range, 0, parts)
	for start := 0; start < n; start += chunkSize {
		ranges = append(ranges, Range{Start: start, End: min(start+chunkSize, n)})
	}
	return ranges
}

// CheckPartition verifies that ranges are non-empty, pairwise disjoint and
// together cover exactly [0, n). Output cells are written without locks, so a
// partition that fails this check must never be handed to workers.
func CheckPartition(n int, ranges []Range) error {
	sorted := slices.Clone(ranges)
	slices.SortFunc(sorted, func(a, b Range) int { return a.Start - b.Start })
	next := 0
	for i, r := range sorted {
		if r.Len() <= 0 {
			return errors.Errorf("range %d [%d, %d) is empty", i, r.Start, r.End)
		}
		if i > 0 && sorted[i-1].Overlaps(r) {
			return errors.Errorf("ranges [%d, %d) and [%d, %d) overlap",
				sorted[i-1].Start, sorted[i-1].End, r.Start, r.End)
		}
		if r.Start != next {
			return errors.Errorf("indices [%d, %d) are not covered", next, r.Start)
		}
		next = r.End
	}
	if next != n {
		return errors.Errorf("partition covers [0, %d), want [0, %d)", next, n)
	}
	return nil
}
