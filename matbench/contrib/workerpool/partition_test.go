// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package workerpool

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestPartition(t *testing.T) {
	testCases := []struct {
		name  string
		n     int
		parts int
		want  []Range
	}{
		{"even", 8, 4, []Range{{0, 2}, {2, 4}, {4, 6}, {6, 8}}},
		{"round up", 10, 4, []Range{{0, 3}, {3, 6}, {6, 9}, {9, 10}}},
		{"more parts than items", 3, 8, []Range{{0, 1}, {1, 2}, {2, 3}}},
		{"single part", 5, 1, []Range{{0, 5}}},
		{"zero parts", 5, 0, []Range{{0, 5}}},
		{"ceil leaves fewer ranges", 9, 4, []Range{{0, 3}, {3, 6}, {6, 9}}},
		{"empty", 0, 4, nil},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Partition(tc.n, tc.parts)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Errorf("Partition(%d, %d) mismatch (-want +got):\n%s", tc.n, tc.parts, diff)
			}
			if tc.n > 0 {
				if err := CheckPartition(tc.n, got); err != nil {
					t.Errorf("CheckPartition: %v", err)
				}
			}
		})
	}
}

func TestPartitionAlwaysDisjoint(t *testing.T) {
	for n := 1; n <= 130; n++ {
		for parts := 1; parts <= 40; parts++ {
			ranges := Partition(n, parts)
			if len(ranges) > parts {
				t.Fatalf("Partition(%d, %d) returned %d ranges", n, parts, len(ranges))
			}
			if err := CheckPartition(n, ranges); err != nil {
				t.Fatalf("Partition(%d, %d): %v", n, parts, err)
			}
		}
	}
}

func TestCheckPartitionRejects(t *testing.T) {
	testCases := []struct {
		name   string
		n      int
		ranges []Range
	}{
		{"overlap", 10, []Range{{0, 6}, {5, 10}}},
		{"gap", 10, []Range{{0, 4}, {5, 10}}},
		{"short", 10, []Range{{0, 4}, {4, 9}}},
		{"too long", 10, []Range{{0, 4}, {4, 11}}},
		{"empty range", 10, []Range{{0, 10}, {10, 10}}},
		{"duplicate", 4, []Range{{0, 4}, {0, 4}}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if err := CheckPartition(tc.n, tc.ranges); err == nil {
				t.Errorf("CheckPartition(%d, %v) = nil, want error", tc.n, tc.ranges)
			}
		})
	}
}

func TestRangeOverlaps(t *testing.T) {
	if (Range{0, 3}).Overlaps(Range{3, 5}) {
		t.Error("adjacent ranges must not overlap")
	}
	if !(Range{0, 4}).Overlaps(Range{3, 5}) {
		t.Error("ranges sharing index 3 must overlap")
	}
}
