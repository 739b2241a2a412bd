// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"slices"
	"strings"

	"github.com/pkg/errors"
)

// Algorithm identifies one of the multiplication strategies.
type Algorithm string

const (
	// Sequential is the single-threaded triple loop, used as the timing baseline.
	Sequential Algorithm = "sequential"

	// BasicParallel splits output rows across workers.
	BasicParallel Algorithm = "basic_parallel"

	// ImprovedParallel transposes B first so both operands are walked with unit stride.
	ImprovedParallel Algorithm = "improved_parallel"

	// BlockBased tiles the problem into BlockSize×BlockSize blocks and splits block-rows across workers.
	BlockBased Algorithm = "block_based"

	// AsyncParallel spawns one task per row chunk, chunked by hardware parallelism.
	AsyncParallel Algorithm = "async_parallel"
)

var allAlgorithms = []Algorithm{Sequential, BasicParallel, ImprovedParallel, BlockBased, AsyncParallel}

var displayNames = map[Algorithm]string{
	Sequential:       "Sequential Algorithm",
	BasicParallel:    "Basic Parallel Algorithm",
	ImprovedParallel: "Improved Parallel Algorithm",
	BlockBased:       "Block-Based Parallel Algorithm",
	AsyncParallel:    "Async Parallel Algorithm",
}

// Algorithms returns every recognized algorithm, sequential first.
func Algorithms() []Algorithm {
	return slices.Clone(allAlgorithms)
}

// ParseAlgorithm matches s case-insensitively against the known identifiers.
// Unrecognized names return an error wrapping ErrUnknownAlgorithm.
func ParseAlgorithm(s string) (Algorithm, error) {
	alg := Algorithm(strings.ToLower(strings.TrimSpace(s)))
	if !alg.Valid() {
		return alg, errors.Wrapf(ErrUnknownAlgorithm, "%q", s)
	}
	return alg, nil
}

// Valid reports whether a is one of the recognized identifiers.
func (a Algorithm) Valid() bool {
	return slices.Contains(allAlgorithms, a)
}

// DisplayName returns the human-readable name, or the raw identifier if unknown.
func (a Algorithm) DisplayName() string {
	if name, ok := displayNames[a]; ok {
		return name
	}
	return string(a)
}

// IsParallel reports whether the algorithm uses more than the calling goroutine.
func (a Algorithm) IsParallel() bool {
	return a.Valid() && a != Sequential
}

func (a Algorithm) String() string {
	return string(a)
}
