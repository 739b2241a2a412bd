// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"github.com/ajroetker/go-matbench/matbench"
)

// WorkingSet returns the memory one run of alg holds at its peak: the two
// operands and the product, the transposed B of improved_parallel, and the
// per-worker tile buffers of block_based.
func WorkingSet(alg matbench.Algorithm, n, threadCount int) *matbench.WorkingSet {
	ws := &matbench.WorkingSet{}
	ws.AddMatrices(n, 3)
	switch alg {
	case matbench.ImprovedParallel:
		ws.AddMatrices(n, 1)
	case matbench.BlockBased:
		// Representable matrices bound n well below MaxInt/BlockSize.
		if _, ok := ws.Bytes(); ok {
			ws.AddElements(BlockSize*n+BlockSize*BlockSize, min(threadCount, NumBlocks(n)))
		}
	}
	return ws
}
