// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"github.com/ajroetker/go-matbench/matbench/contrib/workerpool"
)

// RowRanges returns the output row ranges assigned to workers by the
// row-partitioned strategies for an n×n product.
func RowRanges(n, threadCount int) []workerpool.Range {
	return workerpool.Partition(n, threadCount)
}

// basicParallel splits the output rows across the pool's workers, as
// RowRanges does; each worker computes whole rows with the same loops as
// sequential.
func basicParallel(pool *workerpool.Pool, a, b, c []float64, n int) {
	pool.ParallelFor(n, func(start, end int) {
		multiplyRows(a, b, c, n, start, end)
	})
}

// transposeParallel writes the transpose of src into dst, one row of dst per
// unit of work. Units write disjoint rows of dst.
func transposeParallel(pool *workerpool.Pool, src, dst []float64, n int) {
	pool.ParallelForAtomic(n, func(i int) {
		dstRow := dst[i*n : (i+1)*n]
		for j := range dstRow {
			dstRow[j] = src[j*n+i]
		}
	})
}

// improvedParallel transposes B, then splits output rows across workers as
// basicParallel does, computing sum += A[i,k] * Bᵗ[j,k] so that both operands
// are read sequentially.
func improvedParallel(pool *workerpool.Pool, a, b, c []float64, n int) {
	bt := make([]float64, n*n)
	transposeParallel(pool, b, bt, n)

	pool.Run(RowRanges(n, pool.NumWorkers()), func(start, end int) {
		enterUnit(start, end)
		for i := start; i < end; i++ {
			aRow := a[i*n : (i+1)*n]
			cRow := c[i*n : (i+1)*n]
			for j := range n {
				btRow := bt[j*n : (j+1)*n]
				var sum float64
				for k, aik := range aRow {
					sum += aik * btRow[k]
				}
				cRow[j] = sum
			}
		}
	})
}
