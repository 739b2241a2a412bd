// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"github.com/ajroetker/go-matbench/matbench/contrib/workerpool"
)

// BlockSize is the tile edge of the block-based strategy.
// 3 tiles of 32×32 float64 = 24KB, within a typical 32KB L1d.
const BlockSize = 32

// NumBlocks returns how many BlockSize tiles cover n, rounding up.
func NumBlocks(n int) int {
	return (n + BlockSize - 1) / BlockSize
}

// BlockRanges returns the block-row ranges assigned to workers: the block
// count divided by the thread count, rounded up, as contiguous runs.
func BlockRanges(n, threadCount int) []workerpool.Range {
	return workerpool.Partition(NumBlocks(n), threadCount)
}

// blockBased computes C = A * B tile by tile.
//
// For each assigned block-row and each k-block it copies the BlockSize rows
// of B into a contiguous buffer, then for each j-block copies the matching
// tile of A into a second buffer and accumulates the tile product into C.
// Both buffers are owned by one worker. Edge tiles are clipped to n.
func blockBased(pool *workerpool.Pool, a, b, c []float64, n int) {
	clear(c)

	pool.Run(BlockRanges(n, pool.NumWorkers()), func(startBlock, endBlock int) {
		enterUnit(startBlock, endBlock)
		bBlock := make([]float64, BlockSize*n)
		aBlock := make([]float64, BlockSize*BlockSize)

		for blockI := startBlock; blockI < endBlock; blockI++ {
			i0 := blockI * BlockSize
			i1 := min(i0+BlockSize, n)

			for k0 := 0; k0 < n; k0 += BlockSize {
				k1 := min(k0+BlockSize, n)
				kw := k1 - k0

				// Rows k0..k1 of B, full width.
				bRows := bBlock[:kw*n]
				copy(bRows, b[k0*n:k1*n])

				for j0 := 0; j0 < n; j0 += BlockSize {
					j1 := min(j0+BlockSize, n)

					// Tile A[i0:i1, k0:k1], row-major with stride kw.
					for i := i0; i < i1; i++ {
						copy(aBlock[(i-i0)*kw:(i-i0+1)*kw], a[i*n+k0:i*n+k1])
					}

					for i := i0; i < i1; i++ {
						aRow := aBlock[(i-i0)*kw : (i-i0+1)*kw]
						cRow := c[i*n : (i+1)*n]
						for j := j0; j < j1; j++ {
							var sum float64
							for k, aik := range aRow {
								sum += aik * bRows[k*n+j]
							}
							cRow[j] += sum
						}
					}
				}
			}
		}
	})
}
