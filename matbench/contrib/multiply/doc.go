// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package multiply implements the five square matrix multiplication
// strategies and the engine that times them.
//
//   - sequential: the canonical i/j/k triple loop on the calling goroutine.
//   - basic_parallel: output rows split into contiguous ranges, one per worker.
//   - improved_parallel: B transposed in parallel first, then rows split as in
//     basic_parallel, walking both operands with unit stride.
//   - block_based: 32×32 tiles, contiguous runs of block-rows per worker, with
//     thread-local copies of the B rows and A tile being multiplied.
//   - async_parallel: one task per row chunk, chunked by hardware parallelism
//     rather than by the requested thread count, joined with an errgroup.
//
// Every parallel strategy writes disjoint output ranges, so the product is
// never locked. Results agree with sequential within floating-point tolerance
// but not bit for bit, since the summation order differs.
//
// Example usage:
//
//	engine := multiply.NewEngine(multiply.WithSeed(1))
//	res := engine.Run(multiply.Request{Size: 512, ThreadCount: 8, Algorithm: "block_based"})
//	if res.Err != nil {
//	    // The error is part of the result; nothing panics out of Run.
//	}
package multiply
