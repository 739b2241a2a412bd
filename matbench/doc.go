// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package matbench holds the core types shared by the matrix multiplication
// benchmark: the dense square Matrix, a seedable random Generator, the
// Algorithm identifiers and the error taxonomy used by the engine.
//
// The strategies themselves live in the contrib/multiply package, the energy
// heuristic in contrib/energy and the thread-count search in contrib/optimizer.
//
// Example usage:
//
//	gen := matbench.NewGenerator(42)
//	a := gen.Generate(512)
//	b := gen.Generate(512)
//
//	c, elapsed, err := multiply.Multiply(a, b, matbench.BlockBased, 8)
//
// Matrices are row-major and square. A Matrix is never shared across
// concurrent requests; each request owns its operands and its product.
package matbench
