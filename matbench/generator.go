// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"math/rand/v2"
	"sync"
	"sync/atomic"
)

// MaxValue is the exclusive upper bound of generated cell values.
const MaxValue = 100.0

// Generator produces random matrices with cells drawn uniformly from [0, MaxValue).
//
// A Generator is safe for concurrent use. Two generators built with the same
// seed produce the same sequence of matrices.
type Generator struct {
	mu        sync.Mutex
	rng       *rand.Rand
	generated atomic.Int64
}

// NewGenerator returns a deterministic generator for the given seed.
func NewGenerator(seed uint64) *Generator {
	return &Generator{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// NewRandomGenerator returns a generator seeded from the runtime's entropy,
// so repeated runs produce different matrices.
func NewRandomGenerator() *Generator {
	return NewGenerator(rand.Uint64())
}

// Generate returns a fresh size×size matrix. It panics if size < 1.
func (g *Generator) Generate(size int) *Matrix {
	m := New(size)
	g.mu.Lock()
	for i := range m.data {
		m.data[i] = g.rng.Float64() * MaxValue
	}
	g.mu.Unlock()
	g.generated.Add(1)
	return m
}

// GeneratePair returns two independent operands of the same size.
func (g *Generator) GeneratePair(size int) (a, b *Matrix) {
	return g.Generate(size), g.Generate(size)
}

// Generated returns how many matrices this generator has produced.
func (g *Generator) Generated() int64 {
	return g.generated.Load()
}
