// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/energy"
)

// Engine generates operands, runs a strategy and turns the elapsed time into
// an energy estimate. It is safe for concurrent use; each run owns its
// matrices.
type Engine struct {
	gen              *matbench.Generator
	energy           energy.Model
	asyncParallelism int
	maxWorkingSet    uint64
}

// Option configures an Engine.
type Option func(*Engine)

// WithSeed makes operand generation deterministic.
func WithSeed(seed uint64) Option {
	return func(e *Engine) {
		e.gen = matbench.NewGenerator(seed)
	}
}

// WithGenerator sets the operand generator.
func WithGenerator(gen *matbench.Generator) Option {
	return func(e *Engine) {
		e.gen = gen
	}
}

// WithEnergyModel sets the energy heuristic coefficients.
func WithEnergyModel(m energy.Model) Option {
	return func(e *Engine) {
		e.energy = m
	}
}

// WithAsyncParallelism fixes the number of chunks used by async_parallel.
// 0 (the default) uses matbench.HardwareParallelism at run time.
func WithAsyncParallelism(n int) Option {
	return func(e *Engine) {
		e.asyncParallelism = max(n, 0)
	}
}

// WithMaxWorkingSetBytes caps the memory a single run may use. Larger runs
// fail with matbench.ErrRuntimeFault before any matrix is allocated.
// 0 (the default) uses matbench.MemoryLimit.
func WithMaxWorkingSetBytes(n uint64) Option {
	return func(e *Engine) {
		e.maxWorkingSet = n
	}
}

// NewEngine returns an engine with a randomly seeded generator and the
// default energy model, modified by opts.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{energy: energy.Default()}
	for _, opt := range opts {
		opt(e)
	}
	if e.gen == nil {
		e.gen = matbench.NewRandomGenerator()
	}
	if e.maxWorkingSet == 0 {
		e.maxWorkingSet = matbench.MemoryLimit()
	}
	return e
}

// Generator returns the engine's operand generator.
func (e *Engine) Generator() *matbench.Generator {
	return e.gen
}

// EnergyModel returns the engine's energy heuristic.
func (e *Engine) EnergyModel() energy.Model {
	return e.energy
}

// AsyncParallelism returns the chunk count async_parallel will use.
func (e *Engine) AsyncParallelism() int {
	if e.asyncParallelism > 0 {
		return e.asyncParallelism
	}
	return matbench.HardwareParallelism()
}

// MaxWorkingSetBytes returns the per-run memory cap.
func (e *Engine) MaxWorkingSetBytes() uint64 {
	return e.maxWorkingSet
}

// CheckWorkingSet returns an error wrapping matbench.ErrRuntimeFault if a
// size×size run of alg with threadCount workers would exceed the memory cap.
func (e *Engine) CheckWorkingSet(alg matbench.Algorithm, size, threadCount int) error {
	return WorkingSet(alg, size, threadCount).Check(e.maxWorkingSet)
}

// GenerateOperands checks the working set of the intended run and then
// generates two fresh operands. Generation panics are returned as errors
// wrapping matbench.ErrRuntimeFault.
func (e *Engine) GenerateOperands(alg matbench.Algorithm, size, threadCount int) (a, b *matbench.Matrix, err error) {
	if err = e.CheckWorkingSet(alg, size, threadCount); err != nil {
		return nil, nil, err
	}
	defer func() {
		if r := recover(); r != nil {
			klog.Warningf("generating operands of size %d: %v", size, r)
			a, b = nil, nil
			err = errors.WithMessage(matbench.FaultError(r), "generating operands")
		}
	}()
	a, b = e.gen.GeneratePair(size)
	return a, b, nil
}

// Handle validates req and runs it. Invalid requests return a
// *matbench.ValidationError and no result; no matrix is generated for them.
func (e *Engine) Handle(req Request) (*Result, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return e.Run(req), nil
}

// Run generates two fresh operands and multiplies them. Failures, including
// unknown algorithms, runs over the memory cap and recovered panics, are
// reported in Result.Err. Run assumes size and thread count were validated;
// see Handle.
func (e *Engine) Run(req Request) *Result {
	res := &Result{Algorithm: req.Algorithm, Size: req.Size, ThreadCount: req.ThreadCount}
	alg, err := matbench.ParseAlgorithm(req.Algorithm)
	if err != nil {
		res.Err = err
		return res
	}
	a, b, err := e.GenerateOperands(alg, req.Size, req.ThreadCount)
	if err != nil {
		res.Algorithm = string(alg)
		res.Err = err
		return res
	}
	return e.RunOperands(a, b, alg, req.ThreadCount)
}

// RunOperands multiplies the given operands, which are left unmodified.
// The product and scratch buffers are checked against the memory cap first.
func (e *Engine) RunOperands(a, b *matbench.Matrix, alg matbench.Algorithm, threadCount int) *Result {
	res := &Result{Algorithm: string(alg), Size: a.Size(), ThreadCount: threadCount}
	c, elapsed, err := multiply(a, b, alg, threadCount, e.AsyncParallelism(), e.maxWorkingSet)
	if err != nil {
		res.Err = err
		return res
	}
	res.Matrix = c
	res.ExecutionTimeSeconds = elapsed.Seconds()
	res.EnergyJoules = e.energy.Estimate(res.ExecutionTimeSeconds, threadCount, res.Size)
	return res
}
