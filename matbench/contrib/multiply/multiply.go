// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/workerpool"
)

// Multiply computes C = A * B with the selected algorithm and returns C and
// the time spent computing it. A and B are not modified.
//
// It returns an error wrapping matbench.ErrUnknownAlgorithm for unrecognized
// algorithms and matbench.ErrRuntimeFault if the computation panicked. On
// error the product is nil. Multiply never panics.
//
// Runs whose working set (see WorkingSet) exceeds matbench.MemoryLimit fail
// with matbench.ErrRuntimeFault before anything is allocated.
//
// The async_parallel strategy ignores threadCount and chunks by
// matbench.HardwareParallelism.
func Multiply(a, b *matbench.Matrix, alg matbench.Algorithm, threadCount int) (*matbench.Matrix, time.Duration, error) {
	return multiply(a, b, alg, threadCount, matbench.HardwareParallelism(), matbench.MemoryLimit())
}

func multiply(a, b *matbench.Matrix, alg matbench.Algorithm, threadCount, asyncParallelism int, memoryLimit uint64) (c *matbench.Matrix, elapsed time.Duration, err error) {
	if !alg.Valid() {
		return nil, 0, errors.Wrapf(matbench.ErrUnknownAlgorithm, "%q", alg)
	}
	if a.Size() != b.Size() {
		return nil, 0, errors.Errorf("operand sizes differ: %d vs %d", a.Size(), b.Size())
	}
	if err := matbench.Validate(a.Size(), threadCount); err != nil {
		return nil, 0, err
	}
	if err := WorkingSet(alg, a.Size(), threadCount).Check(memoryLimit); err != nil {
		return nil, 0, err
	}

	defer func() {
		if r := recover(); r != nil {
			klog.Warningf("multiply %s (size=%d, threads=%d) recovered from panic: %v", alg, a.Size(), threadCount, r)
			c, elapsed, err = nil, 0, matbench.FaultError(r)
		}
	}()

	n := a.Size()
	c = matbench.New(n)
	ad, bd, cd := a.Data(), b.Data(), c.Data()

	var pool *workerpool.Pool
	if alg == matbench.BasicParallel || alg == matbench.ImprovedParallel || alg == matbench.BlockBased {
		pool = workerpool.New(threadCount)
		defer pool.Close()
	}

	start := time.Now()
	switch alg {
	case matbench.Sequential:
		sequential(ad, bd, cd, n)
	case matbench.BasicParallel:
		basicParallel(pool, ad, bd, cd, n)
	case matbench.ImprovedParallel:
		improvedParallel(pool, ad, bd, cd, n)
	case matbench.BlockBased:
		blockBased(pool, ad, bd, cd, n)
	case matbench.AsyncParallel:
		if err := asyncParallel(ad, bd, cd, n, asyncParallelism); err != nil {
			return nil, 0, err
		}
	}
	elapsed = time.Since(start)

	klog.V(1).Infof("multiply %s: size=%d threads=%d took %s", alg, n, threadCount, elapsed)
	return c, elapsed, nil
}
