// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package compare

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/multiply"
)

func TestSpeedupAndEfficiency(t *testing.T) {
	assert.InDelta(t, 4.0, Speedup(2.0, 0.5), 1e-12)
	assert.Equal(t, 1.0, Speedup(2.0, 0))
	assert.InDelta(t, 50.0, Efficiency(4.0, 8), 1e-12)
	assert.InDelta(t, 100.0, Efficiency(1.0, 1), 1e-12)
	assert.Zero(t, Efficiency(2, 0))
}

func TestRun(t *testing.T) {
	engine := multiply.NewEngine(multiply.WithSeed(4))
	report, err := Run(engine, 48, 4)
	require.NoError(t, err)

	_, err = uuid.Parse(report.RunID)
	require.NoError(t, err)
	assert.Equal(t, 48, report.MatrixSize)
	assert.Equal(t, 4, report.ThreadCount)
	require.Len(t, report.Entries, len(matbench.Algorithms()))
	assert.Equal(t, int64(2), engine.Generator().Generated(), "one operand pair shared by all strategies")

	seq, ok := report.Entry(matbench.Sequential)
	require.True(t, ok)
	assert.Equal(t, 1.0, seq.Speedup)
	assert.Equal(t, 100.0, seq.Efficiency)
	assert.Zero(t, seq.MaxAbsDiff)
	assert.Equal(t, "Sequential Algorithm", seq.Name)

	for _, e := range report.Entries {
		assert.Empty(t, e.Error, e.Algorithm)
		assert.Less(t, e.MaxAbsDiff, 1e-6, e.Algorithm)
		assert.GreaterOrEqual(t, e.Speedup, 0.0, e.Algorithm)
		if e.Algorithm != matbench.Sequential {
			assert.InDelta(t, e.Speedup/4*100, e.Efficiency, 1e-9, e.Algorithm)
		}
	}

	fastest, ok := report.Fastest()
	require.True(t, ok)
	for _, e := range report.Entries {
		assert.LessOrEqual(t, fastest.ExecutionTimeSeconds, e.ExecutionTimeSeconds)
	}
}

func TestRunValidation(t *testing.T) {
	engine := multiply.NewEngine(multiply.WithSeed(4))
	_, err := Run(engine, 0, 4)
	require.ErrorIs(t, err, matbench.ErrInvalidSize)
	_, err = Run(engine, 4, 0)
	require.ErrorIs(t, err, matbench.ErrInvalidThreadCount)
	assert.Zero(t, engine.Generator().Generated())
}

func TestFastestWithoutSuccess(t *testing.T) {
	r := &Report{Entries: []Entry{{Algorithm: matbench.Sequential, Error: "boom"}}}
	_, ok := r.Fastest()
	assert.False(t, ok)
	_, ok = r.Entry(matbench.BlockBased)
	assert.False(t, ok)
}

func TestRunMemoryCap(t *testing.T) {
	engine := multiply.NewEngine(multiply.WithSeed(4))
	_, err := Run(engine, 1<<20, 2)
	require.ErrorIs(t, err, matbench.ErrRuntimeFault)
	assert.Zero(t, engine.Generator().Generated())

	// Three 12×12 matrices fit in 4 KiB; the transpose and block buffers do not.
	capped := multiply.NewEngine(multiply.WithSeed(4), multiply.WithMaxWorkingSetBytes(4096))
	report, err := Run(capped, 12, 2)
	require.NoError(t, err)
	for _, e := range report.Entries {
		switch e.Algorithm {
		case matbench.ImprovedParallel, matbench.BlockBased:
			assert.Contains(t, e.Error, "exceeds limit", e.Algorithm)
		default:
			assert.Empty(t, e.Error, e.Algorithm)
		}
	}
	fastest, ok := report.Fastest()
	require.True(t, ok)
	assert.Empty(t, fastest.Error)
}
