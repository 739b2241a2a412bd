// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package optimizer

import (
	"math"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/energy"
	"github.com/ajroetker/go-matbench/matbench/contrib/multiply"
)

// scriptedRunner returns preset times per (algorithm, thread count) so the
// search can be tested without depending on wall-clock measurements.
type scriptedRunner struct {
	gen      *matbench.Generator
	model    energy.Model
	baseline float64
	times    map[int]float64
	fail     map[int]error
	calls    []int
	operands []*matbench.Matrix

	// genErr, if set, is returned by GenerateOperands without generating.
	genErr error
}

func newScriptedRunner(baseline float64, times map[int]float64) *scriptedRunner {
	return &scriptedRunner{
		gen:      matbench.NewGenerator(1),
		model:    energy.Default(),
		baseline: baseline,
		times:    times,
	}
}

func (r *scriptedRunner) GenerateOperands(_ matbench.Algorithm, size, _ int) (a, b *matbench.Matrix, err error) {
	if r.genErr != nil {
		return nil, nil, r.genErr
	}
	a, b = r.gen.GeneratePair(size)
	return a, b, nil
}

func (r *scriptedRunner) RunOperands(a, b *matbench.Matrix, alg matbench.Algorithm, threadCount int) *multiply.Result {
	res := &multiply.Result{Algorithm: string(alg), Size: a.Size(), ThreadCount: threadCount}
	r.operands = append(r.operands, a)
	if err := r.fail[threadCount]; err != nil && alg != matbench.Sequential {
		res.Err = err
		return res
	}
	secs := r.baseline
	if alg != matbench.Sequential {
		r.calls = append(r.calls, threadCount)
		secs = r.times[threadCount]
	}
	res.ExecutionTimeSeconds = secs
	res.EnergyJoules = r.model.Estimate(secs, threadCount, a.Size())
	res.Matrix = matbench.New(a.Size())
	return res
}

func TestFindOptimalPicksLowestScore(t *testing.T) {
	runner := newScriptedRunner(1.0, map[int]float64{1: 1.0, 2: 0.55, 3: 0.40, 4: 0.42})
	res, err := New(runner, Config{}).FindOptimal(8, 4)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3, 4}, runner.calls, "sweep runs 1..max in order")
	assert.Equal(t, 8, res.MatrixSize)
	assert.Equal(t, 3, res.OptimalThreadCount)
	assert.Equal(t, 0.40, res.MinExecutionTimeSeconds)
	require.Len(t, res.Trials, 4)

	model := energy.Default()
	wantEnergy := model.Estimate(0.40, 3, 8)
	assert.InDelta(t, wantEnergy, res.MinEnergyJoules, 1e-12)
	wantScore := 0.99*0.40 + 0.01*wantEnergy/model.Estimate(1.0, 1, 8)
	assert.InDelta(t, wantScore, res.Score, 1e-12)
	assert.LessOrEqual(t, res.Score, res.Trials[0].Score)
}

func TestFindOptimalTiesKeepSmallerThreadCount(t *testing.T) {
	// Memory-free model so that equal times give equal scores.
	runner := newScriptedRunner(1.0, map[int]float64{1: 0.5, 2: 0.25, 3: 0.25, 4: 0.25})
	runner.model = energy.Model{CPUWattPerCore: 0, MemoryWattPerGiB: 2}
	res, err := New(runner, Config{}).FindOptimal(4, 4)
	require.NoError(t, err)
	assert.Equal(t, 2, res.OptimalThreadCount)
}

func TestFindOptimalBounds(t *testing.T) {
	engine := multiply.NewEngine(multiply.WithSeed(3))
	for _, maxThreads := range []int{1, 2, 5} {
		res, err := New(engine, Config{}).FindOptimal(40, maxThreads)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, res.OptimalThreadCount, 1)
		assert.LessOrEqual(t, res.OptimalThreadCount, maxThreads)
		require.Len(t, res.Trials, maxThreads)
		assert.LessOrEqual(t, res.Score, res.Trials[0].Score)
		for _, trial := range res.Trials {
			assert.GreaterOrEqual(t, trial.Score, res.Score)
		}
	}
}

func TestFindOptimalDefaultsAndOperands(t *testing.T) {
	runner := newScriptedRunner(1.0, map[int]float64{})
	var seen []int
	opt := New(runner, Config{MaxThreadCount: 3, OnTrial: func(tr Trial) { seen = append(seen, tr.ThreadCount) }})
	assert.Equal(t, matbench.BlockBased, opt.Config().Algorithm)
	assert.Equal(t, DefaultTimeWeight, opt.Config().TimeWeight)

	_, err := opt.FindOptimal(5, 0)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, seen)
	assert.Equal(t, int64(2), runner.gen.Generated(), "one fixed pair for the whole sweep")
	for _, a := range runner.operands {
		assert.Same(t, runner.operands[0], a)
	}

	fresh := newScriptedRunner(1.0, map[int]float64{})
	_, err = New(fresh, Config{FreshOperands: true}).FindOptimal(5, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2+2*3), fresh.gen.Generated())

	assert.Equal(t, DefaultMaxThreadCount, New(runner, Config{}).Config().MaxThreadCount)
}

func TestFindOptimalZeroBaseline(t *testing.T) {
	runner := newScriptedRunner(0, map[int]float64{1: 0, 2: 0})
	res, err := New(runner, Config{}).FindOptimal(4, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, res.OptimalThreadCount)
	assert.Positive(t, res.BaselineTimeSeconds)
	assert.False(t, math.IsNaN(res.Score))
}

func TestFindOptimalValidation(t *testing.T) {
	runner := newScriptedRunner(1, nil)
	_, err := New(runner, Config{}).FindOptimal(0, 4)
	require.ErrorIs(t, err, matbench.ErrInvalidSize)
	_, err = New(runner, Config{}).FindOptimal(4, -1)
	require.ErrorIs(t, err, matbench.ErrInvalidThreadCount)
	assert.Zero(t, runner.gen.Generated())
}

func TestFindOptimalTrialFailure(t *testing.T) {
	runner := newScriptedRunner(1, map[int]float64{1: 1})
	sentinel := errors.New("out of memory")
	runner.fail = map[int]error{2: sentinel}
	_, err := New(runner, Config{}).FindOptimal(4, 3)
	require.ErrorIs(t, err, sentinel)
}

func TestScore(t *testing.T) {
	assert.InDelta(t, 1.0, Score(1, 1, DefaultTimeWeight), 1e-12)
	assert.InDelta(t, 0.99*0.5+0.01*2, Score(0.5, 2, DefaultTimeWeight), 1e-12)
	assert.InDelta(t, 2.0, Score(0.5, 2, 0), 1e-12)
}

func TestFindOptimalConfigValidation(t *testing.T) {
	runner := newScriptedRunner(1, map[int]float64{1: 1})
	for _, w := range []float64{-0.5, 1.5, math.NaN()} {
		_, err := New(runner, Config{TimeWeight: w}).FindOptimal(4, 2)
		require.ErrorIs(t, err, ErrInvalidTimeWeight, "weight=%g", w)
	}
	_, err := New(runner, Config{Algorithm: "bogus"}).FindOptimal(4, 2)
	require.ErrorIs(t, err, matbench.ErrUnknownAlgorithm)
	assert.Zero(t, runner.gen.Generated())

	assert.NoError(t, Config{TimeWeight: 1, Algorithm: matbench.Sequential}.Validate())
	assert.Equal(t, DefaultTimeWeight, New(runner, Config{TimeWeight: 0}).Config().TimeWeight)
}

func TestFindOptimalRejectsOversizedRuns(t *testing.T) {
	runner := newScriptedRunner(1, nil)
	runner.genErr = errors.Wrap(matbench.ErrRuntimeFault, "working set exceeds limit")
	_, err := New(runner, Config{}).FindOptimal(4, 2)
	require.ErrorIs(t, err, matbench.ErrRuntimeFault)
	assert.Empty(t, runner.calls)

	engine := multiply.NewEngine(multiply.WithSeed(1))
	_, err = New(engine, Config{}).FindOptimal(1<<20, 2)
	require.ErrorIs(t, err, matbench.ErrRuntimeFault)
	assert.Zero(t, engine.Generator().Generated())

	// Three 8×8 matrices fit in 2 KiB but the block buffers of the sweep do not.
	small := multiply.NewEngine(multiply.WithSeed(1), multiply.WithMaxWorkingSetBytes(2048))
	_, err = New(small, Config{}).FindOptimal(8, 2)
	require.ErrorIs(t, err, matbench.ErrRuntimeFault)
	assert.Zero(t, small.Generator().Generated())
}
