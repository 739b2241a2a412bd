// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package optimizer searches for the thread count that minimizes a weighted
// time/energy score for the block-based strategy.
//
// A sequential run provides the baseline. Each thread count t in
// [1, maxThreadCount] is then tried once, and its time and energy are
// normalized against the baseline:
//
//	score = TimeWeight × time_t/baselineTime + (1-TimeWeight) × energy_t/baselineEnergy
//
// The lowest score wins; on ties the smaller thread count is kept. Trials run
// one after the other, only the work inside a trial is parallel.
package optimizer

import (
	"time"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/multiply"
)

const (
	// DefaultMaxThreadCount is used when no maximum is given.
	DefaultMaxThreadCount = 32

	// DefaultTimeWeight makes time dominate the score.
	DefaultTimeWeight = 0.99

	// minBaselineSeconds replaces a baseline below clock resolution.
	minBaselineSeconds = float64(time.Nanosecond) / float64(time.Second)
)

// ErrInvalidTimeWeight is returned by FindOptimal when Config.TimeWeight is outside (0, 1].
var ErrInvalidTimeWeight = errors.New("time weight must be in (0, 1]")

// Runner multiplies given operands and generates new ones. *multiply.Engine implements it.
type Runner interface {
	RunOperands(a, b *matbench.Matrix, alg matbench.Algorithm, threadCount int) *multiply.Result

	// GenerateOperands returns a fresh operand pair after checking that a run
	// of alg with threadCount workers fits in memory.
	GenerateOperands(alg matbench.Algorithm, size, threadCount int) (a, b *matbench.Matrix, err error)
}

// Config tunes the search. The zero value uses the defaults.
type Config struct {
	// MaxThreadCount is used by FindOptimal when its maxThreadCount argument is 0.
	MaxThreadCount int

	// Algorithm swept across thread counts, block_based by default.
	Algorithm matbench.Algorithm

	// TimeWeight is the weight of normalized time in the score; energy gets
	// 1-TimeWeight. It must lie in (0, 1]; 0 means DefaultTimeWeight, so an
	// energy-only score cannot be requested.
	TimeWeight float64

	// FreshOperands regenerates the operands for every trial. By default one
	// pair is used for the baseline and the whole sweep, so every trial
	// measures the same problem.
	FreshOperands bool

	// OnTrial, if set, is called after each trial.
	OnTrial func(Trial)
}

func (c Config) withDefaults() Config {
	if c.MaxThreadCount <= 0 {
		c.MaxThreadCount = DefaultMaxThreadCount
	}
	if c.Algorithm == "" {
		c.Algorithm = matbench.BlockBased
	}
	if c.TimeWeight == 0 {
		c.TimeWeight = DefaultTimeWeight
	}
	return c
}

// Validate checks the fields that have no default substitution.
func (c Config) Validate() error {
	if !(c.TimeWeight > 0 && c.TimeWeight <= 1) {
		return errors.Wrapf(ErrInvalidTimeWeight, "got %g", c.TimeWeight)
	}
	if !c.Algorithm.Valid() {
		return errors.Wrapf(matbench.ErrUnknownAlgorithm, "%q", c.Algorithm)
	}
	return nil
}

// Trial is one measured thread count.
type Trial struct {
	ThreadCount          int     `json:"threadCount"`
	ExecutionTimeSeconds float64 `json:"executionTimeSeconds"`
	EnergyJoules         float64 `json:"energyJoules"`
	NormalizedTime       float64 `json:"normalizedTime"`
	NormalizedEnergy     float64 `json:"normalizedEnergy"`
	Score                float64 `json:"score"`
}

// Result is the outcome of one search. It is not modified after FindOptimal returns.
type Result struct {
	MatrixSize              int     `json:"matrixSize"`
	OptimalThreadCount      int     `json:"optimalThreadCount"`
	MinExecutionTimeSeconds float64 `json:"minExecutionTimeSeconds"`
	MinEnergyJoules         float64 `json:"minEnergyJoules"`
	Score                   float64 `json:"score"`

	BaselineTimeSeconds  float64 `json:"baselineTimeSeconds"`
	BaselineEnergyJoules float64 `json:"baselineEnergyJoules"`
	Trials               []Trial `json:"trials,omitempty"`
}

// Optimizer runs thread-count searches.
type Optimizer struct {
	runner Runner
	cfg    Config
}

// New returns an optimizer driving runner.
func New(runner Runner, cfg Config) *Optimizer {
	return &Optimizer{runner: runner, cfg: cfg.withDefaults()}
}

// Config returns the effective configuration.
func (o *Optimizer) Config() Config {
	return o.cfg
}

// Score combines normalized time and energy.
func Score(normalizedTime, normalizedEnergy, timeWeight float64) float64 {
	return timeWeight*normalizedTime + (1-timeWeight)*normalizedEnergy
}

func normalize(value, baseline float64) float64 {
	if baseline <= 0 {
		return 0
	}
	return value / baseline
}

// FindOptimal sweeps thread counts 1..maxThreadCount for a size×size product.
// maxThreadCount 0 uses Config.MaxThreadCount. Negative sizes or counts
// return a *matbench.ValidationError, and an invalid Config returns
// ErrInvalidTimeWeight or matbench.ErrUnknownAlgorithm, before anything runs.
// Operands whose largest trial would not fit in memory are never generated.
func (o *Optimizer) FindOptimal(size, maxThreadCount int) (*Result, error) {
	if maxThreadCount == 0 {
		maxThreadCount = o.cfg.MaxThreadCount
	}
	if err := matbench.Validate(size, maxThreadCount); err != nil {
		return nil, err
	}
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}

	// The last trial holds the most worker buffers.
	a, b, err := o.runner.GenerateOperands(o.cfg.Algorithm, size, maxThreadCount)
	if err != nil {
		return nil, err
	}

	baseline := o.runner.RunOperands(a, b, matbench.Sequential, 1)
	if baseline.Err != nil {
		return nil, errors.WithMessage(baseline.Err, "sequential baseline")
	}
	baselineTime := max(baseline.ExecutionTimeSeconds, minBaselineSeconds)
	baselineEnergy := baseline.EnergyJoules
	klog.V(1).Infof("optimizer: size=%d baseline %.6fs %.4fJ", size, baselineTime, baselineEnergy)

	res := &Result{
		MatrixSize:           size,
		BaselineTimeSeconds:  baselineTime,
		BaselineEnergyJoules: baselineEnergy,
		Trials:               make([]Trial, 0, maxThreadCount),
	}
	for t := 1; t <= maxThreadCount; t++ {
		if o.cfg.FreshOperands {
			if a, b, err = o.runner.GenerateOperands(o.cfg.Algorithm, size, t); err != nil {
				return nil, errors.WithMessagef(err, "trial with %d threads", t)
			}
		}
		run := o.runner.RunOperands(a, b, o.cfg.Algorithm, t)
		if run.Err != nil {
			return nil, errors.WithMessagef(run.Err, "trial with %d threads", t)
		}

		trial := Trial{
			ThreadCount:          t,
			ExecutionTimeSeconds: run.ExecutionTimeSeconds,
			EnergyJoules:         run.EnergyJoules,
			NormalizedTime:       normalize(run.ExecutionTimeSeconds, baselineTime),
			NormalizedEnergy:     normalize(run.EnergyJoules, baselineEnergy),
		}
		trial.Score = Score(trial.NormalizedTime, trial.NormalizedEnergy, o.cfg.TimeWeight)
		res.Trials = append(res.Trials, trial)
		klog.V(2).Infof("optimizer: threads=%d time=%.6fs energy=%.4fJ score=%.4f",
			t, trial.ExecutionTimeSeconds, trial.EnergyJoules, trial.Score)

		// Strictly smaller: ties keep the smaller thread count.
		if t == 1 || trial.Score < res.Score {
			res.OptimalThreadCount = t
			res.MinExecutionTimeSeconds = trial.ExecutionTimeSeconds
			res.MinEnergyJoules = trial.EnergyJoules
			res.Score = trial.Score
		}
		if o.cfg.OnTrial != nil {
			o.cfg.OnTrial(trial)
		}
	}
	klog.V(1).Infof("optimizer: size=%d optimal threads=%d score=%.4f", size, res.OptimalThreadCount, res.Score)
	return res, nil
}
