// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package compare runs every strategy on the same operands and reports
// speedup and efficiency against the sequential baseline.
//
//	speedup    = sequential time / strategy time
//	efficiency = speedup / thread count × 100%
//
// 100% efficiency is ideal linear scaling.
package compare

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/samber/lo"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/multiply"
)

// Runner multiplies given operands and generates new ones. *multiply.Engine implements it.
type Runner interface {
	RunOperands(a, b *matbench.Matrix, alg matbench.Algorithm, threadCount int) *multiply.Result
	GenerateOperands(alg matbench.Algorithm, size, threadCount int) (a, b *matbench.Matrix, err error)
}

// Entry is the outcome of one strategy.
type Entry struct {
	Algorithm            matbench.Algorithm `json:"algorithm"`
	Name                 string             `json:"name"`
	ExecutionTimeSeconds float64            `json:"executionTimeSeconds"`
	EnergyJoules         float64            `json:"energyJoules"`
	Speedup              float64            `json:"speedup"`
	Efficiency           float64            `json:"efficiency"`
	MaxAbsDiff           float64            `json:"maxAbsDiff"`
	Error                string             `json:"error,omitempty"`
}

// Report holds one entry per algorithm, sequential first.
type Report struct {
	RunID       string  `json:"runId"`
	MatrixSize  int     `json:"matrixSize"`
	ThreadCount int     `json:"threadCount"`
	Entries     []Entry `json:"entries"`
}

// Speedup returns baselineSeconds/seconds, or 1 when seconds is not positive.
func Speedup(baselineSeconds, seconds float64) float64 {
	if seconds <= 0 {
		return 1
	}
	return baselineSeconds / seconds
}

// Efficiency returns speedup per thread as a percentage.
func Efficiency(speedup float64, threadCount int) float64 {
	if threadCount <= 0 {
		return 0
	}
	return speedup / float64(threadCount) * 100
}

// Run generates one operand pair and multiplies it with every algorithm.
// Failures of individual parallel strategies, including runs over the
// runner's memory cap, are reported in their entries; a failing sequential
// baseline fails the whole comparison, and operands are only generated when
// the baseline fits in memory.
func Run(runner Runner, size, threadCount int) (*Report, error) {
	if err := matbench.Validate(size, threadCount); err != nil {
		return nil, err
	}
	a, b, err := runner.GenerateOperands(matbench.Sequential, size, 1)
	if err != nil {
		return nil, err
	}

	baseline := runner.RunOperands(a, b, matbench.Sequential, 1)
	if baseline.Err != nil {
		return nil, errors.WithMessage(baseline.Err, "sequential baseline")
	}

	report := &Report{
		RunID:       uuid.NewString(),
		MatrixSize:  size,
		ThreadCount: threadCount,
	}
	report.Entries = lo.Map(matbench.Algorithms(), func(alg matbench.Algorithm, _ int) Entry {
		res := baseline
		if alg != matbench.Sequential {
			res = runner.RunOperands(a, b, alg, threadCount)
		}
		entry := Entry{Algorithm: alg, Name: alg.DisplayName()}
		if res.Err != nil {
			klog.Warningf("compare %s: %v", alg, res.Err)
			entry.Error = res.Err.Error()
			return entry
		}
		entry.ExecutionTimeSeconds = res.ExecutionTimeSeconds
		entry.EnergyJoules = res.EnergyJoules
		entry.MaxAbsDiff = matbench.MaxAbsDiff(baseline.Matrix, res.Matrix)
		if alg == matbench.Sequential {
			entry.Speedup, entry.Efficiency = 1, 100
		} else {
			entry.Speedup = Speedup(baseline.ExecutionTimeSeconds, res.ExecutionTimeSeconds)
			entry.Efficiency = Efficiency(entry.Speedup, threadCount)
		}
		return entry
	})
	return report, nil
}

// Entry returns the entry for alg.
func (r *Report) Entry(alg matbench.Algorithm) (Entry, bool) {
	return lo.Find(r.Entries, func(e Entry) bool { return e.Algorithm == alg })
}

// Fastest returns the successful entry with the lowest execution time.
func (r *Report) Fastest() (Entry, bool) {
	ok := lo.Filter(r.Entries, func(e Entry, _ int) bool { return e.Error == "" })
	if len(ok) == 0 {
		return Entry{}, false
	}
	return lo.MinBy(ok, func(a, b Entry) bool { return a.ExecutionTimeSeconds < b.ExecutionTimeSeconds }), true
}
