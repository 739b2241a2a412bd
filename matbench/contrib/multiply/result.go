// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"time"

	"github.com/ajroetker/go-matbench/matbench"
)

// Request asks for one benchmark run.
type Request struct {
	Size        int    `json:"size"`
	ThreadCount int    `json:"threadCount"`
	Algorithm   string `json:"algorithm"`
}

// Validate rejects non-positive sizes and thread counts with a *matbench.ValidationError.
// The algorithm is checked by the engine itself.
func (r Request) Validate() error {
	return matbench.Validate(r.Size, r.ThreadCount)
}

// Result records one run. Exactly one of Err and Matrix is set.
type Result struct {
	ExecutionTimeSeconds float64
	EnergyJoules         float64
	Algorithm            string
	Size                 int
	ThreadCount          int

	// Err is set when the run failed; Matrix is nil in that case.
	Err error

	// Matrix is the product, set only on success.
	Matrix *matbench.Matrix
}

// Failed reports whether the run produced an error instead of a product.
func (r *Result) Failed() bool {
	return r.Err != nil
}

// Elapsed returns the execution time as a time.Duration.
func (r *Result) Elapsed() time.Duration {
	return time.Duration(r.ExecutionTimeSeconds * float64(time.Second))
}

// Payload is the serializable view of a Result.
type Payload struct {
	ExecutionTimeSeconds float64     `json:"executionTimeSeconds"`
	EnergyJoules         float64     `json:"energyJoules"`
	Algorithm            string      `json:"algorithm"`
	Size                 int         `json:"size"`
	ThreadCount          int         `json:"threadCount"`
	Error                string      `json:"error,omitempty"`
	MatrixData           [][]float64 `json:"matrixData,omitempty"`
}

// Payload builds the serializable view. The product is only materialized
// when includeMatrix is true, since it costs N² values to serialize.
func (r *Result) Payload(includeMatrix bool) Payload {
	p := Payload{
		ExecutionTimeSeconds: r.ExecutionTimeSeconds,
		EnergyJoules:         r.EnergyJoules,
		Algorithm:            r.Algorithm,
		Size:                 r.Size,
		ThreadCount:          r.ThreadCount,
	}
	if r.Err != nil {
		p.Error = r.Err.Error()
	}
	if includeMatrix && r.Matrix != nil {
		p.MatrixData = r.Matrix.Rows()
	}
	return p
}
