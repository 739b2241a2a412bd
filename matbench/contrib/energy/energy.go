// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

// Package energy estimates the energy drawn by a multiplication run.
//
// The estimate is a linear heuristic, not a measurement:
//
//	cpu    = threads × CPUWattPerCore × seconds
//	memory = GiB(3 matrices of size² float64) × MemoryWattPerGiB × seconds
//	joules = cpu + memory
//
// The coefficients are configuration, not calibrated against hardware counters.
package energy

import (
	"os"
	"strconv"

	"github.com/pkg/errors"

	"github.com/ajroetker/go-matbench/matbench"
)

const (
	// DefaultCPUWattPerCore is the assumed draw of one busy core.
	DefaultCPUWattPerCore = 15.0

	// DefaultMemoryWattPerGiB is the assumed draw of one GiB of active DRAM.
	DefaultMemoryWattPerGiB = 3.0

	// MatricesPerRun counts A, B and C.
	MatricesPerRun = 3

	bytesPerGiB = 1 << 30
)

// Environment variables read by FromEnv.
const (
	CPUWattPerCoreEnv   = "MATBENCH_CPU_WATT_PER_CORE"
	MemoryWattPerGiBEnv = "MATBENCH_MEMORY_WATT_PER_GIB"
)

// Model holds the heuristic coefficients. The zero value estimates 0 J; use Default.
type Model struct {
	CPUWattPerCore   float64 `json:"cpuWattPerCore"`
	MemoryWattPerGiB float64 `json:"memoryWattPerGiB"`
}

// Default returns the model with the default coefficients.
func Default() Model {
	return Model{
		CPUWattPerCore:   DefaultCPUWattPerCore,
		MemoryWattPerGiB: DefaultMemoryWattPerGiB,
	}
}

// FromEnv returns Default with any coefficient overridden by its environment variable.
func FromEnv() (Model, error) {
	m := Default()
	for _, v := range []struct {
		name string
		dst  *float64
	}{
		{CPUWattPerCoreEnv, &m.CPUWattPerCore},
		{MemoryWattPerGiBEnv, &m.MemoryWattPerGiB},
	} {
		s := os.Getenv(v.name)
		if s == "" {
			continue
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return m, errors.Wrapf(err, "parsing %s", v.name)
		}
		*v.dst = f
	}
	return m, m.Validate()
}

// Validate rejects negative coefficients.
func (m Model) Validate() error {
	if m.CPUWattPerCore < 0 {
		return errors.Errorf("CPU watt per core must be non-negative, got %g", m.CPUWattPerCore)
	}
	if m.MemoryWattPerGiB < 0 {
		return errors.Errorf("memory watt per GiB must be non-negative, got %g", m.MemoryWattPerGiB)
	}
	return nil
}

// WorkingSetBytes is the memory held by the two operands and the product.
func WorkingSetBytes(size int) uint64 {
	n := uint64(size)
	return n * n * matbench.BytesPerElement * MatricesPerRun
}

// WorkingSetGiB is WorkingSetBytes in GiB.
func WorkingSetGiB(size int) float64 {
	return float64(WorkingSetBytes(size)) / bytesPerGiB
}

// CPU returns the processor share of the estimate.
func (m Model) CPU(elapsedSeconds float64, threadCount int) float64 {
	return float64(threadCount) * m.CPUWattPerCore * elapsedSeconds
}

// Memory returns the memory share of the estimate.
func (m Model) Memory(elapsedSeconds float64, size int) float64 {
	return WorkingSetGiB(size) * m.MemoryWattPerGiB * elapsedSeconds
}

// Estimate returns the estimated joules for a run. It is pure and safe for concurrent use.
func (m Model) Estimate(elapsedSeconds float64, threadCount, size int) float64 {
	return m.CPU(elapsedSeconds, threadCount) + m.Memory(elapsedSeconds, size)
}
