// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package energy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkingSet(t *testing.T) {
	assert.Equal(t, uint64(24), WorkingSetBytes(1))
	assert.Equal(t, uint64(1024*1024*8*3), WorkingSetBytes(1024))
	assert.InDelta(t, 0.0234375, WorkingSetGiB(1024), 1e-12)
}

func TestEstimate(t *testing.T) {
	m := Model{CPUWattPerCore: 10, MemoryWattPerGiB: 2}

	// 4 threads × 10 W × 0.5 s = 20 J of CPU.
	assert.InDelta(t, 20.0, m.CPU(0.5, 4), 1e-12)

	// size 1024: 0.0234375 GiB × 2 W × 0.5 s.
	assert.InDelta(t, 0.0234375, m.Memory(0.5, 1024), 1e-12)
	assert.InDelta(t, 20.0234375, m.Estimate(0.5, 4, 1024), 1e-12)
}

func TestEstimateProperties(t *testing.T) {
	m := Default()

	assert.Zero(t, m.Estimate(0, 8, 512), "no elapsed time, no energy")
	assert.Equal(t, m.Estimate(1.25, 3, 200), m.Estimate(1.25, 3, 200), "pure function")

	// Linear in time and monotonic in threads and size.
	assert.InDelta(t, 2*m.Estimate(1, 4, 256), m.Estimate(2, 4, 256), 1e-9)
	assert.Less(t, m.Estimate(1, 4, 256), m.Estimate(1, 8, 256))
	assert.Less(t, m.Estimate(1, 4, 256), m.Estimate(1, 4, 512))
	assert.GreaterOrEqual(t, m.Estimate(0.001, 1, 1), 0.0)
}

func TestFromEnv(t *testing.T) {
	t.Setenv(CPUWattPerCoreEnv, "")
	t.Setenv(MemoryWattPerGiBEnv, "")
	m, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, Default(), m)

	t.Setenv(CPUWattPerCoreEnv, "7.5")
	m, err = FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 7.5, m.CPUWattPerCore)
	assert.Equal(t, DefaultMemoryWattPerGiB, m.MemoryWattPerGiB)

	t.Setenv(MemoryWattPerGiBEnv, "lots")
	_, err = FromEnv()
	require.Error(t, err)

	t.Setenv(MemoryWattPerGiBEnv, "-1")
	_, err = FromEnv()
	require.Error(t, err)
}
