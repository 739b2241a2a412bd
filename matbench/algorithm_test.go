// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAlgorithm(t *testing.T) {
	testCases := []struct {
		in   string
		want Algorithm
	}{
		{"sequential", Sequential},
		{"basic_parallel", BasicParallel},
		{"IMPROVED_PARALLEL", ImprovedParallel},
		{" block_based ", BlockBased},
		{"Async_Parallel", AsyncParallel},
	}
	for _, tc := range testCases {
		got, err := ParseAlgorithm(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got)
	}

	for _, bad := range []string{"", "bogus", "block-based", "parallel"} {
		_, err := ParseAlgorithm(bad)
		require.ErrorIs(t, err, ErrUnknownAlgorithm, bad)
	}
}

func TestAlgorithms(t *testing.T) {
	algs := Algorithms()
	require.Len(t, algs, 5)
	assert.Equal(t, Sequential, algs[0])
	algs[0] = "changed"
	assert.Equal(t, Sequential, Algorithms()[0], "Algorithms returns a copy")

	for _, alg := range Algorithms() {
		assert.True(t, alg.Valid())
		assert.NotEqual(t, string(alg), alg.DisplayName())
		assert.Equal(t, alg != Sequential, alg.IsParallel())
	}
	assert.Equal(t, "Block-Based Parallel Algorithm", BlockBased.DisplayName())
	assert.Equal(t, "bogus", Algorithm("bogus").DisplayName())
	assert.False(t, Algorithm("bogus").IsParallel())
}

func TestValidate(t *testing.T) {
	require.NoError(t, Validate(1, 1))

	err := Validate(0, 4)
	require.ErrorIs(t, err, ErrInvalidSize)
	assert.True(t, IsValidationError(err))
	assert.Contains(t, err.Error(), "size")

	err = Validate(4, -1)
	require.ErrorIs(t, err, ErrInvalidThreadCount)
	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "threadCount", vErr.Field)
	assert.Equal(t, -1, vErr.Value)

	assert.False(t, IsValidationError(ErrUnknownAlgorithm))
}

func TestFaultError(t *testing.T) {
	assert.ErrorIs(t, FaultError("index out of range"), ErrRuntimeFault)
	assert.ErrorIs(t, FaultError(ErrInvalidSize), ErrRuntimeFault)
	assert.Contains(t, FaultError(ErrInvalidSize).Error(), ErrInvalidSize.Error())
}
