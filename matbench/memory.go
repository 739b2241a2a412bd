// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"math"
	"math/bits"
	"runtime/debug"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// DefaultMemoryLimit caps working sets when neither a Go memory limit
// (GOMEMLIMIT) nor the total system memory is known.
const DefaultMemoryLimit uint64 = 8 << 30

// systemMemoryFraction is the share of total system memory MemoryLimit allows.
const systemMemoryFraction = 0.75

// MemoryLimit returns the largest working set a run may allocate: the Go
// memory limit if one is set, otherwise 3/4 of system memory, otherwise
// DefaultMemoryLimit.
func MemoryLimit() uint64 {
	if limit := debug.SetMemoryLimit(-1); limit > 0 && limit < math.MaxInt64 {
		return uint64(limit)
	}
	if total := systemMemory(); total > 0 {
		return uint64(float64(total) * systemMemoryFraction)
	}
	return DefaultMemoryLimit
}

// MatrixBytes returns the bytes held by one n×n matrix. ok is false when
// n×n cells cannot be addressed by an int or their size overflows uint64.
// Non-positive n needs no memory.
func MatrixBytes(n int) (bytes uint64, ok bool) {
	if n <= 0 {
		return 0, true
	}
	hi, cells := bits.Mul64(uint64(n), uint64(n))
	if hi != 0 || cells > math.MaxInt {
		return 0, false
	}
	hi, bytes = bits.Mul64(cells, BytesPerElement)
	return bytes, hi == 0
}

// WorkingSet accumulates the bytes a run needs, remembering overflow.
type WorkingSet struct {
	bytes    uint64
	overflow bool
}

// AddMatrices adds count n×n matrices.
func (ws *WorkingSet) AddMatrices(n, count int) *WorkingSet {
	m, ok := MatrixBytes(n)
	if !ok {
		ws.overflow = true
		return ws
	}
	return ws.addProduct(m, count)
}

// AddElements adds count buffers of perBuffer float64 values each.
func (ws *WorkingSet) AddElements(perBuffer, count int) *WorkingSet {
	if perBuffer < 0 {
		ws.overflow = true
		return ws
	}
	hi, b := bits.Mul64(uint64(perBuffer), BytesPerElement)
	if hi != 0 {
		ws.overflow = true
		return ws
	}
	return ws.addProduct(b, count)
}

func (ws *WorkingSet) addProduct(unit uint64, count int) *WorkingSet {
	if count <= 0 {
		return ws
	}
	hi, b := bits.Mul64(unit, uint64(count))
	sum, carry := bits.Add64(ws.bytes, b, 0)
	if hi != 0 || carry != 0 {
		ws.overflow = true
		return ws
	}
	ws.bytes = sum
	return ws
}

// Bytes returns the accumulated size and whether it is representable.
func (ws *WorkingSet) Bytes() (uint64, bool) {
	return ws.bytes, !ws.overflow
}

// Check returns an error wrapping ErrRuntimeFault if the working set
// overflows or exceeds limit. Nothing is allocated.
func (ws *WorkingSet) Check(limit uint64) error {
	if ws.overflow {
		return errors.Wrap(ErrRuntimeFault, "working set overflows addressable memory")
	}
	if ws.bytes > limit {
		klog.Warningf("rejecting run: working set %s exceeds limit %s",
			humanize.IBytes(ws.bytes), humanize.IBytes(limit))
		return errors.Wrapf(ErrRuntimeFault, "working set %s exceeds limit %s",
			humanize.IBytes(ws.bytes), humanize.IBytes(limit))
	}
	return nil
}
