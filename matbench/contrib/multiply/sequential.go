// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

// unitHook, if set, is called at the start of every unit of work with the
// unit's index range. Tests use it to inject faults into workers.
var unitHook func(start, end int)

func enterUnit(start, end int) {
	if unitHook != nil {
		unitHook(start, end)
	}
}

// multiplyRows computes rows [start, end) of C = A * B with the classic
// i/j/k loop order. All slices are n×n row-major.
func multiplyRows(a, b, c []float64, n, start, end int) {
	enterUnit(start, end)
	for i := start; i < end; i++ {
		aRow := a[i*n : (i+1)*n]
		cRow := c[i*n : (i+1)*n]
		for j := range n {
			var sum float64
			for k, aik := range aRow {
				sum += aik * b[k*n+j]
			}
			cRow[j] = sum
		}
	}
}

// sequential computes C = A * B on the calling goroutine.
// It is deterministic and is the baseline every other strategy is compared to.
func sequential(a, b, c []float64, n int) {
	multiplyRows(a, b, c, n, 0, n)
}
