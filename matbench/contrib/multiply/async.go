// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package multiply

import (
	"golang.org/x/sync/errgroup"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/workerpool"
)

// asyncParallel spawns one task per row chunk and waits for all of them.
//
// The chunks come from parallelism (normally the hardware parallelism), not
// from the thread count requested by the caller.
func asyncParallel(a, b, c []float64, n, parallelism int) error {
	var g errgroup.Group
	for _, r := range workerpool.Partition(n, parallelism) {
		g.Go(func() (err error) {
			defer func() {
				if rec := recover(); rec != nil {
					err = matbench.FaultError(rec)
				}
			}()
			multiplyRows(a, b, c, n, r.Start, r.End)
			return nil
		})
	}
	return g.Wait()
}
