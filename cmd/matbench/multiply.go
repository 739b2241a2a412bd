// Copyright 2025 go-highway Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"runtime"

	"github.com/dustin/go-humanize"
	"github.com/janpfeifer/must"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/energy"
	"github.com/ajroetker/go-matbench/matbench/contrib/multiply"
)

const (
	defaultSize      = 512
	defaultAlgorithm = string(matbench.BlockBased)

	// verifyTolerance bounds the difference to the gonum product. Entries are
	// sums of N products of values below 100, so rounding grows with N.
	verifyTolerance = 1e-9
)

func newMultiplyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "multiply",
		Short: "Multiply two random matrices with one algorithm",
		Args:  cobra.NoArgs,
		RunE:  runMultiply,
	}
	fs := cmd.Flags()
	fs.Int("size", defaultSize, "Matrix dimension N")
	fs.Int("threads", runtime.NumCPU(), "Thread count")
	fs.String("algorithm", defaultAlgorithm, "Algorithm id, see 'matbench algorithms'")
	fs.Bool("print-matrix", false, "Include the product matrix in the output")
	fs.Bool("verify", false, "Check the product against gonum's reference multiplication")
	return cmd
}

func runMultiply(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	req := multiply.Request{
		Size:        must.M1(fs.GetInt("size")),
		ThreadCount: must.M1(fs.GetInt("threads")),
		Algorithm:   must.M1(fs.GetString("algorithm")),
	}
	printMatrix := must.M1(fs.GetBool("print-matrix"))
	verify := must.M1(fs.GetBool("verify"))

	engine := cfg.newEngine()
	var (
		res     *multiply.Result
		maxDiff float64
	)
	if verify {
		res, maxDiff, err = runVerified(engine, req)
	} else {
		res, err = engine.Handle(req)
	}
	if err != nil {
		return err
	}
	if res.Failed() {
		if cfg.json {
			_ = printJSON(cmd.OutOrStdout(), res.Payload(false))
		}
		return res.Err
	}
	klog.V(1).Infof("multiply %s N=%d threads=%d: %s", res.Algorithm, res.Size, res.ThreadCount, res.Elapsed())

	if cfg.json {
		return printJSON(cmd.OutOrStdout(), res.Payload(printMatrix))
	}
	w := cmd.OutOrStdout()
	alg := matbench.Algorithm(res.Algorithm)
	printTitle(w, alg.DisplayName())
	table := newTable(-1, "Metric", "Value")
	table.Row("Matrix size", fmt.Sprintf("%d x %d", res.Size, res.Size))
	table.Row("Threads", humanize.Comma(int64(res.ThreadCount)))
	table.Row("Working set", humanize.IBytes(energy.WorkingSetBytes(res.Size)))
	table.Row("Execution time", formatSeconds(res.ExecutionTimeSeconds))
	table.Row("Throughput", formatFlops(res.Size, res.ExecutionTimeSeconds))
	table.Row("Estimated energy", formatJoules(res.EnergyJoules))
	if verify {
		table.Row("Max |diff| vs gonum", fmt.Sprintf("%.3g", maxDiff))
	}
	fmt.Fprintln(w, table.Render())
	if printMatrix {
		printRows(w, res.Matrix)
	}
	return nil
}

// runVerified mirrors Engine.Handle, but keeps the operands so the product can
// be checked against gonum. The memory cap also covers the reference product.
func runVerified(engine *multiply.Engine, req multiply.Request) (*multiply.Result, float64, error) {
	if err := req.Validate(); err != nil {
		return nil, 0, err
	}
	alg, err := matbench.ParseAlgorithm(req.Algorithm)
	if err != nil {
		return nil, 0, err
	}
	failed := func(err error) *multiply.Result {
		return &multiply.Result{Algorithm: string(alg), Size: req.Size, ThreadCount: req.ThreadCount, Err: err}
	}
	// The reference copies both operands and allocates its own product.
	ws := multiply.WorkingSet(alg, req.Size, req.ThreadCount).AddMatrices(req.Size, 3)
	if err := ws.Check(engine.MaxWorkingSetBytes()); err != nil {
		return failed(err), 0, nil
	}
	a, b, err := engine.GenerateOperands(alg, req.Size, req.ThreadCount)
	if err != nil {
		return failed(err), 0, nil
	}
	res := engine.RunOperands(a, b, alg, req.ThreadCount)
	if res.Failed() {
		return res, 0, nil
	}
	ref, err := matbench.Reference(a, b)
	if err != nil {
		return nil, 0, err
	}
	diff := matbench.MaxAbsDiff(ref, res.Matrix)
	if limit := verifyTolerance * max(1, ref.MaxAbs()); diff > limit {
		return nil, diff, errors.Errorf("%s product differs from reference by %g (limit %g)", alg, diff, limit)
	}
	return res, diff, nil
}

// formatFlops reports the 2N³ floating point operations of the product as a rate.
func formatFlops(size int, seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	n := float64(size)
	return humanize.SIWithDigits(2*n*n*n/seconds, 2, "FLOP/s")
}
