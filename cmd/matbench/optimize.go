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
	"io"
	"os"

	"github.com/janpfeifer/must"
	"github.com/muesli/termenv"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-matbench/matbench"
	"github.com/ajroetker/go-matbench/matbench/contrib/optimizer"
)

func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Sweep thread counts and pick the best time/energy trade-off",
		Args:  cobra.NoArgs,
		RunE:  runOptimize,
	}
	fs := cmd.Flags()
	fs.Int("size", defaultSize, "Matrix dimension N")
	fs.Int("max-threads", optimizer.DefaultMaxThreadCount, "Largest thread count tried")
	fs.String("algorithm", defaultAlgorithm, "Algorithm swept across thread counts")
	fs.Float64("time-weight", optimizer.DefaultTimeWeight, "Weight of normalized time in the score, in (0, 1]")
	fs.Bool("fresh-operands", false, "Generate new operands for every trial")
	fs.Bool("trials", false, "Print every trial, not only the optimum")
	return cmd
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	fs := cmd.Flags()
	size := must.M1(fs.GetInt("size"))
	maxThreads := must.M1(fs.GetInt("max-threads"))
	weight := must.M1(fs.GetFloat64("time-weight"))
	showTrials := must.M1(fs.GetBool("trials"))
	if err := matbench.Validate(size, maxThreads); err != nil {
		return err
	}
	alg, err := matbench.ParseAlgorithm(must.M1(fs.GetString("algorithm")))
	if err != nil {
		return err
	}

	onTrial, finish := newSweepProgress(os.Stderr, maxThreads, cfg.json)
	opt := optimizer.New(cfg.newEngine(), optimizer.Config{
		Algorithm:     alg,
		TimeWeight:    weight,
		FreshOperands: must.M1(fs.GetBool("fresh-operands")),
		OnTrial:       onTrial,
	})
	result, err := opt.FindOptimal(size, maxThreads)
	finish()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if cfg.json {
		return printJSON(w, result)
	}
	printTitle(w, fmt.Sprintf("%s, N=%d", alg.DisplayName(), result.MatrixSize))
	summary := newTable(-1, "Metric", "Value")
	summary.Row("Optimal threads", fmt.Sprint(result.OptimalThreadCount))
	summary.Row("Execution time", formatSeconds(result.MinExecutionTimeSeconds))
	summary.Row("Estimated energy", formatJoules(result.MinEnergyJoules))
	summary.Row("Score", fmt.Sprintf("%.4f", result.Score))
	summary.Row("Sequential baseline", formatSeconds(result.BaselineTimeSeconds))
	fmt.Fprintln(w, summary.Render())

	if showTrials {
		best := -1
		for ii, t := range result.Trials {
			if t.ThreadCount == result.OptimalThreadCount {
				best = ii
			}
		}
		trials := newTable(best, "Threads", "Time", "Energy", "Norm. time", "Norm. energy", "Score")
		for _, t := range result.Trials {
			trials.Row(fmt.Sprint(t.ThreadCount),
				formatSeconds(t.ExecutionTimeSeconds),
				formatJoules(t.EnergyJoules),
				fmt.Sprintf("%.4f", t.NormalizedTime),
				fmt.Sprintf("%.4f", t.NormalizedEnergy),
				fmt.Sprintf("%.4f", t.Score))
		}
		fmt.Fprintln(w, trials.Render())
	}
	return nil
}

// newSweepProgress returns the trial callback and a function to call once the
// sweep ends. The bar is only drawn on a terminal.
func newSweepProgress(w io.Writer, total int, quiet bool) (func(optimizer.Trial), func()) {
	out := termenv.NewOutput(w)
	if quiet || out.ColorProfile() == termenv.Ascii {
		return nil, func() {}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription("threads"),
		progressbar.OptionUseANSICodes(true),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetTheme(progressbar.ThemeASCII),
		progressbar.OptionClearOnFinish(),
	)
	onTrial := func(optimizer.Trial) { _ = bar.Add(1) }
	finish := func() {
		_ = bar.Finish()
		out.ShowCursor()
	}
	return onTrial, finish
}
