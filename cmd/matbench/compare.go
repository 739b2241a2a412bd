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

	"github.com/janpfeifer/must"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-matbench/matbench/contrib/compare"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Run every algorithm on the same operands and report speedups",
		Args:  cobra.NoArgs,
		RunE:  runCompare,
	}
	cmd.Flags().Int("size", defaultSize, "Matrix dimension N")
	cmd.Flags().Int("threads", runtime.NumCPU(), "Thread count for the parallel algorithms")
	return cmd
}

func runCompare(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return err
	}
	size := must.M1(cmd.Flags().GetInt("size"))
	threads := must.M1(cmd.Flags().GetInt("threads"))

	report, err := compare.Run(cfg.newEngine(), size, threads)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if cfg.json {
		return printJSON(w, report)
	}

	best := -1
	if fastest, ok := report.Fastest(); ok {
		for ii, e := range report.Entries {
			if e.Algorithm == fastest.Algorithm {
				best = ii
			}
		}
	}
	printTitle(w, fmt.Sprintf("N=%d, %d threads (run %s)", report.MatrixSize, report.ThreadCount, report.RunID))
	table := newTable(best, "Algorithm", "Time", "Speedup", "Efficiency", "Energy", "Max |diff|")
	for _, e := range report.Entries {
		if e.Error != "" {
			table.Row(e.Name, "error: "+e.Error, "", "", "", "")
			continue
		}
		table.Row(e.Name,
			formatSeconds(e.ExecutionTimeSeconds),
			fmt.Sprintf("%.2fx", e.Speedup),
			fmt.Sprintf("%.1f%%", e.Efficiency),
			formatJoules(e.EnergyJoules),
			fmt.Sprintf("%.3g", e.MaxAbsDiff))
	}
	fmt.Fprintln(w, table.Render())
	return nil
}
