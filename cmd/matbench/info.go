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
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/samber/lo"
	"github.com/spf13/cobra"

	"github.com/ajroetker/go-matbench/matbench"
)

// algorithmInfo is the listing entry of one algorithm.
type algorithmInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Parallel bool   `json:"parallel"`
}

func listAlgorithms() []algorithmInfo {
	return lo.Map(matbench.Algorithms(), func(alg matbench.Algorithm, _ int) algorithmInfo {
		return algorithmInfo{ID: alg.String(), Name: alg.DisplayName(), Parallel: alg.IsParallel()}
	})
}

func newAlgorithmsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "algorithms",
		Short: "List the available algorithms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if cfg.json {
				return printJSON(cmd.OutOrStdout(), listAlgorithms())
			}
			table := newTable(-1, "ID", "Name", "Parallel")
			for _, info := range listAlgorithms() {
				table.Row(info.ID, info.Name, fmt.Sprint(info.Parallel))
			}
			fmt.Fprintln(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

func newHardwareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hardware",
		Short: "Show the CPU information used to size parallel work",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			hw := matbench.DetectHardware()
			if cfg.json {
				return printJSON(cmd.OutOrStdout(), hw)
			}
			table := newTable(-1, "Property", "Value")
			table.Row("OS / arch", hw.OS+"/"+hw.Arch)
			table.Row("Logical CPUs", fmt.Sprint(hw.NumCPU))
			table.Row("Parallelism", fmt.Sprint(hw.Parallelism))
			table.Row("Cache line", humanize.IBytes(uint64(hw.CacheLineSize)))
			table.Row("Features", strings.Join(hw.Features, " "))
			fmt.Fprintln(cmd.OutOrStdout(), table.Render())
			return nil
		},
	}
}

// printRows writes the matrix one row per line.
func printRows(w io.Writer, m *matbench.Matrix) {
	for ii := range m.Size() {
		cells := lo.Map(m.Row(ii), func(v float64, _ int) string { return fmt.Sprintf("%10.4f", v) })
		fmt.Fprintln(w, strings.Join(cells, " "))
	}
}
