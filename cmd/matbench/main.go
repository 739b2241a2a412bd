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

// Command matbench benchmarks square matrix multiplication strategies.
//
// Usage:
//
//	matbench multiply -size 1024 -threads 8 -algorithm block_based
//	matbench compare  -size 1024 -threads 8
//	matbench optimize -size 1024 -max-threads 16
//	matbench algorithms
//	matbench hardware
//
// Sizes and thread counts are validated here, before any matrix is generated.
// Energy coefficients and the seed can be set with flags or with the
// MATBENCH_* environment variables; flags take precedence.
package main

import (
	goflag "flag"
	"os"

	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		klog.Errorf("%v", err)
		klog.Flush()
		os.Exit(1)
	}
	klog.Flush()
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "matbench",
		Short:         "Benchmark dense matrix multiplication strategies",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	klogFlags := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)
	addConfigFlags(root.PersistentFlags())

	root.AddCommand(
		newMultiplyCmd(),
		newCompareCmd(),
		newOptimizeCmd(),
		newAlgorithmsCmd(),
		newHardwareCmd(),
	)
	return root
}
