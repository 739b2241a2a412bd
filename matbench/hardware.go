// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

package matbench

import (
	"os"
	"runtime"
	"strconv"
	"unsafe"

	"golang.org/x/sys/cpu"
	"k8s.io/klog/v2"
)

// ParallelismEnv overrides the detected hardware parallelism when set to a positive integer.
const ParallelismEnv = "MATBENCH_ASYNC_PARALLELISM"

// Hardware describes the machine the benchmark runs on.
type Hardware struct {
	OS            string   `json:"os"`
	Arch          string   `json:"arch"`
	NumCPU        int      `json:"numCPU"`
	Parallelism   int      `json:"parallelism"`
	CacheLineSize int      `json:"cacheLineSize"`
	Features      []string `json:"features"`
}

// DetectHardware gathers information about the current system.
func DetectHardware() Hardware {
	return Hardware{
		OS:            runtime.GOOS,
		Arch:          runtime.GOARCH,
		NumCPU:        runtime.NumCPU(),
		Parallelism:   HardwareParallelism(),
		CacheLineSize: int(unsafe.Sizeof(cpu.CacheLinePad{})),
		Features:      cpuFeatures(),
	}
}

// HardwareParallelism returns the number of goroutines that can run simultaneously,
// i.e. GOMAXPROCS, unless MATBENCH_ASYNC_PARALLELISM holds a positive integer.
func HardwareParallelism() int {
	if val := os.Getenv(ParallelismEnv); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil && n > 0 {
			return n
		}
		klog.Warningf("ignoring %s=%q: not a positive integer", ParallelismEnv, val)
	}
	return runtime.GOMAXPROCS(0)
}
