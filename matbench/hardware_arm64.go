// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build arm64

package matbench

import "golang.org/x/sys/cpu"

func cpuFeatures() []string {
	var features []string
	add := func(has bool, name string) {
		if has {
			features = append(features, name)
		}
	}
	// ASIMD (NEON) is part of the ARMv8-A base, but report what the kernel says.
	add(cpu.ARM64.HasFP, "fp")
	add(cpu.ARM64.HasASIMD, "neon")
	add(cpu.ARM64.HasFPHP, "fp16")
	add(cpu.ARM64.HasATOMICS, "atomics")
	add(cpu.ARM64.HasSVE, "sve")
	add(cpu.ARM64.HasSVE2, "sve2")
	return features
}
