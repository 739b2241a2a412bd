// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build amd64

package matbench

import "golang.org/x/sys/cpu"

func cpuFeatures() []string {
	var features []string
	add := func(has bool, name string) {
		if has {
			features = append(features, name)
		}
	}
	add(cpu.X86.HasSSE2, "sse2")
	add(cpu.X86.HasSSE41, "sse4.1")
	add(cpu.X86.HasSSE42, "sse4.2")
	add(cpu.X86.HasAVX, "avx")
	add(cpu.X86.HasFMA, "fma")
	add(cpu.X86.HasAVX2, "avx2")
	add(cpu.X86.HasAVX512F, "avx512f")
	add(cpu.X86.HasAVX512BF16, "avx512bf16")
	return features
}
