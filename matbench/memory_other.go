// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build !linux

package matbench

func systemMemory() uint64 {
	return 0
}
