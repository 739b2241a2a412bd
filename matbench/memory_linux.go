// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build linux

package matbench

import "golang.org/x/sys/unix"

// systemMemory returns the total RAM in bytes, or 0 if it cannot be read.
func systemMemory() uint64 {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return 0
	}
	return uint64(info.Totalram) * uint64(info.Unit)
}
