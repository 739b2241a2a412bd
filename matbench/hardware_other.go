// Copyright 2025 The go-highway Authors. SPDX-License-Identifier: Apache-2.0

//go:build !amd64 && !arm64

package matbench

// Feature detection is only wired for amd64 and arm64.
func cpuFeatures() []string {
	return nil
}
