// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

//go:build unix

package iro

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps n bytes of f read-only and returns the region with its release func.
func mapFile(f *os.File, n int) ([]byte, func() error, error) {
	// Zero-length mappings are rejected by mmap(2).
	if n == 0 {
		return []byte{}, nil, nil
	}

	data, err := unix.Mmap(int(f.Fd()), 0, n, unix.PROT_READ, unix.MAP_SHARED) //nolint:gosec // fd fits int
	if err != nil {
		return nil, nil, err
	}

	return data, func() error { return unix.Munmap(data) }, nil
}
