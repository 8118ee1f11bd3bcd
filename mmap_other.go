// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

//go:build !unix

package iro

import (
	"io"
	"os"
)

// mapFile loads n bytes of f into one in-memory region.
// Platforms without mmap(2) get the same contiguous view at the cost of one read.
func mapFile(f *os.File, n int) ([]byte, func() error, error) {
	data := make([]byte, n)
	if _, err := io.ReadFull(io.NewSectionReader(f, 0, int64(n)), data); err != nil {
		return nil, nil, err
	}

	return data, nil, nil
}
