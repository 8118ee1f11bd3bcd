// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"fmt"
	"io"
)

// ReadHeader opens an IRO file and returns only the validated fixed header
// without parsing the entry table.
func ReadHeader(path string) (Header, error) {
	f, size, err := openFileWithSize(path)
	if err != nil {
		return Header{}, err
	}
	defer func() { _ = f.Close() }()

	return ReadHeaderFromReaderAt(f, size)
}

// ReadHeaderFromReaderAt reads only the fixed header from a random-access source.
func ReadHeaderFromReaderAt(ra io.ReaderAt, size int64) (Header, error) {
	if ra == nil {
		return Header{}, ErrNilReader
	}
	if size < headerSize {
		return Header{}, ErrTruncatedHeader
	}

	raw := make([]byte, headerSize)
	// ReadAt may report io.EOF together with a full read at the end of the source.
	if n, err := ra.ReadAt(raw, 0); n < headerSize {
		return Header{}, fmt.Errorf("read header: %w", err)
	}

	return decodeHeader(raw)
}

// ListEntries opens an IRO file and returns the catalog without payload reads.
func ListEntries(path string) ([]Entry, error) {
	return ListEntriesWithOptions(path, ReaderOptions{})
}

// ListEntriesWithOptions opens an IRO file and returns the catalog using reader options.
func ListEntriesWithOptions(path string, opts ReaderOptions) ([]Entry, error) {
	a, err := OpenWithOptions(path, opts)
	if err != nil {
		return nil, err
	}
	defer func() { _ = a.Close() }()

	return a.Entries(), nil
}
