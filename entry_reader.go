// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"bytes"
	"io"
)

// OpenEntry opens the entry at index for streaming reads.
// Returned stream yields decompressed content for LZMA entries.
// Each stream decodes through its own cursor. Closing the archive fails
// unread streams with ErrClosed instead of waiting for them.
func (a *Archive) OpenEntry(index int) (io.ReadCloser, error) {
	release, err := a.acquire()
	if err != nil {
		return nil, err
	}

	entry, err := a.Entry(index)
	if err != nil {
		release()
		return nil, err
	}

	pr, pw := io.Pipe()
	if !a.trackStream(pw) {
		release()
		return nil, ErrClosed
	}

	go a.streamEntry(index, entry, pw, release)

	return pr, nil
}

// OpenEntryByName opens the first entry matching name (see Lookup).
func (a *Archive) OpenEntryByName(name string) (io.ReadCloser, error) {
	index, ok := a.Lookup(name)
	if !ok {
		return nil, entryNotFound(name)
	}

	return a.OpenEntry(index)
}

// ReadEntry reads full (decompressed) content of the entry at index.
func (a *Archive) ReadEntry(index int) ([]byte, error) {
	entry, err := a.Entry(index)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if entry.Compression == CompressionStored && entry.Length <= uint64(maxPreallocSize) {
		buf.Grow(int(entry.Length))
	}

	if _, err := a.ExtractTo(&buf, index); err != nil {
		return nil, err
	}

	return buf.Bytes(), nil
}

// ReadEntryByName reads full content of the first entry matching name (see Lookup).
func (a *Archive) ReadEntryByName(name string) ([]byte, error) {
	index, ok := a.Lookup(name)
	if !ok {
		return nil, entryNotFound(name)
	}

	return a.ReadEntry(index)
}

// maxPreallocSize bounds buffer preallocation from untrusted entry lengths.
const maxPreallocSize = 16 * 1024 * 1024

// streamEntry decodes one entry into pipe writer and releases the archive when done.
// A writer already failed by Close keeps its first error.
func (a *Archive) streamEntry(index int, entry Entry, dst *io.PipeWriter, release func()) {
	defer release()
	defer a.untrackStream(dst)

	if _, err := a.extractEntry(dst, index, entry); err != nil {
		_ = dst.CloseWithError(err)
		return
	}

	_ = dst.Close()
}
