// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// Archive provides read-only access to a parsed IRO file.
// The catalog is built once by Open and never changes; each extraction call
// reads through its own cursor, so one Archive may serve concurrent callers.
type Archive struct {
	// src is the backing store shared by all extraction cursors.
	src source
	// entries stores parsed immutable entry metadata in on-disk order.
	entries []Entry
	// header stores the validated fixed header.
	header Header
	// streams holds pipe writers of open entry streams; Close fails them with ErrClosed.
	streams map[*io.PipeWriter]struct{}
	// mu guards refs, streams and closed.
	mu sync.Mutex
	// refs counts reads in flight; the source is released when it drops to zero after Close.
	refs int
	// closed reports whether Close was already called.
	closed bool
}

// Open opens an IRO file by path with the default buffered backend.
func Open(path string) (*Archive, error) {
	return OpenWithOptions(path, ReaderOptions{})
}

// OpenWithOptions opens an IRO file by path using explicit reader options.
func OpenWithOptions(path string, opts ReaderOptions) (*Archive, error) {
	opts.applyDefaults()

	f, size, err := openFileWithSize(path)
	if err != nil {
		return nil, err
	}

	var src source
	switch opts.Backend {
	case BackendBuffered:
		src = newBufferedSource(f, f, size, opts.BufferSize)
	case BackendMmap:
		ms, err := newMmapSource(f, size)
		if err != nil {
			_ = f.Close()
			return nil, err
		}
		src = ms
	default:
		_ = f.Close()
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, opts.Backend)
	}

	a, err := newArchive(src, opts)
	if err != nil {
		_ = src.close()
		return nil, err
	}

	return a, nil
}

// NewArchiveFromReaderAt parses an IRO archive from existing ReaderAt and known size.
// The buffered backend is always used; the caller keeps ownership of ra.
func NewArchiveFromReaderAt(ra io.ReaderAt, size int64, opts ReaderOptions) (*Archive, error) {
	if ra == nil {
		return nil, ErrNilReader
	}

	opts.applyDefaults()
	return newArchive(newBufferedSource(ra, nil, size, opts.BufferSize), opts)
}

// newArchive parses header and entry table from src.
func newArchive(src source, opts ReaderOptions) (*Archive, error) {
	c := src.newCursor()
	defer c.release()

	header, err := parseHeader(c)
	if err != nil {
		return nil, err
	}

	parser := entryTableParser{
		offset:   newOffsetDecoder(header.Version),
		rawNames: opts.RawNames,
	}

	entries, err := parser.parseEntries(c, header.EntryCount)
	if err != nil {
		return nil, err
	}

	return &Archive{src: src, header: header, entries: entries}, nil
}

// Header returns the parsed archive header.
func (a *Archive) Header() Header {
	return a.header
}

// Version returns the archive format version.
func (a *Archive) Version() Version {
	return a.header.Version
}

// Backend returns the I/O strategy serving this archive.
func (a *Archive) Backend() Backend {
	return a.src.backend()
}

// Size returns total archive size in bytes.
func (a *Archive) Size() int64 {
	return a.src.size()
}

// Len returns the number of catalog entries.
func (a *Archive) Len() int {
	return len(a.entries)
}

// Entries returns a copy of the catalog in on-disk order.
func (a *Archive) Entries() []Entry {
	if a == nil {
		return nil
	}

	entries := make([]Entry, len(a.entries))
	copy(entries, a.entries)
	return entries
}

// Entry returns catalog entry at index.
func (a *Archive) Entry(index int) (Entry, error) {
	if index < 0 || index >= len(a.entries) {
		return Entry{}, fmt.Errorf("%w: %d of %d", ErrEntryIndex, index, len(a.entries))
	}

	return a.entries[index], nil
}

// Lookup returns the index of the first entry whose name matches name.
// Separators are compared as "/" and letters case-insensitively.
func (a *Archive) Lookup(name string) (int, bool) {
	want := CleanPath(name)
	for i := range a.entries {
		if strings.EqualFold(CleanPath(a.entries[i].Name), want) {
			return i, true
		}
	}

	return -1, false
}

// Close marks the archive closed and releases the file handle or mapping.
// It never waits for readers: open entry streams fail with ErrClosed, and
// reads already in flight keep the source alive until they return.
// It is safe to call more than once.
func (a *Archive) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}

	a.closed = true
	streams := a.streams
	a.streams = nil
	idle := a.refs == 0
	a.mu.Unlock()

	for pw := range streams {
		_ = pw.CloseWithError(ErrClosed)
	}

	if !idle {
		return nil
	}

	return a.src.close()
}

// acquire keeps the source alive until the returned release is called.
// It returns ErrClosed after Close.
func (a *Archive) acquire() (func(), error) {
	if a == nil || a.src == nil {
		return nil, ErrNilReader
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return nil, ErrClosed
	}

	a.refs++
	return sync.OnceFunc(a.releaseRef), nil
}

// releaseRef drops one reference and closes the source after the last one once closed.
func (a *Archive) releaseRef() {
	a.mu.Lock()
	a.refs--
	last := a.closed && a.refs == 0
	a.mu.Unlock()

	if last {
		_ = a.src.close()
	}
}

// trackStream registers pw so Close can fail it. It reports false after Close.
func (a *Archive) trackStream(pw *io.PipeWriter) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.closed {
		return false
	}

	if a.streams == nil {
		a.streams = make(map[*io.PipeWriter]struct{})
	}
	a.streams[pw] = struct{}{}
	return true
}

// untrackStream forgets a finished stream.
func (a *Archive) untrackStream(pw *io.PipeWriter) {
	a.mu.Lock()
	delete(a.streams, pw)
	a.mu.Unlock()
}

// openFileWithSize opens a file and returns a handle plus current size.
func openFileWithSize(path string) (*os.File, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open IRO: %w", err)
	}

	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, 0, fmt.Errorf("stat: %w", err)
	}

	return f, fi.Size(), nil
}
