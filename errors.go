// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"errors"
	"fmt"
)

// ErrFormat is the parent of every archive format error returned by Open.
// A format error is fatal: no Archive is returned.
var ErrFormat = errors.New("invalid IRO archive")

// Format errors. Each one wraps ErrFormat.
var (
	// ErrBadSignature means the file does not start with "IROS".
	ErrBadSignature = fmt.Errorf("%w: bad signature", ErrFormat)
	// ErrUnsupportedVersion means the header version is not one of the three known codes.
	ErrUnsupportedVersion = fmt.Errorf("%w: unsupported version", ErrFormat)
	// ErrUnsupportedArchiveFlags means archive flags are nonzero (patch archive variant).
	ErrUnsupportedArchiveFlags = fmt.Errorf("%w: unsupported archive flags (patch archive)", ErrFormat)
	// ErrTruncatedHeader means the source is shorter than the fixed header.
	ErrTruncatedHeader = fmt.Errorf("%w: truncated header", ErrFormat)
	// ErrTruncatedEntry means an entry record extends past the end of the source.
	ErrTruncatedEntry = fmt.Errorf("%w: truncated entry record", ErrFormat)
	// ErrEntrySizeMismatch means entry_size cannot hold the name and fixed fields, or name_size is odd.
	ErrEntrySizeMismatch = fmt.Errorf("%w: entry size mismatch", ErrFormat)
	// ErrUnsupportedCompression means an entry flags field maps to no known compression.
	ErrUnsupportedCompression = fmt.Errorf("%w: unsupported compression tag", ErrFormat)
)

// Extraction error kinds, carried by ExtractError.Kind.
var (
	// ErrIO means reading the payload or writing the sink failed.
	ErrIO = errors.New("extract I/O error")
	// ErrCodec means the LZMA frame or bitstream is malformed.
	ErrCodec = errors.New("extract codec error")
)

// Usage errors.
var (
	// ErrClosed means the archive was already closed.
	ErrClosed = errors.New("archive already closed")
	// ErrEntryIndex means the entry index is out of catalog range.
	ErrEntryIndex = errors.New("entry index out of range")
	// ErrEntryNotFound means no entry matches the requested name.
	ErrEntryNotFound = errors.New("entry not found")
	// ErrNilReader means the source reader is nil.
	ErrNilReader = errors.New("reader is nil")
	// ErrNilWriter means the extraction sink is nil.
	ErrNilWriter = errors.New("writer is nil")
	// ErrInvalidExtractPath means archive entry name is invalid for extraction destination.
	ErrInvalidExtractPath = errors.New("invalid extract path")
	// ErrExtractPathOutsideRoot means resolved extraction path escapes destination root.
	ErrExtractPathOutsideRoot = errors.New("extract path escapes destination root")
	// ErrInvalidIncludeRules means one or more entry selection rules are invalid.
	ErrInvalidIncludeRules = errors.New("invalid include rules")
	// ErrUnknownBackend means ReaderOptions.Backend names no known backend.
	ErrUnknownBackend = errors.New("unknown backend")
)

// ExtractError reports a failed extraction of one entry.
// errors.Is matches both Kind (ErrIO or ErrCodec) and the underlying cause.
type ExtractError struct {
	// Kind is ErrIO or ErrCodec.
	Kind error
	// Err is the underlying cause.
	Err error
	// Name is the entry name.
	Name string
	// Index is the catalog index of the entry.
	Index int
}

// Error implements error.
func (e *ExtractError) Error() string {
	return fmt.Sprintf("extract entry %d (%s): %v: %v", e.Index, e.Name, e.Kind, e.Err)
}

// Unwrap returns kind and cause for errors.Is/errors.As.
func (e *ExtractError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}

// entryNotFound wraps ErrEntryNotFound with the requested name.
func entryNotFound(name string) error {
	return fmt.Errorf("%w: %s", ErrEntryNotFound, name)
}

// ioError builds an ExtractError of kind ErrIO.
func ioError(index int, name string, err error) error {
	return &ExtractError{Index: index, Name: name, Kind: ErrIO, Err: err}
}

// codecError builds an ExtractError of kind ErrCodec.
func codecError(index int, name string, err error) error {
	return &ExtractError{Index: index, Name: name, Kind: ErrCodec, Err: err}
}
