// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"fmt"

	"github.com/woozymasta/pathrules"
)

// Internal binary layout.
const (
	headerSize     = 16 // signature + version + flags + entry count
	entryStartSize = 4  // entry_size u16 + name_size u16
	lzmaFrameSize  = 8  // unpacked size u32 + properties length u32
	lzmaPropsSize  = 5  // LZMA1 properties block length
	defaultBufSize = 128 * 1024
	copyBufferSize = 64 * 1024
)

// Buffered backend limits.
const (
	// MinBufferSize is the smallest read-ahead buffer accepted by the buffered backend.
	// It must exceed the largest possible entry record (entry_size is u16).
	MinBufferSize = 64 * 1024
	// DefaultBufferSize is the read-ahead buffer used when ReaderOptions.BufferSize is zero.
	DefaultBufferSize = defaultBufSize
)

// Signature is the 4-byte magic at the start of every IRO archive.
var Signature = [4]byte{'I', 'R', 'O', 'S'}

// Version is the archive format version stored in the header.
type Version uint32

// Known archive versions.
const (
	// Version0 uses 32-bit entry offsets.
	Version0 Version = 0x10000
	// Version1 uses 64-bit entry offsets.
	Version1 Version = 0x10001
	// Version2 uses 64-bit entry offsets.
	Version2 Version = 0x10002
)

// Valid reports whether v is one of the known versions.
func (v Version) Valid() bool {
	switch v {
	case Version0, Version1, Version2:
		return true
	default:
		return false
	}
}

// OffsetWidth returns the byte width of the entry offset field for v.
func (v Version) OffsetWidth() int {
	if v == Version0 {
		return 4
	}

	return 8
}

// String implements fmt.Stringer.
func (v Version) String() string {
	switch v {
	case Version0:
		return "v0"
	case Version1:
		return "v1"
	case Version2:
		return "v2"
	default:
		return fmt.Sprintf("unknown(0x%x)", uint32(v))
	}
}

// Compression is the payload encoding of one entry.
type Compression uint8

// Entry compression kinds.
const (
	// CompressionStored means payload bytes are copied verbatim.
	CompressionStored Compression = iota
	// CompressionLZMA means payload is an embedded LZMA1 frame.
	CompressionLZMA
)

// Raw entry flags values mapped to Compression.
const (
	flagStored uint32 = 0
	flagLZMA   uint32 = 2
)

// compressionFromFlags maps an entry flags field to Compression.
func compressionFromFlags(flags uint32) (Compression, error) {
	switch flags {
	case flagStored:
		return CompressionStored, nil
	case flagLZMA:
		return CompressionLZMA, nil
	default:
		return 0, fmt.Errorf("%w: 0x%x", ErrUnsupportedCompression, flags)
	}
}

// String implements fmt.Stringer.
func (c Compression) String() string {
	switch c {
	case CompressionStored:
		return "stored"
	case CompressionLZMA:
		return "lzma"
	default:
		return fmt.Sprintf("unknown(%d)", uint8(c))
	}
}

// MarshalText implements encoding.TextMarshaler.
func (c Compression) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Header is the parsed fixed archive header.
type Header struct {
	// Signature is the archive magic ("IROS").
	Signature [4]byte `json:"-" yaml:"-"`
	// Version is the format version.
	Version Version `json:"version" yaml:"version"`
	// Flags are archive flags; always zero for supported archives.
	Flags uint32 `json:"flags" yaml:"flags"`
	// EntryCount is the number of entry records.
	EntryCount uint32 `json:"entry_count" yaml:"entry_count"`
}

// Entry describes one parsed archive entry. Its catalog index is the extraction handle.
type Entry struct {
	// Name is the entry path as decoded from the archive.
	Name string `json:"name" yaml:"name"`
	// Offset is absolute byte offset of entry payload.
	Offset uint64 `json:"offset" yaml:"offset"`
	// Length is on-disk payload span including any compression frame header.
	Length uint64 `json:"length" yaml:"length"`
	// Compression is payload encoding.
	Compression Compression `json:"compression" yaml:"compression"`
}

// IsCompressed reports whether this entry is stored as an LZMA frame.
func (e *Entry) IsCompressed() bool {
	return e.Compression == CompressionLZMA
}

// Backend selects the I/O strategy used to parse and extract.
type Backend string

// Available backends. Both produce identical catalogs and payloads.
const (
	// BackendBuffered reads through a read-ahead buffer over the file.
	BackendBuffered Backend = "buffered"
	// BackendMmap maps the whole file read-only and reads by offset arithmetic.
	BackendMmap Backend = "mmap"
)

// ReaderOptions configures archive open behavior.
type ReaderOptions struct {
	// Backend selects I/O strategy. Default is BackendBuffered.
	Backend Backend `json:"backend,omitempty" yaml:"backend,omitempty"`
	// BufferSize is buffered backend read-ahead size in bytes.
	// Values below MinBufferSize are raised; zero means DefaultBufferSize.
	BufferSize int `json:"buffer_size,omitempty" yaml:"buffer_size,omitempty"`
	// RawNames keeps entry names exactly as stored (with "\" separators).
	// When false (default), names use "/" on every platform.
	RawNames bool `json:"raw_names,omitempty" yaml:"raw_names,omitempty"`
}

// ExtractOptions configures ExtractAll behavior.
type ExtractOptions struct {
	// OnEntryDone is called after one entry is fully written to disk.
	// With MaxWorkers > 1 it may be called from several goroutines at once.
	OnEntryDone func(index int, entry Entry, written int64, outputPath string) `json:"-" yaml:"-"`
	// FileMode controls output file creation policy.
	FileMode ExtractFileMode `json:"file_mode,omitempty" yaml:"file_mode,omitempty"`
	// Include defines ordered path rules selecting entries; empty means all entries.
	Include []pathrules.Rule `json:"include,omitempty" yaml:"include,omitempty"`
	// IncludeMatcherOptions control Include rule matching.
	IncludeMatcherOptions pathrules.MatcherOptions `json:"include_matcher_options,omitzero" yaml:"include_matcher_options,omitzero"`
	// MaxWorkers is number of extraction workers. Zero or one extracts sequentially.
	MaxWorkers int `json:"max_workers,omitempty" yaml:"max_workers,omitempty"`
	// SanitizeNames rewrites output paths to filesystem-safe unique names (see SanitizePath)
	// instead of rejecting unsafe entry names.
	SanitizeNames bool `json:"sanitize_names,omitempty" yaml:"sanitize_names,omitempty"`
}

// ExtractFileMode controls output file open behavior during extraction.
type ExtractFileMode string

// Output file creation policies for extraction.
const (
	// ExtractFileModeTruncate opens existing files with truncate and creates missing files.
	ExtractFileModeTruncate ExtractFileMode = "truncate"
	// ExtractFileModeCreateOnly creates files only when absent and fails on existing files.
	ExtractFileModeCreateOnly ExtractFileMode = "create_only"
)

// applyDefaults fills zero-valued reader options with defaults.
func (opts *ReaderOptions) applyDefaults() {
	if opts.Backend == "" {
		opts.Backend = BackendBuffered
	}

	if opts.BufferSize == 0 {
		opts.BufferSize = DefaultBufferSize
	}

	if opts.BufferSize < MinBufferSize {
		opts.BufferSize = MinBufferSize
	}
}

// applyDefaults fills zero-valued extract options with defaults.
func (opts *ExtractOptions) applyDefaults() {
	if opts.FileMode == "" {
		opts.FileMode = ExtractFileModeTruncate
	}

	if opts.MaxWorkers < 1 {
		opts.MaxWorkers = 1
	}

	if opts.IncludeMatcherOptions == (pathrules.MatcherOptions{}) {
		opts.IncludeMatcherOptions = pathrules.MatcherOptions{
			CaseInsensitive: true,
			DefaultAction:   pathrules.ActionExclude,
		}
	}

	if opts.IncludeMatcherOptions.DefaultAction == pathrules.ActionUnknown {
		opts.IncludeMatcherOptions.DefaultAction = pathrules.ActionExclude
	}
}
