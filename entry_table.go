// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"errors"
	"fmt"
	"io"
)

// offsetDecoder decodes the version-dependent offset field of an entry tail.
type offsetDecoder struct {
	read  func(b []byte, off int) uint64
	width int
}

// newOffsetDecoder selects the offset field decoder once per archive version.
func newOffsetDecoder(v Version) offsetDecoder {
	if v.OffsetWidth() == 4 {
		return offsetDecoder{
			width: 4,
			read:  func(b []byte, off int) uint64 { return uint64(readU32(b, off)) },
		}
	}

	return offsetDecoder{width: 8, read: readU64}
}

// tailSize returns the fixed width of flags + offset + length.
func (d offsetDecoder) tailSize() int {
	return 4 + d.width + 4
}

// entryTableParser decodes entry records in on-disk order.
type entryTableParser struct {
	offset   offsetDecoder
	rawNames bool
}

// parseEntries decodes count records starting at the cursor position.
func (p entryTableParser) parseEntries(c cursor, count uint32) ([]Entry, error) {
	entries := make([]Entry, 0, estimateEntryCapacity(count))
	for i := range count {
		entry, err := p.parseEntry(c)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}

		entries = append(entries, entry)
	}

	return entries, nil
}

// parseEntry decodes one self-describing record and advances by its declared entry_size.
func (p entryTableParser) parseEntry(c cursor) (Entry, error) {
	start, err := c.next(entryStartSize)
	if err != nil {
		return Entry{}, truncated(err)
	}

	entrySize := int(readU16(start, 0))
	nameSize := int(readU16(start, 2))
	if nameSize%2 != 0 {
		return Entry{}, fmt.Errorf("%w: odd name_size %d", ErrEntrySizeMismatch, nameSize)
	}

	minSize := entryStartSize + nameSize + p.offset.tailSize()
	if entrySize < minSize {
		return Entry{}, fmt.Errorf("%w: entry_size %d < %d", ErrEntrySizeMismatch, entrySize, minSize)
	}

	// The record body is taken as one span bounded by entry_size; trailing padding is skipped with it.
	body, err := c.next(entrySize - entryStartSize)
	if err != nil {
		return Entry{}, truncated(err)
	}

	name := decodeName(body[:nameSize])
	if !p.rawNames {
		name = NormalizePath(name)
	}

	tail := body[nameSize:]
	compression, err := compressionFromFlags(readU32(tail, 0))
	if err != nil {
		return Entry{}, fmt.Errorf("%s: %w", name, err)
	}

	return Entry{
		Name:        name,
		Offset:      p.offset.read(tail, 4),
		Length:      uint64(readU32(tail, 4+p.offset.width)),
		Compression: compression,
	}, nil
}

// truncated maps short reads to ErrTruncatedEntry.
func truncated(err error) error {
	if errors.Is(err, io.ErrUnexpectedEOF) {
		return ErrTruncatedEntry
	}

	return fmt.Errorf("read entry: %w", err)
}

// estimateEntryCapacity returns a conservative initial capacity for the catalog.
// entry_count comes from an untrusted header, so the preallocation is capped.
func estimateEntryCapacity(count uint32) int {
	const maxCap = 8192
	if count > maxCap {
		return maxCap
	}

	return int(count)
}
