// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"encoding/binary"
	"io"
)

// cursor is the positioned read contract shared by both backends.
// Parsing and extraction are written once against it.
//
// A cursor is owned by one call and is never shared between goroutines;
// the source it reads from is immutable and may back many cursors at once.
type cursor interface {
	// next borrows the next n bytes and advances past them.
	// The slice is valid until the next cursor call and must not be retained.
	// It returns io.ErrUnexpectedEOF when fewer than n bytes remain.
	next(n int) ([]byte, error)
	// skip advances n bytes without reading them.
	skip(n int64) error
	// seek moves to absolute offset off.
	seek(off int64) error
	// offset returns the current absolute offset.
	offset() int64
	// copyTo writes the next n bytes to w and advances past them.
	copyTo(w io.Writer, n int64) (int64, error)
	// section returns a reader over the next n bytes and advances past them.
	// The reader is valid until the next cursor call.
	section(n int64) (io.Reader, error)
	// release returns pooled resources; the cursor is unusable afterward.
	release()
}

// source is an opened archive backing store able to produce cursors.
type source interface {
	// newCursor returns a fresh cursor positioned at offset 0.
	newCursor() cursor
	// size returns total source size in bytes.
	size() int64
	// backend returns the strategy implemented by this source.
	backend() Backend
	// close releases file handles and mappings.
	close() error
}

// le is the byte order of every IRO field.
var le = binary.LittleEndian

// readU16 decodes a little-endian u16 at off in b.
func readU16(b []byte, off int) uint16 {
	return le.Uint16(b[off : off+2])
}

// readU32 decodes a little-endian u32 at off in b.
func readU32(b []byte, off int) uint32 {
	return le.Uint32(b[off : off+4])
}

// readU64 decodes a little-endian u64 at off in b.
func readU64(b []byte, off int) uint64 {
	return le.Uint64(b[off : off+8])
}
