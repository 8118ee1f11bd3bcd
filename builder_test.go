// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"unicode/utf16"

	"github.com/ulikunitz/xz/lzma"
)

// testEntry describes one entry written by buildArchive.
type testEntry struct {
	// offset overrides the computed payload offset when non-nil.
	offset *uint64
	// length overrides the computed payload length when non-nil.
	length *uint32
	// flags overrides the compression flags field when non-nil.
	flags *uint32
	// frame replaces the whole on-disk payload when non-nil.
	frame   []byte
	name    string
	payload []byte
	// padding is the number of vendor bytes appended to the record.
	padding int
	lzma    bool
}

// encodeName converts text to the UTF-16LE byte run stored in entry records.
func encodeName(name string) []byte {
	units := utf16.Encode([]rune(name))
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}

	return out
}

// buildHeader returns a 16-byte archive header.
func buildHeader(version Version, flags uint32, count uint32) []byte {
	h := make([]byte, headerSize)
	copy(h[0:4], Signature[:])
	binary.LittleEndian.PutUint32(h[4:8], uint32(version))
	binary.LittleEndian.PutUint32(h[8:12], flags)
	binary.LittleEndian.PutUint32(h[12:16], count)
	return h
}

// buildRecord returns one entry record with the given tail values.
func buildRecord(version Version, name []byte, flags uint32, offset uint64, length uint32, padding int) []byte {
	width := version.OffsetWidth()
	size := entryStartSize + len(name) + 4 + width + 4 + padding

	rec := make([]byte, size)
	binary.LittleEndian.PutUint16(rec[0:2], uint16(size))
	binary.LittleEndian.PutUint16(rec[2:4], uint16(len(name)))
	copy(rec[4:], name)

	tail := rec[4+len(name):]
	binary.LittleEndian.PutUint32(tail[0:4], flags)
	if width == 4 {
		binary.LittleEndian.PutUint32(tail[4:8], uint32(offset))
	} else {
		binary.LittleEndian.PutUint64(tail[4:12], offset)
	}
	binary.LittleEndian.PutUint32(tail[4+width:], length)

	for i := 0; i < padding; i++ {
		tail[8+width+i] = 0xEE
	}

	return rec
}

// compressFrame returns an IRO LZMA payload: unpacked size, props length, props, raw stream.
func compressFrame(t testing.TB, payload []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w, err := lzma.WriterConfig{
		SizeInHeader: true,
		Size:         int64(len(payload)),
	}.NewWriter(&buf)
	if err != nil {
		t.Fatalf("lzma writer: %v", err)
	}
	if _, err := w.Write(payload); err != nil {
		t.Fatalf("lzma write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("lzma close: %v", err)
	}

	classic := buf.Bytes()
	frame := make([]byte, lzmaFrameSize, lzmaFrameSize+len(classic))
	binary.LittleEndian.PutUint32(frame[0:4], uint32(len(payload)))
	binary.LittleEndian.PutUint32(frame[4:8], lzmaPropsSize)
	frame = append(frame, classic[:lzmaPropsSize]...)
	frame = append(frame, classic[lzma.HeaderLen:]...)
	return frame
}

// buildArchive lays out header, entry table and payloads in that order.
func buildArchive(t testing.TB, version Version, entries []testEntry) []byte {
	t.Helper()

	names := make([][]byte, len(entries))
	frames := make([][]byte, len(entries))
	tableSize := 0
	for i, e := range entries {
		names[i] = encodeName(e.name)
		tableSize += entryStartSize + len(names[i]) + 4 + version.OffsetWidth() + 4 + e.padding

		switch {
		case e.frame != nil:
			frames[i] = e.frame
		case e.lzma:
			frames[i] = compressFrame(t, e.payload)
		default:
			frames[i] = e.payload
		}
	}

	out := buildHeader(version, 0, uint32(len(entries)))
	next := uint64(headerSize + tableSize)
	var data []byte
	for i, e := range entries {
		flags := flagStored
		if e.lzma {
			flags = flagLZMA
		}
		if e.flags != nil {
			flags = *e.flags
		}

		offset := next
		if e.offset != nil {
			offset = *e.offset
		}

		length := uint32(len(frames[i]))
		if e.length != nil {
			length = *e.length
		}

		out = append(out, buildRecord(version, names[i], flags, offset, length, e.padding)...)
		data = append(data, frames[i]...)
		next += uint64(len(frames[i]))
	}

	return append(out, data...)
}

// writeArchive stores raw archive bytes in a temp file and returns its path.
func writeArchive(t testing.TB, raw []byte) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.iro")
	if err := os.WriteFile(path, raw, 0o600); err != nil {
		t.Fatalf("write archive: %v", err)
	}

	return path
}

// openBoth opens path with both backends and registers cleanup.
func openBoth(t testing.TB, path string, opts ReaderOptions) map[Backend]*Archive {
	t.Helper()

	out := make(map[Backend]*Archive, 2)
	for _, backend := range []Backend{BackendBuffered, BackendMmap} {
		o := opts
		o.Backend = backend
		a, err := OpenWithOptions(path, o)
		if err != nil {
			t.Fatalf("OpenWithOptions(%s): %v", backend, err)
		}
		t.Cleanup(func() { _ = a.Close() })
		out[backend] = a
	}

	return out
}

func ptrU32(v uint32) *uint32 { return &v }
func ptrU64(v uint64) *uint64 { return &v }
