// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/ulikunitz/xz/lzma"
)

// lzmaFrame is the inline header preceding every compressed payload.
type lzmaFrame struct {
	// unpackedSize is the authoritative decompressed length.
	unpackedSize uint32
	// propsLen is the length of the LZMA1 properties block; always 5.
	propsLen uint32
}

// decodeLZMAFrame reads and validates the inline frame header at the cursor.
func decodeLZMAFrame(c cursor, length uint64) (lzmaFrame, error) {
	if length < lzmaFrameSize+lzmaPropsSize {
		return lzmaFrame{}, fmt.Errorf("payload length %d shorter than LZMA frame", length)
	}

	raw, err := c.next(lzmaFrameSize)
	if err != nil {
		return lzmaFrame{}, err
	}

	frame := lzmaFrame{
		unpackedSize: readU32(raw, 0),
		propsLen:     readU32(raw, 4),
	}
	if frame.propsLen != lzmaPropsSize {
		return lzmaFrame{}, fmt.Errorf("LZMA properties length %d, want %d", frame.propsLen, lzmaPropsSize)
	}

	return frame, nil
}

// extractLZMA decodes one LZMA entry at the cursor into w.
// The frame's unpacked size is used as-is; exactly that many bytes are written.
func extractLZMA(c cursor, index int, entry Entry, w io.Writer) (int64, error) {
	frame, err := decodeLZMAFrame(c, entry.Length)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return 0, ioError(index, entry.Name, err)
		}

		return 0, codecError(index, entry.Name, err)
	}

	props, err := c.next(lzmaPropsSize)
	if err != nil {
		return 0, ioError(index, entry.Name, err)
	}

	// Rebuild the classic 13-byte .lzma header: properties + 64-bit unpacked size.
	var header [lzma.HeaderLen]byte
	copy(header[:lzmaPropsSize], props)
	le.PutUint64(header[lzmaPropsSize:], uint64(frame.unpackedSize))

	stream, err := c.section(int64(entry.Length) - lzmaFrameSize - lzmaPropsSize) //nolint:gosec // bounded by cursor
	if err != nil {
		return 0, ioError(index, entry.Name, err)
	}

	src := &trackingReader{r: stream}
	dec, err := lzma.NewReader(io.MultiReader(bytes.NewReader(header[:]), src))
	if err != nil {
		if src.err != nil {
			return 0, ioError(index, entry.Name, src.err)
		}

		return 0, codecError(index, entry.Name, err)
	}

	dst := &trackingWriter{w: w}
	written, err := io.CopyN(dst, dec, int64(frame.unpackedSize))
	if err != nil {
		switch {
		case dst.err != nil:
			return written, ioError(index, entry.Name, dst.err)
		case src.err != nil:
			return written, ioError(index, entry.Name, src.err)
		case err == io.EOF:
			return written, codecError(index, entry.Name, io.ErrUnexpectedEOF)
		default:
			return written, codecError(index, entry.Name, err)
		}
	}

	return written, nil
}

// trackingReader records the first non-EOF error of the wrapped reader,
// separating source failures from decoder failures.
type trackingReader struct {
	r   io.Reader
	err error
}

func (t *trackingReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if err != nil && err != io.EOF && t.err == nil {
		t.err = err
	}

	return n, err
}

// trackingWriter records the first error of the wrapped sink.
type trackingWriter struct {
	w   io.Writer
	err error
}

func (t *trackingWriter) Write(p []byte) (int, error) {
	n, err := t.w.Write(p)
	if err != nil && t.err == nil {
		t.err = err
	}

	return n, err
}
