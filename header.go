// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"errors"
	"fmt"
	"io"
)

// parseHeader reads and validates the fixed archive header at the cursor position.
func parseHeader(c cursor) (Header, error) {
	raw, err := c.next(headerSize)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return Header{}, ErrTruncatedHeader
		}

		return Header{}, fmt.Errorf("read header: %w", err)
	}

	return decodeHeader(raw)
}

// decodeHeader decodes and validates a headerSize-byte header block.
func decodeHeader(raw []byte) (Header, error) {
	if len(raw) < headerSize {
		return Header{}, ErrTruncatedHeader
	}

	var h Header
	copy(h.Signature[:], raw[0:4])
	if h.Signature != Signature {
		return Header{}, fmt.Errorf("%w: %q", ErrBadSignature, h.Signature[:])
	}

	h.Version = Version(readU32(raw, 4))
	h.Flags = readU32(raw, 8)
	h.EntryCount = readU32(raw, 12)

	if h.Flags != 0 {
		return Header{}, fmt.Errorf("%w: 0x%x", ErrUnsupportedArchiveFlags, h.Flags)
	}

	if !h.Version.Valid() {
		return Header{}, fmt.Errorf("%w: 0x%x", ErrUnsupportedVersion, uint32(h.Version))
	}

	return h, nil
}
