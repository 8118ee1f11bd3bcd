// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"
)

// mmapSource exposes the whole archive as one read-only contiguous region.
// The region is immutable once mapped and safe for concurrent cursors.
type mmapSource struct {
	file  *os.File
	unmap func() error
	data  []byte
}

// newMmapSource maps f of size n read-only.
func newMmapSource(f *os.File, n int64) (*mmapSource, error) {
	if n < 0 || uint64(n) > uint64(math.MaxInt) {
		return nil, fmt.Errorf("map %s: size %d exceeds address space", f.Name(), n)
	}

	data, unmap, err := mapFile(f, int(n))
	if err != nil {
		return nil, fmt.Errorf("map %s: %w", f.Name(), err)
	}

	return &mmapSource{file: f, data: data, unmap: unmap}, nil
}

func (s *mmapSource) newCursor() cursor {
	return &mmapCursor{data: s.data}
}

func (s *mmapSource) size() int64 {
	return int64(len(s.data))
}

func (s *mmapSource) backend() Backend {
	return BackendMmap
}

func (s *mmapSource) close() error {
	var unmapErr error
	if s.unmap != nil {
		unmapErr = s.unmap()
		s.unmap = nil
	}
	s.data = nil

	var closeErr error
	if s.file != nil {
		closeErr = s.file.Close()
	}

	if unmapErr != nil {
		return fmt.Errorf("unmap: %w", unmapErr)
	}

	return closeErr
}

// mmapCursor reads by offset arithmetic; it never copies or refills.
type mmapCursor struct {
	data []byte
	pos  int64
}

func (c *mmapCursor) next(n int) ([]byte, error) {
	if n < 0 || int64(n) > int64(len(c.data))-c.pos {
		return nil, io.ErrUnexpectedEOF
	}

	b := c.data[c.pos : c.pos+int64(n)]
	c.pos += int64(n)
	return b, nil
}

func (c *mmapCursor) skip(n int64) error {
	return c.seek(c.pos + n)
}

func (c *mmapCursor) seek(off int64) error {
	if off < 0 || off > int64(len(c.data)) {
		return io.ErrUnexpectedEOF
	}

	c.pos = off
	return nil
}

func (c *mmapCursor) offset() int64 {
	return c.pos
}

// copyTo writes straight from the mapped region.
func (c *mmapCursor) copyTo(w io.Writer, n int64) (int64, error) {
	if n < 0 || n > int64(len(c.data))-c.pos {
		return 0, io.ErrUnexpectedEOF
	}

	written, err := w.Write(c.data[c.pos : c.pos+n])
	c.pos += int64(written)
	if err == nil && int64(written) != n {
		err = io.ErrShortWrite
	}

	return int64(written), err
}

func (c *mmapCursor) section(n int64) (io.Reader, error) {
	if n < 0 || n > int64(len(c.data))-c.pos {
		return nil, io.ErrUnexpectedEOF
	}

	r := bytes.NewReader(c.data[c.pos : c.pos+n])
	c.pos += n
	return r, nil
}

func (c *mmapCursor) release() {
	c.data = nil
}
