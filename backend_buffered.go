// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"bufio"
	"bytes"
	"io"
	"os"
	"sync"
)

// bufferedSource reads through pooled read-ahead buffers over a random-access source.
// Each cursor owns its own bufio.Reader, so concurrent cursors never share state.
type bufferedSource struct {
	// ra is the underlying random-access reader.
	ra io.ReaderAt
	// file is set when the source owns an *os.File opened by path.
	file *os.File
	// pool reuses read-ahead buffers of bufSize bytes.
	pool *sync.Pool
	// n is total source size in bytes.
	n int64
}

// newBufferedSource wraps ra of known size with read-ahead buffers of bufSize bytes.
func newBufferedSource(ra io.ReaderAt, file *os.File, n int64, bufSize int) *bufferedSource {
	return &bufferedSource{
		ra:   ra,
		file: file,
		n:    n,
		pool: &sync.Pool{
			New: func() any {
				return bufio.NewReaderSize(bytes.NewReader(nil), bufSize)
			},
		},
	}
}

func (s *bufferedSource) newCursor() cursor {
	br := s.pool.Get().(*bufio.Reader) //nolint:forcetypeassert // pool contains only *bufio.Reader
	br.Reset(io.NewSectionReader(s.ra, 0, s.n))

	return &bufferedCursor{src: s, br: br}
}

func (s *bufferedSource) size() int64 {
	return s.n
}

func (s *bufferedSource) backend() Backend {
	return BackendBuffered
}

func (s *bufferedSource) close() error {
	if s.file != nil {
		return s.file.Close()
	}

	return nil
}

// bufferedCursor decodes records in place from the read-ahead buffer.
type bufferedCursor struct {
	src *bufferedSource
	br  *bufio.Reader
	pos int64
	// stale is set after section hands out br; the buffer position may lag pos.
	stale bool
}

func (c *bufferedCursor) next(n int) ([]byte, error) {
	if err := c.sync(); err != nil {
		return nil, err
	}
	if n < 0 || int64(n) > c.src.n-c.pos {
		return nil, io.ErrUnexpectedEOF
	}

	// Peek refills the buffer when fewer than n bytes are buffered.
	b, err := c.br.Peek(n)
	if err != nil {
		if err == io.EOF {
			return nil, io.ErrUnexpectedEOF
		}

		return nil, err
	}

	if _, err := c.br.Discard(n); err != nil {
		return nil, err
	}

	c.pos += int64(n)
	return b, nil
}

func (c *bufferedCursor) skip(n int64) error {
	return c.seek(c.pos + n)
}

func (c *bufferedCursor) seek(off int64) error {
	if off < 0 || off > c.src.n {
		return io.ErrUnexpectedEOF
	}

	if !c.stale && off >= c.pos && off-c.pos <= int64(c.br.Buffered()) {
		if _, err := c.br.Discard(int(off - c.pos)); err != nil {
			return err
		}

		c.pos = off
		return nil
	}

	c.br.Reset(io.NewSectionReader(c.src.ra, off, c.src.n-off))
	c.pos = off
	c.stale = false
	return nil
}

func (c *bufferedCursor) offset() int64 {
	return c.pos
}

func (c *bufferedCursor) copyTo(w io.Writer, n int64) (int64, error) {
	if err := c.sync(); err != nil {
		return 0, err
	}
	if n < 0 || n > c.src.n-c.pos {
		return 0, io.ErrUnexpectedEOF
	}

	written, err := io.CopyN(w, c.br, n)
	c.pos += written
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}

	return written, err
}

func (c *bufferedCursor) section(n int64) (io.Reader, error) {
	if err := c.sync(); err != nil {
		return nil, err
	}
	if n < 0 || n > c.src.n-c.pos {
		return nil, io.ErrUnexpectedEOF
	}

	c.pos += n
	c.stale = true
	return io.LimitReader(c.br, n), nil
}

func (c *bufferedCursor) release() {
	if c.br == nil {
		return
	}

	c.br.Reset(bytes.NewReader(nil))
	c.src.pool.Put(c.br)
	c.br = nil
}

// sync realigns the read-ahead buffer with pos after a section was handed out.
func (c *bufferedCursor) sync() error {
	if !c.stale {
		return nil
	}

	return c.seek(c.pos)
}
