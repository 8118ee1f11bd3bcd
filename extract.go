// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"
)

// ExtractTo decodes the entry at index into w and returns bytes written.
// Stored entries are copied verbatim; LZMA entries are decompressed.
// Failures are reported as *ExtractError.
func (a *Archive) ExtractTo(w io.Writer, index int) (int64, error) {
	if w == nil {
		return 0, ErrNilWriter
	}

	release, err := a.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	entry, err := a.Entry(index)
	if err != nil {
		return 0, err
	}

	return a.extractEntry(w, index, entry)
}

// Extract writes the entry at index to a file named by the entry path under dstDir,
// creating missing parent directories. Empty dstDir means the current directory.
// It returns the written file path.
func (a *Archive) Extract(dstDir string, index int) (string, error) {
	release, err := a.acquire()
	if err != nil {
		return "", err
	}
	defer release()

	entry, err := a.Entry(index)
	if err != nil {
		return "", err
	}

	root, err := resolveExtractRoot(dstDir)
	if err != nil {
		return "", err
	}

	outPath, _, err := a.extractToFile(root, index, entry, entry.Name, ExtractFileModeTruncate)
	return outPath, err
}

// ExtractAll writes every selected entry under dstDir in catalog order.
// It stops at the first failure and returns it; no entry is skipped.
// With MaxWorkers > 1 entries are extracted concurrently through independent
// cursors and the first failure cancels remaining work.
func (a *Archive) ExtractAll(ctx context.Context, dstDir string, opts ExtractOptions) error {
	opts.applyDefaults()

	release, err := a.acquire()
	if err != nil {
		return err
	}
	defer release()

	selector, err := newEntrySelector(opts.Include, opts.IncludeMatcherOptions)
	if err != nil {
		return err
	}

	indexes := selector.selectIndexes(a.entries)
	if len(indexes) == 0 {
		return nil
	}

	root, err := resolveExtractRoot(dstDir)
	if err != nil {
		return err
	}

	var outNames map[int]string
	if opts.SanitizeNames {
		outNames, err = sanitizeOutputNames(a.entries, indexes)
		if err != nil {
			return err
		}
	}

	extractOne := func(index int) error {
		entry := a.entries[index]
		outName := entry.Name
		if outNames != nil {
			outName = outNames[index]
		}

		outPath, written, err := a.extractToFile(root, index, entry, outName, opts.FileMode)
		if err != nil {
			return err
		}

		if opts.OnEntryDone != nil {
			opts.OnEntryDone(index, entry, written, outPath)
		}

		return nil
	}

	if opts.MaxWorkers <= 1 {
		for _, index := range indexes {
			if err := ctx.Err(); err != nil {
				return err
			}

			if err := extractOne(index); err != nil {
				return err
			}
		}

		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.MaxWorkers)
	for _, index := range indexes {
		if gctx.Err() != nil {
			break
		}

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			return extractOne(index)
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	return ctx.Err()
}

// extractEntry decodes one entry through a fresh cursor.
// The caller must hold the archive open.
func (a *Archive) extractEntry(w io.Writer, index int, entry Entry) (int64, error) {
	if entry.Offset > math.MaxInt64 {
		return 0, ioError(index, entry.Name, io.ErrUnexpectedEOF)
	}

	c := a.src.newCursor()
	defer c.release()

	if err := c.seek(int64(entry.Offset)); err != nil {
		return 0, ioError(index, entry.Name, err)
	}

	switch entry.Compression {
	case CompressionStored:
		return extractStored(c, index, entry, w)
	case CompressionLZMA:
		return extractLZMA(c, index, entry, w)
	default:
		return 0, fmt.Errorf("entry %d (%s): %w: %s", index, entry.Name, ErrUnsupportedCompression, entry.Compression)
	}
}

// extractStored copies exactly entry.Length bytes at the cursor into w.
func extractStored(c cursor, index int, entry Entry, w io.Writer) (int64, error) {
	written, err := c.copyTo(w, int64(entry.Length)) //nolint:gosec // bounded by cursor
	if err != nil {
		return written, ioError(index, entry.Name, err)
	}

	return written, nil
}

// extractToFile writes one entry to outName resolved under root.
func (a *Archive) extractToFile(root string, index int, entry Entry, outName string, mode ExtractFileMode) (string, int64, error) {
	outPath, err := resolveExtractPath(root, outName)
	if err != nil {
		return "", 0, fmt.Errorf("entry %d (%s): %w", index, entry.Name, err)
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0o750); err != nil {
		return "", 0, ioError(index, entry.Name, fmt.Errorf("create output directory: %w", err))
	}

	file, err := openExtractFile(outPath, mode)
	if err != nil {
		return "", 0, ioError(index, entry.Name, fmt.Errorf("open %s: %w", outPath, err))
	}

	bw := bufio.NewWriterSize(file, copyBufferSize)
	written, extractErr := a.extractEntry(bw, index, entry)
	if extractErr == nil {
		if err := bw.Flush(); err != nil {
			extractErr = ioError(index, entry.Name, fmt.Errorf("flush %s: %w", outPath, err))
		}
	}

	closeErr := file.Close()
	if extractErr != nil {
		return "", written, extractErr
	}

	if closeErr != nil {
		return "", written, ioError(index, entry.Name, fmt.Errorf("close %s: %w", outPath, closeErr))
	}

	return outPath, written, nil
}

// resolveExtractRoot returns absolute destination root; empty dstDir means current directory.
func resolveExtractRoot(dstDir string) (string, error) {
	if dstDir == "" {
		dstDir = "."
	}

	root, err := filepath.Abs(dstDir)
	if err != nil {
		return "", fmt.Errorf("resolve output dir: %w", err)
	}

	return root, nil
}

// resolveExtractPath maps an entry name to a file path inside root.
func resolveExtractPath(root string, name string) (string, error) {
	normalizedPath, err := normalizeExtractEntryPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %q", err, name)
	}

	outPath := filepath.Join(root, filepath.FromSlash(normalizedPath))
	rel, err := filepath.Rel(root, outPath)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: %q", ErrExtractPathOutsideRoot, name)
	}

	return outPath, nil
}

// openExtractFile opens output path according to selected extract file mode.
func openExtractFile(path string, mode ExtractFileMode) (*os.File, error) {
	switch mode {
	case ExtractFileModeTruncate:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	case ExtractFileModeCreateOnly:
		return os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
	default:
		return nil, fmt.Errorf("unknown extract file mode %q", mode)
	}
}
