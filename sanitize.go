// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"fmt"
	"path"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"
)

const (
	// maxSegmentBytes bounds one output path segment in UTF-8 bytes (ext4 allows 255).
	maxSegmentBytes = 240
	// maxKeptExtBytes is the longest extension kept intact when a segment is shortened.
	maxKeptExtBytes = 16
	// maxCollisionSuffix bounds the "~N" search for one colliding path.
	maxCollisionSuffix = 1_000_000
)

// reservedDeviceNames holds lower-cased Windows device names that cannot be used
// as a file stem regardless of extension. Windows also reserves COM and LPT with
// superscript digits.
var reservedDeviceNames = func() map[string]struct{} {
	names := map[string]struct{}{
		"con": {}, "prn": {}, "aux": {}, "nul": {},
		"conin$": {}, "conout$": {}, "clock$": {},
	}
	for _, digit := range []string{"0", "1", "2", "3", "4", "5", "6", "7", "8", "9", "¹", "²", "³"} {
		names["com"+digit] = struct{}{}
		names["lpt"+digit] = struct{}{}
	}

	return names
}()

// SanitizePath rewrites one entry name to a filesystem-safe slash-separated relative path.
// Traversal segments, drive prefixes, device names and unsafe characters are
// neutralized instead of rejected. The result is deterministic for a given name.
func SanitizePath(name string) (string, error) {
	if NormalizePath(name) == "" {
		return "", nil
	}

	sanitized := sanitizeRelativePath(name)
	if _, err := normalizeExtractEntryPath(sanitized); err != nil {
		return "", err
	}

	return sanitized, nil
}

// DisplayName replaces control and format runes in an entry name for safe text output.
func DisplayName(name string) string {
	if !strings.ContainsFunc(name, isUnsafeControlCharRune) {
		return name
	}

	return strings.Map(func(r rune) rune {
		if isUnsafeControlCharRune(r) {
			return '_'
		}

		return r
	}, name)
}

// sanitizeOutputNames maps selected catalog indexes to unique sanitized relative paths.
// Collisions are compared case-insensitively and resolved in catalog order.
func sanitizeOutputNames(entries []Entry, indexes []int) (map[int]string, error) {
	out := make(map[int]string, len(indexes))
	claims := newNameClaims(len(indexes))

	for _, index := range indexes {
		name := entries[index].Name
		sanitized, err := claims.claim(sanitizeRelativePath(name))
		if err != nil {
			return nil, fmt.Errorf("sanitize path %q: %w", name, err)
		}

		if _, err := normalizeExtractEntryPath(sanitized); err != nil {
			return nil, fmt.Errorf("sanitize path %q: %w", name, err)
		}

		out[index] = sanitized
	}

	return out, nil
}

// sanitizeRelativePath sanitizes every segment of name, accepting either separator.
// Empty and "." segments are dropped; a name with nothing left becomes "_".
func sanitizeRelativePath(name string) string {
	parts := strings.Split(NormalizePath(name), "/")
	kept := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" || part == "." {
			continue
		}

		kept = append(kept, sanitizeSegment(part))
	}

	if len(kept) == 0 {
		return "_"
	}

	return strings.Join(kept, "/")
}

// sanitizeSegment makes one path segment safe on Windows and POSIX filesystems.
// ".." collapses to "_" because trailing dots are stripped.
func sanitizeSegment(segment string) string {
	segment = strings.TrimSpace(segment)
	reserved := isReservedDeviceName(segment)

	segment = strings.Map(func(r rune) rune {
		if isUnsafeControlCharRune(r) || strings.ContainsRune(`<>:"/\|?*`, r) {
			return '_'
		}

		return r
	}, segment)

	// Windows drops trailing dots and spaces, which would alias another name.
	segment = strings.TrimRight(segment, ". ")
	if segment == "" {
		return "_"
	}

	if reserved {
		segment = "_" + segment
	}

	return shortenSegment(segment, maxSegmentBytes)
}

// isUnsafeControlCharRune reports whether r is unsafe in file names and text output.
// U+FFFD marks invalid UTF-16 in stored names.
func isUnsafeControlCharRune(r rune) bool {
	return unicode.IsControl(r) || unicode.In(r, unicode.Cf) || r == utf8.RuneError
}

// isReservedDeviceName reports whether the stem of segment is a Windows device name.
// The stem ends at the first dot or colon ("CON.txt", "AUX:").
func isReservedDeviceName(segment string) bool {
	stem := segment
	if cut := strings.IndexAny(stem, ".:"); cut >= 0 {
		stem = stem[:cut]
	}

	stem = strings.ToLower(strings.TrimRight(stem, " "))
	_, ok := reservedDeviceNames[stem]
	return ok
}

// shortenSegment fits segment into limit bytes without splitting a rune.
// Long segments keep a short extension and gain a hash of the full name so
// distinct long names stay distinct.
func shortenSegment(segment string, limit int) string {
	if len(segment) <= limit {
		return segment
	}

	ext := path.Ext(segment)
	if len(ext) > maxKeptExtBytes || len(ext) == len(segment) {
		ext = ""
	}

	tag := fmt.Sprintf("~%08x", uint32(xxhash.Sum64String(segment))) //nolint:gosec // short tag

	stem := strings.TrimSuffix(segment, ext)
	return truncateUTF8(stem, limit-len(tag)-len(ext)) + tag + ext
}

// truncateUTF8 returns the longest prefix of s of at most n bytes ending on a rune boundary.
func truncateUTF8(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}

	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}

	return s[:n]
}

// nameClaims hands out output paths that are unique case-insensitively,
// since extraction targets often live on case-insensitive filesystems.
type nameClaims struct {
	// taken holds lower-cased paths already handed out.
	taken map[string]struct{}
	// next remembers the next suffix to try per colliding path.
	next map[string]int
}

func newNameClaims(capacity int) *nameClaims {
	return &nameClaims{
		taken: make(map[string]struct{}, capacity),
		next:  make(map[string]int),
	}
}

// claim returns p, or p with a "~N" suffix before the extension when p is taken.
func (c *nameClaims) claim(p string) (string, error) {
	key := strings.ToLower(p)
	if _, ok := c.taken[key]; !ok {
		c.taken[key] = struct{}{}
		return p, nil
	}

	dir, file := path.Split(p)
	for n := max(c.next[key], 2); n < maxCollisionSuffix; n++ {
		candidate := dir + withNumericSuffix(file, n)
		candidateKey := strings.ToLower(candidate)
		if _, ok := c.taken[candidateKey]; ok {
			continue
		}

		c.taken[candidateKey] = struct{}{}
		c.next[key] = n + 1
		return candidate, nil
	}

	return "", ErrInvalidExtractPath
}

// withNumericSuffix inserts "~n" before the extension of file, staying within maxSegmentBytes.
func withNumericSuffix(file string, n int) string {
	ext := path.Ext(file)
	if len(ext) > maxKeptExtBytes || len(ext) == len(file) {
		ext = ""
	}

	stem := strings.TrimSuffix(file, ext)
	suffix := "~" + strconv.Itoa(n)

	return truncateUTF8(stem, maxSegmentBytes-len(suffix)-len(ext)) + suffix + ext
}
