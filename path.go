// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"path"
	"strings"
)

// NormalizePath converts an archive path to slash-separated form.
// Archives store "\" separators; the result is the same on every host.
func NormalizePath(raw string) string {
	return strings.ReplaceAll(raw, `\`, `/`)
}

// CleanPath converts an archive or user path to canonical relative form:
// slash separators, no leading "./" or "/", dot segments resolved.
func CleanPath(raw string) string {
	raw = strings.TrimSpace(NormalizePath(raw))
	raw = path.Clean("/" + raw)
	raw = strings.TrimPrefix(raw, "/")
	if raw == "." {
		return ""
	}

	return raw
}

// normalizeExtractEntryPath normalizes entry path and rejects absolute/traversal inputs.
func normalizeExtractEntryPath(entryPath string) (string, error) {
	raw := strings.TrimSpace(entryPath)
	if raw == "" {
		return "", ErrInvalidExtractPath
	}
	if strings.ContainsRune(raw, 0) {
		return "", ErrInvalidExtractPath
	}
	if strings.HasPrefix(raw, `/`) || strings.HasPrefix(raw, `\`) {
		return "", ErrInvalidExtractPath
	}

	raw = NormalizePath(raw)
	if hasWindowsDrivePrefix(raw) {
		return "", ErrInvalidExtractPath
	}

	parts := strings.Split(raw, `/`)
	cleanParts := make([]string, 0, len(parts))
	for _, part := range parts {
		switch part {
		case "", ".":
			continue
		case "..":
			return "", ErrInvalidExtractPath
		default:
			cleanParts = append(cleanParts, part)
		}
	}
	if len(cleanParts) == 0 {
		return "", ErrInvalidExtractPath
	}

	return strings.Join(cleanParts, `/`), nil
}

// hasWindowsDrivePrefix reports whether path starts with a drive prefix like C: or C:/.
func hasWindowsDrivePrefix(path string) bool {
	if len(path) < 2 {
		return false
	}

	return isASCIIAlpha(path[0]) && path[1] == ':'
}

// isASCIIAlpha reports whether byte is ASCII latin letter.
func isASCIIAlpha(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}
