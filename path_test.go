// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"errors"
	"path/filepath"
	"testing"
)

func TestNormalizePath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "clean", in: "textures/menu/avatar.png", want: "textures/menu/avatar.png"},
		{name: "windows", in: `textures\menu\avatar.png`, want: "textures/menu/avatar.png"},
		{name: "mixed", in: `a/b\c`, want: "a/b/c"},
		{name: "dot segments kept", in: `.\a\..\b`, want: "./a/../b"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := NormalizePath(tc.in)
			if got != tc.want {
				t.Fatalf("NormalizePath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestCleanPath(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "slash", in: "/", want: ""},
		{name: "windows", in: `.\mods\scripts\5_Mission\`, want: "mods/scripts/5_Mission"},
		{name: "dot segments", in: "./a/../b//c.txt", want: "b/c.txt"},
		{name: "escape clamped", in: "../../x", want: "x"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := CleanPath(tc.in)
			if got != tc.want {
				t.Fatalf("CleanPath(%q)=%q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeExtractEntryPath(t *testing.T) {
	t.Parallel()

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		got, err := normalizeExtractEntryPath(`.\textures/menu\\avatar.png`)
		if err != nil {
			t.Fatalf("normalizeExtractEntryPath: %v", err)
		}

		if got != "textures/menu/avatar.png" {
			t.Fatalf("normalizeExtractEntryPath=%q, want textures/menu/avatar.png", got)
		}
	})

	for _, in := range []string{"", "   ", "/", `\a`, "a/../../b", "C:x", "a\x00b", "./."} {
		t.Run("invalid "+in, func(t *testing.T) {
			t.Parallel()

			_, err := normalizeExtractEntryPath(in)
			if !errors.Is(err, ErrInvalidExtractPath) {
				t.Fatalf("normalizeExtractEntryPath(%q): expected ErrInvalidExtractPath, got %v", in, err)
			}
		})
	}
}

func TestResolveExtractPath(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	got, err := resolveExtractPath(root, "a/b.txt")
	if err != nil {
		t.Fatalf("resolveExtractPath: %v", err)
	}
	if got != filepath.Join(root, "a", "b.txt") {
		t.Fatalf("resolveExtractPath=%q", got)
	}

	if _, err := resolveExtractPath(root, "../b.txt"); !errors.Is(err, ErrInvalidExtractPath) {
		t.Fatalf("expected ErrInvalidExtractPath, got %v", err)
	}
}
