// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

package iro

import (
	"golang.org/x/text/encoding/unicode"
)

// utf16LE decodes archive names; the format carries no BOM.
var utf16LE = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// decodeName converts a UTF-16LE byte run to UTF-8 text.
// Lone surrogates and a trailing odd byte become U+FFFD; it never fails.
func decodeName(raw []byte) string {
	out, _ := utf16LE.NewDecoder().Bytes(raw)
	return string(out)
}
