// SPDX-License-Identifier: MIT
// Copyright (c) 2026 WoozyMasta
// Source: github.com/woozymasta/iro

/*
Package iro reads IRO mod archives ("IROS" containers used by 7th Heaven
style mod managers). It is read-only: archives are parsed once into an
immutable entry catalog and entries are extracted on demand without loading
the whole archive into memory.

Format summary:
  - 16-byte header: "IROS", version, flags, entry count (u32 LE);
  - versions 0x10000 (32-bit offsets), 0x10001 and 0x10002 (64-bit offsets);
  - nonzero archive flags mark patch archives, which are not supported;
  - entry records are self-describing (entry_size, UTF-16LE name, flags,
    offset, length) and may carry trailing padding;
  - flags 0 is stored payload, flags 2 is an LZMA1 frame
    (unpacked size, properties length 5, properties, raw stream).

# Reading

Open an archive and list or read entries:

	a, err := iro.Open("mod.iro")
	if err != nil {
	    return err
	}
	defer a.Close()
	for i, e := range a.Entries() {
	    data, _ := a.ReadEntry(i)
	    _ = e.Name
	    _ = data
	}

Entry names use "/" separators on every platform. Keep names exactly as
stored with ReaderOptions.RawNames.

# Backends

Two I/O strategies produce identical catalogs and payloads:

	a, err := iro.OpenWithOptions("mod.iro", iro.ReaderOptions{
	    Backend: iro.BackendMmap,
	})

BackendBuffered (default) parses through a read-ahead buffer;
BackendMmap maps the file read-only and writes stored payloads straight
from the mapping.

# Extracting

Decode one entry into any writer:

	n, err := a.ExtractTo(os.Stdout, 0)

Extract everything under a directory, stopping at the first failure:

	if err := a.ExtractAll(ctx, "out/", iro.ExtractOptions{}); err != nil {
	    return err
	}

Select entries with github.com/woozymasta/pathrules and extract in parallel:

	err := a.ExtractAll(ctx, "out/", iro.ExtractOptions{
	    MaxWorkers: 4,
	    Include: []pathrules.Rule{
	        {Action: pathrules.ActionInclude, Pattern: "textures/**"},
	    },
	})

Entry names that are absolute, carry a drive prefix or climb out with ".."
are rejected. Set ExtractOptions.SanitizeNames to rewrite them (and Windows
reserved device names) into safe unique paths instead.

Extraction failures are *ExtractError values; use errors.Is with ErrIO or
ErrCodec. Open failures wrap ErrFormat.
*/
package iro
