// Package fcs reads and writes Flow Cytometry Standard 3.1 files.
//
// An FCS file is three (optionally four) contiguous segments: a fixed
// 58-byte HEADER, a delimited keyword/value TEXT segment, a binary DATA
// segment of per-event channel measurements, and an optional ANALYSIS
// segment this package carries verbatim.
//
// # File Layout
//
//	HEADER   58 bytes: "FCS3.1", 4 spaces, six 8-char ASCII offsets
//	TEXT     delimiter byte, then delimiter-separated keyword/value pairs
//	DATA     $TOT rows x $PAR columns, list mode, fixed row stride
//	ANALYSIS optional, opaque
//
// Offsets above 99,999,999 do not fit the header's 8-character fields; such
// a segment's header fields are written as 0 and the true offsets live in
// the TEXT segment under $BEGINDATA/$ENDDATA (the large-file convention).
// Both directions of that convention are handled here.
//
// # Channels
//
// Every channel has a required unique short name ($PnN) and an optional
// long name ($PnS) that defaults to the short name. The supported encodings
// are the uncompressed list-mode types: unsigned integers of 8/16/32/64
// bits, single-precision floats, and double-precision floats, in one byte
// order and one datatype per file.
//
// # Usage
//
// Decoding works against a Source, anything that can serve byte ranges:
//
//	f, err := fcs.Open(src)         // HEADER + TEXT only
//	table, err := f.ReadData()      // DATA on demand
//	table, err := fcs.ReadTable(src) // both at once
//
// Encoding builds the whole stream in memory and writes it once:
//
//	err := fcs.Write(w, table, nil)
//
// Rename rewrites channel names without touching event bytes:
//
//	err := fcs.Rename(src, w, map[string]string{"a": "a_1"}, fcs.ScopeShort)
//
// # Error Handling
//
// Structural problems surface as *FormatError with a Kind from the fixed
// taxonomy (UnsupportedVersion, MalformedHeader, ... InvalidRename), plus
// the offending keyword or offset where known. No partial structures are
// returned on failure, and decode failures are never retried. I/O errors
// from the Source propagate unchanged.
//
// # Concurrency
//
// The codec is stateless; independent calls may run concurrently on
// independent buffers with no locking.
package fcs
