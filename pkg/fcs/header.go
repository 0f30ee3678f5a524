package fcs

import (
	"strconv"
	"strings"
)

const (
	// Version is the only format revision this package reads and writes.
	Version = "FCS3.1"

	// HeaderSize is the fixed byte length of the HEADER segment.
	HeaderSize = 58

	// maxHeaderOffset is the largest offset an 8-character header field can
	// hold. Larger offsets are written as 0 in the header and carried as
	// $BEGINDATA/$ENDDATA style keywords in the TEXT segment instead.
	maxHeaderOffset = 99_999_999
)

// Header holds the six segment offsets from the fixed 58-byte HEADER.
// Offsets are inclusive byte positions; an absent segment is 0/0.
type Header struct {
	TextBegin     int64
	TextEnd       int64
	DataBegin     int64
	DataEnd       int64
	AnalysisBegin int64
	AnalysisEnd   int64
}

// ParseHeader decodes the fixed 58-byte HEADER segment. The version tag must
// be exactly FCS3.1; each offset field is a right-justified ASCII decimal.
func ParseHeader(b []byte) (Header, error) {
	var h Header
	if len(b) < HeaderSize {
		return h, errf(MalformedHeader, "need %d bytes, have %d", HeaderSize, len(b))
	}
	if v := string(b[0:6]); v != Version {
		return h, errf(UnsupportedVersion, "version tag %q", v)
	}
	for i := 6; i < 10; i++ {
		if b[i] != ' ' {
			return h, errf(MalformedHeader, "byte %d: want space, have %q", i, b[i])
		}
	}

	fields := [6]*int64{&h.TextBegin, &h.TextEnd, &h.DataBegin, &h.DataEnd, &h.AnalysisBegin, &h.AnalysisEnd}
	for i, p := range fields {
		off := 10 + i*8
		v, err := parseOffsetField(b[off : off+8])
		if err != nil {
			return h, errf(MalformedHeader, "offset field at byte %d: %v", off, err)
		}
		*p = v
	}

	if h.TextEnd < h.TextBegin {
		return h, errf(MalformedHeader, "text segment end %d before begin %d", h.TextEnd, h.TextBegin)
	}
	if h.DataEnd < h.DataBegin {
		return h, errf(MalformedHeader, "data segment end %d before begin %d", h.DataEnd, h.DataBegin)
	}
	if h.TextBegin < HeaderSize {
		return h, errf(MalformedHeader, "text segment begins at %d, inside the header", h.TextBegin)
	}
	return h, nil
}

// parseOffsetField reads one 8-character header field. The standard right-
// justifies the digits; some writers left-justify, so padding is accepted on
// either side, but the digits themselves must be contiguous.
func parseOffsetField(b []byte) (int64, error) {
	s := strings.TrimSpace(string(b))
	if s == "" {
		return 0, strconv.ErrSyntax
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil || v < 0 {
		return 0, strconv.ErrSyntax
	}
	return v, nil
}

// Serialize renders the fixed 58-byte HEADER. A segment whose begin or end
// offset does not fit the 8-digit fields has both fields written as 0; the
// offset resolver has already placed the true values in the TEXT segment by
// the time this runs.
func (h Header) Serialize() []byte {
	b := make([]byte, HeaderSize)
	copy(b, Version)
	for i := 6; i < 10; i++ {
		b[i] = ' '
	}
	offs := [6]int64{h.TextBegin, h.TextEnd, h.DataBegin, h.DataEnd, h.AnalysisBegin, h.AnalysisEnd}
	for i := 0; i < 6; i += 2 {
		if offs[i] > maxHeaderOffset || offs[i+1] > maxHeaderOffset {
			offs[i], offs[i+1] = 0, 0
		}
	}
	for i, v := range offs {
		s := strconv.FormatInt(v, 10)
		field := b[10+i*8 : 10+(i+1)*8]
		for j := range field {
			field[j] = ' '
		}
		copy(field[8-len(s):], s)
	}
	return b
}
