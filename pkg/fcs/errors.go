package fcs

import (
	"errors"
	"fmt"
)

// ErrorKind classifies the structural problems a decode, encode or rename
// can hit. Every parse-time failure in this package carries one of these.
type ErrorKind int

const (
	// UnsupportedVersion means the header version tag is not FCS3.1.
	UnsupportedVersion ErrorKind = iota + 1
	// MalformedHeader means the fixed 58-byte header could not be parsed.
	MalformedHeader
	// MalformedTextSegment means the delimited TEXT segment is structurally
	// broken or a keyword value violates the format.
	MalformedTextSegment
	// MissingRequiredKeyword means a keyword the standard requires is absent.
	MissingRequiredKeyword
	// UnsupportedByteOrder means $BYTEORD is neither 1,2,3,4 nor 4,3,2,1.
	UnsupportedByteOrder
	// DuplicateShortName means two channels share a short name.
	DuplicateShortName
	// UnknownChannel means a rename referenced a channel that does not exist.
	UnknownChannel
	// TruncatedDataSegment means the DATA segment is shorter than the
	// event count and row stride require.
	TruncatedDataSegment
	// InvalidRename means a replacement channel name is itself unusable.
	InvalidRename
)

func (k ErrorKind) String() string {
	switch k {
	case UnsupportedVersion:
		return "unsupported version"
	case MalformedHeader:
		return "malformed header"
	case MalformedTextSegment:
		return "malformed text segment"
	case MissingRequiredKeyword:
		return "missing required keyword"
	case UnsupportedByteOrder:
		return "unsupported byte order"
	case DuplicateShortName:
		return "duplicate short name"
	case UnknownChannel:
		return "unknown channel"
	case TruncatedDataSegment:
		return "truncated data segment"
	case InvalidRename:
		return "invalid rename"
	default:
		return fmt.Sprintf("error kind %d", int(k))
	}
}

// FormatError describes a structural problem in an FCS byte stream. Keyword
// and Offset are filled in when the failing location is known.
type FormatError struct {
	Kind    ErrorKind
	Keyword string
	Offset  int64
	Message string
}

func (e *FormatError) Error() string {
	s := "fcs: " + e.Kind.String()
	if e.Keyword != "" {
		s += " (" + e.Keyword + ")"
	}
	if e.Message != "" {
		s += ": " + e.Message
	}
	if e.Offset > 0 {
		s += fmt.Sprintf(" at offset %d", e.Offset)
	}
	return s
}

// IsKind reports whether err is (or wraps) a FormatError with the given kind.
func IsKind(err error, kind ErrorKind) bool {
	var fe *FormatError
	return errors.As(err, &fe) && fe.Kind == kind
}

func errf(kind ErrorKind, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func keywordErr(kind ErrorKind, keyword, format string, args ...any) *FormatError {
	return &FormatError{Kind: kind, Keyword: keyword, Message: fmt.Sprintf(format, args...)}
}
