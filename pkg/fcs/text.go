package fcs

import (
	"strings"
)

// TextSegment is the ordered keyword/value mapping held by the TEXT segment.
// Keywords are case-insensitive; they are stored upper-cased. Insertion order
// is preserved so a decoded file re-serializes with its keywords in file
// order. When a file contains a duplicate keyword, the last occurrence wins
// (the standard leaves this open; this package picks last-wins and tests it).
type TextSegment struct {
	delim  byte
	keys   []string
	values map[string]string
}

// DefaultDelimiter is used when serializing a TEXT segment that was not
// parsed from a file.
const DefaultDelimiter = '/'

// NewTextSegment returns an empty TEXT segment using the default delimiter.
func NewTextSegment() *TextSegment {
	return &TextSegment{delim: DefaultDelimiter, values: make(map[string]string)}
}

// ParseText decodes a TEXT segment slice. The first byte is the delimiter;
// tokens are split on single delimiter occurrences, a doubled delimiter
// inside a token is an escaped literal, and tokens pair up as keyword/value.
func ParseText(b []byte) (*TextSegment, error) {
	if len(b) < 2 {
		return nil, errf(MalformedTextSegment, "segment too short: %d bytes", len(b))
	}
	delim := b[0]

	var tokens []string
	var cur []byte
	open := false // a token has started and is not yet delimiter-terminated
	for i := 1; i < len(b); {
		c := b[i]
		if c != delim {
			cur = append(cur, c)
			open = true
			i++
			continue
		}
		if i+1 < len(b) && b[i+1] == delim {
			// Doubled delimiter: literal delimiter byte inside the token.
			cur = append(cur, delim)
			open = true
			i += 2
			continue
		}
		tokens = append(tokens, string(cur))
		cur = cur[:0]
		open = false
		i++
	}
	if open {
		return nil, errf(MalformedTextSegment, "unterminated token %q", string(cur))
	}
	if len(tokens)%2 != 0 {
		return nil, errf(MalformedTextSegment, "keyword %q has no value", tokens[len(tokens)-1])
	}

	ts := &TextSegment{delim: delim, values: make(map[string]string, len(tokens)/2)}
	for i := 0; i < len(tokens); i += 2 {
		ts.Set(tokens[i], tokens[i+1])
	}
	return ts, nil
}

// Delimiter returns the delimiter byte the segment was parsed with, or the
// default for a freshly built segment.
func (t *TextSegment) Delimiter() byte { return t.delim }

// Len returns the number of keywords.
func (t *TextSegment) Len() int { return len(t.keys) }

// Keys returns the keywords in file/insertion order. The slice is a copy.
func (t *TextSegment) Keys() []string {
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get returns the value for a keyword, or "" when absent.
func (t *TextSegment) Get(key string) string {
	return t.values[strings.ToUpper(key)]
}

// Lookup returns the value for a keyword and whether it is present.
func (t *TextSegment) Lookup(key string) (string, bool) {
	v, ok := t.values[strings.ToUpper(key)]
	return v, ok
}

// Set stores a keyword value, appending the keyword on first use and
// overwriting in place afterwards.
func (t *TextSegment) Set(key, value string) {
	key = strings.ToUpper(key)
	if _, ok := t.values[key]; !ok {
		t.keys = append(t.keys, key)
	}
	t.values[key] = value
}

// Delete removes a keyword if present.
func (t *TextSegment) Delete(key string) {
	key = strings.ToUpper(key)
	if _, ok := t.values[key]; !ok {
		return
	}
	delete(t.values, key)
	for i, k := range t.keys {
		if k == key {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Serialize renders the segment with the given delimiter: the delimiter
// byte, then each keyword and value delimiter-terminated, with literal
// delimiter bytes doubled. Empty keywords or values are rejected (an empty
// value would serialize to a doubled delimiter and un-escape on parse, and
// the standard forbids them), as are NUL bytes and a NUL delimiter. A
// keyword or value whose first byte is the delimiter cannot be written at
// all: its escape pair would sit directly after the previous token's
// terminator, and under doubling that run re-parses with the boundary in
// the wrong place. Such tokens are rejected rather than emitted corrupt.
func (t *TextSegment) Serialize(delim byte) ([]byte, error) {
	if delim == 0 {
		return nil, errf(MalformedTextSegment, "NUL delimiter")
	}
	var sb strings.Builder
	sb.WriteByte(delim)
	for _, k := range t.keys {
		v := t.values[k]
		if k == "" || v == "" {
			return nil, errf(MalformedTextSegment, "empty keyword or value (keyword %q)", k)
		}
		if strings.IndexByte(k, 0) >= 0 || strings.IndexByte(v, 0) >= 0 {
			return nil, errf(MalformedTextSegment, "NUL byte in keyword %q", k)
		}
		if k[0] == delim || v[0] == delim {
			return nil, errf(MalformedTextSegment, "keyword %q: token begins with the delimiter %q", k, delim)
		}
		writeEscaped(&sb, k, delim)
		sb.WriteByte(delim)
		writeEscaped(&sb, v, delim)
		sb.WriteByte(delim)
	}
	return []byte(sb.String()), nil
}

func writeEscaped(sb *strings.Builder, s string, delim byte) {
	for i := 0; i < len(s); i++ {
		if s[i] == delim {
			sb.WriteByte(delim)
		}
		sb.WriteByte(s[i])
	}
}
