package fcs

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"strconv"
)

// Source provides bounded random-access reads over an FCS byte stream.
// pkg/blob ships local-file and S3 implementations; anything that can serve
// a byte range works. Reads never exceed the header-declared segment ends.
type Source interface {
	ReadRange(off, length int64) ([]byte, error)
}

// Scope selects which channel name a lookup or rename applies to.
type Scope int

const (
	// ScopeShort addresses channels by $PnN.
	ScopeShort Scope = iota
	// ScopeLong addresses channels by $PnS.
	ScopeLong
)

// ParseScope maps "short"/"long" to a Scope.
func ParseScope(s string) (Scope, error) {
	switch s {
	case "short":
		return ScopeShort, nil
	case "long":
		return ScopeLong, nil
	default:
		return 0, fmt.Errorf("fcs: unknown channel scope %q (want short or long)", s)
	}
}

// Table is a decoded DATA segment: one row per event, one column per
// channel, in file order. The caller owns it; the codec retains nothing.
type Table struct {
	Channels []Channel
	Rows     [][]float64
}

// Names returns the channel names under the given scope, in column order.
func (t *Table) Names(scope Scope) []string {
	out := make([]string, len(t.Channels))
	for i, c := range t.Channels {
		if scope == ScopeLong {
			out[i] = c.Long
		} else {
			out[i] = c.Short
		}
	}
	return out
}

// File is a decoded HEADER+TEXT view of one FCS data set. Opening a file
// never touches the DATA segment; ReadData fetches and decodes it on demand.
type File struct {
	Header Header
	Text   *TextSegment
	Layout *Layout
	Events int

	src                Source
	dataBegin, dataEnd int64
}

// Open reads and decodes the HEADER and TEXT segments from src and derives
// the parameter layout. Zeroed header data offsets fall back to the
// $BEGINDATA/$ENDDATA keywords (the large-file convention).
func Open(src Source) (*File, error) {
	hb, err := src.ReadRange(0, HeaderSize)
	if err != nil {
		return nil, fmt.Errorf("fcs: read header: %w", err)
	}
	h, err := ParseHeader(hb)
	if err != nil {
		return nil, err
	}

	tb, err := src.ReadRange(h.TextBegin, h.TextEnd-h.TextBegin+1)
	if err != nil {
		return nil, fmt.Errorf("fcs: read text segment: %w", err)
	}
	ts, err := ParseText(tb)
	if err != nil {
		return nil, err
	}

	layout, err := BuildLayout(ts)
	if err != nil {
		return nil, err
	}
	events, err := requiredInt(ts, "$TOT")
	if err != nil {
		return nil, err
	}

	f := &File{
		Header:    h,
		Text:      ts,
		Layout:    layout,
		Events:    events,
		src:       src,
		dataBegin: h.DataBegin,
		dataEnd:   h.DataEnd,
	}
	if f.dataBegin == 0 && f.dataEnd == 0 {
		begin, err := requiredInt(ts, "$BEGINDATA")
		if err != nil {
			return nil, err
		}
		end, err := requiredInt(ts, "$ENDDATA")
		if err != nil {
			return nil, err
		}
		f.dataBegin, f.dataEnd = int64(begin), int64(end)
	}
	return f, nil
}

// Channels returns the ordered channel identities.
func (f *File) Channels() []Channel { return f.Layout.Channels() }

// ReadData fetches the DATA segment from the file's source and decodes it.
func (f *File) ReadData() (*Table, error) {
	t := &Table{Channels: f.Layout.Channels()}
	if f.Events == 0 {
		t.Rows = [][]float64{}
		return t, nil
	}
	b, err := f.src.ReadRange(f.dataBegin, f.dataEnd-f.dataBegin+1)
	if err != nil {
		return nil, fmt.Errorf("fcs: read data segment: %w", err)
	}
	rows, err := DecodeData(b, f.Layout, f.Events)
	if err != nil {
		return nil, err
	}
	t.Rows = rows
	return t, nil
}

// ReadTable decodes a complete FCS data set from src.
func ReadTable(src Source) (*Table, error) {
	f, err := Open(src)
	if err != nil {
		return nil, err
	}
	return f.ReadData()
}

// EventCount reads only HEADER+TEXT and returns $TOT.
func EventCount(src Source) (int, error) {
	f, err := Open(src)
	if err != nil {
		return 0, err
	}
	return f.Events, nil
}

// WriteOptions control the encoding of a written file. The zero value
// writes little-endian single-precision floats, matching the most common
// list-mode layout.
type WriteOptions struct {
	// Type is the file-level datatype; default TypeFloat.
	Type DataType
	// BigEndian writes $BYTEORD/4,3,2,1/ and big-endian data.
	BigEndian bool
	// IntBits is the integer channel width when Type is TypeInt; default 32.
	IntBits int
	// Extra keywords are carried into the TEXT segment verbatim. Standard
	// keywords managed by the writer win on collision.
	Extra map[string]string
}

// Write assembles and emits a complete FCS 3.1 byte stream for the table.
// The entire stream is built in memory and written in one call, so a
// failing sink never receives a partial file.
func Write(w io.Writer, t *Table, opts *WriteOptions) error {
	if opts == nil {
		opts = &WriteOptions{}
	}
	layout, err := layoutForTable(t, opts)
	if err != nil {
		return err
	}

	data, err := EncodeData(t.Rows, layout)
	if err != nil {
		return err
	}

	ts := NewTextSegment()
	ts.Set("$BEGINANALYSIS", "0")
	ts.Set("$BEGINDATA", "0")
	ts.Set("$BEGINSTEXT", "0")
	ts.Set("$ENDANALYSIS", "0")
	ts.Set("$ENDDATA", "0")
	ts.Set("$ENDSTEXT", "0")
	ts.Set("$MODE", "L")
	ts.Set("$NEXTDATA", "0")
	ts.Set("$TOT", strconv.Itoa(len(t.Rows)))
	layout.applyTo(ts)
	for k, v := range opts.Extra {
		if _, ok := ts.Lookup(k); !ok {
			ts.Set(k, v)
		}
	}

	rl, err := resolveOffsets(ts, DefaultDelimiter, int64(len(data)), 0)
	if err != nil {
		return err
	}
	return emit(w, rl, data, nil)
}

// emit lays out header, padding, text, data and optional analysis into one
// buffer and writes it with a single call.
func emit(w io.Writer, rl resolvedLayout, data, analysis []byte) error {
	var buf bytes.Buffer
	size := rl.header.TextEnd + 1 + int64(len(data)) + int64(len(analysis))
	buf.Grow(int(size))
	buf.Write(rl.header.Serialize())
	for i := int64(HeaderSize); i < textStart; i++ {
		buf.WriteByte(' ')
	}
	buf.Write(rl.text)
	buf.Write(data)
	buf.Write(analysis)
	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("fcs: write: %w", err)
	}
	return nil
}

// layoutForTable builds the write-path layout from the table's channels and
// the options: per-channel ranges from the column maxima (truncated, the
// way the conventional writer records them), amplification 0,0.
func layoutForTable(t *Table, opts *WriteOptions) (*Layout, error) {
	typ := opts.Type
	if typ == 0 {
		typ = TypeFloat
	}
	switch typ {
	case TypeInt, TypeFloat, TypeDouble:
	default:
		return nil, fmt.Errorf("fcs: unsupported datatype %q", byte(typ))
	}
	bits := 32
	switch typ {
	case TypeDouble:
		bits = 64
	case TypeInt:
		if opts.IntBits != 0 {
			bits = opts.IntBits
		}
		switch bits {
		case 8, 16, 32, 64:
		default:
			return nil, fmt.Errorf("fcs: integer width %d not one of 8/16/32/64", bits)
		}
	}

	var order binary.ByteOrder = binary.LittleEndian
	byteOrd := byteOrderLittle
	if opts.BigEndian {
		order = binary.BigEndian
		byteOrd = byteOrderBig
	}

	l := &Layout{Params: make([]Param, len(t.Channels)), Type: typ, Order: order, byteOrd: byteOrd}
	seen := make(map[string]int, len(t.Channels))
	for i, c := range t.Channels {
		if c.Short == "" {
			return nil, fmt.Errorf("fcs: channel %d has no short name", i+1)
		}
		if j, dup := seen[c.Short]; dup {
			return nil, keywordErr(DuplicateShortName, paramKey(i+1, 'N'), "%q already used by parameter %d", c.Short, j)
		}
		seen[c.Short] = i + 1
		long := c.Long
		if long == "" {
			long = c.Short
		}
		l.Params[i] = Param{Short: c.Short, Long: long, Bits: bits, Range: columnRange(t.Rows, i)}
	}
	return l, nil
}

func columnRange(rows [][]float64, col int) uint64 {
	max := 0.0
	for _, row := range rows {
		if col < len(row) && row[col] > max {
			max = row[col]
		}
	}
	if math.IsInf(max, 1) || max >= math.MaxUint64 {
		return math.MaxUint64
	}
	return uint64(max)
}
