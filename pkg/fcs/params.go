package fcs

import (
	"encoding/binary"
	"fmt"
	"strconv"
)

// DataType is the file-level $DATATYPE: how every channel's values are
// encoded in the DATA segment. FCS 3.1 list mode uses one type per file.
type DataType byte

const (
	// TypeInt is $DATATYPE/I/: unsigned integers of $PnB bits.
	TypeInt DataType = 'I'
	// TypeFloat is $DATATYPE/F/: IEEE754 single precision.
	TypeFloat DataType = 'F'
	// TypeDouble is $DATATYPE/D/: IEEE754 double precision.
	TypeDouble DataType = 'D'
)

func (t DataType) String() string {
	switch t {
	case TypeInt:
		return "integer"
	case TypeFloat:
		return "float"
	case TypeDouble:
		return "double"
	default:
		return fmt.Sprintf("datatype(%c)", byte(t))
	}
}

const (
	byteOrderLittle = "1,2,3,4"
	byteOrderBig    = "4,3,2,1"
)

// Channel is the dual identity of one measured parameter: the required
// unique short name ($PnN) and the optional long name ($PnS). Long defaults
// to short when the file carries no $PnS.
type Channel struct {
	Short string
	Long  string
}

// Param describes one channel's encoding metadata.
type Param struct {
	Short string // $PnN, required, unique within a file
	Long  string // $PnS, optional; defaults to Short
	Bits  int    // $PnB
	Range uint64 // $PnR
	Amp   string // $PnE, retained verbatim; not needed for linear decode
}

// Channel returns the channel identity of the parameter.
func (p Param) Channel() Channel {
	return Channel{Short: p.Short, Long: p.Long}
}

// Layout is the decoded per-file data layout: the ordered parameter list
// plus the file-level datatype and byte order that drive the DATA codec.
type Layout struct {
	Params []Param
	Type   DataType
	Order  binary.ByteOrder

	byteOrd string // raw $BYTEORD value, kept for round-tripping
}

// Stride returns the byte length of one event row.
func (l *Layout) Stride() int {
	n := 0
	for _, p := range l.Params {
		n += p.Bits / 8
	}
	return n
}

// Channels returns the ordered channel identities.
func (l *Layout) Channels() []Channel {
	out := make([]Channel, len(l.Params))
	for i, p := range l.Params {
		out[i] = p.Channel()
	}
	return out
}

// BuildLayout derives the parameter layout from a parsed TEXT segment:
// $PAR channels, each with $PnN/$PnB/$PnR required and $PnS/$PnE optional,
// under the file-level $DATATYPE and $BYTEORD.
func BuildLayout(ts *TextSegment) (*Layout, error) {
	n, err := requiredInt(ts, "$PAR")
	if err != nil {
		return nil, err
	}

	dt, ok := ts.Lookup("$DATATYPE")
	if !ok {
		return nil, keywordErr(MissingRequiredKeyword, "$DATATYPE", "")
	}
	var typ DataType
	switch dt {
	case "I":
		typ = TypeInt
	case "F":
		typ = TypeFloat
	case "D":
		typ = TypeDouble
	default:
		return nil, keywordErr(MalformedTextSegment, "$DATATYPE", "unsupported datatype %q", dt)
	}

	bo, ok := ts.Lookup("$BYTEORD")
	if !ok {
		return nil, keywordErr(MissingRequiredKeyword, "$BYTEORD", "")
	}
	var order binary.ByteOrder
	switch bo {
	case byteOrderLittle:
		order = binary.LittleEndian
	case byteOrderBig:
		order = binary.BigEndian
	default:
		return nil, keywordErr(UnsupportedByteOrder, "$BYTEORD", "%q", bo)
	}

	l := &Layout{Params: make([]Param, 0, n), Type: typ, Order: order, byteOrd: bo}
	seen := make(map[string]int, n)
	for i := 1; i <= n; i++ {
		short, ok := ts.Lookup(paramKey(i, 'N'))
		if !ok {
			return nil, keywordErr(MissingRequiredKeyword, paramKey(i, 'N'), "")
		}
		bits, err := requiredInt(ts, paramKey(i, 'B'))
		if err != nil {
			return nil, err
		}
		rng, err := requiredUint(ts, paramKey(i, 'R'))
		if err != nil {
			return nil, err
		}
		if err := checkBits(typ, bits, paramKey(i, 'B')); err != nil {
			return nil, err
		}
		if j, dup := seen[short]; dup {
			return nil, keywordErr(DuplicateShortName, paramKey(i, 'N'), "%q already used by parameter %d", short, j)
		}
		seen[short] = i

		long := short
		if s, ok := ts.Lookup(paramKey(i, 'S')); ok && s != "" && s != " " {
			long = s
		}
		l.Params = append(l.Params, Param{
			Short: short,
			Long:  long,
			Bits:  bits,
			Range: rng,
			Amp:   ts.Get(paramKey(i, 'E')),
		})
	}
	return l, nil
}

// checkBits enforces the 3.1 width constraints: floats are 32-bit, doubles
// 64-bit, integers one of 8/16/32/64.
func checkBits(typ DataType, bits int, keyword string) error {
	switch typ {
	case TypeFloat:
		if bits != 32 {
			return keywordErr(MalformedTextSegment, keyword, "float parameters need 32 bits, have %d", bits)
		}
	case TypeDouble:
		if bits != 64 {
			return keywordErr(MalformedTextSegment, keyword, "double parameters need 64 bits, have %d", bits)
		}
	case TypeInt:
		switch bits {
		case 8, 16, 32, 64:
		default:
			return keywordErr(MalformedTextSegment, keyword, "integer parameters need 8/16/32/64 bits, have %d", bits)
		}
	}
	return nil
}

// applyTo writes the layout back into a TEXT segment: $PAR plus the
// per-parameter keyword set. The inverse of BuildLayout for the write path.
func (l *Layout) applyTo(ts *TextSegment) {
	ts.Set("$BYTEORD", l.byteOrdValue())
	ts.Set("$DATATYPE", string(l.Type))
	ts.Set("$PAR", strconv.Itoa(len(l.Params)))
	for i, p := range l.Params {
		n := i + 1
		ts.Set(paramKey(n, 'B'), strconv.Itoa(p.Bits))
		amp := p.Amp
		if amp == "" {
			amp = "0,0"
		}
		ts.Set(paramKey(n, 'E'), amp)
		ts.Set(paramKey(n, 'R'), strconv.FormatUint(p.Range, 10))
		ts.Set(paramKey(n, 'N'), p.Short)
		ts.Set(paramKey(n, 'S'), p.Long)
	}
}

func (l *Layout) byteOrdValue() string {
	if l.byteOrd != "" {
		return l.byteOrd
	}
	if l.Order == binary.BigEndian {
		return byteOrderBig
	}
	return byteOrderLittle
}

func paramKey(n int, suffix byte) string {
	return "$P" + strconv.Itoa(n) + string(suffix)
}

func requiredInt(ts *TextSegment, keyword string) (int, error) {
	s, ok := ts.Lookup(keyword)
	if !ok {
		return 0, keywordErr(MissingRequiredKeyword, keyword, "")
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, keywordErr(MalformedTextSegment, keyword, "not a non-negative integer: %q", s)
	}
	return v, nil
}

func requiredUint(ts *TextSegment, keyword string) (uint64, error) {
	s, ok := ts.Lookup(keyword)
	if !ok {
		return 0, keywordErr(MissingRequiredKeyword, keyword, "")
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, keywordErr(MalformedTextSegment, keyword, "not a non-negative integer: %q", s)
	}
	return v, nil
}
