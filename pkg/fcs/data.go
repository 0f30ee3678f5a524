package fcs

import (
	"fmt"
	"math"
)

// DecodeData decodes a DATA segment slice into events rows of float64
// columns, one per layout parameter. Integer channels are unsigned
// magnitudes widened to float64; $PnR is metadata, never a clamp on read.
// The slice must hold at least events full rows of the fixed stride.
func DecodeData(b []byte, l *Layout, events int) ([][]float64, error) {
	stride := l.Stride()
	need := int64(events) * int64(stride)
	if int64(len(b)) < need {
		return nil, errf(TruncatedDataSegment, "need %d bytes for %d events of %d bytes, have %d",
			need, events, stride, len(b))
	}

	rows := make([][]float64, events)
	cells := make([]float64, events*len(l.Params))
	off := 0
	for r := 0; r < events; r++ {
		row := cells[r*len(l.Params) : (r+1)*len(l.Params) : (r+1)*len(l.Params)]
		for c, p := range l.Params {
			row[c] = decodeCell(b[off:], l, p.Bits)
			off += p.Bits / 8
		}
		rows[r] = row
	}
	return rows, nil
}

func decodeCell(b []byte, l *Layout, bits int) float64 {
	switch l.Type {
	case TypeFloat:
		return float64(math.Float32frombits(l.Order.Uint32(b)))
	case TypeDouble:
		return math.Float64frombits(l.Order.Uint64(b))
	default:
		switch bits {
		case 8:
			return float64(b[0])
		case 16:
			return float64(l.Order.Uint16(b))
		case 32:
			return float64(l.Order.Uint32(b))
		default:
			return float64(l.Order.Uint64(b))
		}
	}
}

// EncodeData encodes event rows into DATA segment bytes per the layout.
// Integer channels are rounded half away from zero and clamped to
// [0, 2^bits-1] (NaN clamps to 0, values never wrap); float and double
// channels write their raw IEEE754 bit patterns.
func EncodeData(rows [][]float64, l *Layout) ([]byte, error) {
	stride := l.Stride()
	b := make([]byte, 0, len(rows)*stride)
	scratch := make([]byte, 8)
	for r, row := range rows {
		if len(row) != len(l.Params) {
			return nil, fmt.Errorf("fcs: row %d has %d values, layout has %d parameters", r, len(row), len(l.Params))
		}
		for c, v := range row {
			n := encodeCell(scratch, v, l, l.Params[c].Bits)
			b = append(b, scratch[:n]...)
		}
	}
	return b, nil
}

func encodeCell(dst []byte, v float64, l *Layout, bits int) int {
	switch l.Type {
	case TypeFloat:
		l.Order.PutUint32(dst, math.Float32bits(float32(v)))
		return 4
	case TypeDouble:
		l.Order.PutUint64(dst, math.Float64bits(v))
		return 8
	default:
		u := clampUint(v, bits)
		switch bits {
		case 8:
			dst[0] = byte(u)
			return 1
		case 16:
			l.Order.PutUint16(dst, uint16(u))
			return 2
		case 32:
			l.Order.PutUint32(dst, uint32(u))
			return 4
		default:
			l.Order.PutUint64(dst, u)
			return 8
		}
	}
}

// clampUint applies the documented integer write rule: round half away from
// zero, then clamp to the declared width. NaN becomes 0.
func clampUint(v float64, bits int) uint64 {
	v = math.Round(v)
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if bits == 64 {
		if v >= math.MaxUint64 {
			return math.MaxUint64
		}
		return uint64(v)
	}
	max := uint64(1)<<uint(bits) - 1
	if v >= float64(max) {
		return max
	}
	return uint64(v)
}
