package fcs

import (
	"strconv"
)

// textStart is the byte offset the TEXT segment is written at; the gap
// after the 58-byte header is space padding (the conventional layout).
const textStart = 256

// resolvedLayout is the outcome of offset resolution: the final TEXT bytes
// and the header describing where every segment lands.
type resolvedLayout struct {
	text   []byte
	header Header
}

// resolveOffsets finalizes segment offsets for a file whose TEXT keywords
// are assembled and whose DATA (and optional ANALYSIS) lengths are known.
// $BEGINDATA/$ENDDATA (and the analysis twins when present) live inside the
// TEXT segment, so writing them changes the segment's own length and with it
// every offset; the loop re-serializes until the layout reaches a fixed
// point, which bounded-length decimal offsets guarantee within a few rounds.
func resolveOffsets(ts *TextSegment, delim byte, dataLen, analysisLen int64) (resolvedLayout, error) {
	var rl resolvedLayout
	prevSize := -1
	for i := 0; i < 16; i++ {
		guess, err := ts.Serialize(delim)
		if err != nil {
			return rl, err
		}
		if len(guess) == prevSize {
			rl.text = guess
			return rl, nil
		}
		prevSize = len(guess)

		h := Header{TextBegin: textStart, TextEnd: textStart + int64(len(guess)) - 1}
		if dataLen > 0 {
			h.DataBegin = h.TextEnd + 1
			h.DataEnd = h.DataBegin + dataLen - 1
		}
		if analysisLen > 0 {
			begin := h.TextEnd + dataLen + 1
			h.AnalysisBegin = begin
			h.AnalysisEnd = begin + analysisLen - 1
		}
		ts.Set("$BEGINDATA", strconv.FormatInt(h.DataBegin, 10))
		ts.Set("$ENDDATA", strconv.FormatInt(h.DataEnd, 10))
		if analysisLen > 0 {
			ts.Set("$BEGINANALYSIS", strconv.FormatInt(h.AnalysisBegin, 10))
			ts.Set("$ENDANALYSIS", strconv.FormatInt(h.AnalysisEnd, 10))
		}
		rl.header = h
	}
	return rl, errf(MalformedTextSegment, "segment offsets did not stabilize")
}
