package fcs

import (
	"fmt"
	"io"
	"strings"
)

// Rename rewrites channel names in the TEXT segment ($PnN for ScopeShort,
// $PnS for ScopeLong) and emits a complete new byte stream to w. Only
// HEADER and TEXT are decoded; the DATA (and ANALYSIS) bytes are copied
// verbatim at their recomputed offsets, never re-decoded, so event values
// are bit-identical to the source. The new stream is assembled fully in
// memory before the first write, so any failure leaves w untouched.
func Rename(src Source, w io.Writer, renames map[string]string, scope Scope) error {
	hb, err := src.ReadRange(0, HeaderSize)
	if err != nil {
		return fmt.Errorf("fcs: read header: %w", err)
	}
	h, err := ParseHeader(hb)
	if err != nil {
		return err
	}
	tb, err := src.ReadRange(h.TextBegin, h.TextEnd-h.TextBegin+1)
	if err != nil {
		return fmt.Errorf("fcs: read text segment: %w", err)
	}
	ts, err := ParseText(tb)
	if err != nil {
		return err
	}

	if err := applyRenames(ts, renames, scope); err != nil {
		return err
	}

	dataBegin, dataEnd := h.DataBegin, h.DataEnd
	if dataBegin == 0 && dataEnd == 0 {
		begin, err := requiredInt(ts, "$BEGINDATA")
		if err != nil {
			return err
		}
		end, err := requiredInt(ts, "$ENDDATA")
		if err != nil {
			return err
		}
		dataBegin, dataEnd = int64(begin), int64(end)
	}
	var dataLen int64
	if dataEnd > 0 {
		dataLen = dataEnd - dataBegin + 1
	}
	var analysisLen int64
	if h.AnalysisEnd > 0 {
		analysisLen = h.AnalysisEnd - h.AnalysisBegin + 1
	}

	var data, analysis []byte
	if dataLen > 0 {
		if data, err = src.ReadRange(dataBegin, dataLen); err != nil {
			return fmt.Errorf("fcs: read data segment: %w", err)
		}
	}
	if analysisLen > 0 {
		if analysis, err = src.ReadRange(h.AnalysisBegin, analysisLen); err != nil {
			return fmt.Errorf("fcs: read analysis segment: %w", err)
		}
	}

	rl, err := resolveOffsets(ts, ts.Delimiter(), dataLen, analysisLen)
	if err != nil {
		return err
	}
	return emit(w, rl, data, analysis)
}

// applyRenames validates and performs the keyword rewrites. Short names must
// stay unique across existing and freshly renamed channels; long names carry
// no uniqueness requirement. Renaming a long name rewrites every channel
// currently carrying it.
func applyRenames(ts *TextSegment, renames map[string]string, scope Scope) error {
	n, err := requiredInt(ts, "$PAR")
	if err != nil {
		return err
	}

	for old, name := range renames {
		if name == "" || strings.IndexByte(name, 0) >= 0 {
			return errf(InvalidRename, "replacement for %q is empty or contains NUL", old)
		}
	}

	// Current names per channel index, under the requested scope. Long
	// names default to the short name when the file carries no $PnS.
	current := make([]string, n)
	for i := 1; i <= n; i++ {
		short, ok := ts.Lookup(paramKey(i, 'N'))
		if !ok {
			return keywordErr(MissingRequiredKeyword, paramKey(i, 'N'), "")
		}
		current[i-1] = short
		if scope == ScopeLong {
			if long, ok := ts.Lookup(paramKey(i, 'S')); ok && long != "" && long != " " {
				current[i-1] = long
			}
		}
	}

	matched := make(map[string]bool, len(renames))
	final := make([]string, n)
	copy(final, current)
	for i := range final {
		if name, ok := renames[final[i]]; ok {
			matched[current[i]] = true
			final[i] = name
		}
	}
	for old := range renames {
		if !matched[old] {
			return errf(UnknownChannel, "%q", old)
		}
	}

	if scope == ScopeShort {
		seen := make(map[string]int, n)
		for i, name := range final {
			if j, dup := seen[name]; dup {
				return keywordErr(DuplicateShortName, paramKey(i+1, 'N'), "%q already used by parameter %d", name, j)
			}
			seen[name] = i + 1
		}
	}

	suffix := byte('N')
	if scope == ScopeLong {
		suffix = 'S'
	}
	for i, name := range final {
		if name != current[i] {
			ts.Set(paramKey(i+1, suffix), name)
		}
	}
	return nil
}
