package fcs

import (
	"bytes"
	"testing"
)

func writeSample(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := Write(&buf, sampleTable(), nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	return buf.Bytes()
}

func dataBytes(t *testing.T, raw []byte) []byte {
	t.Helper()
	h, err := ParseHeader(raw[:HeaderSize])
	if err != nil {
		t.Fatalf("ParseHeader failed: %v", err)
	}
	return raw[h.DataBegin : h.DataEnd+1]
}

func TestRename_ShortScope(t *testing.T) {
	src := writeSample(t)
	var out bytes.Buffer
	err := Rename(byteSource(src), &out, map[string]string{"FSC-A": "FSC-H"}, ScopeShort)
	if err != nil {
		t.Fatalf("Rename failed: %v", err)
	}

	f, err := Open(byteSource(out.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	chans := f.Channels()
	if chans[0].Short != "FSC-H" {
		t.Errorf("channel 1 short: got %q, want FSC-H", chans[0].Short)
	}
	if chans[0].Long != "Forward Scatter" {
		t.Errorf("channel 1 long changed: %q", chans[0].Long)
	}
	if chans[1].Short != "SSC-A" || chans[2].Short != "FL1-A" {
		t.Errorf("untouched channels changed: %+v", chans)
	}

	// Event bytes are copied, never re-encoded.
	if !bytes.Equal(dataBytes(t, src), dataBytes(t, out.Bytes())) {
		t.Error("data segment bytes differ from source")
	}
}

func TestRename_SwapIsSimultaneous(t *testing.T) {
	src := writeSample(t)
	var out bytes.Buffer
	renames := map[string]string{"FSC-A": "SSC-A", "SSC-A": "FSC-A"}
	if err := Rename(byteSource(src), &out, renames, ScopeShort); err != nil {
		t.Fatalf("swap rename failed: %v", err)
	}
	f, err := Open(byteSource(out.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	chans := f.Channels()
	if chans[0].Short != "SSC-A" || chans[1].Short != "FSC-A" {
		t.Errorf("swapped names: got %q, %q", chans[0].Short, chans[1].Short)
	}
}

func TestRename_DuplicateShortRejected(t *testing.T) {
	src := writeSample(t)
	var out bytes.Buffer
	err := Rename(byteSource(src), &out, map[string]string{"FSC-A": "SSC-A"}, ScopeShort)
	if !IsKind(err, DuplicateShortName) {
		t.Fatalf("got %v, want DuplicateShortName", err)
	}
	if out.Len() != 0 {
		t.Errorf("sink received %d bytes after failed rename", out.Len())
	}
}

func TestRename_UnknownChannel(t *testing.T) {
	src := writeSample(t)
	var out bytes.Buffer
	err := Rename(byteSource(src), &out, map[string]string{"CD4": "CD8"}, ScopeShort)
	if !IsKind(err, UnknownChannel) {
		t.Fatalf("got %v, want UnknownChannel", err)
	}
	if out.Len() != 0 {
		t.Errorf("sink received %d bytes after failed rename", out.Len())
	}
}

func TestRename_LongScope(t *testing.T) {
	src := writeSample(t)
	var out bytes.Buffer
	renames := map[string]string{"Forward Scatter": "FSC Area"}
	if err := Rename(byteSource(src), &out, renames, ScopeLong); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	f, err := Open(byteSource(out.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	chans := f.Channels()
	if chans[0].Long != "FSC Area" {
		t.Errorf("long name: got %q, want %q", chans[0].Long, "FSC Area")
	}
	if chans[0].Short != "FSC-A" {
		t.Errorf("short name changed: %q", chans[0].Short)
	}
}

func TestRename_LongScopeDuplicatesAllowed(t *testing.T) {
	src := writeSample(t)
	var out bytes.Buffer
	// Long names carry no uniqueness requirement.
	renames := map[string]string{"Forward Scatter": "Side Scatter"}
	if err := Rename(byteSource(src), &out, renames, ScopeLong); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	f, err := Open(byteSource(out.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	chans := f.Channels()
	if chans[0].Long != "Side Scatter" || chans[1].Long != "Side Scatter" {
		t.Errorf("long names: %q, %q", chans[0].Long, chans[1].Long)
	}
}

func TestRename_InvalidReplacement(t *testing.T) {
	src := writeSample(t)
	for _, bad := range []string{"", "a\x00b"} {
		var out bytes.Buffer
		err := Rename(byteSource(src), &out, map[string]string{"FSC-A": bad}, ScopeShort)
		if !IsKind(err, InvalidRename) {
			t.Errorf("replacement %q: got %v, want InvalidRename", bad, err)
		}
	}
}

func TestRename_DelimiterInNewName(t *testing.T) {
	// The writer uses '/' as the delimiter; a new name containing it must be
	// escaped on serialize and survive a read back.
	src := writeSample(t)
	var out bytes.Buffer
	if err := Rename(byteSource(src), &out, map[string]string{"FL1-A": "FL1/A"}, ScopeShort); err != nil {
		t.Fatalf("Rename failed: %v", err)
	}
	f, err := Open(byteSource(out.Bytes()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if got := f.Channels()[2].Short; got != "FL1/A" {
		t.Errorf("short name: got %q, want %q", got, "FL1/A")
	}
}
