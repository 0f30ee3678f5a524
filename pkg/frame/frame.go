// Package frame is a thin tabular layer over the FCS codec: named column
// access over a decoded event table, plus path-level read/write helpers that
// wire the codec to local or S3 storage.
package frame

import (
	"fmt"

	"github.com/cytolab/fcsio/pkg/blob"
	"github.com/cytolab/fcsio/pkg/fcs"
)

// Frame is an event table with named columns. It wraps fcs.Table without
// copying; mutating the table mutates the frame.
type Frame struct {
	table *fcs.Table
}

// New wraps a decoded table.
func New(t *fcs.Table) *Frame { return &Frame{table: t} }

// Table returns the underlying event table.
func (f *Frame) Table() *fcs.Table { return f.table }

// Events returns the number of rows.
func (f *Frame) Events() int { return len(f.table.Rows) }

// Names returns the column names under the given scope, in column order.
func (f *Frame) Names(scope fcs.Scope) []string { return f.table.Names(scope) }

// Column returns one column's values as a fresh slice.
func (f *Frame) Column(name string, scope fcs.Scope) ([]float64, error) {
	idx := -1
	for i, n := range f.table.Names(scope) {
		if n == name {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, fmt.Errorf("frame: no column %q", name)
	}
	out := make([]float64, len(f.table.Rows))
	for i, row := range f.table.Rows {
		out[i] = row[idx]
	}
	return out, nil
}

// Select returns a new frame holding the named columns in the given order.
// Row data is copied; the source frame is untouched.
func (f *Frame) Select(names []string, scope fcs.Scope) (*Frame, error) {
	have := f.table.Names(scope)
	idx := make([]int, len(names))
	for i, name := range names {
		idx[i] = -1
		for j, n := range have {
			if n == name {
				idx[i] = j
				break
			}
		}
		if idx[i] < 0 {
			return nil, fmt.Errorf("frame: no column %q", name)
		}
	}

	out := &fcs.Table{
		Channels: make([]fcs.Channel, len(idx)),
		Rows:     make([][]float64, len(f.table.Rows)),
	}
	for i, j := range idx {
		out.Channels[i] = f.table.Channels[j]
	}
	for r, row := range f.table.Rows {
		sel := make([]float64, len(idx))
		for i, j := range idx {
			sel[i] = row[j]
		}
		out.Rows[r] = sel
	}
	return &Frame{table: out}, nil
}

// Read decodes a complete FCS file from a local path or s3:// URL.
func Read(store *blob.Store, path string) (*Frame, error) {
	src, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	t, err := fcs.ReadTable(src)
	if err != nil {
		return nil, err
	}
	return &Frame{table: t}, nil
}

// ReadChannels returns a file's channel names without touching event data.
func ReadChannels(store *blob.Store, path string, scope fcs.Scope) ([]string, error) {
	src, err := store.Open(path)
	if err != nil {
		return nil, err
	}
	defer src.Close()
	f, err := fcs.Open(src)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(f.Channels()))
	for _, c := range f.Channels() {
		if scope == fcs.ScopeLong {
			names = append(names, c.Long)
		} else {
			names = append(names, c.Short)
		}
	}
	return names, nil
}

// EventCount returns a file's $TOT without touching event data.
func EventCount(store *blob.Store, path string) (int, error) {
	src, err := store.Open(path)
	if err != nil {
		return 0, err
	}
	defer src.Close()
	return fcs.EventCount(src)
}

// Write encodes the frame to a local path or s3:// URL. The destination is
// only replaced when encoding and the upload or rename both succeed.
func (f *Frame) Write(store *blob.Store, path string, opts *fcs.WriteOptions) error {
	sink, err := store.Create(path)
	if err != nil {
		return err
	}
	if err := fcs.Write(sink, f.table, opts); err != nil {
		sink.Abort()
		return err
	}
	return sink.Close()
}

// RenameChannels rewrites channel names in place: the source's event bytes
// are carried into the new file untouched, and the destination path keeps
// its old contents when anything fails.
func RenameChannels(store *blob.Store, path string, renames map[string]string, scope fcs.Scope) error {
	src, err := store.Open(path)
	if err != nil {
		return err
	}
	sink, err := store.Create(path)
	if err != nil {
		src.Close()
		return err
	}
	if err := fcs.Rename(src, sink, renames, scope); err != nil {
		src.Close()
		sink.Abort()
		return err
	}
	if err := src.Close(); err != nil {
		sink.Abort()
		return err
	}
	return sink.Close()
}
