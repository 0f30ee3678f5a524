package blob

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/segmentio/ksuid"
)

// FileSource reads byte ranges from a local file.
type FileSource struct {
	f *os.File
}

// OpenFile opens a local file for ranged reads.
func OpenFile(path string) (*FileSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("blob: open %s: %w", path, err)
	}
	return &FileSource{f: f}, nil
}

// ReadRange returns length bytes starting at off.
func (s *FileSource) ReadRange(off, length int64) ([]byte, error) {
	b := make([]byte, length)
	if _, err := s.f.ReadAt(b, off); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("blob: %s: range %d+%d past end of file", s.f.Name(), off, length)
		}
		return nil, fmt.Errorf("blob: read %s: %w", s.f.Name(), err)
	}
	return b, nil
}

// Size returns the file size in bytes.
func (s *FileSource) Size() (int64, error) {
	fi, err := s.f.Stat()
	if err != nil {
		return 0, fmt.Errorf("blob: stat %s: %w", s.f.Name(), err)
	}
	return fi.Size(), nil
}

// Close releases the file handle.
func (s *FileSource) Close() error {
	return s.f.Close()
}

// FileSink writes to a temp file in the target directory and renames it over
// the target on Close, so the target path only ever holds a complete file.
type FileSink struct {
	f    *os.File
	path string
	done bool
}

// CreateFile opens a sink for the path.
func CreateFile(path string) (*FileSink, error) {
	tmp := filepath.Join(filepath.Dir(path),
		"."+filepath.Base(path)+"."+ksuid.New().String()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return nil, fmt.Errorf("blob: create %s: %w", path, err)
	}
	return &FileSink{f: f, path: path}, nil
}

func (s *FileSink) Write(p []byte) (int, error) {
	return s.f.Write(p)
}

// Close flushes the temp file and moves it into place.
func (s *FileSink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	if err := s.f.Sync(); err != nil {
		s.f.Close()
		os.Remove(s.f.Name())
		return fmt.Errorf("blob: sync %s: %w", s.path, err)
	}
	if err := s.f.Close(); err != nil {
		os.Remove(s.f.Name())
		return fmt.Errorf("blob: close %s: %w", s.path, err)
	}
	if err := os.Rename(s.f.Name(), s.path); err != nil {
		os.Remove(s.f.Name())
		return fmt.Errorf("blob: rename into %s: %w", s.path, err)
	}
	return nil
}

// Abort discards the temp file; the target path is untouched.
func (s *FileSink) Abort() error {
	if s.done {
		return nil
	}
	s.done = true
	s.f.Close()
	if err := os.Remove(s.f.Name()); err != nil {
		return fmt.Errorf("blob: remove temp for %s: %w", s.path, err)
	}
	return nil
}
