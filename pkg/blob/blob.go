// Package blob provides the byte sources and sinks the FCS codec reads from
// and writes to: local files and S3 objects, addressed by path. Local paths
// are used as-is; "s3://bucket/key" selects object storage.
package blob

import (
	"fmt"
	"strings"
)

// Source is a readable byte stream with random access. It satisfies
// fcs.Source so a decoded file can fetch its segments lazily.
type Source interface {
	ReadRange(off, length int64) ([]byte, error)
	Size() (int64, error)
	Close() error
}

// Sink receives a complete byte stream. Close commits the object; Abort
// discards everything written so far. A sink never exposes a partial object:
// local sinks write a temp file renamed on Close, S3 sinks upload on Close.
type Sink interface {
	Write(p []byte) (int, error)
	Close() error
	Abort() error
}

// ParsePath splits a path into an S3 bucket/key pair when it carries the
// s3:// scheme. Anything else is a local path.
func ParsePath(path string) (bucket, key string, isS3 bool, err error) {
	rest, ok := strings.CutPrefix(path, "s3://")
	if !ok {
		return "", "", false, nil
	}
	bucket, key, ok = strings.Cut(rest, "/")
	if !ok || bucket == "" || key == "" {
		return "", "", true, fmt.Errorf("blob: malformed S3 path %q (want s3://bucket/key)", path)
	}
	return bucket, key, true, nil
}

// Store dispatches path-addressed opens to the local filesystem or to S3.
// The zero value handles local paths only; NewStore with an S3Config wires
// in object storage.
type Store struct {
	s3 *s3Client
}

// NewStore returns a store. A nil config leaves S3 paths unsupported.
func NewStore(cfg *S3Config) (*Store, error) {
	s := &Store{}
	if cfg != nil {
		c, err := newS3Client(cfg)
		if err != nil {
			return nil, err
		}
		s.s3 = c
	}
	return s, nil
}

// Open returns a source for the path.
func (s *Store) Open(path string) (Source, error) {
	bucket, key, isS3, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if !isS3 {
		return OpenFile(path)
	}
	if s.s3 == nil {
		return nil, fmt.Errorf("blob: S3 path %q but no S3 client configured", path)
	}
	return s.s3.open(bucket, key)
}

// Create returns a sink for the path.
func (s *Store) Create(path string) (Sink, error) {
	bucket, key, isS3, err := ParsePath(path)
	if err != nil {
		return nil, err
	}
	if !isS3 {
		return CreateFile(path)
	}
	if s.s3 == nil {
		return nil, fmt.Errorf("blob: S3 path %q but no S3 client configured", path)
	}
	return s.s3.create(bucket, key), nil
}
