package blob

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// S3Config holds the object-storage connection settings. It covers AWS S3
// and any S3-compatible endpoint (MinIO, Ceph RGW).
type S3Config struct {
	Endpoint  string `yaml:"endpoint"`
	Region    string `yaml:"region"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type s3Client struct {
	mc *minio.Client
}

func newS3Client(cfg *S3Config) (*s3Client, error) {
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: s3 client: %w", err)
	}
	return &s3Client{mc: mc}, nil
}

func (c *s3Client) open(bucket, key string) (*S3Source, error) {
	stat, err := c.mc.StatObject(context.Background(), bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("blob: stat s3://%s/%s: %w", bucket, key, err)
	}
	return &S3Source{mc: c.mc, bucket: bucket, key: key, size: stat.Size}, nil
}

func (c *s3Client) create(bucket, key string) *S3Sink {
	return &S3Sink{mc: c.mc, bucket: bucket, key: key}
}

// S3Source serves each ReadRange as its own ranged GET, so opening a large
// object and reading only its header and TEXT segments transfers only those
// bytes.
type S3Source struct {
	mc     *minio.Client
	bucket string
	key    string
	size   int64
}

func (s *S3Source) ReadRange(off, length int64) ([]byte, error) {
	if length == 0 {
		return nil, nil
	}
	opts := minio.GetObjectOptions{}
	if err := opts.SetRange(off, off+length-1); err != nil {
		return nil, fmt.Errorf("blob: range %d+%d: %w", off, length, err)
	}
	obj, err := s.mc.GetObject(context.Background(), s.bucket, s.key, opts)
	if err != nil {
		return nil, fmt.Errorf("blob: get s3://%s/%s: %w", s.bucket, s.key, err)
	}
	defer obj.Close()
	b, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("blob: read s3://%s/%s: %w", s.bucket, s.key, err)
	}
	if int64(len(b)) != length {
		return nil, fmt.Errorf("blob: s3://%s/%s: range %d+%d returned %d bytes",
			s.bucket, s.key, off, length, len(b))
	}
	return b, nil
}

func (s *S3Source) Size() (int64, error) { return s.size, nil }

func (s *S3Source) Close() error { return nil }

// S3Sink buffers writes in memory and uploads the object in a single
// PutObject on Close. Nothing is visible remotely until Close succeeds.
type S3Sink struct {
	mc     *minio.Client
	bucket string
	key    string
	buf    bytes.Buffer
	done   bool
}

func (s *S3Sink) Write(p []byte) (int, error) {
	return s.buf.Write(p)
}

func (s *S3Sink) Close() error {
	if s.done {
		return nil
	}
	s.done = true
	_, err := s.mc.PutObject(context.Background(), s.bucket, s.key,
		bytes.NewReader(s.buf.Bytes()), int64(s.buf.Len()),
		minio.PutObjectOptions{ContentType: "application/octet-stream"})
	if err != nil {
		return fmt.Errorf("blob: put s3://%s/%s: %w", s.bucket, s.key, err)
	}
	return nil
}

func (s *S3Sink) Abort() error {
	s.done = true
	s.buf.Reset()
	return nil
}
