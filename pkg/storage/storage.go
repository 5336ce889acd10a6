// Package storage resolves input and output paths to streams. A path is
// either "-" for stdin/stdout, an s3://bucket/key URI, or a local file.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
)

// Standard streams used for "-". Tests may replace them.
var (
	Stdin  io.Reader = os.Stdin
	Stdout io.Writer = os.Stdout
)

// IsStdio reports whether path refers to stdin or stdout
func IsStdio(path string) bool {
	return path == "-"
}

// Open opens path for reading
func Open(ctx context.Context, path string) (io.ReadCloser, error) {
	switch {
	case IsStdio(path):
		return io.NopCloser(Stdin), nil
	case IsS3URI(path):
		uri, err := ParseS3URI(path)
		if err != nil {
			return nil, err
		}
		return openS3(ctx, uri)
	}
	return os.Open(path)
}

// Create opens path for writing. An empty path or "-" writes to stdout;
// closing it leaves stdout open. S3 objects are uploaded on Close.
func Create(ctx context.Context, path string) (io.WriteCloser, error) {
	switch {
	case path == "" || IsStdio(path):
		return nopWriteCloser{Stdout}, nil
	case IsS3URI(path):
		uri, err := ParseS3URI(path)
		if err != nil {
			return nil, err
		}
		return createS3(ctx, uri)
	}
	return os.Create(path)
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }

// S3URI represents a parsed S3 URI
type S3URI struct {
	Bucket string
	Key    string
}

func (u *S3URI) String() string {
	return fmt.Sprintf("s3://%s/%s", u.Bucket, u.Key)
}

// IsS3URI checks if a path is an S3 URI
func IsS3URI(path string) bool {
	return strings.HasPrefix(path, "s3://")
}

// ParseS3URI parses an S3 URI like s3://bucket/path/to/object
func ParseS3URI(uri string) (*S3URI, error) {
	if !IsS3URI(uri) {
		return nil, fmt.Errorf("invalid S3 URI: must start with s3://")
	}

	path := strings.TrimPrefix(uri, "s3://")
	parts := strings.SplitN(path, "/", 2)
	if parts[0] == "" {
		return nil, fmt.Errorf("invalid S3 URI: missing bucket name")
	}
	if len(parts) != 2 || parts[1] == "" || strings.HasSuffix(parts[1], "/") {
		return nil, fmt.Errorf("invalid S3 URI: missing object key")
	}

	return &S3URI{
		Bucket: parts[0],
		Key:    parts[1],
	}, nil
}
