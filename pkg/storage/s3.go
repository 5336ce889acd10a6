package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg), nil
}

// openS3 streams an object's body
func openS3(ctx context.Context, uri *S3URI) (io.ReadCloser, error) {
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, err
	}

	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(uri.Bucket),
		Key:    aws.String(uri.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", uri, err)
	}
	return out.Body, nil
}

// s3Object buffers writes and uploads them when closed
type s3Object struct {
	ctx      context.Context
	uploader *manager.Uploader
	uri      *S3URI
	buf      bytes.Buffer
	closed   bool
}

func createS3(ctx context.Context, uri *S3URI) (io.WriteCloser, error) {
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, err
	}
	return &s3Object{
		ctx:      ctx,
		uploader: manager.NewUploader(client),
		uri:      uri,
	}, nil
}

func (o *s3Object) Write(p []byte) (int, error) {
	if o.closed {
		return 0, fmt.Errorf("write to closed object %s", o.uri)
	}
	return o.buf.Write(p)
}

func (o *s3Object) Close() error {
	if o.closed {
		return nil
	}
	o.closed = true

	_, err := o.uploader.Upload(o.ctx, &s3.PutObjectInput{
		Bucket: aws.String(o.uri.Bucket),
		Key:    aws.String(o.uri.Key),
		Body:   bytes.NewReader(o.buf.Bytes()),
	})
	if err != nil {
		return fmt.Errorf("failed to upload to %s: %w", o.uri, err)
	}
	return nil
}
