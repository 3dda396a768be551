// Package publish uploads rendered images to S3.
package publish

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

// PutObjectAPI is the part of the S3 client the publisher uses.
type PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher writes PNG images under a bucket and key prefix.
type Publisher struct {
	client PutObjectAPI
	bucket string
	prefix string
}

// New returns a publisher using the given client.
func New(client PutObjectAPI, bucket, prefix string) (*Publisher, error) {
	if bucket == "" {
		return nil, errors.New("publish: bucket is required")
	}
	return &Publisher{client: client, bucket: bucket, prefix: prefix}, nil
}

// NewS3 builds a publisher backed by an S3 client configured from the
// environment. An empty region leaves the SDK's default resolution alone.
func NewS3(ctx context.Context, bucket, prefix, region string) (*Publisher, error) {
	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("publish: loading aws config: %w", err)
	}
	return New(s3.NewFromConfig(cfg), bucket, prefix)
}

// Key returns the object key a file name is stored under.
func (p *Publisher) Key(name string) string {
	return path.Join(p.prefix, name)
}

// PNG uploads data as name and returns its s3:// location.
func (p *Publisher) PNG(ctx context.Context, name string, data []byte) (string, error) {
	key := p.Key(name)
	start := time.Now()
	_, err := p.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(p.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String("image/png"),
		ContentLength: int64(len(data)),
	})
	if err != nil {
		return "", fmt.Errorf("publish: uploading %s: %w", key, err)
	}
	location := fmt.Sprintf("s3://%s/%s", p.bucket, key)
	zerolog.Ctx(ctx).Debug().
		Str("location", location).
		Str("size", humanize.IBytes(uint64(len(data)))).
		Dur("elapsed", time.Since(start)).
		Msg("published image")
	return location, nil
}
