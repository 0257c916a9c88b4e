// Package storage is the object-storage half of the backend collaborator.
// Attachments are written through the S3 protocol and served from the
// backend's public object URL.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Uploader stores objects and reports the public URL they are served from.
type Uploader interface {
	Upload(ctx context.Context, key string, body []byte, contentType string) error
	PublicURL(key string) string
}

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3 store.
type Options struct {
	Endpoint        string
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	// PublicBaseURL is the backend URL public objects are served under.
	PublicBaseURL string
}

// S3Store uploads objects to an S3-compatible bucket.
type S3Store struct {
	client     objectPutter
	bucket     string
	publicBase string
}

var _ Uploader = (*S3Store)(nil)

var loadDefaultAWSConfig = config.LoadDefaultConfig

// NewS3Store builds the S3 client from opts.
func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	if opts.Bucket == "" {
		return nil, fmt.Errorf("storage bucket is required")
	}

	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID,
			opts.SecretAccessKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load storage config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = true
	})

	return newS3Store(client, opts.Bucket, opts.PublicBaseURL), nil
}

func newS3Store(client objectPutter, bucket, publicBase string) *S3Store {
	return &S3Store{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

func (s *S3Store) Upload(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return fmt.Errorf("upload %s: %w", key, err)
	}
	return nil
}

// PublicURL returns <base>/storage/v1/object/public/<bucket>/<key>.
func (s *S3Store) PublicURL(key string) string {
	segments := strings.Split(key, "/")
	for i, seg := range segments {
		segments[i] = url.PathEscape(seg)
	}
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.publicBase, url.PathEscape(s.bucket), strings.Join(segments, "/"))
}
