package content

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// maxObjectSize bounds a single content document.
const maxObjectSize = 1 << 20

// ObjectGetter is the subset of *s3.Client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads documents from an S3 bucket.
//
// Example usage:
//
//	client := content.NewS3Client("eu-west-3", "", false)
//	src := content.NewS3Source(client, "apillot-portfolio", "content/")
type S3Source struct {
	client ObjectGetter
	bucket string
	prefix string
}

// NewS3Source creates a source reading bucket/prefix+key.
func NewS3Source(client ObjectGetter, bucket, prefix string) *S3Source {
	if prefix != "" && !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	return &S3Source{client: client, bucket: bucket, prefix: prefix}
}

// NewS3Client builds an anonymous client for a public bucket. endpoint may
// point at an S3-compatible service; pathStyle selects path-style
// addressing for such services.
func NewS3Client(region, endpoint string, pathStyle bool) *s3.Client {
	return s3.New(s3.Options{
		Region:       region,
		Credentials:  aws.AnonymousCredentials{},
		BaseEndpoint: optionalString(endpoint),
		UsePathStyle: pathStyle,
	})
}

func optionalString(s string) *string {
	if s == "" {
		return nil
	}
	return aws.String(s)
}

// Open implements Source.
func (s *S3Source) Open(ctx context.Context, key string) ([]byte, error) {
	if !validKey(key) {
		return nil, fmt.Errorf("content: invalid key %q", key)
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.prefix + key),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, fmt.Errorf("%w: s3://%s/%s%s", ErrNotExist, s.bucket, s.prefix, key)
		}
		return nil, fmt.Errorf("content: s3 get %s: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(io.LimitReader(out.Body, maxObjectSize+1))
	if err != nil {
		return nil, fmt.Errorf("content: s3 read %s: %w", key, err)
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("content: s3 object %s exceeds %d bytes", key, maxObjectSize)
	}
	return data, nil
}
