// Package s3cache reads pre-rendered item graphs from an S3 bucket, one
// N-Quads object per identifier.
package s3cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/bbcarchdev/patchwork/internal/domain"
	"github.com/bbcarchdev/patchwork/internal/domain/identifier"
	"github.com/bbcarchdev/patchwork/internal/domain/request"
	"github.com/bbcarchdev/patchwork/internal/graph/codec"
)

// DefaultFetchLimit bounds the size of a cached object, in kilobytes.
const DefaultFetchLimit = 2048

// getter is the consumer interface for the S3 client (ISP).
type getter interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	HeadBucket(ctx context.Context, in *s3.HeadBucketInput, optFns ...func(*s3.Options)) (*s3.HeadBucketOutput, error)
}

// Config holds bucket and client parameters.
type Config struct {
	Bucket   string
	Region   string
	Endpoint string // optional custom endpoint (MinIO, Ceph, LocalStack)
	Access   string
	Secret   string
	// FetchLimit is in kilobytes; zero means DefaultFetchLimit.
	FetchLimit int
	Verbose    bool
}

// Cache is a read-only S3 cache.
type Cache struct {
	client getter
	bucket string
	limit  int64
}

// New creates a cache for cfg.Bucket. Static credentials are used when an
// access key is configured, otherwise the default AWS credential chain.
func New(ctx context.Context, cfg Config) (*Cache, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("bucket is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}
	opts := []func(*config.LoadOptions) error{config.WithRegion(region)}
	if cfg.Access != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.Access, cfg.Secret, "")))
	}
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
		if cfg.Verbose {
			o.ClientLogMode = aws.LogRequest | aws.LogResponse | aws.LogRetries
		}
	})
	return newCache(client, cfg.Bucket, cfg.FetchLimit), nil
}

func newCache(client getter, bucket string, limitKB int) *Cache {
	if limitKB <= 0 {
		limitKB = DefaultFetchLimit
	}
	return &Cache{client: client, bucket: bucket, limit: int64(limitKB) * 1024}
}

// Bucket returns the bucket name.
func (c *Cache) Bucket() string { return c.bucket }

// Ping checks that the bucket is reachable.
func (c *Cache) Ping(ctx context.Context) error {
	if _, err := c.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(c.bucket)}); err != nil {
		return fmt.Errorf("s3 head bucket %s: %w", c.bucket, err)
	}
	return nil
}

// Item parses the cached graph of id into the request model. A missing
// object is ErrNotFound; transport errors, oversized objects and parse
// failures are ErrBackend.
func (c *Cache) Item(ctx context.Context, req *request.Request, id identifier.ID) error {
	if len(id) != identifier.Length {
		return fmt.Errorf("s3 cache: %q: %w", id, domain.ErrNotFound)
	}
	out, err := c.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(string(id)),
	})
	if err != nil {
		if isNotFound(err) {
			return fmt.Errorf("s3 cache %s/%s: %w", c.bucket, id, domain.ErrNotFound)
		}
		return fmt.Errorf("%w: s3 get %s/%s: %w", domain.ErrBackend, c.bucket, id, err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(out.Body, c.limit+1))
	if err != nil {
		return fmt.Errorf("%w: s3 read %s/%s: %w", domain.ErrBackend, c.bucket, id, err)
	}
	if int64(len(data)) > c.limit {
		return fmt.Errorf("%w: s3 object %s/%s exceeds fetch limit of %d bytes", domain.ErrBackend, c.bucket, id, c.limit)
	}
	if _, err := codec.Decode(bytes.NewReader(data), req.Model, id.DocumentURI(req.Root)); err != nil {
		return fmt.Errorf("s3 cache %s/%s: %w", c.bucket, id, err)
	}
	return nil
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
