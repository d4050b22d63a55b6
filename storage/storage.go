// Package storage turns stored recipe image keys into URLs a browser can load.
package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	appconfig "recipe-blog-cms/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ImageResolver resolves an image key to a URL. An empty key resolves to "".
type ImageResolver interface {
	ImageURL(ctx context.Context, key string) (string, error)
}

// New picks S3 when a bucket is configured (presigned, or plain object URLs
// for public buckets) and falls back to joining keys onto IMAGE_BASE_URL.
func New(ctx context.Context, cfg appconfig.StorageConfig) (ImageResolver, error) {
	if cfg.Bucket == "" {
		return NewBaseURLResolver(cfg.ImageBaseURL), nil
	}
	return NewAwsS3(ctx, cfg)
}

type baseURLResolver struct {
	base string
}

func NewBaseURLResolver(base string) ImageResolver {
	return &baseURLResolver{base: strings.TrimRight(base, "/")}
}

func (r *baseURLResolver) ImageURL(_ context.Context, key string) (string, error) {
	if key == "" || isAbsolute(key) {
		return key, nil
	}
	if r.base == "" {
		return "/" + strings.TrimLeft(key, "/"), nil
	}
	return r.base + "/" + strings.TrimLeft(key, "/"), nil
}

type AwsS3 struct {
	bucket     string
	region     string
	ttl        time.Duration
	publicRead bool
	presign    *s3.PresignClient
}

func NewAwsS3(ctx context.Context, cfg appconfig.StorageConfig) (*AwsS3, error) {
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}

	return &AwsS3{
		bucket:     cfg.Bucket,
		region:     cfg.Region,
		ttl:        ttl,
		publicRead: cfg.PublicRead,
		presign:    s3.NewPresignClient(s3.NewFromConfig(awsCfg)),
	}, nil
}

func (s *AwsS3) ImageURL(ctx context.Context, key string) (string, error) {
	if key == "" || isAbsolute(key) {
		return key, nil
	}
	if s.publicRead {
		return s.GetPublicLinkKey(key), nil
	}
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(strings.TrimLeft(key, "/")),
	}, s3.WithPresignExpires(s.ttl))
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	return req.URL, nil
}

// GetPublicLinkKey is the unsigned object URL, for buckets with public reads.
func (s *AwsS3) GetPublicLinkKey(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, strings.TrimLeft(key, "/"))
}

func isAbsolute(key string) bool {
	return strings.HasPrefix(key, "http://") || strings.HasPrefix(key, "https://")
}
