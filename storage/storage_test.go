package storage

import (
	"context"
	"strings"
	"testing"
	"time"

	"recipe-blog-cms/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBaseURLResolver(t *testing.T) {
	ctx := context.Background()
	r := NewBaseURLResolver("https://cdn.example.com/")

	url, err := r.ImageURL(ctx, "recipes/lemon-chicken.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/recipes/lemon-chicken.jpg", url)

	url, _ = r.ImageURL(ctx, "")
	assert.Empty(t, url)

	url, _ = r.ImageURL(ctx, "https://images.example.org/x.png")
	assert.Equal(t, "https://images.example.org/x.png", url)

	url, _ = NewBaseURLResolver("").ImageURL(ctx, "a.jpg")
	assert.Equal(t, "/a.jpg", url)
}

func TestNewWithoutBucketUsesBaseURL(t *testing.T) {
	r, err := New(context.Background(), config.StorageConfig{ImageBaseURL: "https://cdn.example.com"})
	require.NoError(t, err)
	_, ok := r.(*baseURLResolver)
	assert.True(t, ok)
}

func TestAwsS3PresignsWithStaticCredentials(t *testing.T) {
	ctx := context.Background()
	s, err := NewAwsS3(ctx, config.StorageConfig{
		Bucket:     "recipe-images",
		Region:     "us-east-1",
		AccessKey:  "AKIDEXAMPLE",
		SecretKey:  "secret",
		PresignTTL: time.Minute,
	})
	require.NoError(t, err)

	url, err := s.ImageURL(ctx, "recipes/stew.jpg")
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "recipe-images"), url)
	assert.Contains(t, url, "recipes/stew.jpg")
	assert.Contains(t, url, "X-Amz-Signature=")
	assert.Contains(t, url, "X-Amz-Expires=60")
}

func TestAwsS3PublicBucketServesPlainObjectURLs(t *testing.T) {
	ctx := context.Background()
	r, err := New(ctx, config.StorageConfig{
		Bucket:     "recipe-images",
		Region:     "eu-west-1",
		AccessKey:  "AKIDEXAMPLE",
		SecretKey:  "secret",
		PublicRead: true,
	})
	require.NoError(t, err)

	url, err := r.ImageURL(ctx, "/recipes/stew.jpg")
	require.NoError(t, err)
	assert.Equal(t, "https://recipe-images.s3.eu-west-1.amazonaws.com/recipes/stew.jpg", url)

	url, err = r.ImageURL(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, url)
}
