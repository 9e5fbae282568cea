// Package storage provides object storage for user-uploaded images.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// ObjectStore stores image blobs and returns a public URL plus a storage key
// for later deletion.
type ObjectStore interface {
	Put(ctx context.Context, folder, fileName, contentType string, data []byte) (url, key string, err error)
	Delete(ctx context.Context, key string) error
}

// S3Store implements ObjectStore on an S3 bucket.
type S3Store struct {
	client *s3.Client
	bucket string
	region string
}

// NewS3Store creates an S3-backed object store.
func NewS3Store(client *s3.Client, bucket, region string) *S3Store {
	return &S3Store{
		client: client,
		bucket: bucket,
		region: region,
	}
}

// Put uploads the blob under a random key that keeps the original extension.
func (s *S3Store) Put(ctx context.Context, folder, fileName, contentType string, data []byte) (string, string, error) {
	ext := strings.ToLower(path.Ext(fileName))
	key := path.Join(folder, uuid.NewString()+ext)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to upload object to S3")
		return "", "", fmt.Errorf("failed to upload object: %w", err)
	}

	url := fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.region, key)
	return url, key, nil
}

// Delete removes an object by key. Missing objects are not an error.
func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		log.Error().Err(err).Str("key", key).Msg("Failed to delete object from S3")
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

var _ ObjectStore = (*S3Store)(nil)
