// Package media implements the MediaStore port against an S3-compatible
// object store. Uploaded objects get a generated key under a per-entity
// folder and are served from a public base URL.
package media

import (
	"context"
	"fmt"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/biddaddy/auction-api/internal/core/domain"
	"github.com/biddaddy/auction-api/internal/core/ports"
)

// S3Client is the subset of the S3 API the store needs.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type S3MediaStore struct {
	client  S3Client
	bucket  string
	baseURL string
}

// NewS3MediaStore returns a MediaStore writing into bucket and building
// public URLs from baseURL (no trailing slash).
func NewS3MediaStore(client S3Client, bucket, baseURL string) *S3MediaStore {
	return &S3MediaStore{client: client, bucket: bucket, baseURL: baseURL}
}

// Upload stores the file under <folder>/<uuid><ext> and returns the
// stable (id, url) pair.
func (s *S3MediaStore) Upload(ctx context.Context, file ports.MediaFile, folder string) (domain.ImageRef, error) {
	key := folder + "/" + uuid.NewString() + path.Ext(file.Name)

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        file.Reader,
		ContentType: aws.String(file.ContentType),
	}
	if file.Size > 0 {
		input.ContentLength = aws.Int64(file.Size)
	}

	if _, err := s.client.PutObject(ctx, input); err != nil {
		return domain.ImageRef{}, fmt.Errorf("put object %s: %w", key, err)
	}

	return domain.ImageRef{
		MediaID: key,
		URL:     s.baseURL + "/" + key,
	}, nil
}
