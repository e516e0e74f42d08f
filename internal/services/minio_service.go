package services

import (
	"context"
	"io"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploads without an explicit content type are treated as JPEG, the format
// the admin UI produces.
const defaultImageContentType = "image/jpeg"

// MinioService stores product and blog imagery in an S3-compatible bucket.
// Objects are private; reads go through short-lived presigned URLs so the
// bucket never needs a public policy.
type MinioService interface {
	UploadImage(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error
	GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error)
	DeleteImage(ctx context.Context, bucketName, objectName string) error
	EnsureBucketExists(ctx context.Context, bucketName string) error
}

type minioService struct {
	mc *minio.Client
}

// NewMinioService dials the object store with static credentials. It does
// not touch the bucket; callers run EnsureBucketExists once at startup.
func NewMinioService(endpoint, accessKey, secretKey string, useSSL bool) (MinioService, error) {
	mc, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, err
	}
	return &minioService{mc: mc}, nil
}

// UploadImage streams an image into the bucket under objectName, tagging it
// with the caller-supplied content type.
func (s *minioService) UploadImage(ctx context.Context, bucketName, objectName, contentType string, reader io.Reader, objectSize int64) error {
	if contentType == "" {
		contentType = defaultImageContentType
	}
	_, err := s.mc.PutObject(ctx, bucketName, objectName, reader, objectSize, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// GetPresignedURL returns a GET URL that stays valid for expiry. Presigning
// is local signing, no round trip, hence no context parameter.
func (s *minioService) GetPresignedURL(bucketName, objectName string, expiry time.Duration) (string, error) {
	u, err := s.mc.PresignedGetObject(context.Background(), bucketName, objectName, expiry, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (s *minioService) DeleteImage(ctx context.Context, bucketName, objectName string) error {
	return s.mc.RemoveObject(ctx, bucketName, objectName, minio.RemoveObjectOptions{})
}

// EnsureBucketExists creates the bucket on first boot and is a no-op after.
func (s *minioService) EnsureBucketExists(ctx context.Context, bucketName string) error {
	found, err := s.mc.BucketExists(ctx, bucketName)
	if err != nil {
		return err
	}
	if found {
		return nil
	}
	return s.mc.MakeBucket(ctx, bucketName, minio.MakeBucketOptions{})
}
