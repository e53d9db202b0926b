// Package storage persists issue media. The S3 store targets any
// S3-compatible endpoint (MinIO in development); the local store is a
// disk fallback for deployments without object storage.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	appconfig "civic-connect.backend/internal/config"
	"civic-connect.backend/internal/domain/repositories"
)

// S3Store implements repositories.MediaStore on an S3-compatible bucket
type S3Store struct {
	client      *s3.Client
	endpoint    string
	imageBucket string
	audioBucket string
}

// NewS3Store creates a media store from storage configuration
func NewS3Store(ctx context.Context, cfg appconfig.StorageConfig) (*S3Store, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3Store{
		client:      client,
		endpoint:    strings.TrimSuffix(cfg.Endpoint, "/"),
		imageBucket: cfg.ImageBucket,
		audioBucket: cfg.AudioBucket,
	}, nil
}

// Upload stores the blob under a collision-free object name and
// returns its public URL
func (s *S3Store) Upload(ctx context.Context, kind repositories.MediaKind, filename string, data []byte, contentType string) (string, string, error) {
	bucket := s.imageBucket
	if kind == repositories.MediaKindAudio {
		bucket = s.audioBucket
	}

	storedName := storageObjectName(filename)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(storedName),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", "", fmt.Errorf("upload %s: %w", storedName, err)
	}

	return fmt.Sprintf("%s/%s/%s", s.endpoint, bucket, storedName), storedName, nil
}

func storageObjectName(filename string) string {
	ext := path.Ext(filename)
	return fmt.Sprintf("%d_%s%s", time.Now().Unix(), uuid.New(), ext)
}
