package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"dambo/config"
)

type s3Store struct {
	client *minio.Client
	bucket string
}

func newS3Store() (*s3Store, error) {
	cfg := config.Config.S3
	client, err := minio.New(cfg.URL, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Key, cfg.Secret, ""),
		Secure: cfg.Secure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("connect s3: %w", err)
	}
	return &s3Store{client: client, bucket: cfg.Bucket}, nil
}

func objectKey(projectID, datasetID string) string {
	return fmt.Sprintf("datasets/%s/%s.csv", projectID, datasetID)
}

func (s *s3Store) Save(ctx context.Context, projectID, datasetID string, data []byte) (string, error) {
	key := objectKey(projectID, datasetID)
	_, err := s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("put object: %w", err)
	}
	return fmt.Sprintf("s3://%s/%s", s.bucket, key), nil
}

func (s *s3Store) Load(ctx context.Context, projectID, datasetID string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(projectID, datasetID), minio.GetObjectOptions{})
	if err != nil {
		return nil, fmt.Errorf("get object: %w", err)
	}
	defer obj.Close()
	return io.ReadAll(obj)
}

func (s *s3Store) Delete(ctx context.Context, projectID, datasetID string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectKey(projectID, datasetID), minio.RemoveObjectOptions{})
}

func (s *s3Store) Exists(ctx context.Context, projectID, datasetID string) (bool, error) {
	_, err := s.client.StatObject(ctx, s.bucket, objectKey(projectID, datasetID), minio.StatObjectOptions{})
	if err != nil {
		resp := minio.ToErrorResponse(err)
		if resp.Code == "NoSuchKey" || resp.Code == "NoSuchBucket" {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
