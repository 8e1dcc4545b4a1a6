package minio_storage

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
)

// CertificateStorage holds rendered certificate artifacts and hands out
// presigned download URLs.
type CertificateStorage struct {
	storage      *MinioStorage
	bucket       string
	presignedTTL time.Duration
}

func NewCertificateStorage(storage *MinioStorage, bucketName string, presignedTTL time.Duration) (*CertificateStorage, error) {
	if err := storage.ensureBucket(context.Background(), bucketName); err != nil {
		return nil, err
	}
	return &CertificateStorage{storage: storage, bucket: bucketName, presignedTTL: presignedTTL}, nil
}

func (s *CertificateStorage) UploadArtifact(ctx context.Context, certificateID uuid.UUID, artifact []byte, contentType string) (objectKey string, err error) {
	if contentType == "" {
		contentType = "application/pdf"
	}
	objectKey = fmt.Sprintf("certificates/%s", certificateID.String())

	_, err = s.storage.client.PutObject(
		ctx,
		s.bucket,
		objectKey,
		bytes.NewReader(artifact),
		int64(len(artifact)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		return "", err
	}
	return objectKey, nil
}

func (s *CertificateStorage) ArtifactURL(ctx context.Context, objectKey string) (string, error) {
	reqParams := make(url.Values)
	presignedURL, err := s.storage.client.PresignedGetObject(
		ctx,
		s.bucket,
		objectKey,
		s.presignedTTL,
		reqParams,
	)
	if err != nil {
		return "", err
	}
	return presignedURL.String(), nil
}
