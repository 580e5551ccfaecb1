package storage

import (
	"bytes"
	"clinic-appointment-service/internal/app/contracts"
	"clinic-appointment-service/internal/pkg/constvars"
	"clinic-appointment-service/internal/pkg/exceptions"
	"context"

	"github.com/goccy/go-json"
	"github.com/minio/minio-go/v7"
)

type minioStorage struct {
	MinioClient *minio.Client
}

func NewMinioStorage(minioClient *minio.Client) contracts.Storage {
	return &minioStorage{
		MinioClient: minioClient,
	}
}

func (m *minioStorage) UploadJSON(ctx context.Context, bucketName, objectName string, payload interface{}) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", exceptions.ErrCannotMarshalJSON(err)
	}

	_, err = m.MinioClient.PutObject(
		ctx,
		bucketName,
		objectName,
		bytes.NewReader(body),
		int64(len(body)),
		minio.PutObjectOptions{
			ContentType: constvars.MIMEApplicationJSON,
		},
	)
	if err != nil {
		return "", exceptions.ErrMinioCreateObject(err, bucketName)
	}

	return objectName, nil
}
