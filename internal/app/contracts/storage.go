package contracts

import "context"

type Storage interface {
	UploadJSON(ctx context.Context, bucketName, objectName string, payload interface{}) (string, error)
}
