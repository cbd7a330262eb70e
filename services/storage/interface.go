package storage

import "context"

// StorageService abstracts document/image storage for the platform.
type StorageService interface {
	// UploadFile uploads the file at localFilePath into destFolder and returns
	// the permanent identifier and a delivery URL for the stored asset.
	UploadFile(ctx context.Context, localFilePath, destFolder string) (publicID string, url string, err error)
	// DeleteFile removes a stored asset by its public ID.
	DeleteFile(ctx context.Context, publicID string) error
}
