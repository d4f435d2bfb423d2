package services

import (
	"context"
	"errors"
	"io"
)

var errStorageNotConfigured = errors.New("object storage is not configured")

// Storage publishes binary assets and returns their public URLs.
type Storage interface {
	UploadImage(ctx context.Context, file io.Reader, folder string) (string, error)
	UploadPDF(ctx context.Context, data []byte, publicID string) (string, error)
}

type disabledStorage struct{}

// NewDisabledStorage is the fallback when no storage credentials are set.
// Every upload fails, which the degrade upload policy turns into a
// serve-the-bytes response.
func NewDisabledStorage() Storage {
	return disabledStorage{}
}

func (disabledStorage) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	return "", errStorageNotConfigured
}

func (disabledStorage) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	return "", errStorageNotConfigured
}
