package services

import (
	"bytes"
	"context"
	"io"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
	"github.com/google/uuid"
)

// CloudinaryStorage publishes assets to Cloudinary under the
// prescription-platform folder tree.
type CloudinaryStorage struct {
	client *cloudinary.Cloudinary
}

func NewCloudinaryStorage(cloudinaryURL string) (*CloudinaryStorage, error) {
	client, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, err
	}
	return &CloudinaryStorage{client: client}, nil
}

func (s *CloudinaryStorage) UploadImage(ctx context.Context, file io.Reader, folder string) (string, error) {
	resp, err := s.client.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:   "prescription-platform/" + folder,
		PublicID: uuid.NewString(),
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}

func (s *CloudinaryStorage) UploadPDF(ctx context.Context, data []byte, publicID string) (string, error) {
	resp, err := s.client.Upload.Upload(ctx, bytes.NewReader(data), uploader.UploadParams{
		Folder:       "prescription-platform/prescriptions",
		PublicID:     publicID,
		ResourceType: "raw",
		Format:       "pdf",
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
