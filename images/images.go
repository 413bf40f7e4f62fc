// Package images hosts found-item photos on Cloudinary so item documents
// carry a URL instead of the image payload itself.
package images

import (
	"bytes"
	"context"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

// Uploader stores an image payload and returns its public reference.
type Uploader interface {
	Upload(ctx context.Context, image []byte) (string, error)
}

// CloudinaryUploader uploads to the account named by CLOUDINARY_URL.
type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

// NewCloudinaryUploader builds an uploader from a cloudinary:// URL.
func NewCloudinaryUploader(url string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromURL(url)
	if err != nil {
		return nil, err
	}
	return &CloudinaryUploader{cld: cld, folder: "foundit"}, nil
}

// Upload stores the image and returns its secure URL.
func (u *CloudinaryUploader) Upload(ctx context.Context, image []byte) (string, error) {
	resp, err := u.cld.Upload.Upload(ctx, bytes.NewReader(image), uploader.UploadParams{
		Folder: u.folder,
	})
	if err != nil {
		return "", err
	}
	return resp.SecureURL, nil
}
