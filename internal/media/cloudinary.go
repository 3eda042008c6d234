// Package media uploads member profile photos to Cloudinary. Clients upload a
// file, receive the secure URL back and save it through the profile update
// endpoint.
package media

import (
	"context"
	"fmt"
	"mime/multipart"
	"time"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"
)

const profileFolder = "chama/profiles"

type CloudinaryUploader struct {
	cld *cloudinary.Cloudinary
}

func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) (*CloudinaryUploader, error) {
	cld, err := cloudinary.NewFromParams(cloudName, apiKey, apiSecret)
	if err != nil {
		return nil, fmt.Errorf("cloudinary config: %w", err)
	}
	return &CloudinaryUploader{cld: cld}, nil
}

// UploadProfilePhoto stores the file in the profiles folder and returns its
// secure URL.
func (u *CloudinaryUploader) UploadProfilePhoto(ctx context.Context, file multipart.File) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 60*time.Second)
	defer cancel()

	resp, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder: profileFolder,
	})
	if err != nil {
		return "", fmt.Errorf("upload photo: %w", err)
	}

	return resp.SecureURL, nil
}
