// Package media uploads catalog and profile images to Cloudinary.
package media

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/cloudinary/cloudinary-go/v2"
	"github.com/cloudinary/cloudinary-go/v2/api/uploader"

	"decor-marketplace-server/config"
)

const MaxImageSize = 5 * 1024 * 1024

var (
	ErrImageMissing  = errors.New("image file is required")
	ErrImageTooLarge = errors.New("image must be 5MB or smaller")
	ErrImageType     = errors.New("image must be jpg, jpeg, png or webp")
)

// Uploader stores an image and returns its public URL
type Uploader interface {
	UploadImage(ctx context.Context, header *multipart.FileHeader, folder string) (string, error)
}

// ValidateImage checks size and extension
func ValidateImage(h *multipart.FileHeader) error {
	if h == nil || h.Size <= 0 {
		return ErrImageMissing
	}
	if h.Size > MaxImageSize {
		return ErrImageTooLarge
	}
	switch strings.ToLower(filepath.Ext(h.Filename)) {
	case ".jpg", ".jpeg", ".png", ".webp":
		return nil
	default:
		return ErrImageType
	}
}

type CloudinaryUploader struct {
	cld    *cloudinary.Cloudinary
	folder string
}

func NewCloudinaryUploader(cfg config.CloudinaryConfig) (*CloudinaryUploader, error) {
	cloudinaryURL := fmt.Sprintf("cloudinary://%s:%s@%s", cfg.APIKey, cfg.APISecret, cfg.CloudName)
	log.Printf("🔧 Using Cloudinary URL: cloudinary://%s:***@%s", cfg.APIKey, cfg.CloudName)

	cld, err := cloudinary.NewFromURL(cloudinaryURL)
	if err != nil {
		return nil, fmt.Errorf("cloudinary init: %w", err)
	}
	return &CloudinaryUploader{cld: cld, folder: cfg.Folder}, nil
}

func (u *CloudinaryUploader) UploadImage(ctx context.Context, header *multipart.FileHeader, folder string) (string, error) {
	if err := ValidateImage(header); err != nil {
		return "", err
	}
	file, err := header.Open()
	if err != nil {
		return "", err
	}
	defer file.Close()

	overwrite := true
	unique := true
	up, err := u.cld.Upload.Upload(ctx, file, uploader.UploadParams{
		Folder:         u.folder + "/" + strings.Trim(folder, "/"),
		PublicID:       strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)),
		Overwrite:      &overwrite,
		UniqueFilename: &unique,
		ResourceType:   "image",
	})
	if err != nil {
		return "", fmt.Errorf("cloudinary upload: %w", err)
	}
	if up.Error.Message != "" {
		return "", fmt.Errorf("cloudinary upload: %s", up.Error.Message)
	}
	log.Printf("✅ Image uploaded: %s", up.SecureURL)
	return up.SecureURL, nil
}
