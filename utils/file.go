// utils/file.go
package utils

import (
	"errors"
	"fmt"
	"mime/multipart"

	"github.com/gabriel-vasile/mimetype"
)

// MaxImageSize caps a single announcement image.
const MaxImageSize = 5 * 1024 * 1024

var (
	ErrNotAnImage    = errors.New("unsupported image type")
	ErrImageTooLarge = errors.New("image too large")
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

// DetectImageType sniffs the uploaded file's content and returns its MIME
// type. The client supplied Content-Type is not trusted.
func DetectImageType(fileHeader *multipart.FileHeader) (string, error) {
	if fileHeader.Size > MaxImageSize {
		return "", fmt.Errorf("%s: %w (max %d bytes)", fileHeader.Filename, ErrImageTooLarge, MaxImageSize)
	}

	file, err := fileHeader.Open()
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	mt, err := mimetype.DetectReader(file)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	for _, t := range imageTypes {
		if mt.Is(t) {
			return t, nil
		}
	}
	return "", fmt.Errorf("%s is %s: %w", fileHeader.Filename, mt.String(), ErrNotAnImage)
}
