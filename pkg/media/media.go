// Package media uploads user images to an S3-compatible object store
// and hands back public URLs. Only the URL is ever persisted; the
// service never keeps file bytes around after upload.
package media

import (
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
)

var (
	ErrNilFileHeader = errors.New("media: nil file header")
	ErrNotAnImage    = errors.New("media: file is not an image")
	ErrUploadFailed  = errors.New("media: upload failed")
)

// Uploader stores an uploaded image and returns its hosted URL.
type Uploader interface {
	UploadImage(ctx context.Context, fh *multipart.FileHeader, dir string) (string, error)
}

var imageMIMETypes = map[string]bool{
	"image/jpeg":    true,
	"image/jpg":     true,
	"image/png":     true,
	"image/gif":     true,
	"image/webp":    true,
	"image/svg+xml": true,
	"image/bmp":     true,
	"image/avif":    true,
}

// DetectImageMIME sniffs the file's content type and verifies it is an
// image. Content bytes are checked rather than the client-supplied
// filename, so a renamed executable does not pass as a picture. Falls
// back to the extension when sniffing yields a generic type, matching
// files whose magic bytes http.DetectContentType does not know.
func DetectImageMIME(fh *multipart.FileHeader) (string, error) {
	if fh == nil {
		return "", ErrNilFileHeader
	}

	src, err := fh.Open()
	if err != nil {
		return "", ErrNotAnImage
	}
	defer func() { _ = src.Close() }()

	buf := make([]byte, 512)
	n, _ := src.Read(buf)
	mimeType := http.DetectContentType(buf[:n])
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	if imageMIMETypes[mimeType] {
		return mimeType, nil
	}

	switch strings.ToLower(filepath.Ext(fh.Filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg", nil
	case ".png":
		return "image/png", nil
	case ".gif":
		return "image/gif", nil
	case ".webp":
		return "image/webp", nil
	case ".svg":
		return "image/svg+xml", nil
	}
	return "", ErrNotAnImage
}
