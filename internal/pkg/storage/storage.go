package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
)

// Storage is the minimal interface for payment proof backends.
type Storage interface {
	// Save stores a file under the given key.
	Save(ctx context.Context, key string, reader io.Reader, contentType string) error

	// Delete removes a file by key. Returns nil if the file doesn't exist.
	Delete(ctx context.Context, key string) error

	// GetURL returns the public URL for a stored file.
	GetURL(key string) string
}

var (
	ErrFileTooLarge    = errors.New("file exceeds maximum size")
	ErrInvalidMimeType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
)

// MaxProofSize limits uploaded payment proofs to 10 MB.
const MaxProofSize int64 = 10 * 1024 * 1024

// allowedProofTypes are the MIME types accepted for payment proofs.
var allowedProofTypes = []string{"image/jpeg", "image/png", "image/webp"}

// ValidateProof reads and validates a payment proof upload. It returns the
// buffered content and the detected MIME type (from magic bytes, not the
// client-supplied filename).
func ValidateProof(reader io.Reader) (*bytes.Buffer, string, error) {
	limited := io.LimitReader(reader, MaxProofSize+1)
	data, err := io.ReadAll(limited)
	if err != nil {
		return nil, "", err
	}

	if len(data) == 0 {
		return nil, "", ErrEmptyFile
	}
	if int64(len(data)) > MaxProofSize {
		return nil, "", ErrFileTooLarge
	}

	mimeType := http.DetectContentType(data)
	if idx := strings.Index(mimeType, ";"); idx != -1 {
		mimeType = strings.TrimSpace(mimeType[:idx])
	}

	for _, t := range allowedProofTypes {
		if t == mimeType {
			return bytes.NewBuffer(data), mimeType, nil
		}
	}
	return nil, "", ErrInvalidMimeType
}

// ExtensionForMime returns the file extension for an accepted MIME type.
func ExtensionForMime(mimeType string) string {
	switch mimeType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	default:
		return ""
	}
}
