// Package upload validates incoming resume files before any bytes are
// persisted to the blob store or disk.
package upload

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// DefaultMaxResumeBytes caps resume uploads at 5 MiB.
	DefaultMaxResumeBytes int64 = 5 << 20

	wordProcessingMediaType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	legacyWordMediaType     = "application/msword"
)

// ErrInvalidFileType signals a rejected extension or content type.
var ErrInvalidFileType = errors.New("resume must be a pdf, doc or docx file")

// ErrFileTooLarge signals an upload exceeding the configured size cap.
var ErrFileTooLarge = errors.New("resume file is too large")

var allowedExtensions = map[string]struct{}{
	".pdf":  {},
	".doc":  {},
	".docx": {},
}

// Validate checks a candidate resume's file name, declared content type
// and byte size. Both the extension and the content type must pass, so a
// mislabeled upload fails either way.
func Validate(filename, contentType string, size, maxBytes int64) error {
	ext := strings.ToLower(filepath.Ext(strings.TrimSpace(filename)))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrInvalidFileType
	}
	if !allowedContentType(contentType) {
		return ErrInvalidFileType
	}
	if maxBytes > 0 && size > maxBytes {
		return fmt.Errorf("%w: %d bytes exceeds limit of %d", ErrFileTooLarge, size, maxBytes)
	}
	return nil
}

// allowedContentType accepts generic pdf/doc/docx media types plus the
// OOXML and legacy Word types, which some clients declare for docx/doc
// uploads instead of a type containing the extension.
func allowedContentType(contentType string) bool {
	normalized := strings.ToLower(strings.TrimSpace(contentType))
	if normalized == "" {
		return false
	}
	if mediaType, _, found := strings.Cut(normalized, ";"); found {
		normalized = strings.TrimSpace(mediaType)
	}
	switch normalized {
	case wordProcessingMediaType, legacyWordMediaType:
		return true
	}
	for _, marker := range []string{"pdf", "doc", "docx"} {
		if strings.Contains(normalized, marker) {
			return true
		}
	}
	return false
}
