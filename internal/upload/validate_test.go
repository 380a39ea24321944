package upload

import (
	"errors"
	"testing"
)

func TestValidateAcceptsAllowedFiles(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
	}{
		{name: "pdf", filename: "cv.pdf", contentType: "application/pdf", size: 2 << 20},
		{name: "uppercase extension", filename: "CV.PDF", contentType: "application/pdf", size: 100},
		{name: "legacy word", filename: "cv.doc", contentType: "application/msword", size: 100},
		{name: "ooxml word", filename: "cv.docx", contentType: "application/vnd.openxmlformats-officedocument.wordprocessingml.document", size: 100},
		{name: "content type with params", filename: "cv.pdf", contentType: "application/pdf; charset=binary", size: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Validate(tt.filename, tt.contentType, tt.size, DefaultMaxResumeBytes); err != nil {
				t.Fatalf("expected accept, got %v", err)
			}
		})
	}
}

func TestValidateRejectsDisallowedFiles(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		size        int64
		want        error
	}{
		{name: "executable", filename: "cv.exe", contentType: "application/octet-stream", size: 100, want: ErrInvalidFileType},
		{name: "image", filename: "cv.png", contentType: "image/png", size: 100, want: ErrInvalidFileType},
		{name: "no extension", filename: "cv", contentType: "application/pdf", size: 100, want: ErrInvalidFileType},
		{name: "mislabeled pdf", filename: "cv.pdf", contentType: "application/zip", size: 100, want: ErrInvalidFileType},
		{name: "empty content type", filename: "cv.pdf", contentType: "", size: 100, want: ErrInvalidFileType},
		{name: "oversized", filename: "cv.pdf", contentType: "application/pdf", size: DefaultMaxResumeBytes + 1, want: ErrFileTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(tt.filename, tt.contentType, tt.size, DefaultMaxResumeBytes)
			if !errors.Is(err, tt.want) {
				t.Fatalf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestValidateUnboundedSizeWhenCapDisabled(t *testing.T) {
	if err := Validate("cv.pdf", "application/pdf", 500<<20, 0); err != nil {
		t.Fatalf("expected zero cap to disable size check, got %v", err)
	}
}
