// Package blobstore persists uploaded résumé files. Two backends exist:
// LocalDir keeps files under a directory on disk and serves them from
// /uploads, Remote uploads them to an HTTP object storage service.
package blobstore

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"sumpro/internal/models"
)

// ResumeUpload carries the client-supplied metadata for a file being stored.
type ResumeUpload struct {
	// FieldLabel is the form field the file arrived under, e.g. "resume".
	FieldLabel string
	// Filename is the original client file name; only its extension is kept.
	Filename string
}

// StoredResume describes a file after it has been persisted.
type StoredResume struct {
	// Location is what clients use to fetch the file: a /uploads path for
	// the local backend, an absolute URL for the remote one.
	Location string
	// Handle identifies the stored object for later deletion.
	Handle string
	// Kind is the resource kind the backend filed the object under.
	Kind models.ResourceKind
}

// ResumeStore stores and deletes résumé files.
type ResumeStore interface {
	Store(ctx context.Context, r io.Reader, upload ResumeUpload) (StoredResume, error)
	// Delete removes a stored file. kind must be the Kind returned by the
	// Store call that produced handle. Deleting an object that is already
	// gone is not an error.
	Delete(ctx context.Context, handle string, kind models.ResourceKind) error
}

// storageKey builds the name an upload is stored under. The original
// extension is preserved so viewers can tell the file type; the timestamp
// and random suffix keep concurrent uploads from colliding.
func storageKey(upload ResumeUpload) string {
	label := upload.FieldLabel
	if label == "" {
		label = "file"
	}
	ext := strings.ToLower(filepath.Ext(upload.Filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%d-%s%s", label, time.Now().UnixMilli(), suffix, ext)
}
