package blobstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"sumpro/internal/models"
)

// LocalDir stores résumé files as plain files under a root directory.
// Location values are /uploads/<name> paths served by the HTTP server.
type LocalDir struct {
	root string
}

var _ ResumeStore = (*LocalDir)(nil)

// NewLocalDir creates the root directory if needed and returns a store
// writing into it.
func NewLocalDir(root string) (*LocalDir, error) {
	if root == "" {
		return nil, errors.New("blobstore: empty root directory")
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create uploads dir: %w", err)
	}
	return &LocalDir{root: root}, nil
}

// Root returns the directory files are stored under.
func (l *LocalDir) Root() string { return l.root }

// Store writes the file to a temp name first and renames it into place so
// readers never observe a partial file.
func (l *LocalDir) Store(ctx context.Context, r io.Reader, upload ResumeUpload) (StoredResume, error) {
	if err := ctx.Err(); err != nil {
		return StoredResume{}, err
	}
	name := storageKey(upload)
	tmp, err := os.CreateTemp(l.root, ".tmp-*")
	if err != nil {
		return StoredResume{}, fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return StoredResume{}, fmt.Errorf("write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return StoredResume{}, fmt.Errorf("close upload: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(l.root, name)); err != nil {
		return StoredResume{}, fmt.Errorf("store upload: %w", err)
	}
	return StoredResume{
		Location: path.Join("/uploads", name),
		Handle:   name,
		Kind:     models.ResourceKindForFilename(upload.Filename),
	}, nil
}

// Delete removes the named file. Missing files are not an error; handles
// that would escape the root directory are rejected.
func (l *LocalDir) Delete(ctx context.Context, handle string, kind models.ResourceKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validateLocalHandle(handle); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(l.root, handle)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("delete upload: %w", err)
	}
	return nil
}

func validateLocalHandle(handle string) error {
	if handle == "" {
		return errors.New("blobstore: empty handle")
	}
	if strings.ContainsAny(handle, `/\`) || handle == "." || handle == ".." {
		return fmt.Errorf("blobstore: invalid handle %q", handle)
	}
	return nil
}
