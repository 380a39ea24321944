package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"sumpro/internal/blobstore"
	"sumpro/internal/models"
	"sumpro/internal/store"
	"sumpro/internal/upload"
)

const defaultMultipartMaxMemory = 8 << 20 // 8 MiB

// ApplicationService implements the application intake and review flows on
// top of the record store and the résumé blob store.
type ApplicationService struct {
	store              store.ApplicationStore
	resumes            blobstore.ResumeStore
	maxResumeBytes     int64
	multipartMaxMemory int64
	logger             *slog.Logger
}

// ApplicationSubmission is one applicant's intake form plus their résumé.
type ApplicationSubmission struct {
	FullName    string
	Email       string
	Position    string
	Filename    string
	ContentType string
	Size        int64
	Resume      io.Reader
}

func NewApplicationService(appStore store.ApplicationStore, resumes blobstore.ResumeStore, maxResumeBytes, multipartMaxMemory int64, logger *slog.Logger) *ApplicationService {
	if logger == nil {
		logger = slog.Default()
	}
	if maxResumeBytes <= 0 {
		maxResumeBytes = upload.DefaultMaxResumeBytes
	}
	if multipartMaxMemory <= 0 {
		multipartMaxMemory = defaultMultipartMaxMemory
	}
	return &ApplicationService{
		store:              appStore,
		resumes:            resumes,
		maxResumeBytes:     maxResumeBytes,
		multipartMaxMemory: multipartMaxMemory,
		logger:             logger,
	}
}

// Submit validates the submission, stores the résumé, and creates the
// application record. The résumé is removed again when record creation
// fails, so a failed submission leaves nothing behind.
func (svc *ApplicationService) Submit(ctx context.Context, sub ApplicationSubmission) (*models.Application, error) {
	fullName, err := requireField(sub.FullName, "full_name")
	if err != nil {
		return nil, err
	}
	email, err := requireEmail(sub.Email)
	if err != nil {
		return nil, err
	}
	position, err := requireField(sub.Position, "position")
	if err != nil {
		return nil, err
	}
	if sub.Resume == nil || sub.Filename == "" {
		return nil, badRequestCode(fmt.Errorf("resume file is required"), ErrCodeMissingResume)
	}
	if err := upload.Validate(sub.Filename, sub.ContentType, sub.Size, svc.maxResumeBytes); err != nil {
		switch {
		case errors.Is(err, upload.ErrFileTooLarge):
			return nil, badRequestCode(err, ErrCodeFileTooLarge)
		case errors.Is(err, upload.ErrInvalidFileType):
			return nil, badRequestCode(err, ErrCodeInvalidFileType)
		default:
			return nil, badRequest(err)
		}
	}

	stored, err := svc.resumes.Store(ctx, sub.Resume, blobstore.ResumeUpload{
		FieldLabel: "resume",
		Filename:   sub.Filename,
	})
	if err != nil {
		return nil, blobFailure(err)
	}

	id, err := store.GenerateApplicationID(svc.store.ApplicationExists)
	if err != nil {
		svc.cleanupResume(ctx, stored.Handle, stored.Kind)
		return nil, storeFailure(err)
	}

	now := time.Now().UTC()
	app := &models.Application{
		ID:             id,
		FullName:       fullName,
		Email:          email,
		Position:       position,
		ResumeLocation: stored.Location,
		ResumeHandle:   stored.Handle,
		ResumeKind:     stored.Kind,
		Status:         models.StatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := svc.store.CreateApplication(ctx, app); err != nil {
		svc.cleanupResume(ctx, stored.Handle, stored.Kind)
		return nil, storeFailure(err)
	}
	return app, nil
}

func (svc *ApplicationService) List(ctx context.Context) ([]models.Application, error) {
	apps, err := svc.store.ListApplications(ctx)
	if err != nil {
		return nil, storeFailure(err)
	}
	return apps, nil
}

func (svc *ApplicationService) Get(ctx context.Context, id string) (*models.Application, error) {
	app, err := svc.store.GetApplication(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if app == nil {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}
	return app, nil
}

// UpdateStatus moves an application to a new review status. An empty
// status is a no-op that returns the current record unchanged.
func (svc *ApplicationService) UpdateStatus(ctx context.Context, id, status string) (*models.Application, error) {
	var parsed models.ApplicationStatus
	if status != "" {
		var err error
		parsed, err = normalizeStatus(status)
		if err != nil {
			return nil, err
		}
	}

	app, err := svc.store.UpdateApplicationStatus(ctx, id, parsed, time.Now().UTC())
	if err != nil {
		return nil, storeFailure(err)
	}
	if app == nil {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}
	return app, nil
}

// Remove deletes the stored résumé first and then the record. Blob
// deletion is best effort: a storage failure is logged and the record
// delete proceeds regardless. A failure after the blob is gone leaves a
// record an admin can simply delete again.
func (svc *ApplicationService) Remove(ctx context.Context, id string) (*models.Application, error) {
	app, err := svc.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if app.ResumeHandle != "" {
		svc.cleanupResume(ctx, app.ResumeHandle, app.ResumeKind)
	}

	deleted, err := svc.store.DeleteApplication(ctx, id)
	if err != nil {
		return nil, storeFailure(err)
	}
	if !deleted {
		return nil, notFoundCode(fmt.Errorf("application not found"), ErrCodeApplicationNotFound)
	}
	return app, nil
}

func (svc *ApplicationService) cleanupResume(ctx context.Context, handle string, kind models.ResourceKind) {
	if svc.resumes == nil || handle == "" {
		return
	}
	if err := svc.resumes.Delete(ctx, handle, kind); err != nil {
		svc.logger.Warn("resume cleanup failed", "handle", handle, "kind", kind, "error", err)
	}
}
