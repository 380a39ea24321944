package models

import (
	"fmt"
	"strings"
	"time"
)

// ApplicationStatus defines the admin-settable state tag on an application.
// Transitions are free-form: any status may be set to any other.
type ApplicationStatus string

const (
	StatusNew       ApplicationStatus = "New"
	StatusPending   ApplicationStatus = "Pending"
	StatusInterview ApplicationStatus = "Interview"
	StatusRejected  ApplicationStatus = "Rejected"
	StatusHired     ApplicationStatus = "Hired"
)

// ResourceKind classifies a stored resume blob for the remote storage
// service, which handles document and generic assets differently.
// It is computed once at upload time and stored on the record.
type ResourceKind string

const (
	ResourceKindDocument ResourceKind = "document"
	ResourceKindGeneric  ResourceKind = "generic"
)

var validApplicationStatuses = map[ApplicationStatus]struct{}{
	StatusNew:       {},
	StatusPending:   {},
	StatusInterview: {},
	StatusRejected:  {},
	StatusHired:     {},
}

// Application is one job application submitted through the public form.
type Application struct {
	ID             string            `json:"id"`
	FullName       string            `json:"full_name"`
	Email          string            `json:"email"`
	Position       string            `json:"position"`
	ResumeLocation string            `json:"resume_location"`
	ResumeHandle   string            `json:"resume_handle,omitempty"`
	ResumeKind     ResourceKind      `json:"resume_kind,omitempty"`
	Status         ApplicationStatus `json:"status"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

func IsValidApplicationStatus(status ApplicationStatus) bool {
	_, ok := validApplicationStatuses[status]
	return ok
}

// ParseApplicationStatus parses a status value case-insensitively into
// its canonical form.
func ParseApplicationStatus(raw string) (ApplicationStatus, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("status is required")
	}
	for status := range validApplicationStatuses {
		if strings.EqualFold(trimmed, string(status)) {
			return status, nil
		}
	}
	return "", fmt.Errorf("invalid status: %s", trimmed)
}

// ParseResourceKind parses a stored resource kind. Empty input maps to
// the generic kind, matching records persisted by the disk backend.
func ParseResourceKind(raw string) (ResourceKind, error) {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	switch ResourceKind(trimmed) {
	case "":
		return ResourceKindGeneric, nil
	case ResourceKindDocument:
		return ResourceKindDocument, nil
	case ResourceKindGeneric:
		return ResourceKindGeneric, nil
	}
	return "", fmt.Errorf("invalid resource kind: %s", trimmed)
}

// ResourceKindForFilename infers the storage service classification from
// a resume file name. Word documents are document assets, everything
// else (PDFs included) is treated as generic.
func ResourceKindForFilename(name string) ResourceKind {
	lower := strings.ToLower(strings.TrimSpace(name))
	if strings.HasSuffix(lower, ".doc") || strings.HasSuffix(lower, ".docx") {
		return ResourceKindDocument
	}
	return ResourceKindGeneric
}
