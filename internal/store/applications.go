package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"sumpro/internal/models"
)

// CreateApplication inserts one application record. Required fields must
// already be validated and normalized by the caller service; this layer
// re-checks presence so a bad caller cannot persist a partial record.
func (s *Store) CreateApplication(ctx context.Context, app *models.Application) error {
	if app == nil {
		return fmt.Errorf("application is required")
	}
	if err := requireApplicationFields(app); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO applications (
			id, full_name, email, position, resume_location, resume_handle, resume_kind, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		app.ID,
		app.FullName,
		app.Email,
		app.Position,
		app.ResumeLocation,
		nullIfEmpty(app.ResumeHandle),
		nullIfEmpty(string(app.ResumeKind)),
		string(app.Status),
		formatTime(app.CreatedAt),
		formatTime(app.UpdatedAt),
	)
	return err
}

// GetApplication returns an application by id, or nil when absent.
func (s *Store) GetApplication(ctx context.Context, id string) (*models.Application, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, full_name, email, position, resume_location, resume_handle, resume_kind, status, created_at, updated_at
		FROM applications WHERE id = ?
	`, id)
	return scanApplication(row)
}

// ListApplications returns all applications newest first. Each call runs
// a fresh query.
func (s *Store) ListApplications(ctx context.Context) ([]models.Application, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, full_name, email, position, resume_location, resume_handle, resume_kind, status, created_at, updated_at
		FROM applications
		ORDER BY created_at DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		apps = append(apps, *app)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return apps, nil
}

// UpdateApplicationStatus overwrites the status tag and refreshes
// updated_at. An empty status is an idempotent no-op that returns the
// current record unchanged. Returns nil when the id is unknown.
func (s *Store) UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, now time.Time) (*models.Application, error) {
	if status == "" {
		return s.GetApplication(ctx, id)
	}
	if !models.IsValidApplicationStatus(status) {
		return nil, fmt.Errorf("invalid status: %s", status)
	}

	result, err := s.db.ExecContext(ctx,
		"UPDATE applications SET status = ?, updated_at = ? WHERE id = ?",
		string(status), formatTime(now), id,
	)
	if err != nil {
		return nil, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, nil
	}
	return s.GetApplication(ctx, id)
}

// DeleteApplication removes an application row. Returns false when the
// id is unknown.
func (s *Store) DeleteApplication(ctx context.Context, id string) (bool, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM applications WHERE id = ?", id)
	if err != nil {
		return false, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

func requireApplicationFields(app *models.Application) error {
	for _, field := range []struct {
		name  string
		value string
	}{
		{"id", app.ID},
		{"full_name", app.FullName},
		{"email", app.Email},
		{"position", app.Position},
		{"resume_location", app.ResumeLocation},
		{"status", string(app.Status)},
	} {
		if strings.TrimSpace(field.value) == "" {
			return fmt.Errorf("%s is required", field.name)
		}
	}
	return nil
}

func scanApplication(scanner interface {
	Scan(dest ...any) error
}) (*models.Application, error) {
	var app models.Application
	var resumeHandle, resumeKind sql.NullString
	var status, createdAt, updatedAt string

	if err := scanner.Scan(
		&app.ID,
		&app.FullName,
		&app.Email,
		&app.Position,
		&app.ResumeLocation,
		&resumeHandle,
		&resumeKind,
		&status,
		&createdAt,
		&updatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}

	app.ResumeHandle = resumeHandle.String
	kind, err := models.ParseResourceKind(resumeKind.String)
	if err != nil {
		return nil, err
	}
	app.ResumeKind = kind
	app.Status = models.ApplicationStatus(status)

	if app.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if app.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &app, nil
}

func nullIfEmpty(value string) any {
	if value == "" {
		return nil
	}
	return value
}

// timeLayout is fixed-width so stored timestamps order correctly under
// SQLite's lexicographic TEXT comparison; RFC3339Nano trims trailing
// zeros and breaks that within a second.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	return time.Parse(time.RFC3339Nano, value)
}
