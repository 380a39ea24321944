package store

import (
	"context"
	"time"

	"sumpro/internal/models"
)

// ApplicationStore is the persistence surface the application service
// depends on.
type ApplicationStore interface {
	ApplicationExists(id string) (bool, error)
	CreateApplication(ctx context.Context, app *models.Application) error
	GetApplication(ctx context.Context, id string) (*models.Application, error)
	ListApplications(ctx context.Context) ([]models.Application, error)
	UpdateApplicationStatus(ctx context.Context, id string, status models.ApplicationStatus, now time.Time) (*models.Application, error)
	DeleteApplication(ctx context.Context, id string) (bool, error)
}

// AuthStore is the persistence surface the auth service depends on.
type AuthStore interface {
	CountEnabledUsers(ctx context.Context) (int, error)
	CreateAdminUser(ctx context.Context, email, passwordHash string, now time.Time) (*AuthUser, error)
	GetUserByEmail(ctx context.Context, email string) (*AuthUser, error)
	ListUsers(ctx context.Context) ([]AuthUser, error)
	SetUserDisabled(ctx context.Context, email string, disabled bool, now time.Time) (*AuthUser, error)
	CreateSession(ctx context.Context, userID, tokenHash string, expiresAt, now time.Time) error
	GetUserBySessionTokenHash(ctx context.Context, tokenHash string, now time.Time) (*AuthUser, error)
	RevokeSessionByTokenHash(ctx context.Context, tokenHash string, now time.Time) error
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

var _ ApplicationStore = (*Store)(nil)
var _ AuthStore = (*Store)(nil)
