package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
)

const authUserRoleAdmin = "admin"

// AuthUser is one provisioned admin account.
type AuthUser struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	Disabled     bool      `json:"disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CountEnabledUsers returns the number of non-disabled admin accounts.
func (s *Store) CountEnabledUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE disabled = 0").Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CreateAdminUser creates one admin account keyed by email.
func (s *Store) CreateAdminUser(ctx context.Context, email, passwordHash string, now time.Time) (*AuthUser, error) {
	email = normalizeStoredEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}
	if strings.TrimSpace(passwordHash) == "" {
		return nil, fmt.Errorf("password hash is required")
	}

	userID, err := GenerateID("au", nil)
	if err != nil {
		return nil, err
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, role, disabled, created_at, updated_at)
		VALUES (?, ?, ?, ?, 0, ?, ?)
	`, userID, email, passwordHash, authUserRoleAdmin, formatTime(now), formatTime(now))
	if err != nil {
		return nil, err
	}

	return &AuthUser{
		ID:           userID,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         authUserRoleAdmin,
		Disabled:     false,
		CreatedAt:    now.UTC(),
		UpdatedAt:    now.UTC(),
	}, nil
}

// GetUserByEmail returns an admin account by normalized email.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*AuthUser, error) {
	email = normalizeStoredEmail(email)
	if email == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT id, email, password_hash, role, disabled, created_at, updated_at
		FROM users
		WHERE email = ?
		LIMIT 1
	`, email)
	return scanAuthUser(row)
}

// ListUsers returns all admin accounts sorted by email.
func (s *Store) ListUsers(ctx context.Context) ([]AuthUser, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, email, password_hash, role, disabled, created_at, updated_at
		FROM users
		ORDER BY email ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]AuthUser, 0)
	for rows.Next() {
		user, err := scanAuthUser(rows)
		if err != nil {
			return nil, err
		}
		if user == nil {
			continue
		}
		users = append(users, *user)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// SetUserDisabled updates one account's disabled state by email.
// Returns nil when the email is unknown.
func (s *Store) SetUserDisabled(ctx context.Context, email string, disabled bool, now time.Time) (*AuthUser, error) {
	email = normalizeStoredEmail(email)
	if email == "" {
		return nil, fmt.Errorf("email is required")
	}

	flag := 0
	if disabled {
		flag = 1
	}
	result, err := s.db.ExecContext(ctx,
		"UPDATE users SET disabled = ?, updated_at = ? WHERE email = ?",
		flag, formatTime(now), email,
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

	if disabled {
		if _, err := s.db.ExecContext(ctx, `
			UPDATE sessions SET revoked_at = ?
			WHERE revoked_at IS NULL AND user_id IN (SELECT id FROM users WHERE email = ?)
		`, formatTime(now), email); err != nil {
			return nil, err
		}
	}

	return s.GetUserByEmail(ctx, email)
}

// CreateSession stores one session token hash with its expiry.
func (s *Store) CreateSession(ctx context.Context, userID, tokenHash string, expiresAt, now time.Time) error {
	userID = strings.TrimSpace(userID)
	tokenHash = strings.TrimSpace(tokenHash)
	if userID == "" || tokenHash == "" {
		return fmt.Errorf("user id and token hash are required")
	}

	sessionID, err := GenerateID("se", nil)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token_hash, created_at, expires_at)
		VALUES (?, ?, ?, ?, ?)
	`, sessionID, userID, tokenHash, formatTime(now), formatTime(expiresAt))
	return err
}

// GetUserBySessionTokenHash resolves an unexpired, unrevoked session to
// its enabled account, or nil.
func (s *Store) GetUserBySessionTokenHash(ctx context.Context, tokenHash string, now time.Time) (*AuthUser, error) {
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.password_hash, u.role, u.disabled, u.created_at, u.updated_at
		FROM sessions se
		JOIN users u ON u.id = se.user_id
		WHERE se.token_hash = ?
		AND se.revoked_at IS NULL
		AND se.expires_at > ?
		AND u.disabled = 0
		LIMIT 1
	`, tokenHash, formatTime(now))
	return scanAuthUser(row)
}

// RevokeSessionByTokenHash marks one session revoked. Unknown hashes are
// a no-op.
func (s *Store) RevokeSessionByTokenHash(ctx context.Context, tokenHash string, now time.Time) error {
	tokenHash = strings.TrimSpace(tokenHash)
	if tokenHash == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		"UPDATE sessions SET revoked_at = ? WHERE token_hash = ? AND revoked_at IS NULL",
		formatTime(now), tokenHash,
	)
	return err
}

// DeleteExpiredSessions removes sessions past their expiry.
func (s *Store) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx, "DELETE FROM sessions WHERE expires_at <= ?", formatTime(now))
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

func scanAuthUser(scanner interface {
	Scan(dest ...any) error
}) (*AuthUser, error) {
	var user AuthUser
	var disabled int
	var createdAt, updatedAt string
	if err := scanner.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.Role, &disabled, &createdAt, &updatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	user.Disabled = disabled != 0

	var err error
	if user.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, err
	}
	if user.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return nil, err
	}
	return &user, nil
}

func normalizeStoredEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}
