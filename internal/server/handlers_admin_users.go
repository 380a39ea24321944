package server

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"sumpro/internal/api"
	"sumpro/internal/store"
)

func (s *Server) handleAdminCreateUser(w http.ResponseWriter, r *http.Request) {
	if s.authService == nil {
		s.writeAuthNotConfigured(w, r)
		return
	}

	var req api.AdminUserCreateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	created, err := s.authService.CreateAdminUser(r.Context(), req.Email, req.Password, time.Now().UTC())
	if err != nil {
		message := strings.ToLower(strings.TrimSpace(err.Error()))
		switch {
		case isUniqueConstraint(err):
			s.writeErrorReq(w, r, http.StatusConflict, conflictCode(fmt.Errorf("email already exists"), ErrCodeUserExists))
		case strings.Contains(message, "email") || strings.Contains(message, "password"):
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidArgument))
		default:
			s.writeStoreError(w, r, err)
		}
		return
	}

	s.writeJSON(w, http.StatusCreated, toAPIAdminUser(*created))
}

func (s *Server) handleAdminListUsers(w http.ResponseWriter, r *http.Request) {
	if s.authService == nil {
		s.writeAuthNotConfigured(w, r)
		return
	}

	users, err := s.authService.ListUsers(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}

	resp := make([]api.AdminUser, 0, len(users))
	for _, user := range users {
		resp = append(resp, toAPIAdminUser(user))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAdminSetUserDisabled(w http.ResponseWriter, r *http.Request) {
	if s.authService == nil {
		s.writeAuthNotConfigured(w, r)
		return
	}

	email, err := pathEmail(r)
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest, err)
		return
	}

	var req api.AdminUserSetDisabledRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	// A session admin locking out their own account would orphan the
	// deployment when no other admin exists.
	if principal, ok := authPrincipalFromContext(r.Context()); ok && req.Disabled && principal.isUser(email) {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("cannot disable your own account"), ErrCodeInvalidArgument))
		return
	}

	updated, err := s.authService.SetUserDisabled(r.Context(), email, req.Disabled, time.Now().UTC())
	if err != nil {
		message := strings.ToLower(strings.TrimSpace(err.Error()))
		if strings.Contains(message, "email") {
			s.writeErrorReq(w, r, http.StatusBadRequest, badRequestCode(err, ErrCodeInvalidArgument))
			return
		}
		s.writeStoreError(w, r, err)
		return
	}
	if updated == nil {
		s.writeErrorReq(w, r, http.StatusNotFound, notFoundCode(fmt.Errorf("user not found"), ErrCodeUserNotFound))
		return
	}

	s.writeJSON(w, http.StatusOK, toAPIAdminUser(*updated))
}

func (s *Server) writeAuthNotConfigured(w http.ResponseWriter, r *http.Request) {
	s.writeErrorReq(w, r, http.StatusNotImplemented, apiError{
		status:  http.StatusNotImplemented,
		code:    "not_implemented",
		errCode: ErrCodeNotImplemented,
		err:     fmt.Errorf("auth user provisioning is not supported"),
	})
}

func pathEmail(r *http.Request) (string, error) {
	email := strings.TrimSpace(r.PathValue("email"))
	if email == "" {
		return "", badRequestCode(fmt.Errorf("email is required"), ErrCodeMissingRequired)
	}
	return email, nil
}

func toAPIAdminUser(user store.AuthUser) api.AdminUser {
	return api.AdminUser{
		ID:        user.ID,
		Email:     user.Email,
		Role:      user.Role,
		Disabled:  user.Disabled,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}
