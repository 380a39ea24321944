package server

import (
	"net/http"
)

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	// Health check.
	mux.HandleFunc("GET /health", s.handleHealth)

	// Public: applicants and the contact form.
	mux.HandleFunc("POST /v1/applications", s.handleSubmitApplication)
	mux.HandleFunc("POST /v1/contact", s.handleContact)

	// Browser auth.
	mux.HandleFunc("POST /v1/auth/login", s.handleAuthLogin)
	mux.HandleFunc("POST /v1/auth/logout", s.handleAuthLogout)
	mux.HandleFunc("GET /v1/auth/me", s.handleAuthMe)

	// Admin: application review.
	mux.Handle("GET /v1/applications", s.requireAdmin(s.handleListApplications))
	mux.Handle("GET /v1/applications/{id}", s.requireAdmin(s.handleGetApplication))
	mux.Handle("PUT /v1/applications/{id}", s.requireAdmin(s.handleUpdateApplicationStatus))
	mux.Handle("DELETE /v1/applications/{id}", s.requireAdmin(s.handleDeleteApplication))

	// Admin: account provisioning.
	mux.Handle("POST /v1/admin/users", s.requireAdmin(s.handleAdminCreateUser))
	mux.Handle("GET /v1/admin/users", s.requireAdmin(s.handleAdminListUsers))
	mux.Handle("PATCH /v1/admin/users/{email}", s.requireAdmin(s.handleAdminSetUserDisabled))

	// Stored résumés, local backend only.
	if s.uploadsDir != "" {
		mux.HandleFunc("GET /uploads/{name}", s.handleServeUpload)
	}

	return s.withRequestLogging(mux)
}
