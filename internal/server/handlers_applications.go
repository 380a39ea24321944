package server

import (
	"errors"
	"fmt"
	"net/http"

	"sumpro/internal/api"
)

func (s *Server) handleSubmitApplication(w http.ResponseWriter, r *http.Request) {
	// Form fields plus the résumé itself; cap the whole body a little
	// above the résumé limit so oversized uploads fail fast.
	r.Body = http.MaxBytesReader(w, r.Body, s.applications.maxResumeBytes+defaultJSONMaxBody)
	if err := r.ParseMultipartForm(s.applications.multipartMaxMemory); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			s.writeErrorReq(w, r, http.StatusBadRequest,
				badRequestCode(fmt.Errorf("resume file exceeds the size limit"), ErrCodeFileTooLarge))
			return
		}
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("invalid multipart form: %w", err), ErrCodeInvalidArgument))
		return
	}
	defer func() {
		if r.MultipartForm != nil {
			r.MultipartForm.RemoveAll()
		}
	}()

	file, header, err := r.FormFile("resume")
	if err != nil {
		s.writeErrorReq(w, r, http.StatusBadRequest,
			badRequestCode(fmt.Errorf("resume file is required"), ErrCodeMissingResume))
		return
	}
	defer file.Close()

	app, err := s.applications.Submit(r.Context(), ApplicationSubmission{
		FullName:    r.FormValue("full_name"),
		Email:       r.FormValue("email"),
		Position:    r.FormValue("position"),
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Resume:      file,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	s.writeJSON(w, http.StatusCreated, toAPIApplication(*app))
}

func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	apps, err := s.applications.List(r.Context())
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}

	resp := make([]api.Application, 0, len(apps))
	for _, app := range apps {
		resp = append(resp, toAPIApplication(app))
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	app, err := s.applications.Get(r.Context(), id)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAPIApplication(*app))
}

func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	var req api.ApplicationStatusUpdateRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	app, err := s.applications.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toAPIApplication(*app))
}

func (s *Server) handleDeleteApplication(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathIDOrBadRequest(w, r)
	if !ok {
		return
	}

	if _, err := s.applications.Remove(r.Context(), id); err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ApplicationDeleteResponse{ID: id, Deleted: true})
}
