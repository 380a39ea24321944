package server

import (
	"fmt"
	"net/http"

	"sumpro/internal/api"
	"sumpro/internal/models"
)

func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	if s.contact == nil {
		s.writeErrorReq(w, r, http.StatusNotImplemented, apiError{
			status:  http.StatusNotImplemented,
			code:    "not_implemented",
			errCode: ErrCodeNotImplemented,
			err:     fmt.Errorf("contact relay is not configured"),
		})
		return
	}

	var req api.ContactRequest
	if !s.decodeJSONReq(w, r, &req) {
		return
	}

	err := s.contact.Relay(r.Context(), models.ContactMessage{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Subject:   req.Subject,
		Message:   req.Message,
	})
	if err != nil {
		s.writeServiceError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, api.ContactResponse{Sent: true})
}
