package server

import (
	"sumpro/internal/api"
	"sumpro/internal/models"
)

// toAPIApplication maps a stored record to its wire form. The blob handle
// and resource kind stay server-side.
func toAPIApplication(app models.Application) api.Application {
	return api.Application{
		ID:             app.ID,
		FullName:       app.FullName,
		Email:          app.Email,
		Position:       app.Position,
		ResumeLocation: app.ResumeLocation,
		Status:         string(app.Status),
		CreatedAt:      app.CreatedAt,
		UpdatedAt:      app.UpdatedAt,
	}
}
