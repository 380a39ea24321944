package server

import (
	"fmt"
	"regexp"
	"strings"

	"sumpro/internal/models"
)

var applicationIDRegex = regexp.MustCompile(`^ap-[0-9a-z]{8}$`)

func validateApplicationID(id string) bool {
	return applicationIDRegex.MatchString(id)
}

func normalizeStatus(value string) (models.ApplicationStatus, error) {
	status, err := models.ParseApplicationStatus(value)
	if err != nil {
		return "", badRequestCode(err, ErrCodeInvalidStatus)
	}
	return status, nil
}

func requireField(value, name string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", badRequestCode(fmt.Errorf("%s is required", name), ErrCodeMissingRequired)
	}
	return value, nil
}

// requireEmail checks presence only. Applicants and contact-form
// submitters type whatever they type; the value is stored and relayed
// as-is. Admin account emails are normalized separately in
// internal/auth.
func requireEmail(value string) (string, error) {
	return requireField(value, "email")
}
