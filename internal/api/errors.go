package api

import (
	"fmt"
	"net/http"
)

// APIError carries the server's error envelope: the HTTP status, the
// short string code (e.g. "invalid_argument", "mail_failure") and the
// numeric code from the server's taxonomy.
type APIError struct {
	Status    int
	Code      string
	ErrorCode int
	Message   string
}

func (e *APIError) Error() string {
	if e == nil {
		return ""
	}
	message := e.Message
	if message == "" {
		message = http.StatusText(e.Status)
	}
	if message == "" {
		message = "request failed"
	}
	if e.Code == "" {
		return message
	}
	return fmt.Sprintf("%s: %s", e.Code, message)
}

// HasCode reports whether the error carries the given string code.
func (e *APIError) HasCode(code string) bool {
	return e != nil && e.Code == code
}
