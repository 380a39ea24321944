package api

import "time"

// ErrorResponse is a generic JSON error wrapper.
type ErrorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	ErrorCode int    `json:"error_code,omitempty"`
}

// Application is the wire form of a job application record.
type Application struct {
	ID             string    `json:"id"`
	FullName       string    `json:"full_name"`
	Email          string    `json:"email"`
	Position       string    `json:"position"`
	ResumeLocation string    `json:"resume_location"`
	Status         string    `json:"status"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ApplicationStatusUpdateRequest updates an application's review status.
// An empty status leaves the record unchanged.
type ApplicationStatusUpdateRequest struct {
	Status string `json:"status"`
}

// ApplicationDeleteResponse confirms a deletion.
type ApplicationDeleteResponse struct {
	ID      string `json:"id"`
	Deleted bool   `json:"deleted"`
}

// ContactRequest is a contact-form submission relayed by email.
type ContactRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}

// ContactResponse acknowledges a relayed message.
type ContactResponse struct {
	Sent bool `json:"sent"`
}

// AuthLoginRequest carries browser login credentials.
type AuthLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthMeResponse reports the caller's authentication state.
type AuthMeResponse struct {
	Authenticated bool   `json:"authenticated"`
	Email         string `json:"email,omitempty"`
	Role          string `json:"role,omitempty"`
	AuthType      string `json:"auth_type,omitempty"`
}

// AdminUserCreateRequest provisions an admin account.
type AdminUserCreateRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AdminUserSetDisabledRequest toggles an account.
type AdminUserSetDisabledRequest struct {
	Disabled bool `json:"disabled"`
}

// AdminUser is the wire form of an admin account. Password hashes never
// leave the server.
type AdminUser struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Disabled  bool      `json:"disabled"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
