package models

// ContactMessage is one contact-form submission. It is relayed by mail
// and never persisted.
type ContactMessage struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Subject   string `json:"subject"`
	Message   string `json:"message"`
}
