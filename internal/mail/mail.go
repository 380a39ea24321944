// Package mail delivers contact-form messages to the site operators.
package mail

import "context"

// Message is an outbound email. ReplyTo, when set, lets the recipient
// answer the person who filled in the form rather than the relay account.
type Message struct {
	ReplyTo  string
	Subject  string
	HTMLBody string
}

// Sender delivers messages. Implementations must be safe for concurrent use.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}
