// Package mail is the outbound notification boundary: a Mailer interface
// the lifecycle service depends on, an SMTP implementation, and the HTML
// bodies for the confirmation and password-reset emails.
package mail

import "context"

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers messages. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}
