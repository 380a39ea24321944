package mail

import (
	"fmt"
	"html"
	"strings"

	"sumpro/internal/models"
)

// ContactMessage renders a contact-form submission as an outbound email.
// All submitter-controlled fields are HTML-escaped.
func ContactMessage(cm models.ContactMessage) Message {
	name := strings.TrimSpace(cm.FirstName + " " + cm.LastName)
	var b strings.Builder
	b.WriteString("<h2>New contact form message</h2>\n")
	fmt.Fprintf(&b, "<p><strong>From:</strong> %s &lt;%s&gt;</p>\n",
		html.EscapeString(name), html.EscapeString(cm.Email))
	fmt.Fprintf(&b, "<p><strong>Subject:</strong> %s</p>\n", html.EscapeString(cm.Subject))
	b.WriteString("<hr>\n")
	fmt.Fprintf(&b, "<p>%s</p>\n", strings.ReplaceAll(html.EscapeString(cm.Message), "\n", "<br>\n"))
	return Message{
		ReplyTo:  cm.Email,
		Subject:  fmt.Sprintf("Contact form: %s", cm.Subject),
		HTMLBody: b.String(),
	}
}
