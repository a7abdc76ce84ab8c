package handlers

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/jackle3/moderation-api/models"
)

// EmailOversight emails the trust & safety oversight inbox whenever a
// moderation closes at or above the configured severity floor. A missing
// recipient disables delivery rather than failing the moderation.
type EmailOversight struct {
	Recipient string
}

// Escalate implements flow.OversightNotifier.
func (e EmailOversight) Escalate(ctx context.Context, session models.ReportSession, summary string) error {
	if e.Recipient == "" {
		zap.S().Warnw("oversight email skipped, no recipient configured", "session_id", session.ID)
		return nil
	}

	from := mail.NewEmail("Moderation Service", "no-reply@moderation-api.local")
	subject := fmt.Sprintf("High-severity moderation in %s", session.Target.CommunityID)
	to := mail.NewEmail("", e.Recipient)
	plain := oversightEmailBody(session, summary)
	html := "<pre>" + plain + "</pre>"
	msg := mail.NewSingleEmail(from, subject, to, plain, html)
	client := sendgrid.NewSendClient(os.Getenv("SENDGRID_API_KEY"))
	_, err := client.Send(msg)
	return err
}

func oversightEmailBody(session models.ReportSession, summary string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A report was actioned at severity %s or above.\n\n", session.Decision.Severity)
	fmt.Fprintf(&b, "Community: %s\nChannel: %s\nMessage author: %s\n", session.Target.CommunityID, session.Target.ChannelID, session.Target.AuthorID)
	if session.Target.JumpLink != "" {
		fmt.Fprintf(&b, "Message link: %s\n", session.Target.JumpLink)
	}
	b.WriteString("\n")
	b.WriteString(summary)
	b.WriteString("\n")
	return b.String()
}
