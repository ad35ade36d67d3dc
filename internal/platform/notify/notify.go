// Package notify provides the pipeline's outbound notification channels.
// Both channels are best-effort: delivery failures are logged and never
// retried, and never abort the run that triggered them.
package notify

import "context"

// SMSSender delivers a text message to one recipient.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// EmailSender delivers a plain-text message to a list of recipients.
type EmailSender interface {
	SendEmail(ctx context.Context, to []string, subject, body string) error
}
