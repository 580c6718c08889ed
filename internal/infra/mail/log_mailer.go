// Package mail delivers outgoing emails.
package mail

import (
	"context"
	"log/slog"
	"net/mail"

	"emart/config"
	"emart/internal/domain/service"
	"emart/internal/errors"
)

// logMailer writes emails to the application log. It stands in until an SMTP relay is configured.
type logMailer struct {
	from   string
	logger *slog.Logger
}

// NewLogMailer creates a Mailer sending from mail.from.
func NewLogMailer(cfg *config.Config, logger *slog.Logger) service.Mailer {
	from := ""
	if cfg.Mail != nil {
		from = cfg.Mail.From
	}

	return &logMailer{from: from, logger: logger}
}

func (m *logMailer) Send(ctx context.Context, to, subject, body string) error {
	addr, err := mail.ParseAddress(to)
	if err != nil {
		return errors.Wrapf(err, "invalid recipient %q", to)
	}

	m.logger.InfoContext(ctx, "Sending email",
		slog.String("from", m.from),
		slog.String("to", addr.Address),
		slog.String("subject", subject),
		slog.String("body", body),
	)

	return nil
}
