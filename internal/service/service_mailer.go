package service

import (
	"context"
	"fmt"
	"time"

	"github.com/ggowrisankar/weight-tracker/internal/config"
	"github.com/ggowrisankar/weight-tracker/internal/logger"
	"github.com/ggowrisankar/weight-tracker/internal/utils"
	"github.com/ggowrisankar/weight-tracker/models"
)

const mailTimeout = 15 * time.Second

// sendMailRequest is the Resend-compatible JSON body.
type sendMailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type httpMailer struct {
	client *utils.HTTPClient
	from   string
}

// NewMailer returns an HTTP API mailer, or a mailer that only logs messages
// when cfg.APIKey is empty.
func NewMailer(cfg config.Mail, logger *logger.Logger) Mailer {
	if cfg.APIKey == "" {
		logger.Warn().Msg("mail API key is not set, e-mails will only be logged")
		return &logMailer{logger: logger}
	}

	client := utils.NewHTTPClient(cfg.APIURL, mailTimeout)
	client.SetAuthToken(cfg.APIKey)

	return &httpMailer{client: client, from: cfg.From}
}

func (m *httpMailer) Send(ctx context.Context, mail models.Mail) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetBody(sendMailRequest{
			From:    m.from,
			To:      []string{mail.To},
			Subject: mail.Subject,
			HTML:    mail.HTML,
		}).
		Post("")
	if err != nil {
		logger.FromContext(ctx).Err(err).Str("func", "httpMailer.Send").Str("to", mail.To).Msg("mail API request failed")
		return fmt.Errorf("%w: %w", ErrMailNotSent, err)
	}
	if resp.IsError() {
		logger.FromContext(ctx).Error().Str("func", "httpMailer.Send").Str("to", mail.To).
			Int("status", resp.StatusCode()).Str("body", resp.String()).Msg("mail API rejected message")
		return fmt.Errorf("%w: mail API answered %d", ErrMailNotSent, resp.StatusCode())
	}

	logger.FromContext(ctx).Info().Str("to", mail.To).Str("subject", mail.Subject).Msg("email sent")
	return nil
}

type logMailer struct {
	logger *logger.Logger
}

func (m *logMailer) Send(ctx context.Context, mail models.Mail) error {
	m.logger.Info().Str("to", mail.To).Str("subject", mail.Subject).Str("html", mail.HTML).Msg("email not sent, logged instead")
	return nil
}
