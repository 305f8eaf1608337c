// Package email provides the email client for sending transactional emails.
package email

import (
	"fmt"

	"github.com/resendlabs/resend-go"
	"github.com/sitepulse/sitepulse-go/internal/infrastructure/observability/logging"
	"github.com/sitepulse/sitepulse-go/pkg/config"
)

// Message is one composed notification ready for delivery.
type Message struct {
	To      string
	Subject string
	Text    string
	HTML    string
	BCC     string
}

// Service defines the interface for sending emails, allowing for mock implementations in tests.
type Service interface {
	Send(msg Message) error
}

// ResendClient is the concrete implementation of the email Service using the Resend API.
type ResendClient struct {
	client    *resend.Client
	fromEmail string
	fromName  string
	logger    *logging.ChanneledLogger
}

// NewService creates a new email service client, returning the Service
// interface. When no API key is configured it degrades to a no-op sink that
// logs skipped sends instead of failing requests.
func NewService(logger *logging.ChanneledLogger) Service {
	if config.ResendAPIKey == "" {
		logger.Email().Warn("RESEND_API_KEY not configured - notifications will be skipped")
		return &NoopService{logger: logger}
	}

	return &ResendClient{
		client:    resend.NewClient(config.ResendAPIKey),
		fromEmail: config.EmailFrom,
		fromName:  config.EmailFromName,
		logger:    logger,
	}
}

// Send delivers a composed message via Resend.
func (c *ResendClient) Send(msg Message) error {
	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
		Text:    msg.Text,
	}
	if msg.BCC != "" {
		params.Bcc = []string{msg.BCC}
	}

	sent, err := c.client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %w", err)
	}

	c.logger.Email().Info("Notification sent", "to", msg.To, "subject", msg.Subject, "messageId", sent.Id)
	return nil
}

// NoopService satisfies Service when the sink is unconfigured.
type NoopService struct {
	logger *logging.ChanneledLogger
}

// Send logs the skip and succeeds.
func (n *NoopService) Send(msg Message) error {
	n.logger.Email().Info("Notification skipped - email sink not configured", "to", msg.To, "subject", msg.Subject)
	return nil
}
