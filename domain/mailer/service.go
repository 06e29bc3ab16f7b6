package mailer

import (
	"context"
	"time"

	"github.com/yummyhouse/waitlist-api/domain/waitlist"
	"github.com/yummyhouse/waitlist-api/internal/log"
	"github.com/yummyhouse/waitlist-api/internal/models"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"github.com/yummyhouse/waitlist-api/pkg/smtp"
)

// Settings carries the branding values interpolated into templates plus the
// pacing of bulk fan-outs.
type Settings struct {
	AppName        string
	AppURL         string
	SupportEmail   string
	UnsubscribeURL string

	// Pause between consecutive sends in a bulk run, so a large audience
	// does not hammer the relay.
	BulkSendDelay time.Duration
}

// RecipientSource resolves the audience of a bulk send.
type RecipientSource interface {
	EmailsMatching(ctx context.Context, filter *waitlist.RecipientFilter) ([]waitlist.Recipient, error)
}

type EmailService interface {
	// SendWelcome delivers the onboarding email for a fresh signup. The
	// survey answers personalize the greeting and the feature highlights.
	SendWelcome(ctx context.Context, email string, userType *string, features []string) error

	// Probe verifies the relay is reachable without sending anything.
	Probe(ctx context.Context) error

	// SendBulk delivers one personalized message per matching recipient,
	// sequentially. Individual failures are collected, not fatal.
	SendBulk(ctx context.Context, subject, message string, filter *waitlist.RecipientFilter) (*BulkResult, error)
}

type emailService struct {
	logger     *log.Logger
	transport  smtp.Transport
	logs       EmailLogRepository
	recipients RecipientSource
	settings   Settings
}

func NewEmailService(
	logger *log.Logger,
	transport smtp.Transport,
	logs EmailLogRepository,
	recipients RecipientSource,
	settings Settings,
) EmailService {

	return &emailService{
		logger:     logger,
		transport:  transport,
		logs:       logs,
		recipients: recipients,
		settings:   settings,
	}
}

func (s *emailService) SendWelcome(ctx context.Context, email string, userType *string, features []string) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	body, err := renderWelcome(&s.settings, userType, features)
	if err != nil {
		logger.Error("Failed to render welcome email", "error", err)
		return apperrors.NewInternalServerError("unable to render welcome email", err)
	}

	subject := WelcomeSubject(s.settings.AppName)

	if err := s.sendOne(ctx, email, subject, body, models.EmailTemplateWelcome); err != nil {
		logger.Error("Welcome email delivery failed", "email", email, "error", err)
		return err
	}

	logger.Info("Welcome email sent", "email", email)
	return nil
}

func (s *emailService) Probe(ctx context.Context) error {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if err := s.transport.Probe(ctx); err != nil {
		logger.Error("SMTP probe failed", "error", err)
		return apperrors.NewDeliveryError("SMTP connection failed", err)
	}

	return nil
}

func (s *emailService) SendBulk(ctx context.Context, subject, message string, filter *waitlist.RecipientFilter) (*BulkResult, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	audience, err := s.recipients.EmailsMatching(ctx, filter)
	if err != nil {
		logger.Error("Failed to resolve bulk audience", "error", err)
		return nil, err
	}

	result := &BulkResult{
		Total:  len(audience),
		Errors: []RecipientError{},
	}

	for i, recipient := range audience {
		body, err := renderBulk(&s.settings, message, recipient.UserType)
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecipientError{Email: recipient.Email, Error: err.Error()})
			continue
		}

		if err := s.sendOne(ctx, recipient.Email, subject, body, models.EmailTemplateBulk); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, RecipientError{Email: recipient.Email, Error: err.Error()})
		} else {
			result.Sent++
		}

		if i == len(audience)-1 {
			break
		}

		// Pace the relay between sends. A cancelled request stops the run
		// with whatever was delivered so far.
		select {
		case <-ctx.Done():
			logger.Warn("Bulk email run cancelled",
				"sent", result.Sent,
				"failed", result.Failed,
				"remaining", result.Total-result.Sent-result.Failed,
			)
			return result, ctx.Err()
		case <-time.After(s.settings.BulkSendDelay):
		}
	}

	logger.Info("Bulk email run completed",
		"total", result.Total,
		"sent", result.Sent,
		"failed", result.Failed,
	)

	return result, nil
}

// sendOne delivers a single message and records the attempt. The log row
// is written whether delivery succeeded or failed; a logging failure is
// reported but never masks the delivery outcome.
func (s *emailService) sendOne(ctx context.Context, to, subject, htmlBody, templateName string) error {
	sendErr := s.transport.Send(ctx, &smtp.Message{
		To:       to,
		Subject:  subject,
		HTMLBody: htmlBody,
	})

	entry := &models.EmailLog{
		RecipientEmail: to,
		Subject:        subject,
		TemplateName:   &templateName,
		Status:         models.EmailStatusSent,
	}
	if sendErr != nil {
		entry.Status = models.EmailStatusFailed
		msg := sendErr.Error()
		entry.ErrorMessage = &msg
	}

	if logErr := s.logs.Append(ctx, entry); logErr != nil {
		log.GetLoggerInstanceFromContext(ctx, s.logger).Error(
			"Failed to record email delivery attempt",
			"email", to,
			"error", logErr,
		)
	}

	if sendErr != nil {
		return apperrors.NewDeliveryError("unable to deliver email", sendErr)
	}

	return nil
}
