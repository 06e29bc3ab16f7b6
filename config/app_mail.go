package config

import (
	"strconv"
	"time"

	"github.com/yummyhouse/waitlist-api/internal/log"
	"github.com/yummyhouse/waitlist-api/pkg/smtp"
	"github.com/yummyhouse/waitlist-api/pkg/utils"
)

// MailConfig carries everything outbound email needs: the relay transport
// plus the branding values interpolated into templates.
type MailConfig struct {
	Transport smtp.Transport

	AppName        string
	AppURL         string
	SupportEmail   string
	UnsubscribeURL string
	FromAddress    string
	FromName       string

	// Delay between consecutive sends in a bulk fan-out.
	BulkSendDelay time.Duration
}

func NewMailConfig(logger *log.Logger) (*MailConfig, error) {
	cfg := &MailConfig{
		AppName:        utils.GetEnvTrimmedOrDefault("APP_NAME", "YummyHouse"),
		AppURL:         utils.GetEnvTrimmedOrDefault("APP_URL", "https://yummyhouse.com"),
		SupportEmail:   utils.GetEnvTrimmedOrDefault("SUPPORT_EMAIL", "support@yummyhouse.com"),
		UnsubscribeURL: utils.GetEnvTrimmedOrDefault("UNSUBSCRIBE_URL", "https://yummyhouse.com/unsubscribe"),
		FromAddress:    utils.GetEnvTrimmedOrDefault("MAIL_FROM_ADDRESS", "noreply@yummyhouse.com"),
		FromName:       utils.GetEnvTrimmedOrDefault("MAIL_FROM_NAME", "YummyHouse"),
		BulkSendDelay:  200 * time.Millisecond,
	}

	if raw := utils.GetEnvTrimmed("BULK_SEND_DELAY"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed >= 0 {
			cfg.BulkSendDelay = parsed
		} else {
			logger.Warn("Invalid BULK_SEND_DELAY, using default", "value", raw)
		}
	}

	host := utils.GetEnvTrimmedOrDefault("SMTP_HOST", "localhost")
	portStr := utils.GetEnvTrimmedOrDefault("SMTP_PORT", "1025")

	port, err := strconv.Atoi(portStr)
	if err != nil {
		logger.Error("Invalid SMTP_PORT", "value", portStr, "error", err)
		return nil, err
	}

	auth := false
	if raw := utils.GetEnvTrimmed("SMTP_AUTH"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			auth = parsed
		}
	}

	transport, err := smtp.NewClient(&smtp.Config{
		Host:        host,
		Port:        port,
		Auth:        auth,
		Username:    utils.GetEnvTrimmed("SMTP_USERNAME"),
		Password:    utils.GetEnvTrimmed("SMTP_PASSWORD"),
		Encryption:  utils.GetEnvTrimmedOrDefault("SMTP_ENCRYPTION", smtp.EncryptionNone),
		FromAddress: cfg.FromAddress,
		FromName:    cfg.FromName,
		ReplyTo:     cfg.SupportEmail,
	})
	if err != nil {
		logger.Error("Failed to configure SMTP transport", "error", err)
		return nil, err
	}

	cfg.Transport = transport

	logger.Info("SMTP transport configured",
		"host", host,
		"port", port,
		"auth", auth,
	)

	return cfg, nil
}
