package models

import "time"

// Email delivery statuses. A log row is written once per delivery attempt
// and never mutated afterwards.
const (
	EmailStatusPending = "pending"
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
)

// Built-in template names. TemplateName is nullable so callers can log
// ad-hoc sends without inventing a template.
const (
	EmailTemplateWelcome = "welcome"
	EmailTemplateBulk    = "bulk"
)

type EmailLog struct {
	ID             uint      `gorm:"primaryKey"`
	RecipientEmail string    `gorm:"size:255;not null;index"`
	Subject        string    `gorm:"size:500;not null"`
	TemplateName   *string   `gorm:"size:100"`
	Status         string    `gorm:"size:20;not null;default:pending;index"`
	ErrorMessage   *string   `gorm:"type:text"`
	SentAt         time.Time `gorm:"not null;autoCreateTime;index"`
}
