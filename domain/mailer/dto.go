package mailer

import (
	"github.com/yummyhouse/waitlist-api/domain/waitlist"
)

// Actions accepted by the email-test endpoint.
const (
	ActionTestWelcome    = "test_welcome"
	ActionTestConnection = "test_connection"
	ActionSendBulk       = "send_bulk"
)

type EmailTestRequest struct {
	Action          string                    `json:"action" binding:"required"`
	Email           string                    `json:"email" binding:"omitempty,email,max=255"`
	UserType        *string                   `json:"user_type" binding:"omitempty,max=50"`
	DesiredFeatures []string                  `json:"desired_features"`
	Subject         string                    `json:"subject" binding:"omitempty,max=500"`
	Message         string                    `json:"message"`
	Filters         *waitlist.RecipientFilter `json:"filters"`
}

// RecipientError records one failed delivery inside a bulk run.
type RecipientError struct {
	Email string `json:"email"`
	Error string `json:"error"`
}

// BulkResult summarizes a bulk run. A run where every delivery failed is
// still a completed run; per-recipient failures land in Errors rather than
// aborting the loop.
type BulkResult struct {
	Total  int              `json:"total_recipients"`
	Sent   int              `json:"sent"`
	Failed int              `json:"failed"`
	Errors []RecipientError `json:"errors"`
}
