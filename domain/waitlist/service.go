package waitlist

import (
	"context"
	"net/mail"
	"strings"

	"github.com/yummyhouse/waitlist-api/internal/log"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
)

// Listing bounds. The admin UI pages in hundreds; the cap keeps a stray
// query from scanning the whole table.
const (
	DefaultListLimit = 100
	MaxListLimit     = 500
)

// CSVHeader is the fixed export header. Column order is part of the
// contract with the spreadsheet tooling downstream.
const CSVHeader = "Email,How Heard,User Type,Desired Features,Ordering Frequency,Other Feedback,Created At"

const csvTimeFormat = "2006-01-02 15:04:05"

type WaitlistService interface {
	// Signup validates and upserts a waitlist entry keyed by email.
	// A repeat signup overwrites the stored survey answers (last write
	// wins) and never creates a second row.
	Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error)

	// Stats returns the total entry count plus per-answer breakdowns,
	// computed fresh on every call.
	Stats(ctx context.Context) (*StatsResponse, error)

	// ListEntries returns a page of entries, newest first.
	ListEntries(ctx context.Context, limit, offset int) ([]WaitlistEntryResponse, error)

	// ExportCSV renders the full waitlist as CSV text, newest first. An
	// empty waitlist yields just the header line.
	ExportCSV(ctx context.Context) (string, error)

	// EmailsMatching resolves the recipient set for a bulk send.
	EmailsMatching(ctx context.Context, filter *RecipientFilter) ([]Recipient, error)
}

type waitlistService struct {
	logger     *log.Logger
	repository WaitlistRepository
}

func NewWaitlistService(logger *log.Logger, repository WaitlistRepository) WaitlistService {
	return &waitlistService{logger: logger, repository: repository}
}

func (s *waitlistService) Signup(ctx context.Context, req *SignupRequest) (*SignupResult, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if req == nil {
		logger.Error("Signup received empty request")
		return nil, apperrors.NewInvalidRequestError("request cannot be nil", nil)
	}

	// Binding already validates the email for HTTP callers; re-check here
	// so nothing reaches storage with a malformed address.
	if _, err := mail.ParseAddress(req.Email); err != nil {
		logger.Error("Signup received invalid email", "error", err)
		return nil, apperrors.NewInvalidRequestError("valid email address is required", err)
	}

	entry, updated, err := s.repository.Upsert(ctx, ToWaitlistEntryModel(req))
	if err != nil {
		logger.Error("Failed to upsert waitlist entry", "error", err)
		return nil, err
	}

	if updated {
		logger.Info("Waitlist entry updated", "id", entry.ID)
	} else {
		logger.Info("Waitlist entry created", "id", entry.ID)
	}

	return &SignupResult{ID: entry.ID, Updated: updated}, nil
}

func (s *waitlistService) Stats(ctx context.Context) (*StatsResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	total, err := s.repository.Count(ctx)
	if err != nil {
		logger.Error("Failed to count waitlist entries", "error", err)
		return nil, err
	}

	stats := &StatsResponse{Total: total}

	breakdowns := []struct {
		column string
		target *[]GroupCount
	}{
		{ColumnHowHeard, &stats.Sources},
		{ColumnUserType, &stats.UserTypes},
		{ColumnOrderingFrequency, &stats.OrderingFrequency},
	}

	for _, b := range breakdowns {
		counts, err := s.repository.GroupCounts(ctx, b.column)
		if err != nil {
			logger.Error("Failed to aggregate waitlist entries", "column", b.column, "error", err)
			return nil, err
		}
		*b.target = counts
	}

	return stats, nil
}

func (s *waitlistService) ListEntries(ctx context.Context, limit, offset int) ([]WaitlistEntryResponse, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.repository.ListEntries(ctx, limit, offset)
	if err != nil {
		logger.Error("Failed to list waitlist entries", "error", err)
		return nil, err
	}

	responses := make([]WaitlistEntryResponse, 0, len(entries))
	for _, entry := range entries {
		responses = append(responses, ToWaitlistEntryResponse(entry))
	}

	return responses, nil
}

func (s *waitlistService) ExportCSV(ctx context.Context) (string, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	entries, err := s.repository.AllEntries(ctx)
	if err != nil {
		logger.Error("Failed to export waitlist entries", "error", err)
		return "", err
	}

	var sb strings.Builder
	sb.WriteString(CSVHeader)
	sb.WriteByte('\n')

	for _, entry := range entries {
		fields := []string{
			entry.Email,
			derefOrEmpty(entry.HowHeard),
			derefOrEmpty(entry.UserType),
			strings.Join(entry.DesiredFeatures, "; "),
			derefOrEmpty(entry.OrderingFrequency),
			derefOrEmpty(entry.OtherFeedback),
			entry.CreatedAt.Format(csvTimeFormat),
		}

		for i, field := range fields {
			if i > 0 {
				sb.WriteByte(',')
			}
			sb.WriteString(csvQuote(field))
		}
		sb.WriteByte('\n')
	}

	return sb.String(), nil
}

func (s *waitlistService) EmailsMatching(ctx context.Context, filter *RecipientFilter) ([]Recipient, error) {
	logger := log.GetLoggerInstanceFromContext(ctx, s.logger)

	recipients, err := s.repository.EmailsMatching(ctx, filter)
	if err != nil {
		logger.Error("Failed to resolve bulk recipients", "error", err)
		return nil, err
	}

	return recipients, nil
}

// csvQuote wraps a field in double quotes, doubling any embedded quote.
func csvQuote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

func derefOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
