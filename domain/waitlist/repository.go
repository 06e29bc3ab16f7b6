package waitlist

import (
	"context"
	"errors"

	"github.com/yummyhouse/waitlist-api/internal/models"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

// Columns the stats and bulk-filter paths are allowed to touch. Anything
// else never reaches SQL.
const (
	ColumnHowHeard          = "how_heard"
	ColumnUserType          = "user_type"
	ColumnOrderingFrequency = "ordering_frequency"
)

type WaitlistRepository interface {
	// Upsert inserts a new entry or, when the email already exists,
	// overwrites the existing row's survey fields. The bool reports whether
	// an existing row was updated.
	Upsert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, bool, error)
	// Count returns the total number of waitlist entries.
	Count(ctx context.Context) (int64, error)
	// GroupCounts returns per-value counts for one of the allowed survey
	// columns, excluding NULL values.
	GroupCounts(ctx context.Context, column string) ([]GroupCount, error)
	// ListEntries returns entries newest-first by creation time.
	ListEntries(ctx context.Context, limit, offset int) ([]*models.WaitlistEntry, error)
	// AllEntries returns every entry newest-first, for export.
	AllEntries(ctx context.Context) ([]*models.WaitlistEntry, error)
	// EmailsMatching returns recipients whose survey answers match every
	// non-empty filter field.
	EmailsMatching(ctx context.Context, filter *RecipientFilter) ([]Recipient, error)
}

type waitlistRepository struct {
	db *gorm.DB
}

func NewWaitlistRepository(db *gorm.DB) WaitlistRepository {
	return &waitlistRepository{db: db}
}

func (wr *waitlistRepository) Upsert(ctx context.Context, entry *models.WaitlistEntry) (*models.WaitlistEntry, bool, error) {
	err := wr.db.WithContext(ctx).Create(entry).Error
	if err == nil {
		return entry, false, nil
	}

	if !isDuplicateKey(err) {
		return nil, false, apperrors.NewDatabaseError("unable to create waitlist entry", err)
	}

	// The unique index on email is the race-breaker: a duplicate key means
	// the entry exists, so overwrite its survey fields in place. The insert
	// attempt's CreatedAt is discarded; the stored row keeps the original.
	updates := map[string]interface{}{
		"how_heard":          entry.HowHeard,
		"user_type":          entry.UserType,
		"desired_features":   entry.DesiredFeatures,
		"ordering_frequency": entry.OrderingFrequency,
		"other_feedback":     entry.OtherFeedback,
	}

	result := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Where("email = ?", entry.Email).
		Updates(updates)
	if result.Error != nil {
		return nil, false, apperrors.NewDatabaseError("unable to update waitlist entry", result.Error)
	}

	var existing models.WaitlistEntry
	if err := wr.db.WithContext(ctx).Where("email = ?", entry.Email).First(&existing).Error; err != nil {
		return nil, false, apperrors.NewDatabaseError("unable to reload waitlist entry", err)
	}

	return &existing, true, nil
}

func (wr *waitlistRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	if err := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{}).Count(&total).Error; err != nil {
		return 0, apperrors.NewDatabaseError("unable to count waitlist entries", err)
	}
	return total, nil
}

func (wr *waitlistRepository) GroupCounts(ctx context.Context, column string) ([]GroupCount, error) {
	switch column {
	case ColumnHowHeard, ColumnUserType, ColumnOrderingFrequency:
	default:
		return nil, apperrors.NewInvalidRequestError("unsupported breakdown column", nil)
	}

	counts := []GroupCount{}

	err := wr.db.WithContext(ctx).
		Model(&models.WaitlistEntry{}).
		Select(column+" AS value, COUNT(*) AS count").
		Where(column+" IS NOT NULL").
		Group(column).
		Order("count DESC").
		Scan(&counts).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to aggregate waitlist entries", err)
	}

	return counts, nil
}

func (wr *waitlistRepository) ListEntries(ctx context.Context, limit, offset int) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	err := wr.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, nil
}

func (wr *waitlistRepository) AllEntries(ctx context.Context) ([]*models.WaitlistEntry, error) {
	var entries []*models.WaitlistEntry

	err := wr.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch waitlist entries", err)
	}

	return entries, nil
}

func (wr *waitlistRepository) EmailsMatching(ctx context.Context, filter *RecipientFilter) ([]Recipient, error) {
	query := wr.db.WithContext(ctx).Model(&models.WaitlistEntry{})

	if filter != nil {
		if filter.HowHeard != "" {
			query = query.Where(ColumnHowHeard+" = ?", filter.HowHeard)
		}
		if filter.UserType != "" {
			query = query.Where(ColumnUserType+" = ?", filter.UserType)
		}
		if filter.OrderingFrequency != "" {
			query = query.Where(ColumnOrderingFrequency+" = ?", filter.OrderingFrequency)
		}
	}

	recipients := []Recipient{}

	err := query.
		Select("email, user_type").
		Order("created_at DESC").
		Scan(&recipients).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to resolve bulk recipients", err)
	}

	return recipients, nil
}

func isDuplicateKey(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey) || apperrors.IsDuplicateKeyError(err)
}
