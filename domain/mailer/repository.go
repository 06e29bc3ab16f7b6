package mailer

import (
	"context"

	"github.com/yummyhouse/waitlist-api/internal/models"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"gorm.io/gorm"
)

// EmailLogRepository is the append-only audit trail of delivery attempts.
// Rows are written once and never updated.
type EmailLogRepository interface {
	Append(ctx context.Context, entry *models.EmailLog) error
	RecentLogs(ctx context.Context, limit int) ([]*models.EmailLog, error)
	CountByStatus(ctx context.Context, status string) (int64, error)
}

type emailLogRepository struct {
	db *gorm.DB
}

func NewEmailLogRepository(db *gorm.DB) EmailLogRepository {
	return &emailLogRepository{db: db}
}

func (r *emailLogRepository) Append(ctx context.Context, entry *models.EmailLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return apperrors.NewDatabaseError("unable to record email delivery attempt", err)
	}
	return nil
}

func (r *emailLogRepository) RecentLogs(ctx context.Context, limit int) ([]*models.EmailLog, error) {
	var entries []*models.EmailLog

	err := r.db.WithContext(ctx).
		Order("sent_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, apperrors.NewDatabaseError("unable to fetch email logs", err)
	}

	return entries, nil
}

func (r *emailLogRepository) CountByStatus(ctx context.Context, status string) (int64, error) {
	var total int64

	err := r.db.WithContext(ctx).
		Model(&models.EmailLog{}).
		Where("status = ?", status).
		Count(&total).Error
	if err != nil {
		return 0, apperrors.NewDatabaseError("unable to count email logs", err)
	}

	return total, nil
}
