package waitlist

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/yummyhouse/waitlist-api/internal/log"
	"github.com/yummyhouse/waitlist-api/internal/models"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

func strPtr(s string) *string {
	return &s
}

func TestWaitlistService_Signup(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	t.Run("successful signup", func(t *testing.T) {
		req := &SignupRequest{
			Email: "test@example.com",
			Survey: &SurveyAnswers{
				HowHeard: strPtr("social_media"),
				UserType: strPtr("food lover"),
			},
		}

		stored := &models.WaitlistEntry{
			Model:    gorm.Model{ID: 7},
			Email:    "test@example.com",
			HowHeard: strPtr("social_media"),
			UserType: strPtr("food lover"),
		}

		mockRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(stored, false, nil)

		result, err := service.Signup(context.Background(), req)

		assert.NoError(t, err)
		assert.NotNil(t, result)
		assert.Equal(t, uint(7), result.ID)
		assert.False(t, result.Updated)
	})

	t.Run("repeat signup reports update", func(t *testing.T) {
		req := &SignupRequest{Email: "test@example.com"}

		stored := &models.WaitlistEntry{
			Model: gorm.Model{ID: 7},
			Email: "test@example.com",
		}

		mockRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(stored, true, nil)

		result, err := service.Signup(context.Background(), req)

		assert.NoError(t, err)
		assert.True(t, result.Updated)
	})

	t.Run("nil request", func(t *testing.T) {
		result, err := service.Signup(context.Background(), nil)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})

	t.Run("malformed email", func(t *testing.T) {
		req := &SignupRequest{Email: "not-an-email"}

		result, err := service.Signup(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, result)
		assert.Equal(t, apperrors.ErrorTypeInvalidRequest, apperrors.GetErrorType(err))
	})

	t.Run("repository error", func(t *testing.T) {
		req := &SignupRequest{Email: "test@example.com"}

		mockRepo.EXPECT().
			Upsert(gomock.Any(), gomock.Any()).
			Return(nil, false, apperrors.NewDatabaseError("database error", nil))

		result, err := service.Signup(context.Background(), req)

		assert.Error(t, err)
		assert.Nil(t, result)
	})
}

func TestWaitlistService_Stats(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	t.Run("aggregates all breakdowns", func(t *testing.T) {
		mockRepo.EXPECT().Count(gomock.Any()).Return(int64(42), nil)
		mockRepo.EXPECT().
			GroupCounts(gomock.Any(), ColumnHowHeard).
			Return([]GroupCount{{Value: "social_media", Count: 30}, {Value: "friend", Count: 12}}, nil)
		mockRepo.EXPECT().
			GroupCounts(gomock.Any(), ColumnUserType).
			Return([]GroupCount{{Value: "food lover", Count: 40}}, nil)
		mockRepo.EXPECT().
			GroupCounts(gomock.Any(), ColumnOrderingFrequency).
			Return([]GroupCount{}, nil)

		stats, err := service.Stats(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, int64(42), stats.Total)
		assert.Len(t, stats.Sources, 2)
		assert.Equal(t, "social_media", stats.Sources[0].Value)
		assert.Len(t, stats.UserTypes, 1)
		assert.Empty(t, stats.OrderingFrequency)
	})

	t.Run("count error", func(t *testing.T) {
		mockRepo.EXPECT().
			Count(gomock.Any()).
			Return(int64(0), apperrors.NewDatabaseError("database error", nil))

		stats, err := service.Stats(context.Background())

		assert.Error(t, err)
		assert.Nil(t, stats)
	})
}

func TestWaitlistService_ListEntries(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	t.Run("defaults applied for out-of-range paging", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), DefaultListLimit, 0).
			Return([]*models.WaitlistEntry{}, nil)

		entries, err := service.ListEntries(context.Background(), 0, -5)

		assert.NoError(t, err)
		assert.Empty(t, entries)
	})

	t.Run("limit capped", func(t *testing.T) {
		mockRepo.EXPECT().
			ListEntries(gomock.Any(), MaxListLimit, 10).
			Return([]*models.WaitlistEntry{}, nil)

		_, err := service.ListEntries(context.Background(), 9999, 10)

		assert.NoError(t, err)
	})

	t.Run("entries mapped to responses", func(t *testing.T) {
		entry := &models.WaitlistEntry{
			Model:           gorm.Model{ID: 3},
			Email:           "a@example.com",
			DesiredFeatures: models.FeatureList{"Online ordering"},
		}

		mockRepo.EXPECT().
			ListEntries(gomock.Any(), 50, 0).
			Return([]*models.WaitlistEntry{entry}, nil)

		entries, err := service.ListEntries(context.Background(), 50, 0)

		assert.NoError(t, err)
		assert.Len(t, entries, 1)
		assert.Equal(t, "a@example.com", entries[0].Email)
		assert.Equal(t, []string{"Online ordering"}, entries[0].DesiredFeatures)
	})
}

func TestWaitlistService_ExportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	t.Run("empty waitlist yields header only", func(t *testing.T) {
		mockRepo.EXPECT().
			AllEntries(gomock.Any()).
			Return([]*models.WaitlistEntry{}, nil)

		csv, err := service.ExportCSV(context.Background())

		assert.NoError(t, err)
		assert.Equal(t, CSVHeader+"\n", csv)
	})

	t.Run("fields quoted and features joined", func(t *testing.T) {
		createdAt := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
		entry := &models.WaitlistEntry{
			Model:             gorm.Model{ID: 1, CreatedAt: createdAt},
			Email:             "a@example.com",
			HowHeard:          strPtr(`heard via "friends"`),
			UserType:          strPtr("restaurant owner"),
			DesiredFeatures:   models.FeatureList{"Online ordering", "Real-time tracking"},
			OrderingFrequency: strPtr("weekly"),
		}

		mockRepo.EXPECT().
			AllEntries(gomock.Any()).
			Return([]*models.WaitlistEntry{entry}, nil)

		csv, err := service.ExportCSV(context.Background())

		assert.NoError(t, err)

		lines := strings.Split(strings.TrimRight(csv, "\n"), "\n")
		assert.Len(t, lines, 2)
		assert.Equal(t, CSVHeader, lines[0])
		assert.Equal(t,
			`"a@example.com","heard via ""friends""","restaurant owner","Online ordering; Real-time tracking","weekly","","2025-03-14 09:26:53"`,
			lines[1])
	})

	t.Run("repository error", func(t *testing.T) {
		mockRepo.EXPECT().
			AllEntries(gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		csv, err := service.ExportCSV(context.Background())

		assert.Error(t, err)
		assert.Empty(t, csv)
	})
}

func TestWaitlistService_EmailsMatching(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockRepo := NewMockWaitlistRepository(ctrl)
	logger := log.NewLoggerWithJSONOutput()
	service := NewWaitlistService(logger, mockRepo)

	filter := &RecipientFilter{UserType: "restaurant owner"}

	mockRepo.EXPECT().
		EmailsMatching(gomock.Any(), filter).
		Return([]Recipient{{Email: "a@example.com", UserType: strPtr("restaurant owner")}}, nil)

	recipients, err := service.EmailsMatching(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, recipients, 1)
	assert.Equal(t, "a@example.com", recipients[0].Email)
}

func TestStringList_UnmarshalJSON(t *testing.T) {
	t.Run("array input", func(t *testing.T) {
		var req SignupRequest
		err := json.Unmarshal([]byte(`{"email":"a@example.com","survey":{"3":["Online ordering","Delivery"]}}`), &req)

		assert.NoError(t, err)
		assert.Equal(t, StringList{"Online ordering", "Delivery"}, req.Survey.DesiredFeatures)
	})

	t.Run("single string input", func(t *testing.T) {
		var req SignupRequest
		err := json.Unmarshal([]byte(`{"email":"a@example.com","survey":{"3":"Online ordering"}}`), &req)

		assert.NoError(t, err)
		assert.Equal(t, StringList{"Online ordering"}, req.Survey.DesiredFeatures)
	})
}
