package mailer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/yummyhouse/waitlist-api/domain/waitlist"
	"github.com/yummyhouse/waitlist-api/internal/log"
	"github.com/yummyhouse/waitlist-api/internal/models"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"github.com/yummyhouse/waitlist-api/pkg/smtp"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

var testSettings = Settings{
	AppName:        "YummyHouse",
	AppURL:         "https://yummyhouse.com",
	SupportEmail:   "support@yummyhouse.com",
	UnsubscribeURL: "https://yummyhouse.com/unsubscribe",
	BulkSendDelay:  0,
}

// stubTransport records delivered messages and fails for designated
// recipients.
type stubTransport struct {
	sent     []*smtp.Message
	failFor  map[string]error
	probeErr error
}

func (s *stubTransport) Send(ctx context.Context, msg *smtp.Message) error {
	if err, found := s.failFor[msg.To]; found {
		return err
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *stubTransport) Probe(ctx context.Context) error {
	return s.probeErr
}

func strPtr(s string) *string {
	return &s
}

func TestEmailService_SendWelcome(t *testing.T) {
	t.Run("successful delivery is logged as sent", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		transport := &stubTransport{}
		mockLogs := NewMockEmailLogRepository(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		var logged *models.EmailLog
		mockLogs.EXPECT().
			Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.EmailLog) error {
				logged = entry
				return nil
			})

		service := NewEmailService(logger, transport, mockLogs, nil, testSettings)

		err := service.SendWelcome(context.Background(), "new@example.com", strPtr("restaurant owner"), []string{"Online ordering"})

		assert.NoError(t, err)
		assert.Len(t, transport.sent, 1)
		assert.Equal(t, "new@example.com", transport.sent[0].To)
		assert.Equal(t, "Welcome to YummyHouse Waitlist! 🎉", transport.sent[0].Subject)
		assert.Contains(t, transport.sent[0].HTMLBody, "Hello Restaurant owner!")
		assert.Contains(t, transport.sent[0].HTMLBody, "<li>Online ordering</li>")

		assert.NotNil(t, logged)
		assert.Equal(t, models.EmailStatusSent, logged.Status)
		assert.Equal(t, models.EmailTemplateWelcome, *logged.TemplateName)
		assert.Nil(t, logged.ErrorMessage)
	})

	t.Run("failed delivery is logged as failed", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		transport := &stubTransport{
			failFor: map[string]error{"new@example.com": errors.New("relay refused")},
		}
		mockLogs := NewMockEmailLogRepository(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		var logged *models.EmailLog
		mockLogs.EXPECT().
			Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.EmailLog) error {
				logged = entry
				return nil
			})

		service := NewEmailService(logger, transport, mockLogs, nil, testSettings)

		err := service.SendWelcome(context.Background(), "new@example.com", nil, nil)

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeDeliveryError, apperrors.GetErrorType(err))

		assert.NotNil(t, logged)
		assert.Equal(t, models.EmailStatusFailed, logged.Status)
		assert.NotNil(t, logged.ErrorMessage)
		assert.Contains(t, *logged.ErrorMessage, "relay refused")
	})

	t.Run("log failure does not mask a successful send", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		transport := &stubTransport{}
		mockLogs := NewMockEmailLogRepository(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		mockLogs.EXPECT().
			Append(gomock.Any(), gomock.Any()).
			Return(apperrors.NewDatabaseError("database error", nil))

		service := NewEmailService(logger, transport, mockLogs, nil, testSettings)

		err := service.SendWelcome(context.Background(), "new@example.com", nil, nil)

		assert.NoError(t, err)
		assert.Len(t, transport.sent, 1)
	})
}

func TestEmailService_Probe(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	logger := log.NewLoggerWithJSONOutput()
	mockLogs := NewMockEmailLogRepository(ctrl)

	t.Run("healthy relay", func(t *testing.T) {
		service := NewEmailService(logger, &stubTransport{}, mockLogs, nil, testSettings)

		assert.NoError(t, service.Probe(context.Background()))
	})

	t.Run("unreachable relay", func(t *testing.T) {
		transport := &stubTransport{probeErr: errors.New("connection refused")}
		service := NewEmailService(logger, transport, mockLogs, nil, testSettings)

		err := service.Probe(context.Background())

		assert.Error(t, err)
		assert.Equal(t, apperrors.ErrorTypeDeliveryError, apperrors.GetErrorType(err))
	})
}

func TestEmailService_SendBulk(t *testing.T) {
	t.Run("per-recipient failures do not abort the run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		transport := &stubTransport{
			failFor: map[string]error{"b@example.com": errors.New("mailbox full")},
		}
		mockLogs := NewMockEmailLogRepository(ctrl)
		mockSource := NewMockRecipientSource(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		mockSource.EXPECT().
			EmailsMatching(gomock.Any(), gomock.Nil()).
			Return([]waitlist.Recipient{
				{Email: "a@example.com", UserType: strPtr("restaurant owner")},
				{Email: "b@example.com"},
				{Email: "c@example.com"},
			}, nil)

		var logged []*models.EmailLog
		mockLogs.EXPECT().
			Append(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, entry *models.EmailLog) error {
				logged = append(logged, entry)
				return nil
			}).
			Times(3)

		service := NewEmailService(logger, transport, mockLogs, mockSource, testSettings)

		result, err := service.SendBulk(context.Background(), "Launch update", "Hello [USER_TYPE], we are live!", nil)

		assert.NoError(t, err)
		assert.Equal(t, 3, result.Total)
		assert.Equal(t, 2, result.Sent)
		assert.Equal(t, 1, result.Failed)
		assert.Len(t, result.Errors, 1)
		assert.Equal(t, "b@example.com", result.Errors[0].Email)

		// Every attempt gets a log row, failed ones included.
		assert.Len(t, logged, 3)
		statuses := map[string]string{}
		for _, entry := range logged {
			statuses[entry.RecipientEmail] = entry.Status
			assert.Equal(t, models.EmailTemplateBulk, *entry.TemplateName)
		}
		assert.Equal(t, models.EmailStatusSent, statuses["a@example.com"])
		assert.Equal(t, models.EmailStatusFailed, statuses["b@example.com"])
		assert.Equal(t, models.EmailStatusSent, statuses["c@example.com"])
	})

	t.Run("placeholder personalized per recipient", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		transport := &stubTransport{}
		mockLogs := NewMockEmailLogRepository(ctrl)
		mockSource := NewMockRecipientSource(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		mockSource.EXPECT().
			EmailsMatching(gomock.Any(), gomock.Any()).
			Return([]waitlist.Recipient{
				{Email: "a@example.com", UserType: strPtr("restaurant owner")},
				{Email: "b@example.com"},
			}, nil)

		mockLogs.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil).Times(2)

		service := NewEmailService(logger, transport, mockLogs, mockSource, testSettings)

		result, err := service.SendBulk(context.Background(), "Update", "Hi [USER_TYPE]!", nil)

		assert.NoError(t, err)
		assert.Equal(t, 2, result.Sent)
		assert.Contains(t, transport.sent[0].HTMLBody, "Hi restaurant owner!")
		assert.Contains(t, transport.sent[1].HTMLBody, "Hi valued subscriber!")
	})

	t.Run("audience resolution failure aborts", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockLogs := NewMockEmailLogRepository(ctrl)
		mockSource := NewMockRecipientSource(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		mockSource.EXPECT().
			EmailsMatching(gomock.Any(), gomock.Any()).
			Return(nil, apperrors.NewDatabaseError("database error", nil))

		service := NewEmailService(logger, &stubTransport{}, mockLogs, mockSource, testSettings)

		result, err := service.SendBulk(context.Background(), "Update", "Hi!", nil)

		assert.Error(t, err)
		assert.Nil(t, result)
	})

	t.Run("empty audience completes with zero sends", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		defer ctrl.Finish()

		mockLogs := NewMockEmailLogRepository(ctrl)
		mockSource := NewMockRecipientSource(ctrl)
		logger := log.NewLoggerWithJSONOutput()

		mockSource.EXPECT().
			EmailsMatching(gomock.Any(), gomock.Any()).
			Return([]waitlist.Recipient{}, nil)

		service := NewEmailService(logger, &stubTransport{}, mockLogs, mockSource, testSettings)

		result, err := service.SendBulk(context.Background(), "Update", "Hi!", nil)

		assert.NoError(t, err)
		assert.Equal(t, 0, result.Total)
		assert.Equal(t, 0, result.Sent)
		assert.Empty(t, result.Errors)
	})
}

func TestRenderWelcome(t *testing.T) {
	t.Run("defaults to food lover persona", func(t *testing.T) {
		body, err := renderWelcome(&testSettings, nil, nil)

		assert.NoError(t, err)
		assert.Contains(t, body, "Hello Food lover!")
		assert.NotContains(t, body, "Features you're excited about")
		assert.Contains(t, body, testSettings.AppURL)
		assert.Contains(t, body, testSettings.UnsubscribeURL)
	})

	t.Run("feature box rendered when features present", func(t *testing.T) {
		body, err := renderWelcome(&testSettings, strPtr("restaurant owner"), []string{"Online ordering", "Real-time tracking"})

		assert.NoError(t, err)
		assert.Contains(t, body, "Hello Restaurant owner!")
		assert.Contains(t, body, "Features you're excited about")
		assert.Contains(t, body, "<li>Online ordering</li><li>Real-time tracking</li>")
	})
}

func TestRenderBulk(t *testing.T) {
	t.Run("message HTML passes through unescaped", func(t *testing.T) {
		body, err := renderBulk(&testSettings, "<p>Big news, [USER_TYPE]!</p>", nil)

		assert.NoError(t, err)
		assert.Contains(t, body, "<p>Big news, valued subscriber!</p>")
		assert.Contains(t, body, "Update from the team")
	})

	t.Run("multiple placeholders replaced", func(t *testing.T) {
		body, err := renderBulk(&testSettings, "[USER_TYPE], hello [USER_TYPE]", strPtr("food lover"))

		assert.NoError(t, err)
		assert.Equal(t, 2, strings.Count(body, "food lover"))
	})
}

func TestUcfirst(t *testing.T) {
	assert.Equal(t, "Food lover", ucfirst("food lover"))
	assert.Equal(t, "Restaurant owner", ucfirst("restaurant owner"))
	assert.Equal(t, "", ucfirst(""))
}
