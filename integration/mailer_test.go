package integration

import (
	"net/http"

	"github.com/yummyhouse/waitlist-api/internal/models"
)

func (suite *WaitlistAPITestSuite) TestEmailTestConnection() {
	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action": "test_connection",
	})

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("SMTP connection successful", response["message"])
}

func (suite *WaitlistAPITestSuite) TestEmailTestWelcomeRequiresEmail() {
	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action": "test_welcome",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("Email address is required", response["message"])
}

func (suite *WaitlistAPITestSuite) TestEmailTestWelcomeUsesDefaults() {
	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action": "test_welcome",
		"email":  "preview@example.com",
	})

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("Email sent successfully", response["message"])

	suite.Require().Len(suite.transport.sent, 1)
	body := suite.transport.sent[0].HTMLBody
	suite.Contains(body, "Hello Food lover!")
	suite.Contains(body, "<li>Online ordering</li>")
	suite.Contains(body, "<li>Real-time tracking</li>")
}

func (suite *WaitlistAPITestSuite) TestEmailTestBulkRequiresSubjectAndMessage() {
	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action":  "send_bulk",
		"subject": "Launch update",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("Subject and message are required for bulk email", response["message"])
}

func (suite *WaitlistAPITestSuite) TestEmailTestBulkSendsToFilteredAudience() {
	suite.postJSON("/v1/waitlist", map[string]any{
		"email":  "owner@example.com",
		"survey": map[string]any{"2": "restaurant owner"},
	})
	suite.postJSON("/v1/waitlist", map[string]any{
		"email":  "lover@example.com",
		"survey": map[string]any{"2": "food lover"},
	})
	suite.transport.sent = nil

	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action":  "send_bulk",
		"subject": "Launch update",
		"message": "<p>Hi [USER_TYPE], we are live!</p>",
		"filters": map[string]any{"user_type": "restaurant owner"},
	})

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("Bulk email completed. Sent: 1, Failed: 0", response["message"])

	data := response["data"].(map[string]interface{})
	suite.Equal(float64(1), data["total_recipients"])
	suite.Equal(float64(1), data["sent"])
	suite.Equal(float64(0), data["failed"])

	suite.Require().Len(suite.transport.sent, 1)
	suite.Equal("owner@example.com", suite.transport.sent[0].To)
	suite.Equal("Launch update", suite.transport.sent[0].Subject)
	suite.Contains(suite.transport.sent[0].HTMLBody, "Hi restaurant owner, we are live!")

	var bulkLogs int64
	suite.db.Model(&models.EmailLog{}).
		Where("template_name = ? AND status = ?", models.EmailTemplateBulk, models.EmailStatusSent).
		Count(&bulkLogs)
	suite.Equal(int64(1), bulkLogs)
}

func (suite *WaitlistAPITestSuite) TestEmailTestBulkRecordsFailures() {
	suite.postJSON("/v1/waitlist", map[string]any{"email": "bounce@example.com"})
	suite.postJSON("/v1/waitlist", map[string]any{"email": "fine@example.com"})
	suite.transport.sent = nil
	suite.db.Exec("DELETE FROM email_logs")

	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action":  "send_bulk",
		"subject": "Launch update",
		"message": "<p>We are live!</p>",
	})

	suite.Equal(http.StatusOK, resp.StatusCode)
	suite.Equal("Bulk email completed. Sent: 1, Failed: 1", response["message"])

	data := response["data"].(map[string]interface{})
	suite.Equal(float64(2), data["total_recipients"])

	errs := data["errors"].([]interface{})
	suite.Require().Len(errs, 1)
	failure := errs[0].(map[string]interface{})
	suite.Equal("bounce@example.com", failure["email"])

	var failedLogs int64
	suite.db.Model(&models.EmailLog{}).
		Where("status = ?", models.EmailStatusFailed).
		Count(&failedLogs)
	suite.Equal(int64(1), failedLogs)
}

func (suite *WaitlistAPITestSuite) TestEmailTestRejectsUnknownAction() {
	resp, response := suite.postJSON("/v1/email-test", map[string]any{
		"action": "explode",
	})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Contains(response["message"], "Invalid action")
}
