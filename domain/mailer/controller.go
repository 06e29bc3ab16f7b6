package mailer

import (
	"fmt"
	"strings"
	"time"

	"github.com/yummyhouse/waitlist-api/config/router"
	"github.com/yummyhouse/waitlist-api/internal/log"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"github.com/yummyhouse/waitlist-api/pkg/factory"
	"github.com/yummyhouse/waitlist-api/pkg/ratelimit"
)

// Feature highlights used when a welcome test omits its own list.
var defaultTestFeatures = []string{"Online ordering", "Real-time tracking"}

func NewEmailTestController(service EmailService, logger *log.Logger, cache factory.Cache) *router.RESTController {
	return router.NewVersionedRESTController(
		"EmailTestController",
		"v1",
		"/email-test",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddPostHandler(c, createEmailTestRateLimiter(cache), "", emailTestHandler(service))
		},
	)
}

func createEmailTestRateLimiter(cache factory.Cache) ratelimit.RateLimiter {
	// Bulk runs are slow and operator-triggered; a tight limit keeps a
	// misbehaving script from queueing overlapping fan-outs.
	const emailTestRequestsPerMinute = 10

	return factory.
		NewDefaultRateLimiterFactory(emailTestRequestsPerMinute, time.Minute, cache, nil).
		CreateRateLimiter()
}

func emailTestHandler(service EmailService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req EmailTestRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind email test request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		switch req.Action {
		case ActionTestWelcome:
			return testWelcomeAction(ctx, service, &req)
		case ActionTestConnection:
			return testConnectionAction(ctx, service)
		case ActionSendBulk:
			return sendBulkAction(ctx, service, &req)
		default:
			return router.BadRequestResult("Invalid action. Available actions: test_welcome, test_connection, send_bulk", nil)
		}
	}
}

func testWelcomeAction(ctx *router.RequestContext, service EmailService, req *EmailTestRequest) *router.ServiceResult {
	if strings.TrimSpace(req.Email) == "" {
		return router.BadRequestResult("Email address is required", nil)
	}

	// A nil slice means the field was omitted; an explicit empty list
	// suppresses the feature box on purpose.
	features := req.DesiredFeatures
	if features == nil {
		features = defaultTestFeatures
	}

	if err := service.SendWelcome(ctx.Request.Context(), req.Email, req.UserType, features); err != nil {
		return router.ErrorResult(
			apperrors.HTTPStatusCode(err),
			apperrors.GetHumanReadableMessage(err),
			nil,
		)
	}

	return router.OKResult(nil, "Email sent successfully")
}

func testConnectionAction(ctx *router.RequestContext, service EmailService) *router.ServiceResult {
	if err := service.Probe(ctx.Request.Context()); err != nil {
		return router.BadRequestResult("SMTP connection failed", nil)
	}

	return router.OKResult(nil, "SMTP connection successful")
}

func sendBulkAction(ctx *router.RequestContext, service EmailService, req *EmailTestRequest) *router.ServiceResult {
	if strings.TrimSpace(req.Subject) == "" || strings.TrimSpace(req.Message) == "" {
		return router.BadRequestResult("Subject and message are required for bulk email", nil)
	}

	result, err := service.SendBulk(ctx.Request.Context(), req.Subject, req.Message, req.Filters)
	if err != nil {
		return router.ErrorResult(
			apperrors.HTTPStatusCode(err),
			apperrors.GetHumanReadableMessage(err),
			result,
		)
	}

	message := fmt.Sprintf("Bulk email completed. Sent: %d, Failed: %d", result.Sent, result.Failed)
	return router.OKResult(result, message)
}
