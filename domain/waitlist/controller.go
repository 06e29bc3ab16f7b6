package waitlist

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/yummyhouse/waitlist-api/config/router"
	"github.com/yummyhouse/waitlist-api/internal/log"
	apperrors "github.com/yummyhouse/waitlist-api/pkg/errors"
	"github.com/yummyhouse/waitlist-api/pkg/factory"
	"github.com/yummyhouse/waitlist-api/pkg/ratelimit"
)

const signupSuccessMessage = "Thank you for joining our waitlist! We'll notify you when we launch."

// WelcomeMailer sends the post-signup welcome email. Delivery is
// best-effort: signup succeeds regardless of the outcome here.
type WelcomeMailer interface {
	SendWelcome(ctx context.Context, email string, userType *string, features []string) error
}

func NewWaitlistController(
	service WaitlistService,
	welcome WelcomeMailer,
	logger *log.Logger,
	cache factory.Cache,
) *router.RESTController {

	return router.NewVersionedRESTController(
		"WaitlistController",
		"v1",
		"/waitlist",
		func(rs *router.RouterService, c *router.RESTController) {
			signupLimiter := createSignupRateLimiter(cache)

			rs.AddPostHandler(c, signupLimiter, "", signupHandler(service, welcome))
		},
	)
}

// The signup endpoint is public, so it carries its own limiter. With a
// cache configured the limit is enforced across instances.
func createSignupRateLimiter(cache factory.Cache) ratelimit.RateLimiter {
	const signupRequestsPerMinute = 30

	return factory.
		NewDefaultRateLimiterFactory(signupRequestsPerMinute, time.Minute, cache, nil).
		CreateRateLimiter()
}

func signupHandler(service WaitlistService, welcome WelcomeMailer) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		logger := router.GetLogger(ctx)

		var req SignupRequest

		if err := ctx.ShouldBindJSON(&req); err != nil {
			logger.Error("Failed to bind signup request", "error", err)

			validationErrors := apperrors.FormatValidationErrors(err, &req)
			if len(validationErrors) > 0 {
				return router.BadRequestResult("Invalid request payload", validationErrors)
			}

			return router.BadRequestResult("Invalid request body", nil)
		}

		result, err := service.Signup(ctx.Request.Context(), &req)
		if err != nil {
			return router.ErrorResult(
				apperrors.HTTPStatusCode(err),
				apperrors.GetHumanReadableMessage(err),
				nil,
			)
		}

		// The signup is committed; the welcome email rides along
		// best-effort and only flips the email_sent flag on failure.
		emailSent := false
		if welcome != nil {
			var userType *string
			var features []string
			if req.Survey != nil {
				userType = req.Survey.UserType
				features = req.Survey.DesiredFeatures
			}

			if err := welcome.SendWelcome(ctx.Request.Context(), req.Email, userType, features); err != nil {
				logger.Error("Failed to send welcome email", "email", req.Email, "error", err)
			} else {
				emailSent = true
			}
		}

		return router.ErrorResult(
			http.StatusCreated,
			signupSuccessMessage,
			SignupResponse{ID: result.ID, EmailSent: emailSent},
		)
	}
}

func NewAdminController(service WaitlistService, logger *log.Logger) *router.RESTController {
	return router.NewVersionedRESTController(
		"WaitlistAdminController",
		"v1",
		"/admin",
		func(rs *router.RouterService, c *router.RESTController) {
			rs.AddGetHandler(c, nil, "", adminHandler(service))
		},
	)
}

func adminHandler(service WaitlistService) router.HandlerFunction {
	return func(ctx *router.RequestContext) *router.ServiceResult {
		action := ctx.DefaultQuery("action", "stats")

		switch action {
		case "stats":
			return statsAction(ctx, service)
		case "entries":
			return entriesAction(ctx, service)
		case "export":
			return exportAction(ctx, service)
		default:
			return router.BadRequestResult("Invalid action. Available actions: stats, entries, export", nil)
		}
	}
}

func statsAction(ctx *router.RequestContext, service WaitlistService) *router.ServiceResult {
	stats, err := service.Stats(ctx.Request.Context())
	if err != nil {
		return router.ErrorResult(
			apperrors.HTTPStatusCode(err),
			apperrors.GetHumanReadableMessage(err),
			nil,
		)
	}

	return router.OKResult(stats, "Waitlist stats retrieved successfully")
}

func entriesAction(ctx *router.RequestContext, service WaitlistService) *router.ServiceResult {
	limit := parseQueryInt(ctx, "limit", DefaultListLimit)
	offset := parseQueryInt(ctx, "offset", 0)

	entries, err := service.ListEntries(ctx.Request.Context(), limit, offset)
	if err != nil {
		return router.ErrorResult(
			apperrors.HTTPStatusCode(err),
			apperrors.GetHumanReadableMessage(err),
			nil,
		)
	}

	page := EntriesPage{
		Entries:    entries,
		Pagination: Pagination{Limit: limit, Offset: offset},
	}

	return router.OKResult(page, "Waitlist entries retrieved successfully")
}

func exportAction(ctx *router.RequestContext, service WaitlistService) *router.ServiceResult {
	csv, err := service.ExportCSV(ctx.Request.Context())
	if err != nil {
		return router.ErrorResult(
			apperrors.HTTPStatusCode(err),
			apperrors.GetHumanReadableMessage(err),
			nil,
		)
	}

	filename := fmt.Sprintf("waitlist_export_%s.csv", time.Now().Format("2006-01-02_15-04-05"))
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Data(http.StatusOK, "text/csv", []byte(csv))

	// The CSV is written directly; returning nil tells the router the
	// response is already complete.
	return nil
}

func parseQueryInt(ctx *router.RequestContext, name string, fallback int) int {
	raw := ctx.Query(name)
	if raw == "" {
		return fallback
	}

	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}

	return value
}
