package domain

import (
	"github.com/yummyhouse/waitlist-api/config"
	"github.com/yummyhouse/waitlist-api/domain/mailer"
	"github.com/yummyhouse/waitlist-api/domain/monitoring"
	"github.com/yummyhouse/waitlist-api/domain/waitlist"
)

func SetupCoreDomain(appConfig *config.ApplicationConfig) {
	waitlistFactory := waitlist.NewWaitlistServiceFactory(appConfig.DB, appConfig.Logger)
	waitlistService := waitlistFactory.CreateService()

	mailerFactory := mailer.NewEmailServiceFactory(
		appConfig.DB,
		appConfig.Logger,
		appConfig.Mail.Transport,
		mailer.Settings{
			AppName:        appConfig.Mail.AppName,
			AppURL:         appConfig.Mail.AppURL,
			SupportEmail:   appConfig.Mail.SupportEmail,
			UnsubscribeURL: appConfig.Mail.UnsubscribeURL,
			BulkSendDelay:  appConfig.Mail.BulkSendDelay,
		},
	)

	// The waitlist service doubles as the audience resolver for bulk
	// sends; the email service doubles as the signup welcome mailer.
	emailService := mailerFactory.CreateService(waitlistService)

	appConfig.RouterService.MountController(monitoring.NewMonitoringController(
		appConfig.DB,
		appConfig.Logger,
		appConfig.Cache,
		appConfig.Mail.Transport,
	))
	appConfig.RouterService.MountController(waitlist.NewWaitlistController(waitlistService, emailService, appConfig.Logger, appConfig.Cache))
	appConfig.RouterService.MountController(waitlist.NewAdminController(waitlistService, appConfig.Logger))
	appConfig.RouterService.MountController(mailerFactory.CreateController(emailService, appConfig.Cache))
}
