package mailer

import (
	"github.com/yummyhouse/waitlist-api/config/router"
	"github.com/yummyhouse/waitlist-api/internal/log"
	"github.com/yummyhouse/waitlist-api/pkg/factory"
	"github.com/yummyhouse/waitlist-api/pkg/smtp"
	"gorm.io/gorm"
)

type EmailServiceFactory interface {
	CreateService(recipients RecipientSource) EmailService
	CreateController(service EmailService, cache factory.Cache) *router.RESTController
}

type DefaultEmailServiceFactory struct {
	db        *gorm.DB
	logger    *log.Logger
	transport smtp.Transport
	settings  Settings
}

func NewEmailServiceFactory(
	db *gorm.DB,
	logger *log.Logger,
	transport smtp.Transport,
	settings Settings,
) EmailServiceFactory {

	return &DefaultEmailServiceFactory{
		db:        db,
		logger:    logger,
		transport: transport,
		settings:  settings,
	}
}

func (f *DefaultEmailServiceFactory) CreateService(recipients RecipientSource) EmailService {
	logs := NewEmailLogRepository(f.db)
	return NewEmailService(f.logger, f.transport, logs, recipients, f.settings)
}

func (f *DefaultEmailServiceFactory) CreateController(service EmailService, cache factory.Cache) *router.RESTController {
	return NewEmailTestController(service, f.logger, cache)
}
