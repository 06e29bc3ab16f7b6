package waitlist

import (
	"github.com/yummyhouse/waitlist-api/config/router"
	"github.com/yummyhouse/waitlist-api/internal/log"
	"github.com/yummyhouse/waitlist-api/pkg/factory"
	"gorm.io/gorm"
)

type WaitlistServiceFactory interface {
	CreateService() WaitlistService
	CreateController(welcome WelcomeMailer, cache factory.Cache) *router.RESTController
	CreateAdminController() *router.RESTController
}

type DefaultWaitlistServiceFactory struct {
	db     *gorm.DB
	logger *log.Logger
}

func NewWaitlistServiceFactory(db *gorm.DB, logger *log.Logger) WaitlistServiceFactory {
	return &DefaultWaitlistServiceFactory{
		db:     db,
		logger: logger,
	}
}

func (f *DefaultWaitlistServiceFactory) CreateService() WaitlistService {
	repository := NewWaitlistRepository(f.db)
	return NewWaitlistService(f.logger, repository)
}

func (f *DefaultWaitlistServiceFactory) CreateController(welcome WelcomeMailer, cache factory.Cache) *router.RESTController {
	return NewWaitlistController(f.CreateService(), welcome, f.logger, cache)
}

func (f *DefaultWaitlistServiceFactory) CreateAdminController() *router.RESTController {
	return NewAdminController(f.CreateService(), f.logger)
}
