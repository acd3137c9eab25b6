package api

import (
	"errors"
	"time"

	"github.com/terraincognita07/bujo/internal/config"
	"github.com/terraincognita07/bujo/internal/db"
	"github.com/terraincognita07/bujo/internal/security"
	"github.com/terraincognita07/bujo/internal/services"
)

type Handler struct {
	profiles       *services.ProfileService
	subscriptions  *services.PushSubscriptionService
	catalog        *services.CatalogService
	templates      *services.TemplateService
	questions      *services.QuestionService
	days           *services.DayService
	stats          *services.StatsService
	exports        *services.ExportService
	dispatcher     *services.ReminderDispatcher
	sealer         *security.Sealer
	jwtSecret      []byte
	cronSecret     string
	cronLimiter    *attemptLimiter
	vapidPublicKey string
	cookieSecure   bool
	now            func() time.Time
}

func NewHandler(cfg *config.Config, repositories *db.Repositories, dispatcher *services.ReminderDispatcher) (*Handler, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if cfg.AuthJWTSecret == "" {
		return nil, errors.New("auth jwt secret is required")
	}
	if repositories == nil || dispatcher == nil {
		return nil, errors.New("repositories and dispatcher are required")
	}

	cookieSecret := cfg.CookieSecret
	if cookieSecret == "" {
		cookieSecret = cfg.AuthJWTSecret
	}
	sealer, err := security.NewSealer([]byte(cookieSecret))
	if err != nil {
		return nil, err
	}

	templates := services.NewTemplateService(repositories.Templates, repositories.Catalog)
	return &Handler{
		profiles:       services.NewProfileService(repositories.Profiles),
		subscriptions:  services.NewPushSubscriptionService(repositories.PushSubscriptions),
		catalog:        services.NewCatalogService(repositories.Catalog),
		templates:      templates,
		questions:      services.NewQuestionService(repositories.UserQuestions, templates),
		days:           services.NewDayService(repositories.Answers, repositories.UserQuestions),
		stats:          services.NewStatsService(repositories.Answers, repositories.UserQuestions),
		exports:        services.NewExportService(repositories.Answers, repositories.UserQuestions),
		dispatcher:     dispatcher,
		sealer:         sealer,
		jwtSecret:      []byte(cfg.AuthJWTSecret),
		cronSecret:     cfg.CronSecret,
		cronLimiter:    newAttemptLimiter(cronAttemptsLimit, cronAttemptsWindow),
		vapidPublicKey: cfg.VAPIDPublicKey,
		cookieSecure:   cfg.CookieSecure,
		now:            time.Now,
	}, nil
}
