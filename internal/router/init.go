package router

import (
	"github.com/okadio/microblog/internal/application"
	"github.com/okadio/microblog/internal/container"
	pginfra "github.com/okadio/microblog/internal/infrastructure/postgres"
	handlers "github.com/okadio/microblog/internal/interface/http"
	"github.com/okadio/microblog/internal/router/modules"
)

// InitModules builds repositories, services and handlers from the container
// singletons and registers every feature module. Called once at startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	logger := container.GetLogger()
	pool := container.GetPGPool()

	users := pginfra.NewUserRepository(pool)
	statuses := pginfra.NewStatusRepository(pool)
	follows := pginfra.NewFollowRepository(pool)

	// A typed-nil publisher must stay a nil interface so the service can
	// skip enqueueing when mail is disabled.
	var mail application.MailDispatcher
	if pub := container.GetRabbitPub(); pub != nil {
		mail = pub
	}

	accountSvc := application.NewAccountService(
		users,
		container.GetSessions(),
		container.GetJWT(),
		mail,
		cfg,
		logger,
		container.GetGCS(),
		cfg.GCSBucket,
		container.GetES(),
		cfg.ESUsersIndex,
	)
	statusSvc := application.NewStatusService(statuses, logger)
	followSvc := application.NewFollowService(users, follows, logger)

	authHandler := handlers.NewAuthHandler(accountSvc, logger, cfg.CookieDomain, cfg.CookieSecure)
	userHandler := handlers.NewUserHandler(accountSvc, followSvc, logger)
	statusHandler := handlers.NewStatusHandler(statusSvc, logger)
	followHandler := handlers.NewFollowHandler(followSvc, logger)

	r.Add(modules.NewAuthModule(authHandler))
	r.Add(modules.NewUserModule(userHandler))
	r.Add(modules.NewStatusModule(statusHandler))
	r.Add(modules.NewFollowModule(followHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
