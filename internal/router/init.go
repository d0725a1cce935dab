package router

import (
	"github.com/Hammad55553/account-service/internal/application"
	"github.com/Hammad55553/account-service/internal/container"
	"github.com/Hammad55553/account-service/internal/infrastructure/elastic"
	pginfra "github.com/Hammad55553/account-service/internal/infrastructure/postgres"
	handlers "github.com/Hammad55553/account-service/internal/interface/http"
	"github.com/Hammad55553/account-service/internal/router/modules"
)

func buildService() *application.Service {
	cfg := container.GetConfig()
	repo := pginfra.NewAccountRepository(container.GetPGPool())

	var mirror application.IdentityMirror
	if es := container.GetES(); es != nil {
		mirror = elastic.NewMirror(es, cfg.ESAccountsIndex)
	}

	var notifier application.Notifier
	if pub := container.GetRabbitPub(); pub != nil {
		notifier = pub
	}

	return application.NewService(
		repo,
		container.GetJWT(),
		container.GetRedis(),
		container.GetLogger(),
		notifier,
		mirror,
		container.GetGCS(),
		cfg.GCSBucket,
		cfg,
	)
}

// InitModules initializes all application modules and registers them with the
// router registry. Called once during startup.
func InitModules(r *Registry) {
	cfg := container.GetConfig()
	svc := buildService()

	accountHandler := handlers.NewAccountHandler(
		svc,
		container.GetJWT(),
		container.GetLogger(),
		cfg.CookieDomain,
		cfg.CookieSecure,
	)
	recoveryHandler := handlers.NewRecoveryHandler(svc, container.GetLogger())

	r.Add(modules.NewAccountModule(accountHandler, container.GetJWT()))
	r.Add(modules.NewRecoveryModule(recoveryHandler))
	if cfg.DebugMetricsEnabled {
		r.Add(modules.NewDebugModule())
	}
}
