package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/userstore/internal/app"
	"github.com/polkiloo/userstore/internal/config"
	"github.com/polkiloo/userstore/internal/logger"
	"github.com/polkiloo/userstore/internal/pkg/auth"
	"github.com/polkiloo/userstore/internal/server/http/handlers"
	"github.com/polkiloo/userstore/internal/server/http/router"
	"github.com/polkiloo/userstore/internal/storage"
	"github.com/polkiloo/userstore/internal/usecase"
)

// Module assembles the full application graph; opts are appended last so callers can fx.Replace parts of it.
func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		storage.Module,
		usecase.Module,
		fx.Provide(func(b storage.Backend) app.HealthChecker { return b }),
		fx.Provide(func(f *app.UserFacade) handlers.Facade { return f }),
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
