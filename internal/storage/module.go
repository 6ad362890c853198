// Package storage selects the configured user store backend and wires it into fx.
package storage

import (
	"context"
	"fmt"
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/userstore/internal/config"
	"github.com/polkiloo/userstore/internal/domain/repository"
	"github.com/polkiloo/userstore/internal/storage/orm"
	"github.com/polkiloo/userstore/internal/storage/postgres"
)

// Backend is a user store implementation with an owned connection pool.
type Backend interface {
	Users() repository.UserRepository
	HealthCheck(ctx context.Context) error
	Close()
}

// Module wires the storage backend and the user repository.
var Module = fx.Options(
	fx.Provide(newBackend),
	fx.Provide(func(b Backend) repository.UserRepository { return b.Users() }),
	fx.Invoke(registerLifecycle),
)

var (
	openPgx = func(ctx context.Context, dsn string, logger *slog.Logger) (Backend, error) {
		return postgres.New(ctx, dsn, logger)
	}
	openGorm = func(ctx context.Context, dsn string, logger *slog.Logger) (Backend, error) {
		return orm.Open(ctx, dsn, logger)
	}
)

type backendParams struct {
	fx.In

	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

func newBackend(p backendParams) (Backend, error) {
	var open func(context.Context, string, *slog.Logger) (Backend, error)
	switch p.Config.StorageDriver {
	case config.DriverPgx, "":
		open = openPgx
	case config.DriverGorm:
		open = openGorm
	default:
		return nil, fmt.Errorf("unknown storage driver %q", p.Config.StorageDriver)
	}

	backend, err := open(p.Ctx, p.Config.DatabaseURI, p.Logger)
	if err != nil {
		return nil, err
	}
	p.Logger.Info("user storage ready", slog.String("driver", p.Config.StorageDriver))
	return backend, nil
}

func registerLifecycle(lc fx.Lifecycle, backend Backend) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			backend.Close()
			return nil
		},
	})
}
