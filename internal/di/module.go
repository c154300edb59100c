package di

import (
	"go.uber.org/fx"

	"github.com/polkiloo/vinylstore/internal/adapter/notifyfeed"
	"github.com/polkiloo/vinylstore/internal/adapter/storeapi"
	"github.com/polkiloo/vinylstore/internal/app"
	"github.com/polkiloo/vinylstore/internal/config"
	"github.com/polkiloo/vinylstore/internal/logger"
	"github.com/polkiloo/vinylstore/internal/pkg/auth"
	"github.com/polkiloo/vinylstore/internal/server/http/router"
	"github.com/polkiloo/vinylstore/internal/storage/postgres"
	"github.com/polkiloo/vinylstore/internal/usecase"
	"github.com/polkiloo/vinylstore/internal/worker"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		storeapi.Module,
		notifyfeed.Module,
		usecase.Module,
		worker.Module,
		router.Module,
		app.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
