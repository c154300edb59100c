package storeapi

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/vinylstore/internal/config"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// Module exposes the marketplace API client to the fx graph.
var Module = fx.Options(
	fx.Provide(newClient),
	fx.Provide(
		func(c repository.StoreAPI) repository.OrderFetcher { return c },
		func(c repository.StoreAPI) repository.OrderMutator { return c },
		func(c repository.StoreAPI) repository.OrderPlacer { return c },
		func(c repository.StoreAPI) repository.Catalog { return c },
		func(c repository.StoreAPI) repository.NotificationSource { return c },
	),
)

type clientParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newClient(p clientParams) (repository.StoreAPI, error) {
	return NewHTTPClient(p.Config.StoreAPIAddress, p.Config.APITimeout, p.Logger)
}
