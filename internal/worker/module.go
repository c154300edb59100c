package worker

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/polkiloo/vinylstore/internal/adapter/notifyfeed"
	"github.com/polkiloo/vinylstore/internal/config"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// Module provides the per-session notification reflector registry.
// Reflectors are stopped by the application lifecycle.
var Module = fx.Provide(newRegistry)

type registryParams struct {
	fx.In

	Source repository.NotificationSource
	Feed   *notifyfeed.Feed
	Config *config.Config
	Logger *slog.Logger
}

func newRegistry(p registryParams) *ReflectorRegistry {
	return NewReflectorRegistry(p.Source, p.Feed, p.Config.NotificationPollInterval, p.Logger.With(slog.String("component", "reflector")))
}
