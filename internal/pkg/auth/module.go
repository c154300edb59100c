package auth

import (
	"github.com/polkiloo/vinylstore/internal/config"
	"go.uber.org/fx"
)

// Module provides session token verification via fx.
var Module = fx.Provide(newTokenStrategy)

type strategyParams struct {
	fx.In

	Config *config.Config
}

func newTokenStrategy(p strategyParams) Strategy {
	return NewJWTStrategy(p.Config.SessionSecret)
}
