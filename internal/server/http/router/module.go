package router

import (
	"go.uber.org/fx"

	"github.com/polkiloo/vinylstore/internal/app"
	"github.com/polkiloo/vinylstore/internal/server/http/handlers"
)

// Module registers HTTP router construction for fx runtime.
var Module = fx.Provide(
	func(f *app.StorefrontFacade) handlers.Storefront { return f },
	Setup,
)
