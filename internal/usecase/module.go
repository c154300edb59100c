package usecase

import "go.uber.org/fx"

// Module provides the storefront use cases to the fx container.
var Module = fx.Provide(
	NewInFlight,
	NewOrderCacheRegistry,
	NewViewBuilder,
	NewCartRegistry,
	NewCartService,
	NewOrderQueries,
	NewDispatcher,
)
