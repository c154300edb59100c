// Package storefront assembles a StorefrontFacade over in-memory stubs for
// HTTP level tests.
package storefront

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/polkiloo/vinylstore/internal/app"
	"github.com/polkiloo/vinylstore/internal/config"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	testhelpers "github.com/polkiloo/vinylstore/internal/test"
	"github.com/polkiloo/vinylstore/internal/usecase"
	"github.com/polkiloo/vinylstore/internal/worker"
)

const (
	CustomerToken = "customer-token"
	ProviderToken = "provider-token"
)

var (
	Customer = model.Session{UserID: 1, Role: model.RoleCustomer, Name: "Ada"}
	Provider = model.Session{UserID: 2, Role: model.RoleProvider, Name: "Blue Note"}
)

// Fixture is a facade wired to stubs the test can inspect.
type Fixture struct {
	Facade *app.StorefrontFacade
	API    *testhelpers.MarketplaceStub
	Slots  *testhelpers.MemoryCartSlots
	Health *testhelpers.HealthStub
	Logger *slog.Logger
}

// New builds a Fixture whose reflectors are stopped when t finishes.
func New(t *testing.T) *Fixture {
	t.Helper()
	api := testhelpers.NewMarketplaceStub()
	slots := testhelpers.NewMemoryCartSlots()
	health := &testhelpers.HealthStub{}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	inflight := usecase.NewInFlight()
	caches := usecase.NewOrderCacheRegistry()
	builder := usecase.NewViewBuilder(inflight)
	carts := usecase.NewCartRegistry(slots, &config.Config{CartSlotPrefix: "cart"}, logger)
	reflectors := worker.NewReflectorRegistry(api, nil, time.Hour, logger)
	t.Cleanup(reflectors.StopAll)

	tokens := testhelpers.StrategyStub{Sessions: map[string]model.Session{
		CustomerToken: Customer,
		ProviderToken: Provider,
	}}
	facade := app.NewStorefrontFacade(
		tokens,
		usecase.NewCartService(carts, api, api, caches),
		carts,
		usecase.NewOrderQueries(api, caches, builder),
		caches,
		usecase.NewDispatcher(api, api, caches, inflight, builder, logger),
		reflectors,
		health,
	)
	return &Fixture{Facade: facade, API: api, Slots: slots, Health: health, Logger: logger}
}
