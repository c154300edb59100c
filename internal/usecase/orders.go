package usecase

import (
	"context"

	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// OrderQueries fetches order snapshots, caches them per session and builds views.
type OrderQueries struct {
	fetcher repository.OrderFetcher
	caches  *OrderCacheRegistry
	builder *ViewBuilder
}

// NewOrderQueries constructs OrderQueries.
func NewOrderQueries(fetcher repository.OrderFetcher, caches *OrderCacheRegistry, builder *ViewBuilder) *OrderQueries {
	return &OrderQueries{fetcher: fetcher, caches: caches, builder: builder}
}

// CustomerOrders returns views of the orders placed by session.
func (q *OrderQueries) CustomerOrders(ctx context.Context, session model.Session) ([]OrderView, error) {
	return q.list(ctx, session, q.fetcher.CustomerOrders)
}

// ProviderPending returns views of the provider's pending queue.
func (q *OrderQueries) ProviderPending(ctx context.Context, session model.Session) ([]OrderView, error) {
	return q.list(ctx, session, q.fetcher.ProviderPending)
}

// ProviderHistory returns views of the provider's historical orders.
func (q *OrderQueries) ProviderHistory(ctx context.Context, session model.Session) ([]OrderView, error) {
	return q.list(ctx, session, q.fetcher.ProviderHistory)
}

// Order fetches a fresh snapshot of orderID.
func (q *OrderQueries) Order(ctx context.Context, session model.Session, orderID int64) (OrderView, error) {
	cache := q.caches.For(session)
	token := cache.Begin()
	order, err := q.fetcher.Order(ctx, session, orderID)
	if err != nil {
		return OrderView{}, err
	}
	cache.Store(token, *order)
	return q.builder.Build(*order, session.Role), nil
}

// Review returns the review attached to orderID.
func (q *OrderQueries) Review(ctx context.Context, session model.Session, orderID int64) (*model.Review, error) {
	return q.fetcher.Review(ctx, session, orderID)
}

func (q *OrderQueries) list(ctx context.Context, session model.Session, fetch func(context.Context, model.Session) ([]model.Order, error)) ([]OrderView, error) {
	cache := q.caches.For(session)
	token := cache.Begin()
	orders, err := fetch(ctx, session)
	if err != nil {
		return nil, err
	}
	cache.Store(token, orders...)
	return q.builder.BuildAll(orders, session.Role), nil
}
