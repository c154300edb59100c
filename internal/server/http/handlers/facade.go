package handlers

import (
	"context"

	"github.com/polkiloo/vinylstore/internal/app"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/usecase"
	"github.com/polkiloo/vinylstore/internal/worker"
)

// SessionFacade describes session capabilities required by handlers.
type SessionFacade interface {
	ParseToken(token string) (model.Session, error)
	Health(ctx context.Context) error
	Logout(ctx context.Context, session model.Session)
}

// CartFacade encapsulates cart operations exposed via HTTP.
type CartFacade interface {
	Cart(ctx context.Context, session model.Session) model.Cart
	AddToCart(ctx context.Context, session model.Session, productID int64, quantity int) (app.CartResult, error)
	UpdateCartItem(ctx context.Context, session model.Session, productID int64, quantity int) (app.CartResult, error)
	RemoveCartItem(ctx context.Context, session model.Session, productID int64) (app.CartResult, error)
	ClearCart(ctx context.Context, session model.Session) app.CartResult
	IsInCart(ctx context.Context, session model.Session, productID int64) bool
	Checkout(ctx context.Context, session model.Session, input usecase.CheckoutInput) (*model.Order, error)
}

// OrderFacade covers customer order views and order-level actions.
type OrderFacade interface {
	CustomerOrders(ctx context.Context, session model.Session) ([]usecase.OrderView, error)
	Order(ctx context.Context, session model.Session, orderID int64) (usecase.OrderView, error)
	Review(ctx context.Context, session model.Session, orderID int64) (*model.Review, error)
	ConfirmReceipt(ctx context.Context, session model.Session, orderID int64) (usecase.OrderView, error)
	SubmitReview(ctx context.Context, session model.Session, orderID int64, input usecase.ReviewInput) (usecase.OrderView, error)
}

// ProviderFacade covers the provider fulfillment queue.
type ProviderFacade interface {
	ProviderPending(ctx context.Context, session model.Session) ([]usecase.OrderView, error)
	ProviderHistory(ctx context.Context, session model.Session) ([]usecase.OrderView, error)
	AcceptItem(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error)
	RejectItem(ctx context.Context, session model.Session, orderID, itemID int64, reason string) (usecase.OrderView, error)
	ShipItem(ctx context.Context, session model.Session, orderID, itemID int64, shippedAt model.Timestamp) (usecase.OrderView, error)
	DeliverItem(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error)
}

type NotificationFacade interface {
	Notifications(ctx context.Context, session model.Session) (worker.NotificationState, error)
	MarkNotificationRead(ctx context.Context, session model.Session, notificationID int64) (worker.NotificationState, error)
	NotificationTarget(ctx context.Context, session model.Session, notificationID int64) (worker.Target, error)
}

// Storefront aggregates the full set of operations used across handlers.
type Storefront interface {
	SessionFacade
	CartFacade
	OrderFacade
	ProviderFacade
	NotificationFacade
}

var _ Storefront = (*app.StorefrontFacade)(nil)
