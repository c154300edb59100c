package app

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	pkgAuth "github.com/polkiloo/vinylstore/internal/pkg/auth"
	"github.com/polkiloo/vinylstore/internal/usecase"
	"github.com/polkiloo/vinylstore/internal/worker"
)

// HealthChecker reports readiness of a backing store.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// CartResult is the cart state after an operation and the condition it signaled.
type CartResult struct {
	Notice usecase.Notice
	Cart   model.Cart
}

// StorefrontFacade is the single entry point of the HTTP layer into the use cases.
type StorefrontFacade struct {
	tokens      pkgAuth.Strategy
	carts       *usecase.CartService
	cartRegs    *usecase.CartRegistry
	orders      *usecase.OrderQueries
	orderCaches *usecase.OrderCacheRegistry
	dispatcher  *usecase.Dispatcher
	reflectors  *worker.ReflectorRegistry
	health      HealthChecker
	now         func() time.Time
}

// NewStorefrontFacade constructs StorefrontFacade.
func NewStorefrontFacade(
	tokens pkgAuth.Strategy,
	carts *usecase.CartService,
	cartRegs *usecase.CartRegistry,
	orders *usecase.OrderQueries,
	orderCaches *usecase.OrderCacheRegistry,
	dispatcher *usecase.Dispatcher,
	reflectors *worker.ReflectorRegistry,
	health HealthChecker,
) *StorefrontFacade {
	return &StorefrontFacade{
		tokens:      tokens,
		carts:       carts,
		cartRegs:    cartRegs,
		orders:      orders,
		orderCaches: orderCaches,
		dispatcher:  dispatcher,
		reflectors:  reflectors,
		health:      health,
		now:         time.Now,
	}
}

func (f *StorefrontFacade) ParseToken(token string) (model.Session, error) {
	return f.tokens.ParseToken(token)
}

func (f *StorefrontFacade) Health(ctx context.Context) error {
	return f.health.HealthCheck(ctx)
}

// Logout ends the session: its reflector stops and its in-memory state is released.
func (f *StorefrontFacade) Logout(_ context.Context, session model.Session) {
	f.reflectors.Stop(session.UserID)
	f.cartRegs.Release(session.UserID)
	f.orderCaches.Release(session.UserID)
}

// --- cart ---

func (f *StorefrontFacade) Cart(ctx context.Context, session model.Session) model.Cart {
	return f.carts.Cart(ctx, session).Snapshot()
}

func (f *StorefrontFacade) AddToCart(ctx context.Context, session model.Session, productID int64, quantity int) (CartResult, error) {
	notice, err := f.carts.AddProduct(ctx, session, productID, quantity)
	if err != nil {
		return CartResult{}, err
	}
	return CartResult{Notice: notice, Cart: f.Cart(ctx, session)}, nil
}

func (f *StorefrontFacade) UpdateCartItem(ctx context.Context, session model.Session, productID int64, quantity int) (CartResult, error) {
	manager := f.carts.Cart(ctx, session)
	notice, err := manager.UpdateQuantity(ctx, productID, quantity)
	if err != nil {
		return CartResult{}, err
	}
	return CartResult{Notice: notice, Cart: manager.Snapshot()}, nil
}

func (f *StorefrontFacade) RemoveCartItem(ctx context.Context, session model.Session, productID int64) (CartResult, error) {
	manager := f.carts.Cart(ctx, session)
	notice, err := manager.RemoveItem(ctx, productID)
	if err != nil {
		return CartResult{}, err
	}
	return CartResult{Notice: notice, Cart: manager.Snapshot()}, nil
}

func (f *StorefrontFacade) ClearCart(ctx context.Context, session model.Session) CartResult {
	manager := f.carts.Cart(ctx, session)
	notice := manager.Clear(ctx)
	return CartResult{Notice: notice, Cart: manager.Snapshot()}
}

func (f *StorefrontFacade) IsInCart(ctx context.Context, session model.Session, productID int64) bool {
	return f.carts.Cart(ctx, session).IsInCart(productID)
}

func (f *StorefrontFacade) Checkout(ctx context.Context, session model.Session, input usecase.CheckoutInput) (*model.Order, error) {
	return f.carts.Checkout(ctx, session, input)
}

// --- orders ---

func (f *StorefrontFacade) CustomerOrders(ctx context.Context, session model.Session) ([]usecase.OrderView, error) {
	return f.orders.CustomerOrders(ctx, session)
}

func (f *StorefrontFacade) ProviderPending(ctx context.Context, session model.Session) ([]usecase.OrderView, error) {
	return f.orders.ProviderPending(ctx, session)
}

func (f *StorefrontFacade) ProviderHistory(ctx context.Context, session model.Session) ([]usecase.OrderView, error) {
	return f.orders.ProviderHistory(ctx, session)
}

func (f *StorefrontFacade) Order(ctx context.Context, session model.Session, orderID int64) (usecase.OrderView, error) {
	return f.orders.Order(ctx, session, orderID)
}

func (f *StorefrontFacade) Review(ctx context.Context, session model.Session, orderID int64) (*model.Review, error) {
	return f.orders.Review(ctx, session, orderID)
}

func (f *StorefrontFacade) AcceptItem(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error) {
	return f.dispatcher.Accept(ctx, session, orderID, itemID)
}

func (f *StorefrontFacade) RejectItem(ctx context.Context, session model.Session, orderID, itemID int64, reason string) (usecase.OrderView, error) {
	return f.dispatcher.Reject(ctx, session, orderID, itemID, reason)
}

// ShipItem ships the item at shippedAt, or now when shippedAt is empty.
func (f *StorefrontFacade) ShipItem(ctx context.Context, session model.Session, orderID, itemID int64, shippedAt model.Timestamp) (usecase.OrderView, error) {
	if !shippedAt.Valid() {
		shippedAt = model.NewTimestamp(f.now())
	}
	return f.dispatcher.Ship(ctx, session, orderID, itemID, shippedAt)
}

func (f *StorefrontFacade) DeliverItem(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error) {
	return f.dispatcher.Deliver(ctx, session, orderID, itemID)
}

func (f *StorefrontFacade) ConfirmReceipt(ctx context.Context, session model.Session, orderID int64) (usecase.OrderView, error) {
	return f.dispatcher.ConfirmReceipt(ctx, session, orderID)
}

func (f *StorefrontFacade) SubmitReview(ctx context.Context, session model.Session, orderID int64, input usecase.ReviewInput) (usecase.OrderView, error) {
	return f.dispatcher.SubmitReview(ctx, session, orderID, input)
}

// --- notifications ---

// Notifications returns the session's cached notifications, refreshing
// synchronously when the reflector has not completed a cycle yet.
func (f *StorefrontFacade) Notifications(ctx context.Context, session model.Session) (worker.NotificationState, error) {
	reflector := f.reflectors.Ensure(session)
	if state := reflector.Snapshot(); !state.RefreshedAt.IsZero() {
		return state, nil
	}
	if err := reflector.Refresh(ctx); err != nil {
		return worker.NotificationState{}, err
	}
	return reflector.Snapshot(), nil
}

func (f *StorefrontFacade) MarkNotificationRead(ctx context.Context, session model.Session, notificationID int64) (worker.NotificationState, error) {
	reflector := f.reflectors.Ensure(session)
	if err := reflector.MarkAsRead(ctx, notificationID); err != nil {
		return worker.NotificationState{}, err
	}
	return reflector.Snapshot(), nil
}

// NotificationTarget resolves where clicking a cached notification navigates.
func (f *StorefrontFacade) NotificationTarget(ctx context.Context, session model.Session, notificationID int64) (worker.Target, error) {
	state, err := f.Notifications(ctx, session)
	if err != nil {
		return worker.Target{}, err
	}
	for _, n := range state.Notifications {
		if n.ID == notificationID {
			return worker.Route(n, session.Role), nil
		}
	}
	return worker.Target{}, domainErrors.ErrNotFound
}
