package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
	"github.com/polkiloo/vinylstore/internal/pkg/reqctx"
)

// ReviewInput is the customer's review of a delivered order.
type ReviewInput struct {
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"max=1000"`
}

// Dispatcher turns user actions into single marketplace mutations and
// republishes the re-fetched order once the mutation succeeds.
type Dispatcher struct {
	fetcher  repository.OrderFetcher
	mutator  repository.OrderMutator
	caches   *OrderCacheRegistry
	inflight *InFlight
	builder  *ViewBuilder
	validate *validator.Validate
	logger   *slog.Logger
}

// NewDispatcher constructs Dispatcher.
func NewDispatcher(
	fetcher repository.OrderFetcher,
	mutator repository.OrderMutator,
	caches *OrderCacheRegistry,
	inflight *InFlight,
	builder *ViewBuilder,
	logger *slog.Logger,
) *Dispatcher {
	return &Dispatcher{
		fetcher:  fetcher,
		mutator:  mutator,
		caches:   caches,
		inflight: inflight,
		builder:  builder,
		validate: newValidator(),
		logger:   logger,
	}
}

// Accept accepts a pending item.
func (d *Dispatcher) Accept(ctx context.Context, session model.Session, orderID, itemID int64) (OrderView, error) {
	return d.itemAction(ctx, session, orderID, itemID, model.ItemActionAccept, func() error {
		return d.mutator.AcceptItem(ctx, session, itemID)
	})
}

// Reject rejects a pending item. reason must not be blank.
func (d *Dispatcher) Reject(ctx context.Context, session model.Session, orderID, itemID int64, reason string) (OrderView, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return OrderView{}, domainErrors.ErrRejectionReasonRequired
	}
	return d.itemAction(ctx, session, orderID, itemID, model.ItemActionReject, func() error {
		return d.mutator.RejectItem(ctx, session, itemID, reason)
	})
}

// Ship marks an accepted item as shipped at shippedAt.
func (d *Dispatcher) Ship(ctx context.Context, session model.Session, orderID, itemID int64, shippedAt model.Timestamp) (OrderView, error) {
	if !shippedAt.Valid() {
		return OrderView{}, domainErrors.ErrInvalidShipDate
	}
	return d.itemAction(ctx, session, orderID, itemID, model.ItemActionShip, func() error {
		return d.mutator.ShipItem(ctx, session, itemID, shippedAt)
	})
}

// Deliver marks a shipped item as delivered.
func (d *Dispatcher) Deliver(ctx context.Context, session model.Session, orderID, itemID int64) (OrderView, error) {
	return d.itemAction(ctx, session, orderID, itemID, model.ItemActionDeliver, func() error {
		return d.mutator.DeliverItem(ctx, session, itemID)
	})
}

// ConfirmReceipt confirms receipt of a delivered order.
func (d *Dispatcher) ConfirmReceipt(ctx context.Context, session model.Session, orderID int64) (OrderView, error) {
	check := func(order model.Order) error {
		if !CanConfirmReceipt(order) {
			return fmt.Errorf("%w: order status %s", domainErrors.ErrReceiptNotAllowed, order.Status)
		}
		return nil
	}
	return d.guarded(ctx, session, orderID, ReceiptKey(orderID), check, func() error {
		return d.mutator.ConfirmReceipt(ctx, session, orderID)
	})
}

// SubmitReview attaches the single review of a delivered or received order.
func (d *Dispatcher) SubmitReview(ctx context.Context, session model.Session, orderID int64, input ReviewInput) (OrderView, error) {
	input.Comment = strings.TrimSpace(input.Comment)
	if err := d.validate.Struct(input); err != nil {
		return OrderView{}, validationError(err)
	}
	check := func(order model.Order) error {
		if !CanReview(order) {
			return domainErrors.ErrReviewNotAllowed
		}
		return nil
	}
	return d.guarded(ctx, session, orderID, ReviewKey(orderID), check, func() error {
		return d.mutator.CreateReview(ctx, session, orderID, model.Review{Rating: input.Rating, Comment: input.Comment})
	})
}

func (d *Dispatcher) itemAction(ctx context.Context, session model.Session, orderID, itemID int64, action model.ItemAction, call func() error) (OrderView, error) {
	check := func(order model.Order) error {
		item, ok := order.Item(itemID)
		if !ok {
			return domainErrors.ErrItemNotFound
		}
		if !action.AllowedFrom(item.Status) {
			return fmt.Errorf("%w: cannot %s item in status %s",
				domainErrors.ErrIllegalTransition, strings.ToLower(string(action)), item.Status)
		}
		return nil
	}
	return d.guarded(ctx, session, orderID, ItemKey(itemID), check, call)
}

// guarded holds the in-flight marker key while check judges the session's
// snapshot of orderID, call issues the mutation and the order is re-fetched.
// A cached snapshot that fails check is re-fetched once before giving up.
func (d *Dispatcher) guarded(
	ctx context.Context,
	session model.Session,
	orderID int64,
	key string,
	check func(model.Order) error,
	call func() error,
) (OrderView, error) {
	release, ok := d.inflight.Acquire(key)
	if !ok {
		return OrderView{}, domainErrors.ErrActionInFlight
	}
	defer release()

	cache := d.caches.For(session)
	order, hit := cache.Get(orderID)
	if !hit {
		var err error
		if order, err = d.load(ctx, session, cache, orderID); err != nil {
			return OrderView{}, err
		}
	}
	if err := check(order); err != nil {
		if !hit {
			return OrderView{}, err
		}
		if order, err = d.load(ctx, session, cache, orderID); err != nil {
			return OrderView{}, err
		}
		if err := check(order); err != nil {
			return OrderView{}, err
		}
	}

	logger := reqctx.Logger(ctx, d.logger).With(slog.Int64("order_id", orderID), slog.String("target", key))
	if err := call(); err != nil {
		logger.Warn("order action failed", slog.String("error", err.Error()))
		return OrderView{}, err
	}

	token := cache.Begin()
	fresh, err := d.fetcher.Order(ctx, session, orderID)
	if err != nil {
		logger.Error("refresh after order action failed", slog.String("error", err.Error()))
		return OrderView{}, fmt.Errorf("%w: %w", domainErrors.ErrRefreshFailed, err)
	}
	cache.Store(token, *fresh)
	release()
	logger.Info("order action applied", slog.String("status", string(fresh.Status)))
	return d.builder.Build(*fresh, session.Role), nil
}

// load fetches orderID into cache and returns the newest cached snapshot.
func (d *Dispatcher) load(ctx context.Context, session model.Session, cache *OrderCache, orderID int64) (model.Order, error) {
	token := cache.Begin()
	order, err := d.fetcher.Order(ctx, session, orderID)
	if err != nil {
		return model.Order{}, err
	}
	cache.Store(token, *order)
	if newest, ok := cache.Get(orderID); ok {
		return newest, nil
	}
	return *order, nil
}
