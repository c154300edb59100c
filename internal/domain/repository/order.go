package repository

import (
	"context"

	"github.com/polkiloo/vinylstore/internal/domain/model"
)

// OrderFetcher returns order snapshots from the marketplace API.
type OrderFetcher interface {
	CustomerOrders(ctx context.Context, session model.Session) ([]model.Order, error)
	ProviderPending(ctx context.Context, session model.Session) ([]model.Order, error)
	ProviderHistory(ctx context.Context, session model.Session) ([]model.Order, error)
	Order(ctx context.Context, session model.Session, orderID int64) (*model.Order, error)
	Review(ctx context.Context, session model.Session, orderID int64) (*model.Review, error)
}

// OrderMutator issues single order mutations against the marketplace API.
type OrderMutator interface {
	AcceptItem(ctx context.Context, session model.Session, itemID int64) error
	RejectItem(ctx context.Context, session model.Session, itemID int64, reason string) error
	ShipItem(ctx context.Context, session model.Session, itemID int64, shippedAt model.Timestamp) error
	DeliverItem(ctx context.Context, session model.Session, itemID int64) error
	ConfirmReceipt(ctx context.Context, session model.Session, orderID int64) error
	CreateReview(ctx context.Context, session model.Session, orderID int64, review model.Review) error
}

// OrderPlacer creates orders at checkout.
type OrderPlacer interface {
	CreateOrder(ctx context.Context, session model.Session, order model.NewOrder) (*model.Order, error)
}

// Catalog returns current product snapshots.
type Catalog interface {
	Product(ctx context.Context, session model.Session, productID int64) (*model.Product, error)
}

// NotificationSource reads and mutates notifications.
type NotificationSource interface {
	Notifications(ctx context.Context, session model.Session) ([]model.Notification, error)
	UnreadCount(ctx context.Context, session model.Session) (int, error)
	MarkAsRead(ctx context.Context, session model.Session, notificationID int64) error
}
