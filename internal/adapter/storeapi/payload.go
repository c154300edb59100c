package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/vinylstore/internal/domain/model"
)

type productPayload struct {
	ID            int64           `json:"id"`
	AlbumTitle    string          `json:"albumTitle"`
	SongTitle     string          `json:"songTitle"`
	ArtistName    string          `json:"artistName"`
	ProductType   string          `json:"productType"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stockQuantity"`
	ProviderName  string          `json:"providerName"`
}

type orderItemPayload struct {
	ID              int64           `json:"id"`
	Product         productPayload  `json:"product"`
	Quantity        int             `json:"quantity"`
	Price           decimal.Decimal `json:"price"`
	Subtotal        decimal.Decimal `json:"subtotal"`
	ProviderName    string          `json:"providerName"`
	Status          string          `json:"status"`
	RejectionReason string          `json:"rejectionReason"`
	ShippedAt       json.RawMessage `json:"shippedAt"`
}

type reviewPayload struct {
	Rating    int             `json:"rating"`
	Comment   string          `json:"comment"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

type orderPayload struct {
	ID              int64           `json:"id"`
	OrderNumber     string          `json:"orderNumber"`
	Items           json.RawMessage `json:"items"`
	PaymentMethod   string          `json:"paymentMethod"`
	ShippingAddress string          `json:"shippingAddress"`
	CreatedAt       json.RawMessage `json:"createdAt"`
	ShippedAt       json.RawMessage `json:"shippedAt"`
	DeliveredAt     json.RawMessage `json:"deliveredAt"`
	Total           decimal.Decimal `json:"total"`
	Status          string          `json:"status"`
	Review          *reviewPayload  `json:"review"`
}

type notificationPayload struct {
	ID        int64           `json:"id"`
	Type      string          `json:"type"`
	Title     string          `json:"title"`
	Message   string          `json:"message"`
	IsRead    bool            `json:"isRead"`
	OrderID   *int64          `json:"orderId"`
	CreatedAt json.RawMessage `json:"createdAt"`
}

type newOrderLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

type newOrderRequest struct {
	Items           []newOrderLine `json:"items"`
	PaymentMethod   string         `json:"paymentMethod"`
	ShippingAddress string         `json:"shippingAddress,omitempty"`
}

type rejectRequest struct {
	Reason string `json:"reason"`
}

type shipRequest struct {
	ShippedAt string `json:"shippedAt"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

func (p productPayload) toModel() model.Product {
	return model.Product{
		ID:            p.ID,
		AlbumTitle:    p.AlbumTitle,
		SongTitle:     p.SongTitle,
		ArtistName:    p.ArtistName,
		Type:          model.ProductType(strings.ToUpper(p.ProductType)),
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ProviderName:  p.ProviderName,
	}
}

func (c *HTTPClient) toOrder(ctx context.Context, p orderPayload) model.Order {
	logger := c.log(ctx).With(slog.Int64("order_id", p.ID))
	order := model.Order{
		ID:              p.ID,
		OrderNumber:     p.OrderNumber,
		PaymentMethod:   model.PaymentMethod(p.PaymentMethod),
		ShippingAddress: p.ShippingAddress,
		CreatedAt:       timestamp(logger, "createdAt", p.CreatedAt),
		ShippedAt:       timestamp(logger, "shippedAt", p.ShippedAt),
		DeliveredAt:     timestamp(logger, "deliveredAt", p.DeliveredAt),
		Total:           p.Total,
		Status:          model.OrderStatus(p.Status),
	}
	for _, item := range decodeList[orderItemPayload](logger, "order items", p.Items) {
		order.Items = append(order.Items, model.OrderItem{
			ID:              item.ID,
			Product:         item.Product.toModel(),
			Quantity:        item.Quantity,
			Price:           item.Price,
			Subtotal:        item.Subtotal,
			ProviderName:    item.ProviderName,
			Status:          model.OrderItemStatus(item.Status),
			RejectionReason: item.RejectionReason,
			ShippedAt:       timestamp(logger.With(slog.Int64("item_id", item.ID)), "shippedAt", item.ShippedAt),
		})
	}
	if p.Review != nil {
		review := c.toReview(ctx, *p.Review)
		order.Review = &review
	}
	return order
}

func (c *HTTPClient) toReview(ctx context.Context, p reviewPayload) model.Review {
	return model.Review{
		Rating:    p.Rating,
		Comment:   p.Comment,
		CreatedAt: timestamp(c.log(ctx), "review createdAt", p.CreatedAt),
	}
}

func (c *HTTPClient) toNotification(ctx context.Context, p notificationPayload) model.Notification {
	return model.Notification{
		ID:        p.ID,
		Type:      model.NotificationType(p.Type),
		Title:     p.Title,
		Message:   p.Message,
		IsRead:    p.IsRead,
		OrderID:   p.OrderID,
		CreatedAt: timestamp(c.log(ctx).With(slog.Int64("notification_id", p.ID)), "createdAt", p.CreatedAt),
	}
}

// timestamp normalizes a raw date and degrades malformed input to an absent value.
func timestamp(logger *slog.Logger, field string, raw json.RawMessage) model.Timestamp {
	ts, err := model.ParseTimestamp(raw)
	if err != nil {
		logger.Warn("malformed date in store api payload", slog.String("field", field), slog.String("error", err.Error()))
		return model.Timestamp{}
	}
	return ts
}

// decodeList decodes a JSON array, degrading any other shape to an empty list.
func decodeList[T any](logger *slog.Logger, what string, raw json.RawMessage) []T {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return nil
	}
	if trimmed[0] != '[' {
		logger.Warn("expected array in store api payload", slog.String("payload", what))
		return nil
	}
	var items []T
	if err := json.Unmarshal(trimmed, &items); err != nil {
		logger.Warn("undecodable array in store api payload", slog.String("payload", what), slog.String("error", err.Error()))
		return nil
	}
	return items
}

// decodeCount accepts a bare number or a {"count": n} object.
func decodeCount(logger *slog.Logger, raw json.RawMessage) int {
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var wrapped struct {
		Count *int `json:"count"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && wrapped.Count != nil {
		return *wrapped.Count
	}
	logger.Warn("unexpected unread count payload", slog.String("payload", string(raw)))
	return 0
}
