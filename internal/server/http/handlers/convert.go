package handlers

import (
	"time"

	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/server/http/dto"
	"github.com/polkiloo/vinylstore/internal/usecase"
	"github.com/polkiloo/vinylstore/internal/worker"
)

func formatTime(ts model.Timestamp) string {
	return ts.Format(time.RFC3339)
}

func toProductResponse(p model.Product) dto.ProductResponse {
	return dto.ProductResponse{
		ID:            p.ID,
		AlbumTitle:    p.AlbumTitle,
		SongTitle:     p.SongTitle,
		ArtistName:    p.ArtistName,
		ProductType:   string(p.Type),
		Price:         p.Price.StringFixed(2),
		StockQuantity: p.StockQuantity,
		ProviderName:  p.ProviderName,
	}
}

func toCartResponse(cart model.Cart) dto.CartResponse {
	items := make([]dto.CartItemResponse, 0, len(cart.Items))
	for _, item := range cart.Items {
		items = append(items, dto.CartItemResponse{
			Product:  toProductResponse(item.Product),
			Quantity: item.Quantity,
			Subtotal: item.Subtotal().StringFixed(2),
		})
	}
	return dto.CartResponse{
		Items:     items,
		ItemCount: cart.ItemCount(),
		Total:     cart.Total().StringFixed(2),
	}
}

func toNoticeResponse(n usecase.Notice) *dto.NoticeResponse {
	if n.Kind == usecase.NoticeNone {
		return nil
	}
	return &dto.NoticeResponse{
		Kind:      string(n.Kind),
		ProductID: n.ProductID,
		Name:      n.Name,
		Quantity:  n.Quantity,
	}
}

func toOrderItemResponse(item model.OrderItem, actions []model.ItemAction, inFlight bool) dto.OrderItemResponse {
	names := make([]string, 0, len(actions))
	for _, a := range actions {
		names = append(names, string(a))
	}
	return dto.OrderItemResponse{
		ID:              item.ID,
		Product:         toProductResponse(item.Product),
		Quantity:        item.Quantity,
		Price:           item.Price.StringFixed(2),
		Subtotal:        item.Subtotal.StringFixed(2),
		ProviderName:    item.ProviderName,
		Status:          string(item.Status),
		StatusLabel:     usecase.StatusLabel(item.Status),
		RejectionReason: item.RejectionReason,
		ShippedAt:       formatTime(item.ShippedAt),
		Actions:         names,
		InFlight:        inFlight,
	}
}

func toReviewResponse(r *model.Review) *dto.ReviewResponse {
	if r == nil {
		return nil
	}
	return &dto.ReviewResponse{Rating: r.Rating, Comment: r.Comment, CreatedAt: formatTime(r.CreatedAt)}
}

func toOrderViewResponse(v usecase.OrderView) dto.OrderViewResponse {
	o := v.Order
	timeline := make([]dto.TimelineStepResponse, 0, len(v.Timeline))
	for _, step := range v.Timeline {
		timeline = append(timeline, dto.TimelineStepResponse{Name: step.Name, Complete: step.Complete, At: formatTime(step.At)})
	}
	badges := make([]dto.BadgeResponse, 0, len(v.Badges))
	for _, b := range v.Badges {
		badges = append(badges, dto.BadgeResponse{Status: string(b.Status), Count: b.Count, Label: b.Label})
	}
	items := make([]dto.OrderItemResponse, 0, len(v.Items))
	for _, item := range v.Items {
		items = append(items, toOrderItemResponse(item.Item, item.Actions, item.InFlight))
	}
	return dto.OrderViewResponse{
		ID:                o.ID,
		OrderNumber:       o.OrderNumber,
		Status:            string(o.Status),
		StatusLabel:       v.StatusLabel,
		PaymentMethod:     string(o.PaymentMethod),
		ShippingAddress:   o.ShippingAddress,
		CreatedAt:         formatTime(o.CreatedAt),
		ShippedAt:         formatTime(v.EarliestShippedAt),
		DeliveredAt:       formatTime(o.DeliveredAt),
		Total:             o.Total.StringFixed(2),
		Timeline:          timeline,
		Badges:            badges,
		Items:             items,
		Review:            toReviewResponse(o.Review),
		CanReview:         v.CanReview,
		CanConfirmReceipt: v.CanConfirmReceipt,
		ReceiptInFlight:   v.ReceiptInFlight,
		ReviewInFlight:    v.ReviewInFlight,
	}
}

func toOrderViewsResponse(views []usecase.OrderView) []dto.OrderViewResponse {
	out := make([]dto.OrderViewResponse, 0, len(views))
	for _, v := range views {
		out = append(out, toOrderViewResponse(v))
	}
	return out
}

func toOrderCreatedResponse(o model.Order) dto.OrderCreatedResponse {
	items := make([]dto.OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, toOrderItemResponse(item, nil, false))
	}
	return dto.OrderCreatedResponse{
		ID:          o.ID,
		OrderNumber: o.OrderNumber,
		Status:      string(o.Status),
		Total:       o.Total.StringFixed(2),
		Items:       items,
	}
}

func toNotificationsResponse(state worker.NotificationState) dto.NotificationsResponse {
	list := make([]dto.NotificationResponse, 0, len(state.Notifications))
	for _, n := range state.Notifications {
		list = append(list, dto.NotificationResponse{
			ID:        n.ID,
			Type:      string(n.Type),
			Title:     n.Title,
			Message:   n.Message,
			IsRead:    n.IsRead,
			OrderID:   n.OrderID,
			CreatedAt: formatTime(n.CreatedAt),
		})
	}
	resp := dto.NotificationsResponse{Notifications: list, UnreadCount: state.UnreadCount}
	if !state.RefreshedAt.IsZero() {
		resp.RefreshedAt = state.RefreshedAt.UTC().Format(time.RFC3339)
	}
	return resp
}
