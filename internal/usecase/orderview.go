package usecase

import (
	"fmt"
	"slices"
	"strings"

	"github.com/polkiloo/vinylstore/internal/domain/model"
)

var statusLabels = map[string]string{
	"PENDING":    "Pending",
	"ACCEPTED":   "Accepted",
	"PROCESSING": "Processing",
	"SHIPPED":    "Shipped",
	"DELIVERED":  "Delivered",
	"RECEIVED":   "Received",
	"REJECTED":   "Rejected",
	"CANCELLED":  "Cancelled",
}

// StatusLabel returns the display label of an order or item status.
// Unknown statuses are shown verbatim.
func StatusLabel[S ~string](status S) string {
	if label, ok := statusLabels[string(status)]; ok {
		return label
	}
	return string(status)
}

// badgePriority orders badges so the most actionable states come first.
var badgePriority = []model.OrderItemStatus{
	model.ItemStatusRejected,
	model.ItemStatusAccepted,
	model.ItemStatusPending,
	model.ItemStatusShipped,
	model.ItemStatusDelivered,
}

// Badge counts order items sharing a status.
type Badge struct {
	Status model.OrderItemStatus
	Count  int
	Label  string
}

// Badges returns the status histogram of order items in priority order.
// Statuses outside the priority list follow in alphabetical order.
func Badges(order model.Order) []Badge {
	counts := make(map[model.OrderItemStatus]int)
	for _, item := range order.Items {
		counts[item.Status]++
	}

	var rest []model.OrderItemStatus
	for status := range counts {
		if !slices.Contains(badgePriority, status) {
			rest = append(rest, status)
		}
	}
	slices.Sort(rest)

	badges := make([]Badge, 0, len(counts))
	for _, status := range append(slices.Clone(badgePriority), rest...) {
		if n := counts[status]; n > 0 {
			badges = append(badges, Badge{
				Status: status,
				Count:  n,
				Label:  fmt.Sprintf("%d %s", n, strings.ToLower(StatusLabel(status))),
			})
		}
	}
	return badges
}

// EarliestShippedAt returns the first ship date among shipped or delivered items,
// falling back to the order-level ship date.
func EarliestShippedAt(order model.Order) model.Timestamp {
	var earliest model.Timestamp
	for _, item := range order.Items {
		if item.Status != model.ItemStatusShipped && item.Status != model.ItemStatusDelivered {
			continue
		}
		if !item.ShippedAt.Valid() {
			continue
		}
		if !earliest.Valid() || item.ShippedAt.Before(earliest) {
			earliest = item.ShippedAt
		}
	}
	if earliest.Valid() {
		return earliest
	}
	return order.ShippedAt
}

// CanReview reports whether a review may be submitted for order.
func CanReview(order model.Order) bool {
	return (order.Status == model.OrderStatusDelivered || order.Status == model.OrderStatusReceived) && order.Review == nil
}

// CanConfirmReceipt reports whether the customer may confirm receipt of order.
func CanConfirmReceipt(order model.Order) bool {
	return order.Status == model.OrderStatusDelivered
}

// AllowedActions lists the item actions role may trigger for item.
func AllowedActions(role model.Role, item model.OrderItem) []model.ItemAction {
	if role != model.RoleProvider {
		return nil
	}
	var actions []model.ItemAction
	for _, action := range model.ItemActions {
		if action.AllowedFrom(item.Status) {
			actions = append(actions, action)
		}
	}
	return actions
}

const (
	StepReceived  = "Received"
	StepInTransit = "In Transit"
	StepDelivered = "Delivered"
)

// TimelineStep is one node of the order progress timeline.
type TimelineStep struct {
	Name     string
	Complete bool
	At       model.Timestamp
}

// Timeline returns the Received, In Transit and Delivered steps of order.
func Timeline(order model.Order) []TimelineStep {
	inTransit, delivered := false, false
	switch order.Status {
	case model.OrderStatusShipped:
		inTransit = true
	case model.OrderStatusDelivered, model.OrderStatusReceived:
		inTransit, delivered = true, true
	}
	return []TimelineStep{
		{Name: StepReceived, Complete: true, At: order.CreatedAt},
		{Name: StepInTransit, Complete: inTransit, At: EarliestShippedAt(order)},
		{Name: StepDelivered, Complete: delivered, At: order.DeliveredAt},
	}
}

// ItemView is an order item with the facts a viewer needs to render it.
type ItemView struct {
	Item        model.OrderItem
	StatusLabel string
	Actions     []model.ItemAction
	InFlight    bool
}

// OrderView is the display model of one order for one viewer role.
type OrderView struct {
	Order             model.Order
	StatusLabel       string
	Timeline          []TimelineStep
	EarliestShippedAt model.Timestamp
	Badges            []Badge
	Items             []ItemView
	CanReview         bool
	CanConfirmReceipt bool
	ReceiptInFlight   bool
	ReviewInFlight    bool
}

// ViewBuilder derives display models from order snapshots.
// It never mutates the snapshot it is given.
type ViewBuilder struct {
	inflight *InFlight
}

// NewViewBuilder constructs ViewBuilder.
func NewViewBuilder(inflight *InFlight) *ViewBuilder {
	return &ViewBuilder{inflight: inflight}
}

// Build derives the view of order for role.
func (b *ViewBuilder) Build(order model.Order, role model.Role) OrderView {
	customer := role == model.RoleCustomer
	view := OrderView{
		Order:             order,
		StatusLabel:       StatusLabel(order.Status),
		Timeline:          Timeline(order),
		EarliestShippedAt: EarliestShippedAt(order),
		Badges:            Badges(order),
		Items:             make([]ItemView, 0, len(order.Items)),
		CanReview:         customer && CanReview(order),
		CanConfirmReceipt: customer && CanConfirmReceipt(order),
		ReceiptInFlight:   b.inflight.Active(ReceiptKey(order.ID)),
		ReviewInFlight:    b.inflight.Active(ReviewKey(order.ID)),
	}
	for _, item := range order.Items {
		view.Items = append(view.Items, ItemView{
			Item:        item,
			StatusLabel: StatusLabel(item.Status),
			Actions:     AllowedActions(role, item),
			InFlight:    b.inflight.Active(ItemKey(item.ID)),
		})
	}
	return view
}

// BuildAll derives views for orders in their given order.
func (b *ViewBuilder) BuildAll(orders []model.Order, role model.Role) []OrderView {
	views := make([]OrderView, 0, len(orders))
	for _, o := range orders {
		views = append(views, b.Build(o, role))
	}
	return views
}
