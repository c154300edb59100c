package model

import "github.com/shopspring/decimal"

// OrderStatus is the order-level status supplied by the marketplace API.
// It is treated as opaque; only the values below carry client-side meaning.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusAccepted   OrderStatus = "ACCEPTED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusReceived   OrderStatus = "RECEIVED"
	OrderStatusRejected   OrderStatus = "REJECTED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
)

// OrderItemStatus describes fulfillment lifecycle of a single vendor line.
type OrderItemStatus string

const (
	ItemStatusPending    OrderItemStatus = "PENDING"
	ItemStatusAccepted   OrderItemStatus = "ACCEPTED"
	ItemStatusRejected   OrderItemStatus = "REJECTED"
	ItemStatusProcessing OrderItemStatus = "PROCESSING"
	ItemStatusShipped    OrderItemStatus = "SHIPPED"
	ItemStatusDelivered  OrderItemStatus = "DELIVERED"
)

// itemTransitions is the item DAG. PROCESSING is applied by the backend on its own.
var itemTransitions = map[OrderItemStatus][]OrderItemStatus{
	ItemStatusPending:    {ItemStatusAccepted, ItemStatusRejected},
	ItemStatusAccepted:   {ItemStatusProcessing, ItemStatusShipped},
	ItemStatusProcessing: {ItemStatusShipped},
	ItemStatusShipped:    {ItemStatusDelivered},
}

// CanTransitionTo reports whether next directly follows s.
func (s OrderItemStatus) CanTransitionTo(next OrderItemStatus) bool {
	for _, candidate := range itemTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// CanReach reports whether next is reachable from s through one or more transitions.
func (s OrderItemStatus) CanReach(next OrderItemStatus) bool {
	for _, step := range itemTransitions[s] {
		if step == next || step.CanReach(next) {
			return true
		}
	}
	return false
}

// Terminal reports whether no transition leaves s.
func (s OrderItemStatus) Terminal() bool {
	return len(itemTransitions[s]) == 0
}

// ItemAction is a user initiated item transition.
type ItemAction string

const (
	ItemActionAccept  ItemAction = "ACCEPT"
	ItemActionReject  ItemAction = "REJECT"
	ItemActionShip    ItemAction = "SHIP"
	ItemActionDeliver ItemAction = "DELIVER"
)

var itemActionRules = map[ItemAction]struct {
	from OrderItemStatus
	to   OrderItemStatus
}{
	ItemActionAccept:  {ItemStatusPending, ItemStatusAccepted},
	ItemActionReject:  {ItemStatusPending, ItemStatusRejected},
	ItemActionShip:    {ItemStatusAccepted, ItemStatusShipped},
	ItemActionDeliver: {ItemStatusShipped, ItemStatusDelivered},
}

// AllowedFrom reports whether a can be offered for an item in status s.
func (a ItemAction) AllowedFrom(s OrderItemStatus) bool {
	rule, ok := itemActionRules[a]
	return ok && rule.from == s
}

// Target returns the status an item reaches once a succeeds.
func (a ItemAction) Target() OrderItemStatus {
	return itemActionRules[a].to
}

// ItemActions lists item actions in presentation order.
var ItemActions = []ItemAction{ItemActionAccept, ItemActionReject, ItemActionShip, ItemActionDeliver}

// PaymentMethod is the payment tag collected at checkout.
type PaymentMethod string

const (
	PaymentCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentPayPal         PaymentMethod = "PAYPAL"
	PaymentBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
)

// Valid reports whether m is an accepted payment tag.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCreditCard, PaymentPayPal, PaymentBankTransfer, PaymentCashOnDelivery:
		return true
	}
	return false
}

// Review is the single customer review attached to an order.
type Review struct {
	Rating    int
	Comment   string
	CreatedAt Timestamp
}

// OrderItem is one vendor's fulfillment unit inside an order.
// Price and Subtotal are captured at purchase time.
type OrderItem struct {
	ID              int64
	Product         Product
	Quantity        int
	Price           decimal.Decimal
	Subtotal        decimal.Decimal
	ProviderName    string
	Status          OrderItemStatus
	RejectionReason string
	ShippedAt       Timestamp
}

// Order is a read-mostly projection of a purchase owned by the marketplace API.
type Order struct {
	ID              int64
	OrderNumber     string
	Items           []OrderItem
	PaymentMethod   PaymentMethod
	ShippingAddress string
	CreatedAt       Timestamp
	ShippedAt       Timestamp
	DeliveredAt     Timestamp
	Total           decimal.Decimal
	Status          OrderStatus
	Review          *Review
}

// Item looks up an order item by id.
func (o *Order) Item(itemID int64) (*OrderItem, bool) {
	for i := range o.Items {
		if o.Items[i].ID == itemID {
			return &o.Items[i], true
		}
	}
	return nil, false
}

// NewOrder is the checkout request sent to the marketplace API.
type NewOrder struct {
	Lines           []NewOrderLine
	PaymentMethod   PaymentMethod
	ShippingAddress string
}

// NewOrderLine is a product and quantity to purchase.
type NewOrderLine struct {
	ProductID int64
	Quantity  int
}
