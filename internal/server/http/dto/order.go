package dto

import "encoding/json"

type OrderItemResponse struct {
	ID              int64           `json:"id"`
	Product         ProductResponse `json:"product"`
	Quantity        int             `json:"quantity"`
	Price           string          `json:"price"`
	Subtotal        string          `json:"subtotal"`
	ProviderName    string          `json:"providerName,omitempty"`
	Status          string          `json:"status"`
	StatusLabel     string          `json:"statusLabel"`
	RejectionReason string          `json:"rejectionReason,omitempty"`
	ShippedAt       string          `json:"shippedAt"`
	Actions         []string        `json:"actions"`
	InFlight        bool            `json:"inFlight"`
}

type TimelineStepResponse struct {
	Name     string `json:"name"`
	Complete bool   `json:"complete"`
	At       string `json:"at"`
}

type BadgeResponse struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Label  string `json:"label"`
}

type ReviewResponse struct {
	Rating    int    `json:"rating"`
	Comment   string `json:"comment"`
	CreatedAt string `json:"createdAt"`
}

// OrderViewResponse is an order prepared for display.
type OrderViewResponse struct {
	ID                int64                  `json:"id"`
	OrderNumber       string                 `json:"orderNumber"`
	Status            string                 `json:"status"`
	StatusLabel       string                 `json:"statusLabel"`
	PaymentMethod     string                 `json:"paymentMethod,omitempty"`
	ShippingAddress   string                 `json:"shippingAddress,omitempty"`
	CreatedAt         string                 `json:"createdAt"`
	ShippedAt         string                 `json:"shippedAt"`
	DeliveredAt       string                 `json:"deliveredAt"`
	Total             string                 `json:"total"`
	Timeline          []TimelineStepResponse `json:"timeline"`
	Badges            []BadgeResponse        `json:"badges"`
	Items             []OrderItemResponse    `json:"items"`
	Review            *ReviewResponse        `json:"review,omitempty"`
	CanReview         bool                   `json:"canReview"`
	CanConfirmReceipt bool                   `json:"canConfirmReceipt"`
	ReceiptInFlight   bool                   `json:"receiptInFlight"`
	ReviewInFlight    bool                   `json:"reviewInFlight"`
}

// OrderCreatedResponse is returned by checkout.
type OrderCreatedResponse struct {
	ID          int64               `json:"id"`
	OrderNumber string              `json:"orderNumber"`
	Status      string              `json:"status"`
	Total       string              `json:"total"`
	Items       []OrderItemResponse `json:"items"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// ShipRequest carries an optional ship date in any accepted timestamp shape;
// absent means now.
type ShipRequest struct {
	ShippedAt json.RawMessage `json:"shippedAt"`
}

type ReviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment"`
}
