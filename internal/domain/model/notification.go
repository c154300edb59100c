package model

// NotificationType selects how a notification is presented and where it routes.
type NotificationType string

const (
	NotificationNewOrder       NotificationType = "NEW_ORDER"
	NotificationOrderAccepted  NotificationType = "ORDER_ACCEPTED"
	NotificationOrderRejected  NotificationType = "ORDER_REJECTED"
	NotificationOrderShipped   NotificationType = "ORDER_SHIPPED"
	NotificationOrderDelivered NotificationType = "ORDER_DELIVERED"
	NotificationOrderReceived  NotificationType = "ORDER_RECEIVED"
	NotificationReviewReceived NotificationType = "REVIEW_RECEIVED"
	NotificationSystem         NotificationType = "SYSTEM"
)

// Notification is a server-created message for a user.
type Notification struct {
	ID        int64
	Type      NotificationType
	Title     string
	Message   string
	IsRead    bool
	OrderID   *int64
	CreatedAt Timestamp
}
