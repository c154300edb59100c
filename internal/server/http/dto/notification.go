package dto

type NotificationResponse struct {
	ID        int64  `json:"id"`
	Type      string `json:"type"`
	Title     string `json:"title"`
	Message   string `json:"message"`
	IsRead    bool   `json:"isRead"`
	OrderID   *int64 `json:"orderId,omitempty"`
	CreatedAt string `json:"createdAt"`
}

// NotificationsResponse is the reflected notification state of a session.
type NotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	UnreadCount   int                    `json:"unreadCount"`
	RefreshedAt   string                 `json:"refreshedAt,omitempty"`
}

type TargetResponse struct {
	Screen  string `json:"screen"`
	OrderID *int64 `json:"orderId,omitempty"`
}
