package worker

import "github.com/polkiloo/vinylstore/internal/domain/model"

// Screen names a front end destination.
type Screen string

const (
	ScreenNotifications   Screen = "notifications"
	ScreenProviderPending Screen = "provider_pending_orders"
	ScreenProviderHistory Screen = "provider_order_history"
	ScreenCustomerOrders  Screen = "customer_orders"
)

// Target is where a notification click navigates to.
type Target struct {
	Screen  Screen
	OrderID *int64
}

type routeKey struct {
	kind model.NotificationType
	role model.Role
}

var routes = map[routeKey]Screen{
	{model.NotificationNewOrder, model.RoleProvider}:       ScreenProviderPending,
	{model.NotificationOrderReceived, model.RoleProvider}:  ScreenProviderHistory,
	{model.NotificationReviewReceived, model.RoleProvider}: ScreenProviderHistory,

	{model.NotificationOrderAccepted, model.RoleCustomer}:  ScreenCustomerOrders,
	{model.NotificationOrderRejected, model.RoleCustomer}:  ScreenCustomerOrders,
	{model.NotificationOrderShipped, model.RoleCustomer}:   ScreenCustomerOrders,
	{model.NotificationOrderDelivered, model.RoleCustomer}: ScreenCustomerOrders,
}

// Route maps a notification to its navigation target for role.
func Route(n model.Notification, role model.Role) Target {
	if screen, ok := routes[routeKey{n.Type, role}]; ok {
		return Target{Screen: screen, OrderID: n.OrderID}
	}
	if n.OrderID != nil {
		switch role {
		case model.RoleCustomer:
			return Target{Screen: ScreenCustomerOrders, OrderID: n.OrderID}
		case model.RoleProvider:
			return Target{Screen: ScreenProviderPending, OrderID: n.OrderID}
		}
	}
	return Target{Screen: ScreenNotifications}
}
