package test

import (
	"context"
	"slices"
	"sync"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// MemoryCartSlots is an in-memory CartSlotRepository.
type MemoryCartSlots struct {
	mu    sync.Mutex
	Slots map[string][]byte
	Saves int
}

var _ repository.CartSlotRepository = (*MemoryCartSlots)(nil)

// NewMemoryCartSlots constructs an empty slot store.
func NewMemoryCartSlots() *MemoryCartSlots {
	return &MemoryCartSlots{Slots: make(map[string][]byte)}
}

func (m *MemoryCartSlots) Load(_ context.Context, slot string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Slots[slot]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return raw, nil
}

func (m *MemoryCartSlots) Save(_ context.Context, slot string, payload []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	m.Slots[slot] = append([]byte(nil), payload...)
	return nil
}

func (m *MemoryCartSlots) Delete(_ context.Context, slot string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.Slots, slot)
	return nil
}

// Get returns the payload stored in slot.
func (m *MemoryCartSlots) Get(slot string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Slots[slot]
	return string(raw), ok
}

// HealthStub satisfies a health checker with a fixed result.
type HealthStub struct {
	Err error
}

func (h HealthStub) HealthCheck(context.Context) error {
	return h.Err
}

// MarketplaceStub simulates the marketplace API in memory.
// Mutations apply the requested transition without server-side validation.
type MarketplaceStub struct {
	mu            sync.Mutex
	products      map[int64]model.Product
	orders        map[int64]model.Order
	notifications []model.Notification
	calls         []string
	nextOrderID   int64

	// MutationErr is returned by every mutation when set.
	MutationErr error
	// FetchErr is returned by every read when set.
	FetchErr error
}

var _ repository.StoreAPI = (*MarketplaceStub)(nil)

// NewMarketplaceStub constructs an empty marketplace.
func NewMarketplaceStub() *MarketplaceStub {
	return &MarketplaceStub{
		products:    make(map[int64]model.Product),
		orders:      make(map[int64]model.Order),
		nextOrderID: 1000,
	}
}

// AddProduct stores catalog products.
func (s *MarketplaceStub) AddProduct(products ...model.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, p := range products {
		s.products[p.ID] = p
	}
}

// AddOrder stores order snapshots.
func (s *MarketplaceStub) AddOrder(orders ...model.Order) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, o := range orders {
		s.orders[o.ID] = cloneOrder(o)
	}
}

// SetNotifications replaces the notification list.
func (s *MarketplaceStub) SetNotifications(list ...model.Notification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = slices.Clone(list)
}

// Calls returns mutation calls in the order they were made.
func (s *MarketplaceStub) Calls() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Snapshot returns the stored order.
func (s *MarketplaceStub) Snapshot(orderID int64) (model.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	return cloneOrder(o), ok
}

func cloneOrder(o model.Order) model.Order {
	o.Items = slices.Clone(o.Items)
	if o.Review != nil {
		review := *o.Review
		o.Review = &review
	}
	return o
}

func (s *MarketplaceStub) sortedOrders(keep func(model.Order) bool) ([]model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	var out []model.Order
	for _, o := range s.orders {
		if keep(o) {
			out = append(out, cloneOrder(o))
		}
	}
	slices.SortFunc(out, func(a, b model.Order) int { return int(a.ID - b.ID) })
	return out, nil
}

func hasPending(o model.Order) bool {
	return slices.ContainsFunc(o.Items, func(i model.OrderItem) bool { return i.Status == model.ItemStatusPending })
}

func (s *MarketplaceStub) CustomerOrders(context.Context, model.Session) ([]model.Order, error) {
	return s.sortedOrders(func(model.Order) bool { return true })
}

func (s *MarketplaceStub) ProviderPending(context.Context, model.Session) ([]model.Order, error) {
	return s.sortedOrders(hasPending)
}

func (s *MarketplaceStub) ProviderHistory(context.Context, model.Session) ([]model.Order, error) {
	return s.sortedOrders(func(o model.Order) bool { return !hasPending(o) })
}

func (s *MarketplaceStub) Order(_ context.Context, _ model.Session, orderID int64) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	o, ok := s.orders[orderID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := cloneOrder(o)
	return &clone, nil
}

func (s *MarketplaceStub) Review(_ context.Context, _ model.Session, orderID int64) (*model.Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.orders[orderID]
	if !ok || o.Review == nil {
		return nil, domainErrors.ErrNotFound
	}
	review := *o.Review
	return &review, nil
}

func (s *MarketplaceStub) Product(_ context.Context, _ model.Session, productID int64) (*model.Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.products[productID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

func (s *MarketplaceStub) CreateOrder(_ context.Context, _ model.Session, req model.NewOrder) (*model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "create")
	if s.MutationErr != nil {
		return nil, s.MutationErr
	}
	s.nextOrderID++
	order := model.Order{
		ID:              s.nextOrderID,
		OrderNumber:     RandomOrderNumber(),
		PaymentMethod:   req.PaymentMethod,
		ShippingAddress: req.ShippingAddress,
		Status:          model.OrderStatusPending,
	}
	for i, line := range req.Lines {
		p := s.products[line.ProductID]
		order.Items = append(order.Items, model.OrderItem{
			ID:       order.ID*10 + int64(i),
			Product:  p,
			Quantity: line.Quantity,
			Price:    p.Price,
			Status:   model.ItemStatusPending,
		})
	}
	s.orders[order.ID] = order
	clone := cloneOrder(order)
	return &clone, nil
}

func (s *MarketplaceStub) mutateItem(call string, itemID int64, apply func(*model.OrderItem)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if s.MutationErr != nil {
		return s.MutationErr
	}
	for id, o := range s.orders {
		for i := range o.Items {
			if o.Items[i].ID == itemID {
				apply(&o.Items[i])
				s.orders[id] = o
				return nil
			}
		}
	}
	return domainErrors.ErrNotFound
}

func (s *MarketplaceStub) AcceptItem(_ context.Context, _ model.Session, itemID int64) error {
	return s.mutateItem("accept", itemID, func(i *model.OrderItem) { i.Status = model.ItemStatusAccepted })
}

func (s *MarketplaceStub) RejectItem(_ context.Context, _ model.Session, itemID int64, reason string) error {
	return s.mutateItem("reject", itemID, func(i *model.OrderItem) {
		i.Status = model.ItemStatusRejected
		i.RejectionReason = reason
	})
}

func (s *MarketplaceStub) ShipItem(_ context.Context, _ model.Session, itemID int64, shippedAt model.Timestamp) error {
	return s.mutateItem("ship", itemID, func(i *model.OrderItem) {
		i.Status = model.ItemStatusShipped
		i.ShippedAt = shippedAt
	})
}

func (s *MarketplaceStub) DeliverItem(_ context.Context, _ model.Session, itemID int64) error {
	return s.mutateItem("deliver", itemID, func(i *model.OrderItem) { i.Status = model.ItemStatusDelivered })
}

func (s *MarketplaceStub) mutateOrder(call string, orderID int64, apply func(*model.Order)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, call)
	if s.MutationErr != nil {
		return s.MutationErr
	}
	o, ok := s.orders[orderID]
	if !ok {
		return domainErrors.ErrNotFound
	}
	apply(&o)
	s.orders[orderID] = o
	return nil
}

func (s *MarketplaceStub) ConfirmReceipt(_ context.Context, _ model.Session, orderID int64) error {
	return s.mutateOrder("receipt", orderID, func(o *model.Order) { o.Status = model.OrderStatusReceived })
}

func (s *MarketplaceStub) CreateReview(_ context.Context, _ model.Session, orderID int64, review model.Review) error {
	return s.mutateOrder("review", orderID, func(o *model.Order) { o.Review = &review })
}

func (s *MarketplaceStub) Notifications(context.Context, model.Session) ([]model.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return nil, s.FetchErr
	}
	return slices.Clone(s.notifications), nil
}

func (s *MarketplaceStub) UnreadCount(context.Context, model.Session) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FetchErr != nil {
		return 0, s.FetchErr
	}
	var n int
	for _, item := range s.notifications {
		if !item.IsRead {
			n++
		}
	}
	return n, nil
}

func (s *MarketplaceStub) MarkAsRead(_ context.Context, _ model.Session, notificationID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, "read")
	if s.MutationErr != nil {
		return s.MutationErr
	}
	for i := range s.notifications {
		if s.notifications[i].ID == notificationID {
			s.notifications[i].IsRead = true
			return nil
		}
	}
	return domainErrors.ErrNotFound
}
