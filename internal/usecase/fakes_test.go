package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

var (
	customer = model.Session{UserID: 1, Role: model.RoleCustomer, Token: "c"}
	provider = model.Session{UserID: 2, Role: model.RoleProvider, Token: "p"}
)

func product(id int64, price string, stock int) model.Product {
	return model.Product{
		ID:            id,
		AlbumTitle:    "Album " + decimal.NewFromInt(id).String(),
		ArtistName:    "Artist",
		Type:          model.ProductTypeVinyl,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

type memSlots struct {
	mu      sync.Mutex
	data    map[string][]byte
	saves   int
	loadErr error
	saveErr error

	// loadFails makes that many Load calls fail before loadErr applies.
	loadFails int
}

func newMemSlots() *memSlots {
	return &memSlots{data: make(map[string][]byte)}
}

func (s *memSlots) Load(ctx context.Context, slot string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loadFails > 0 {
		s.loadFails--
		return nil, errors.New("connection reset")
	}
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	raw, ok := s.data[slot]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return raw, nil
}

func (s *memSlots) Save(_ context.Context, slot string, payload []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves++
	if s.saveErr != nil {
		return s.saveErr
	}
	s.data[slot] = append([]byte(nil), payload...)
	return nil
}

func (s *memSlots) Delete(_ context.Context, slot string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, slot)
	return nil
}

func (s *memSlots) saveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

// fakeMarketplace simulates the marketplace API over in-memory orders.
type fakeMarketplace struct {
	mu         sync.Mutex
	orders     map[int64]model.Order
	products   map[int64]model.Product
	calls      []string
	fetches    int
	mutateErr  error
	fetchErr   error
	block      chan struct{}
	entered    chan struct{}
	created    []model.NewOrder
	createErr  error
	nextNumber int64

	// fetchHold parks the next Order fetch after it has read its snapshot.
	fetchHold    chan struct{}
	fetchEntered chan struct{}
}

func newFakeMarketplace(orders ...model.Order) *fakeMarketplace {
	f := &fakeMarketplace{orders: make(map[int64]model.Order), products: make(map[int64]model.Product)}
	for _, o := range orders {
		f.orders[o.ID] = o
	}
	return f
}

func (f *fakeMarketplace) callLog() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeMarketplace) order(id int64) model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.orders[id]
}

func (f *fakeMarketplace) list() []model.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]model.Order, 0, len(f.orders))
	for _, o := range f.orders {
		out = append(out, o)
	}
	return out
}

func (f *fakeMarketplace) CustomerOrders(context.Context, model.Session) ([]model.Order, error) {
	return f.list(), nil
}

func (f *fakeMarketplace) ProviderPending(context.Context, model.Session) ([]model.Order, error) {
	return f.list(), nil
}

func (f *fakeMarketplace) ProviderHistory(context.Context, model.Session) ([]model.Order, error) {
	return nil, nil
}

func (f *fakeMarketplace) Order(_ context.Context, _ model.Session, orderID int64) (*model.Order, error) {
	f.mu.Lock()
	f.fetches++
	if f.fetchErr != nil {
		err := f.fetchErr
		f.mu.Unlock()
		return nil, err
	}
	o, ok := f.orders[orderID]
	hold, entered := f.fetchHold, f.fetchEntered
	f.fetchHold, f.fetchEntered = nil, nil
	f.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if hold != nil {
		<-hold
	}
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	clone := o
	clone.Items = append([]model.OrderItem(nil), o.Items...)
	return &clone, nil
}

func (f *fakeMarketplace) setStatus(orderID int64, status model.OrderStatus) {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	o.Status = status
	f.orders[orderID] = o
}

func (f *fakeMarketplace) Review(_ context.Context, _ model.Session, orderID int64) (*model.Review, error) {
	o := f.order(orderID)
	if o.Review == nil {
		return nil, domainErrors.ErrNotFound
	}
	return o.Review, nil
}

func (f *fakeMarketplace) enter(call string) error {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	block, entered, err := f.block, f.entered, f.mutateErr
	f.mu.Unlock()
	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return err
}

func (f *fakeMarketplace) updateItem(itemID int64, apply func(*model.OrderItem)) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, o := range f.orders {
		items := append([]model.OrderItem(nil), o.Items...)
		for i := range items {
			if items[i].ID == itemID {
				apply(&items[i])
				o.Items = items
				f.orders[id] = o
				return nil
			}
		}
	}
	return domainErrors.ErrNotFound
}

func (f *fakeMarketplace) AcceptItem(_ context.Context, _ model.Session, itemID int64) error {
	if err := f.enter("accept"); err != nil {
		return err
	}
	return f.updateItem(itemID, func(i *model.OrderItem) { i.Status = model.ItemStatusAccepted })
}

func (f *fakeMarketplace) RejectItem(_ context.Context, _ model.Session, itemID int64, reason string) error {
	if err := f.enter("reject"); err != nil {
		return err
	}
	return f.updateItem(itemID, func(i *model.OrderItem) {
		i.Status = model.ItemStatusRejected
		i.RejectionReason = reason
	})
}

func (f *fakeMarketplace) ShipItem(_ context.Context, _ model.Session, itemID int64, shippedAt model.Timestamp) error {
	if err := f.enter("ship"); err != nil {
		return err
	}
	return f.updateItem(itemID, func(i *model.OrderItem) {
		i.Status = model.ItemStatusShipped
		i.ShippedAt = shippedAt
	})
}

func (f *fakeMarketplace) DeliverItem(_ context.Context, _ model.Session, itemID int64) error {
	if err := f.enter("deliver"); err != nil {
		return err
	}
	return f.updateItem(itemID, func(i *model.OrderItem) { i.Status = model.ItemStatusDelivered })
}

func (f *fakeMarketplace) ConfirmReceipt(_ context.Context, _ model.Session, orderID int64) error {
	if err := f.enter("receipt"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	o.Status = model.OrderStatusReceived
	f.orders[orderID] = o
	return nil
}

func (f *fakeMarketplace) CreateReview(_ context.Context, _ model.Session, orderID int64, review model.Review) error {
	if err := f.enter("review"); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.orders[orderID]
	if o.Review != nil {
		return &domainErrors.APIError{Status: 409, Message: "already reviewed"}
	}
	o.Review = &review
	f.orders[orderID] = o
	return nil
}

func (f *fakeMarketplace) CreateOrder(_ context.Context, _ model.Session, req model.NewOrder) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "create")
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, req)
	f.nextNumber++
	o := model.Order{ID: 1000 + f.nextNumber, OrderNumber: "ORD", Status: model.OrderStatusPending, PaymentMethod: req.PaymentMethod}
	f.orders[o.ID] = o
	return &o, nil
}

func (f *fakeMarketplace) Product(_ context.Context, _ model.Session, productID int64) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.products[productID]
	if !ok {
		return nil, domainErrors.ErrNotFound
	}
	return &p, nil
}

var errUpstream = errors.New("upstream unavailable")
