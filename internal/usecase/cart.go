package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// NoticeKind is the condition signaled by a cart mutation.
type NoticeKind string

const (
	NoticeNone            NoticeKind = ""
	NoticeItemAdded       NoticeKind = "item_added"
	NoticeQuantityUpdated NoticeKind = "quantity_updated"
	NoticeItemRemoved     NoticeKind = "item_removed"
	NoticeCartCleared     NoticeKind = "cart_cleared"
)

// Notice describes the outcome of a successful cart mutation.
type Notice struct {
	Kind      NoticeKind
	ProductID int64
	Name      string
	Quantity  int
}

// CartManager owns one cart and keeps its persisted slot in sync.
// All methods are safe for concurrent use; mutations apply in call order.
type CartManager struct {
	mu       sync.Mutex
	cart     model.Cart
	store    repository.CartSlotRepository
	slot     string
	logger   *slog.Logger
	hydrated bool
}

// NewCartManager constructs an empty manager bound to slot.
func NewCartManager(store repository.CartSlotRepository, slot string, logger *slog.Logger) *CartManager {
	return &CartManager{
		store:  store,
		slot:   slot,
		logger: logger.With(slog.String("cart_slot", slot)),
	}
}

// Hydrate loads the persisted cart once. A missing or corrupt slot leaves the
// cart empty. Any other read failure is returned and the load is retried on the
// next call.
func (m *CartManager) Hydrate(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hydrateLocked(ctx)
}

func (m *CartManager) hydrateLocked(ctx context.Context) error {
	if m.hydrated {
		return nil
	}

	raw, err := m.store.Load(context.WithoutCancel(ctx), m.slot)
	if errors.Is(err, domainErrors.ErrNotFound) {
		m.hydrated = true
		return nil
	}
	if err != nil {
		m.logger.Warn("cart slot unreadable", slog.String("error", err.Error()))
		return fmt.Errorf("%w: %w", domainErrors.ErrCartUnavailable, err)
	}
	m.hydrated = true

	cart, dropped, err := decodeCart(raw)
	if err != nil {
		m.logger.Warn("cart slot corrupt, starting empty", slog.String("error", err.Error()))
		return nil
	}
	if dropped > 0 {
		m.logger.Warn("dropped invalid cart lines", slog.Int("dropped", dropped))
	}
	m.cart = cart
	return nil
}

// AddItem merges quantity of product into the cart.
func (m *CartManager) AddItem(ctx context.Context, product model.Product, quantity int) (Notice, error) {
	if quantity < 1 {
		return Notice{}, domainErrors.ErrInvalidQuantity
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hydrateLocked(ctx); err != nil {
		return Notice{}, err
	}

	idx, present := m.cart.Index(product.ID)
	next := quantity
	if present {
		next += m.cart.Items[idx].Quantity
	}
	if next > product.StockQuantity {
		return Notice{}, &domainErrors.InsufficientStockError{ProductID: product.ID, Available: product.StockQuantity}
	}

	notice := Notice{ProductID: product.ID, Name: product.DisplayName(), Quantity: next}
	if present {
		m.cart.Items[idx] = model.CartItem{Product: product, Quantity: next}
		notice.Kind = NoticeQuantityUpdated
	} else {
		m.cart.Items = append(m.cart.Items, model.CartItem{Product: product, Quantity: next})
		notice.Kind = NoticeItemAdded
	}
	m.persistLocked(ctx)
	return notice, nil
}

// RemoveItem deletes the line for productID. Removing an absent product signals nothing.
func (m *CartManager) RemoveItem(ctx context.Context, productID int64) (Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hydrateLocked(ctx); err != nil {
		return Notice{}, err
	}
	return m.removeLocked(ctx, productID), nil
}

func (m *CartManager) removeLocked(ctx context.Context, productID int64) Notice {
	idx, present := m.cart.Index(productID)
	if !present {
		return Notice{}
	}
	removed := m.cart.Items[idx]
	m.cart.Items = slices.Delete(m.cart.Items, idx, idx+1)
	m.persistLocked(ctx)
	return Notice{Kind: NoticeItemRemoved, ProductID: productID, Name: removed.Product.DisplayName()}
}

// UpdateQuantity sets the quantity of an existing line. Quantities below one remove it.
func (m *CartManager) UpdateQuantity(ctx context.Context, productID int64, quantity int) (Notice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.hydrateLocked(ctx); err != nil {
		return Notice{}, err
	}

	if quantity < 1 {
		return m.removeLocked(ctx, productID), nil
	}
	idx, present := m.cart.Index(productID)
	if !present {
		return Notice{}, domainErrors.ErrNotFound
	}
	item := m.cart.Items[idx]
	if quantity > item.Product.StockQuantity {
		return Notice{}, &domainErrors.InsufficientStockError{ProductID: productID, Available: item.Product.StockQuantity}
	}
	m.cart.Items[idx].Quantity = quantity
	m.persistLocked(ctx)
	return Notice{Kind: NoticeQuantityUpdated, ProductID: productID, Name: item.Product.DisplayName(), Quantity: quantity}, nil
}

// Clear empties the cart and deletes its persisted slot.
func (m *CartManager) Clear(ctx context.Context) Notice {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cart.Items = nil
	m.hydrated = true
	if err := m.store.Delete(context.WithoutCancel(ctx), m.slot); err != nil {
		m.logger.Error("delete cart slot", slog.String("error", err.Error()))
	}
	return Notice{Kind: NoticeCartCleared}
}

// IsInCart reports whether productID has a line in the cart.
func (m *CartManager) IsInCart(productID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, present := m.cart.Index(productID)
	return present
}

// ItemCount returns the total quantity across all lines.
func (m *CartManager) ItemCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.ItemCount()
}

// Total returns the sum of price times quantity over all lines.
func (m *CartManager) Total() decimal.Decimal {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Total()
}

// Snapshot returns a copy of the current cart.
func (m *CartManager) Snapshot() model.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return model.Cart{Items: slices.Clone(m.cart.Items)}
}

// persistLocked writes the whole cart. Write failures are logged; the in-memory
// cart stays authoritative until the next successful write.
func (m *CartManager) persistLocked(ctx context.Context) {
	payload, err := encodeCart(m.cart)
	if err != nil {
		m.logger.Error("encode cart", slog.String("error", err.Error()))
		return
	}
	if err := m.store.Save(context.WithoutCancel(ctx), m.slot, payload); err != nil {
		m.logger.Error("persist cart", slog.String("error", err.Error()))
	}
}
