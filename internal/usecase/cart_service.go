package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
)

// CheckoutInput is what the customer submits at checkout.
type CheckoutInput struct {
	PaymentMethod   model.PaymentMethod `validate:"required,oneof=CREDIT_CARD PAYPAL BANK_TRANSFER CASH_ON_DELIVERY"`
	ShippingAddress string
}

// CartService resolves catalog snapshots for cart mutations and runs checkout.
type CartService struct {
	carts    *CartRegistry
	catalog  repository.Catalog
	placer   repository.OrderPlacer
	orders   *OrderCacheRegistry
	validate *validator.Validate
}

// NewCartService constructs CartService.
func NewCartService(carts *CartRegistry, catalog repository.Catalog, placer repository.OrderPlacer, orders *OrderCacheRegistry) *CartService {
	return &CartService{
		carts:    carts,
		catalog:  catalog,
		placer:   placer,
		orders:   orders,
		validate: newValidator(),
	}
}

// Cart returns the cart manager of session.
func (s *CartService) Cart(ctx context.Context, session model.Session) *CartManager {
	return s.carts.Manager(ctx, session.UserID)
}

// AddProduct looks productID up in the catalog and adds it to the cart.
func (s *CartService) AddProduct(ctx context.Context, session model.Session, productID int64, quantity int) (Notice, error) {
	if quantity < 1 {
		return Notice{}, domainErrors.ErrInvalidQuantity
	}
	product, err := s.catalog.Product(ctx, session, productID)
	if err != nil {
		return Notice{}, fmt.Errorf("lookup product %d: %w", productID, err)
	}
	return s.Cart(ctx, session).AddItem(ctx, *product, quantity)
}

// Checkout places an order for the cart contents and clears the cart on success.
func (s *CartService) Checkout(ctx context.Context, session model.Session, input CheckoutInput) (*model.Order, error) {
	input.ShippingAddress = strings.TrimSpace(input.ShippingAddress)
	if err := s.validate.Struct(input); err != nil {
		return nil, validationError(err)
	}

	cart := s.Cart(ctx, session)
	if err := cart.Hydrate(ctx); err != nil {
		return nil, err
	}
	snapshot := cart.Snapshot()
	if len(snapshot.Items) == 0 {
		return nil, domainErrors.ErrEmptyCart
	}
	if snapshot.HasPhysical() && input.ShippingAddress == "" {
		return nil, domainErrors.ErrShippingAddressRequired
	}

	req := model.NewOrder{PaymentMethod: input.PaymentMethod, ShippingAddress: input.ShippingAddress}
	for _, item := range snapshot.Items {
		req.Lines = append(req.Lines, model.NewOrderLine{ProductID: item.Product.ID, Quantity: item.Quantity})
	}

	orders := s.orders.For(session)
	token := orders.Begin()
	order, err := s.placer.CreateOrder(ctx, session, req)
	if err != nil {
		return nil, err
	}
	cart.Clear(ctx)
	orders.Store(token, *order)
	return order, nil
}
