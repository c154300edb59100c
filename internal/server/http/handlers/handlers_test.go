package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/polkiloo/vinylstore/internal/adapter/storeapi"
	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/server/http/dto"
	"github.com/polkiloo/vinylstore/internal/server/http/middleware"
	"github.com/polkiloo/vinylstore/internal/test/storefront"
	"github.com/polkiloo/vinylstore/internal/usecase"
)

var discard = slog.New(slog.NewJSONHandler(io.Discard, nil))

func init() {
	gin.SetMode(gin.TestMode)
}

func asSession(session model.Session) func(*gin.Context) {
	return func(c *gin.Context) { c.Set(middleware.SessionContextKey, session) }
}

func performRequest(t *testing.T, method, route, path string, handler gin.HandlerFunc, setup func(*gin.Context), body []byte) *httptest.ResponseRecorder {
	t.Helper()
	router := gin.New()
	router.Handle(method, route, func(c *gin.Context) {
		if setup != nil {
			setup(c)
		}
		handler(c)
	})

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", w.Body.String(), err)
	}
	return v
}

func vinyl(id int64, price string, stock int) model.Product {
	return model.Product{
		ID:            id,
		AlbumTitle:    "Blue Train",
		ArtistName:    "John Coltrane",
		Type:          model.ProductTypeVinyl,
		Price:         decimal.RequireFromString(price),
		StockQuantity: stock,
	}
}

func TestCurrentSession(t *testing.T) {
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if got := CurrentSession(c); got.UserID != 0 {
		t.Fatalf("expected zero session when not set, got %+v", got)
	}

	c.Set(middleware.SessionContextKey, model.Session{UserID: 42})
	if got := CurrentSession(c); got.UserID != 42 {
		t.Fatalf("expected 42, got %d", got.UserID)
	}
}

func TestWriteErrorMapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{"stock", &domainErrors.InsufficientStockError{ProductID: 1, Available: 2}, http.StatusConflict},
		{"in flight", domainErrors.ErrActionInFlight, http.StatusConflict},
		{"validation", fmt.Errorf("ship: %w", domainErrors.ErrInvalidShipDate), http.StatusUnprocessableEntity},
		{"illegal transition", fmt.Errorf("%w: from SHIPPED", domainErrors.ErrIllegalTransition), http.StatusUnprocessableEntity},
		{"empty cart", domainErrors.ErrEmptyCart, http.StatusUnprocessableEntity},
		{"not found", domainErrors.ErrNotFound, http.StatusNotFound},
		{"item not found", domainErrors.ErrItemNotFound, http.StatusNotFound},
		{"unauthorized", domainErrors.ErrUnauthorized, http.StatusUnauthorized},
		{"rate limited", storeapi.TooManyRequestsError{RetryAfter: 1500 * time.Millisecond}, http.StatusTooManyRequests},
		{"upstream", &domainErrors.APIError{Status: 503}, http.StatusBadGateway},
		{"refresh", fmt.Errorf("%w: %w", domainErrors.ErrRefreshFailed, domainErrors.ErrNotFound), http.StatusBadGateway},
		{"cart unavailable", fmt.Errorf("%w: %w", domainErrors.ErrCartUnavailable, errors.New("connection reset")), http.StatusServiceUnavailable},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
			writeError(c, discard, tt.err)
			if w.Code != tt.status {
				t.Fatalf("expected %d, got %d", tt.status, w.Code)
			}
		})
	}
}

func TestWriteErrorBodies(t *testing.T) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, discard, &domainErrors.InsufficientStockError{ProductID: 1, Available: 2})
	body := decode[dto.ErrorResponse](t, w)
	if body.Available == nil || *body.Available != 2 {
		t.Fatalf("expected available=2, got %+v", body)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, discard, storeapi.TooManyRequestsError{RetryAfter: 1500 * time.Millisecond})
	if got := w.Header().Get("Retry-After"); got != "2" {
		t.Fatalf("expected Retry-After rounded up to 2, got %q", got)
	}

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, discard, errors.New("secret detail"))
	if body := decode[dto.ErrorResponse](t, w); body.Error != "internal error" {
		t.Fatalf("expected generic message, got %q", body.Error)
	}
}

func TestWriteErrorLogsWithInjectedLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, logger, errors.New("boom"))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("expected a JSON log line, got %q: %v", buf.String(), err)
	}
	if entry["msg"] != "request failed" || entry["error"] != "boom" {
		t.Fatalf("unexpected log entry %v", entry)
	}

	buf.Reset()
	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	writeError(c, logger, domainErrors.ErrEmptyCart)
	if buf.Len() != 0 {
		t.Fatalf("client errors are not logged, got %q", buf.String())
	}
}

func TestPathID(t *testing.T) {
	handler := func(c *gin.Context) {
		if id, ok := pathID(c, "id"); ok {
			c.JSON(http.StatusOK, gin.H{"id": id})
		}
	}
	if w := performRequest(t, http.MethodGet, "/:id", "/17", handler, nil, nil); w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, raw := range []string{"/abc", "/0", "/-3"} {
		if w := performRequest(t, http.MethodGet, "/:id", raw, handler, nil, nil); w.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", raw, w.Code)
		}
	}
}

func TestCartHandlerAddAndGet(t *testing.T) {
	f := storefront.New(t)
	f.API.AddProduct(vinyl(5, "19.5", 3))
	h := NewCartHandler(f.Facade, discard)
	session := asSession(storefront.Customer)

	w := performRequest(t, http.MethodPost, "/cart/items", "/cart/items", h.Add, session, []byte(`{"productId":5}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	res := decode[dto.CartMutationResponse](t, w)
	if res.Notice == nil || res.Notice.Kind != string(usecase.NoticeItemAdded) || res.Notice.Quantity != 1 {
		t.Fatalf("unexpected notice %+v", res.Notice)
	}
	if res.Cart.ItemCount != 1 || res.Cart.Total != "19.50" || res.Cart.Items[0].Product.Price != "19.50" {
		t.Fatalf("unexpected cart %+v", res.Cart)
	}

	w = performRequest(t, http.MethodPost, "/cart/items", "/cart/items", h.Add, session, []byte(`{"productId":5,"quantity":3}`))
	if w.Code != http.StatusConflict {
		t.Fatalf("expected 409 on stock overflow, got %d", w.Code)
	}
	if body := decode[dto.ErrorResponse](t, w); body.Available == nil || *body.Available != 3 {
		t.Fatalf("expected available=3, got %+v", body)
	}

	w = performRequest(t, http.MethodPost, "/cart/items", "/cart/items", h.Add, session, []byte(`{"productId":404}`))
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, "/cart/items", "/cart/items", h.Add, session, []byte(`{`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", w.Code)
	}

	w = performRequest(t, http.MethodGet, "/cart", "/cart", h.Get, session, nil)
	if cart := decode[dto.CartResponse](t, w); cart.ItemCount != 1 {
		t.Fatalf("expected rejected add to leave cart at 1 item, got %+v", cart)
	}
}

func TestCartHandlerUpdateRemoveClear(t *testing.T) {
	f := storefront.New(t)
	f.API.AddProduct(vinyl(5, "10", 5))
	h := NewCartHandler(f.Facade, discard)
	session := asSession(storefront.Customer)
	performRequest(t, http.MethodPost, "/cart/items", "/cart/items", h.Add, session, []byte(`{"productId":5,"quantity":2}`))

	w := performRequest(t, http.MethodPut, "/cart/items/:productId", "/cart/items/5", h.Update, session, []byte(`{"quantity":4}`))
	if res := decode[dto.CartMutationResponse](t, w); res.Cart.Total != "40.00" {
		t.Fatalf("expected total 40.00, got %+v", res.Cart)
	}

	w = performRequest(t, http.MethodPut, "/cart/items/:productId", "/cart/items/5", h.Update, session, []byte(`{}`))
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without quantity, got %d", w.Code)
	}

	w = performRequest(t, http.MethodGet, "/cart/items/:productId", "/cart/items/5", h.Contains, session, nil)
	if res := decode[dto.InCartResponse](t, w); !res.InCart {
		t.Fatalf("expected product in cart")
	}

	w = performRequest(t, http.MethodDelete, "/cart/items/:productId", "/cart/items/5", h.Remove, session, nil)
	res := decode[dto.CartMutationResponse](t, w)
	if res.Notice == nil || res.Notice.Kind != string(usecase.NoticeItemRemoved) || len(res.Cart.Items) != 0 {
		t.Fatalf("unexpected remove result %+v", res)
	}

	w = performRequest(t, http.MethodDelete, "/cart/items/:productId", "/cart/items/5", h.Remove, session, nil)
	if res := decode[dto.CartMutationResponse](t, w); res.Notice != nil {
		t.Fatalf("expected no notice for absent product, got %+v", res.Notice)
	}

	w = performRequest(t, http.MethodDelete, "/cart", "/cart", h.Clear, session, nil)
	if res := decode[dto.CartMutationResponse](t, w); res.Notice == nil || res.Notice.Kind != string(usecase.NoticeCartCleared) {
		t.Fatalf("expected cleared notice, got %+v", res.Notice)
	}
}

func TestCartHandlerCheckout(t *testing.T) {
	f := storefront.New(t)
	f.API.AddProduct(vinyl(5, "10", 5))
	h := NewCartHandler(f.Facade, discard)
	session := asSession(storefront.Customer)

	w := performRequest(t, http.MethodPost, "/checkout", "/checkout", h.Checkout, session, []byte(`{"paymentMethod":"PAYPAL"}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty cart, got %d", w.Code)
	}

	performRequest(t, http.MethodPost, "/cart/items", "/cart/items", h.Add, session, []byte(`{"productId":5}`))
	w = performRequest(t, http.MethodPost, "/checkout", "/checkout", h.Checkout, session, []byte(`{"paymentMethod":"paypal"}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 without shipping address, got %d", w.Code)
	}
	w = performRequest(t, http.MethodPost, "/checkout", "/checkout", h.Checkout, session, []byte(`{"paymentMethod":"BITCOIN","shippingAddress":"x"}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unknown payment method, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, "/checkout", "/checkout", h.Checkout, session, []byte(`{"paymentMethod":"paypal","shippingAddress":"1 Main St"}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	order := decode[dto.OrderCreatedResponse](t, w)
	if order.Status != string(model.OrderStatusPending) || len(order.Items) != 1 || order.Items[0].StatusLabel == "" {
		t.Fatalf("unexpected order %+v", order)
	}
}

func TestProviderHandlerItemActions(t *testing.T) {
	f := storefront.New(t)
	f.API.AddOrder(model.Order{
		ID:          9,
		OrderNumber: "ORD-9",
		Status:      model.OrderStatusPending,
		Items: []model.OrderItem{
			{ID: 91, Status: model.ItemStatusPending, Product: vinyl(5, "10", 1)},
			{ID: 92, Status: model.ItemStatusAccepted, Product: vinyl(6, "10", 1)},
		},
	})
	h := NewProviderHandler(f.Facade, discard)
	session := asSession(storefront.Provider)
	route := "/orders/:orderId/items/:itemId/"

	w := performRequest(t, http.MethodGet, "/pending", "/pending", h.Pending, session, nil)
	views := decode[[]dto.OrderViewResponse](t, w)
	if len(views) != 1 || len(views[0].Items[0].Actions) != 2 {
		t.Fatalf("expected accept and reject for pending item, got %+v", views)
	}

	w = performRequest(t, http.MethodPost, route+"reject", "/orders/9/items/91/reject", h.Reject, session, []byte(`{"reason":"  "}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for blank reason, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, route+"accept", "/orders/9/items/91/accept", h.Accept, session, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if view := decode[dto.OrderViewResponse](t, w); view.Items[0].Status != string(model.ItemStatusAccepted) {
		t.Fatalf("expected refreshed accepted item, got %+v", view.Items[0])
	}

	w = performRequest(t, http.MethodPost, route+"ship", "/orders/9/items/92/ship", h.Ship, session, []byte(`{"shippedAt":"2024-03-04T09:30:00Z"}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	view := decode[dto.OrderViewResponse](t, w)
	if view.Items[1].ShippedAt != "2024-03-04T09:30:00Z" || view.ShippedAt != "2024-03-04T09:30:00Z" {
		t.Fatalf("unexpected ship dates item=%q order=%q", view.Items[1].ShippedAt, view.ShippedAt)
	}
	if view.Items[0].ShippedAt != model.DateUnavailable {
		t.Fatalf("expected placeholder for unshipped item, got %q", view.Items[0].ShippedAt)
	}

	w = performRequest(t, http.MethodPost, route+"deliver", "/orders/9/items/91/deliver", h.Deliver, session, nil)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 delivering an accepted item, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, route+"ship", "/orders/9/items/91/ship", h.Ship, session, []byte(`{"shippedAt":"next week"}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for unparseable ship date, got %d", w.Code)
	}
	w = performRequest(t, http.MethodPost, route+"ship", "/orders/9/items/91/ship", h.Ship, session, []byte(`{"shippedAt":[2024,3,5,14,0]}`))
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 for component ship date, got %d: %s", w.Code, w.Body.String())
	}
	if view := decode[dto.OrderViewResponse](t, w); view.Items[0].ShippedAt != "2024-03-05T14:00:00Z" {
		t.Fatalf("unexpected ship date from components %q", view.Items[0].ShippedAt)
	}

	w = performRequest(t, http.MethodPost, route+"accept", "/orders/9/items/99/accept", h.Accept, session, nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown item, got %d", w.Code)
	}

	f.API.MutationErr = &domainErrors.APIError{Status: 500, Message: "down"}
	w = performRequest(t, http.MethodPost, route+"deliver", "/orders/9/items/92/deliver", h.Deliver, session, nil)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("expected 502 on upstream failure, got %d", w.Code)
	}
}

func TestOrderHandlerReceiptAndReview(t *testing.T) {
	f := storefront.New(t)
	f.API.AddOrder(model.Order{
		ID:     3,
		Status: model.OrderStatusDelivered,
		Items:  []model.OrderItem{{ID: 31, Status: model.ItemStatusDelivered}},
	})
	h := NewOrderHandler(f.Facade, discard)
	session := asSession(storefront.Customer)

	w := performRequest(t, http.MethodGet, "/orders/:orderId", "/orders/3", h.Get, session, nil)
	view := decode[dto.OrderViewResponse](t, w)
	if !view.CanReview || !view.CanConfirmReceipt || len(view.Timeline) != 3 {
		t.Fatalf("unexpected view %+v", view)
	}

	w = performRequest(t, http.MethodPost, "/orders/:orderId/review", "/orders/3/review", h.SubmitReview, session, []byte(`{"rating":6}`))
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for rating 6, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, "/orders/:orderId/receipt", "/orders/3/receipt", h.ConfirmReceipt, session, nil)
	if view := decode[dto.OrderViewResponse](t, w); view.Status != string(model.OrderStatusReceived) || view.CanConfirmReceipt {
		t.Fatalf("unexpected view after receipt %+v", view)
	}

	w = performRequest(t, http.MethodPost, "/orders/:orderId/review", "/orders/3/review", h.SubmitReview, session, []byte(`{"rating":5,"comment":" great pressing "}`))
	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}
	if view := decode[dto.OrderViewResponse](t, w); view.CanReview || view.Review == nil || view.Review.Comment != "great pressing" {
		t.Fatalf("unexpected view after review %+v", view)
	}

	w = performRequest(t, http.MethodGet, "/orders/:orderId/review", "/orders/3/review", h.Review, session, nil)
	if review := decode[dto.ReviewResponse](t, w); review.Rating != 5 {
		t.Fatalf("unexpected review %+v", review)
	}
}

func TestNotificationHandler(t *testing.T) {
	f := storefront.New(t)
	orderID := int64(9)
	f.API.SetNotifications(
		model.Notification{ID: 1, Type: model.NotificationNewOrder, Title: "New order", OrderID: &orderID},
		model.Notification{ID: 2, Type: model.NotificationSystem, Title: "Maintenance", IsRead: true},
	)
	h := NewNotificationHandler(f.Facade, discard)
	session := asSession(storefront.Provider)

	w := performRequest(t, http.MethodGet, "/notifications", "/notifications", h.List, session, nil)
	list := decode[dto.NotificationsResponse](t, w)
	if list.UnreadCount != 1 || len(list.Notifications) != 2 || list.RefreshedAt == "" {
		t.Fatalf("unexpected list %+v", list)
	}
	if list.Notifications[0].CreatedAt != model.DateUnavailable {
		t.Fatalf("expected placeholder created date, got %q", list.Notifications[0].CreatedAt)
	}

	w = performRequest(t, http.MethodGet, "/notifications/:id/target", "/notifications/1/target", h.Target, session, nil)
	target := decode[dto.TargetResponse](t, w)
	if target.Screen != "provider_pending_orders" || target.OrderID == nil || *target.OrderID != 9 {
		t.Fatalf("unexpected target %+v", target)
	}

	w = performRequest(t, http.MethodPost, "/notifications/:id/read", "/notifications/1/read", h.MarkRead, session, nil)
	if list := decode[dto.NotificationsResponse](t, w); list.UnreadCount != 0 {
		t.Fatalf("expected unread count 0, got %d", list.UnreadCount)
	}
}

func TestSessionHandler(t *testing.T) {
	f := storefront.New(t)
	h := NewSessionHandler(f.Facade)

	w := performRequest(t, http.MethodGet, "/health", "/health", h.Health, nil, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	f.Health.Err = errors.New("database unreachable")
	w = performRequest(t, http.MethodGet, "/health", "/health", h.Health, nil, nil)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", w.Code)
	}

	w = performRequest(t, http.MethodPost, "/logout", "/logout", h.Logout, asSession(storefront.Customer), nil)
	if w.Code != http.StatusNoContent {
		t.Fatalf("expected 204, got %d", w.Code)
	}
}
