package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"strconv"
	"time"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/domain/repository"
	"github.com/polkiloo/vinylstore/internal/pkg/reqctx"
)

// TooManyRequestsError represents rate limiting signal from the marketplace API.
type TooManyRequestsError struct {
	RetryAfter time.Duration
}

func (e TooManyRequestsError) Error() string {
	return fmt.Sprintf("too many requests, retry after %s", e.RetryAfter)
}

var _ repository.StoreAPI = (*HTTPClient)(nil)

// HTTPClient implements the marketplace API over HTTP.
type HTTPClient struct {
	baseURL    *url.URL
	httpClient *http.Client
	logger     *slog.Logger
}

// envelope mirrors the JSON wrapper of every API response.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// NewHTTPClient creates marketplace API client.
func NewHTTPClient(baseURL string, timeout time.Duration, logger *slog.Logger) (*HTTPClient, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse store api url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("store api url must be absolute")
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: parsed,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

// --- catalog ---

func (c *HTTPClient) Product(ctx context.Context, session model.Session, productID int64) (*model.Product, error) {
	var p productPayload
	if err := c.call(ctx, session, http.MethodGet, id("/api/products", productID), nil, &p); err != nil {
		return nil, err
	}
	product := p.toModel()
	return &product, nil
}

// --- orders ---

func (c *HTTPClient) CreateOrder(ctx context.Context, session model.Session, order model.NewOrder) (*model.Order, error) {
	req := newOrderRequest{PaymentMethod: string(order.PaymentMethod), ShippingAddress: order.ShippingAddress}
	for _, line := range order.Lines {
		req.Items = append(req.Items, newOrderLine{ProductID: line.ProductID, Quantity: line.Quantity})
	}
	var p orderPayload
	if err := c.call(ctx, session, http.MethodPost, "/api/orders", req, &p); err != nil {
		return nil, err
	}
	created := c.toOrder(ctx, p)
	return &created, nil
}

func (c *HTTPClient) CustomerOrders(ctx context.Context, session model.Session) ([]model.Order, error) {
	return c.orders(ctx, session, "/api/orders/my")
}

func (c *HTTPClient) ProviderPending(ctx context.Context, session model.Session) ([]model.Order, error) {
	return c.orders(ctx, session, "/api/provider/orders/pending")
}

func (c *HTTPClient) ProviderHistory(ctx context.Context, session model.Session) ([]model.Order, error) {
	return c.orders(ctx, session, "/api/provider/orders/history")
}

func (c *HTTPClient) Order(ctx context.Context, session model.Session, orderID int64) (*model.Order, error) {
	var p orderPayload
	if err := c.call(ctx, session, http.MethodGet, id("/api/orders", orderID), nil, &p); err != nil {
		return nil, err
	}
	order := c.toOrder(ctx, p)
	return &order, nil
}

func (c *HTTPClient) Review(ctx context.Context, session model.Session, orderID int64) (*model.Review, error) {
	var p *reviewPayload
	if err := c.call(ctx, session, http.MethodGet, id("/api/orders", orderID)+"/review", nil, &p); err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domainErrors.ErrNotFound
	}
	review := c.toReview(ctx, *p)
	return &review, nil
}

func (c *HTTPClient) orders(ctx context.Context, session model.Session, endpoint string) ([]model.Order, error) {
	var raw json.RawMessage
	if err := c.call(ctx, session, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	payloads := decodeList[orderPayload](c.log(ctx), endpoint, raw)
	orders := make([]model.Order, 0, len(payloads))
	for _, p := range payloads {
		orders = append(orders, c.toOrder(ctx, p))
	}
	return orders, nil
}

// --- mutations ---

func (c *HTTPClient) AcceptItem(ctx context.Context, session model.Session, itemID int64) error {
	return c.call(ctx, session, http.MethodPut, id("/api/provider/order-items", itemID)+"/accept", nil, nil)
}

func (c *HTTPClient) RejectItem(ctx context.Context, session model.Session, itemID int64, reason string) error {
	return c.call(ctx, session, http.MethodPut, id("/api/provider/order-items", itemID)+"/reject", rejectRequest{Reason: reason}, nil)
}

func (c *HTTPClient) ShipItem(ctx context.Context, session model.Session, itemID int64, shippedAt model.Timestamp) error {
	at, _ := shippedAt.Time()
	return c.call(ctx, session, http.MethodPut, id("/api/provider/order-items", itemID)+"/ship", shipRequest{ShippedAt: at.UTC().Format(time.RFC3339)}, nil)
}

func (c *HTTPClient) DeliverItem(ctx context.Context, session model.Session, itemID int64) error {
	return c.call(ctx, session, http.MethodPut, id("/api/provider/order-items", itemID)+"/deliver", nil, nil)
}

func (c *HTTPClient) ConfirmReceipt(ctx context.Context, session model.Session, orderID int64) error {
	return c.call(ctx, session, http.MethodPut, id("/api/orders", orderID)+"/confirm-receipt", nil, nil)
}

func (c *HTTPClient) CreateReview(ctx context.Context, session model.Session, orderID int64, review model.Review) error {
	return c.call(ctx, session, http.MethodPost, id("/api/orders", orderID)+"/review", reviewRequest{Rating: review.Rating, Comment: review.Comment}, nil)
}

// --- notifications ---

func (c *HTTPClient) Notifications(ctx context.Context, session model.Session) ([]model.Notification, error) {
	const endpoint = "/api/notifications"
	var raw json.RawMessage
	if err := c.call(ctx, session, http.MethodGet, endpoint, nil, &raw); err != nil {
		return nil, err
	}
	payloads := decodeList[notificationPayload](c.log(ctx), endpoint, raw)
	result := make([]model.Notification, 0, len(payloads))
	for _, p := range payloads {
		result = append(result, c.toNotification(ctx, p))
	}
	return result, nil
}

func (c *HTTPClient) UnreadCount(ctx context.Context, session model.Session) (int, error) {
	var raw json.RawMessage
	if err := c.call(ctx, session, http.MethodGet, "/api/notifications/unread-count", nil, &raw); err != nil {
		return 0, err
	}
	return decodeCount(c.log(ctx), raw), nil
}

func (c *HTTPClient) MarkAsRead(ctx context.Context, session model.Session, notificationID int64) error {
	return c.call(ctx, session, http.MethodPut, id("/api/notifications", notificationID)+"/read", nil, nil)
}

// call issues one request and decodes the envelope data into out when out is non-nil.
func (c *HTTPClient) call(ctx context.Context, session model.Session, method, endpointPath string, body any, out any) error {
	endpoint := *c.baseURL
	endpoint.Path = path.Join(endpoint.Path, endpointPath)

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint.String(), reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session.Token != "" {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}
	if requestID := reqctx.RequestID(ctx); requestID != "" {
		req.Header.Set(reqctx.HeaderXRequestID, requestID)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	switch {
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return c.decodeSuccess(ctx, resp.StatusCode, raw, out)
	case resp.StatusCode == http.StatusUnauthorized:
		return domainErrors.ErrUnauthorized
	case resp.StatusCode == http.StatusNotFound:
		return domainErrors.ErrNotFound
	case resp.StatusCode == http.StatusTooManyRequests:
		return TooManyRequestsError{RetryAfter: parseRetryAfter(resp.Header.Get("Retry-After"))}
	default:
		c.log(ctx).Error("store api request failed",
			slog.String("method", method),
			slog.String("path", endpointPath),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(raw)),
		)
		return &domainErrors.APIError{Status: resp.StatusCode, Message: envelopeMessage(raw)}
	}
}

func (c *HTTPClient) decodeSuccess(ctx context.Context, status int, raw []byte, out any) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if !env.Success {
		c.log(ctx).Warn("store api reported failure", slog.Int("status", status), slog.String("message", env.Message))
		return &domainErrors.APIError{Status: status, Message: env.Message}
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if raw, ok := out.(*json.RawMessage); ok {
		*raw = env.Data
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

func (c *HTTPClient) log(ctx context.Context) *slog.Logger {
	return reqctx.Logger(ctx, c.logger)
}

func envelopeMessage(raw []byte) string {
	var env envelope
	if err := json.Unmarshal(raw, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return ""
}

func id(prefix string, value int64) string {
	return prefix + "/" + strconv.FormatInt(value, 10)
}

func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 5 * time.Second
	}
	if seconds, err := strconv.Atoi(header); err == nil {
		return time.Duration(seconds) * time.Second
	}
	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}
	return 5 * time.Second
}

// IsRetryable reports whether err is a transient upstream failure.
func IsRetryable(err error) bool {
	var tm TooManyRequestsError
	var apiErr *domainErrors.APIError
	return errors.As(err, &tm) || (errors.As(err, &apiErr) && apiErr.Status >= 500)
}
