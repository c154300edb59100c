package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/server/http/dto"
	"github.com/polkiloo/vinylstore/internal/usecase"
)

// ProviderHandler serves the provider fulfillment queue.
type ProviderHandler struct {
	facade ProviderFacade
	logger *slog.Logger
}

// NewProviderHandler constructs ProviderHandler.
func NewProviderHandler(facade ProviderFacade, logger *slog.Logger) *ProviderHandler {
	return &ProviderHandler{facade: facade, logger: logger}
}

// Pending handles GET /api/provider/orders/pending.
func (h *ProviderHandler) Pending(c *gin.Context) {
	h.list(c, h.facade.ProviderPending)
}

// History handles GET /api/provider/orders/history.
func (h *ProviderHandler) History(c *gin.Context) {
	h.list(c, h.facade.ProviderHistory)
}

func (h *ProviderHandler) list(c *gin.Context, fetch func(context.Context, model.Session) ([]usecase.OrderView, error)) {
	views, err := fetch(c.Request.Context(), CurrentSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViewsResponse(views))
}

type itemCall func(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error)

func (h *ProviderHandler) itemAction(c *gin.Context, call itemCall) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	view, err := call(c.Request.Context(), CurrentSession(c), orderID, itemID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViewResponse(view))
}

// Accept handles POST .../items/:itemId/accept.
func (h *ProviderHandler) Accept(c *gin.Context) {
	h.itemAction(c, h.facade.AcceptItem)
}

// Reject handles POST .../items/:itemId/reject.
func (h *ProviderHandler) Reject(c *gin.Context) {
	var req dto.RejectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	h.itemAction(c, func(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error) {
		return h.facade.RejectItem(ctx, session, orderID, itemID, req.Reason)
	})
}

// Ship handles POST .../items/:itemId/ship.
func (h *ProviderHandler) Ship(c *gin.Context) {
	var req dto.ShipRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	shippedAt, err := model.ParseTimestamp(req.ShippedAt)
	if err != nil {
		writeError(c, h.logger, fmt.Errorf("%w: %w", domainErrors.ErrInvalidShipDate, err))
		return
	}
	h.itemAction(c, func(ctx context.Context, session model.Session, orderID, itemID int64) (usecase.OrderView, error) {
		return h.facade.ShipItem(ctx, session, orderID, itemID, shippedAt)
	})
}

// Deliver handles POST .../items/:itemId/deliver.
func (h *ProviderHandler) Deliver(c *gin.Context) {
	h.itemAction(c, h.facade.DeliverItem)
}
