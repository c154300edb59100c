package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vinylstore/internal/server/http/dto"
	"github.com/polkiloo/vinylstore/internal/usecase"
)

// OrderHandler serves customer order endpoints.
type OrderHandler struct {
	facade OrderFacade
	logger *slog.Logger
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade, logger *slog.Logger) *OrderHandler {
	return &OrderHandler{facade: facade, logger: logger}
}

// List handles GET /api/orders.
func (h *OrderHandler) List(c *gin.Context) {
	views, err := h.facade.CustomerOrders(c.Request.Context(), CurrentSession(c))
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViewsResponse(views))
}

// Get handles GET /api/orders/:orderId.
func (h *OrderHandler) Get(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	view, err := h.facade.Order(c.Request.Context(), CurrentSession(c), orderID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViewResponse(view))
}

// ConfirmReceipt handles POST /api/orders/:orderId/receipt.
func (h *OrderHandler) ConfirmReceipt(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	view, err := h.facade.ConfirmReceipt(c.Request.Context(), CurrentSession(c), orderID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toOrderViewResponse(view))
}

// SubmitReview handles POST /api/orders/:orderId/review.
func (h *OrderHandler) SubmitReview(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	var req dto.ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}
	input := usecase.ReviewInput{Rating: req.Rating, Comment: req.Comment}
	view, err := h.facade.SubmitReview(c.Request.Context(), CurrentSession(c), orderID, input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderViewResponse(view))
}

// Review handles GET /api/orders/:orderId/review.
func (h *OrderHandler) Review(c *gin.Context) {
	orderID, ok := pathID(c, "orderId")
	if !ok {
		return
	}
	review, err := h.facade.Review(c.Request.Context(), CurrentSession(c), orderID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toReviewResponse(review))
}
