package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vinylstore/internal/app"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/server/http/dto"
	"github.com/polkiloo/vinylstore/internal/usecase"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
	logger *slog.Logger
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade, logger *slog.Logger) *CartHandler {
	return &CartHandler{facade: facade, logger: logger}
}

func writeCartResult(c *gin.Context, res app.CartResult) {
	c.JSON(http.StatusOK, dto.CartMutationResponse{
		Notice: toNoticeResponse(res.Notice),
		Cart:   toCartResponse(res.Cart),
	})
}

// Get handles GET /api/cart.
func (h *CartHandler) Get(c *gin.Context) {
	cart := h.facade.Cart(c.Request.Context(), CurrentSession(c))
	c.JSON(http.StatusOK, toCartResponse(cart))
}

// Add handles POST /api/cart/items.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}
	quantity := 1
	if req.Quantity != nil {
		quantity = *req.Quantity
	}
	res, err := h.facade.AddToCart(c.Request.Context(), CurrentSession(c), req.ProductID, quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeCartResult(c, res)
}

// Update handles PUT /api/cart/items/:productId.
func (h *CartHandler) Update(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	var req dto.UpdateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}
	res, err := h.facade.UpdateCartItem(c.Request.Context(), CurrentSession(c), productID, *req.Quantity)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeCartResult(c, res)
}

// Remove handles DELETE /api/cart/items/:productId.
func (h *CartHandler) Remove(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	res, err := h.facade.RemoveCartItem(c.Request.Context(), CurrentSession(c), productID)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	writeCartResult(c, res)
}

// Clear handles DELETE /api/cart.
func (h *CartHandler) Clear(c *gin.Context) {
	writeCartResult(c, h.facade.ClearCart(c.Request.Context(), CurrentSession(c)))
}

// Contains handles GET /api/cart/items/:productId.
func (h *CartHandler) Contains(c *gin.Context) {
	productID, ok := pathID(c, "productId")
	if !ok {
		return
	}
	inCart := h.facade.IsInCart(c.Request.Context(), CurrentSession(c), productID)
	c.JSON(http.StatusOK, dto.InCartResponse{ProductID: productID, InCart: inCart})
}

// Checkout handles POST /api/cart/checkout.
func (h *CartHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return
	}
	input := usecase.CheckoutInput{
		PaymentMethod:   model.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.PaymentMethod))),
		ShippingAddress: req.ShippingAddress,
	}
	order, err := h.facade.Checkout(c.Request.Context(), CurrentSession(c), input)
	if err != nil {
		writeError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, toOrderCreatedResponse(*order))
}
