package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/vinylstore/internal/adapter/storeapi"
	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
	"github.com/polkiloo/vinylstore/internal/domain/model"
	"github.com/polkiloo/vinylstore/internal/pkg/reqctx"
	"github.com/polkiloo/vinylstore/internal/server/http/dto"
	"github.com/polkiloo/vinylstore/internal/server/http/middleware"
)

// CurrentSession extracts the authenticated session from context.
func CurrentSession(c *gin.Context) model.Session {
	val, ok := c.Get(middleware.SessionContextKey)
	if !ok {
		return model.Session{}
	}
	session, _ := val.(model.Session)
	return session
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "invalid " + name})
		return 0, false
	}
	return id, true
}

// bindOptionalJSON decodes the body into dst unless the body is empty.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "malformed request body"})
		return false
	}
	return true
}

var validationErrors = []error{
	domainErrors.ErrInvalidQuantity,
	domainErrors.ErrEmptyCart,
	domainErrors.ErrInvalidPaymentMethod,
	domainErrors.ErrShippingAddressRequired,
	domainErrors.ErrIllegalTransition,
	domainErrors.ErrRejectionReasonRequired,
	domainErrors.ErrInvalidShipDate,
	domainErrors.ErrInvalidRating,
	domainErrors.ErrCommentTooLong,
	domainErrors.ErrReviewNotAllowed,
	domainErrors.ErrReceiptNotAllowed,
}

func isValidation(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// writeError maps a failure onto a status code and error body. Server-side
// failures are logged with the request logger, or logger if there is none.
func writeError(c *gin.Context, logger *slog.Logger, err error) {
	var (
		stock   *domainErrors.InsufficientStockError
		tooMany storeapi.TooManyRequestsError
		apiErr  *domainErrors.APIError
	)
	status := http.StatusInternalServerError
	body := dto.ErrorResponse{Error: err.Error()}

	switch {
	case errors.As(err, &stock):
		status = http.StatusConflict
		available := stock.Available
		body.Available = &available
	case errors.Is(err, domainErrors.ErrActionInFlight):
		status = http.StatusConflict
	case errors.Is(err, domainErrors.ErrRefreshFailed):
		status = http.StatusBadGateway
	case errors.Is(err, domainErrors.ErrCartUnavailable):
		status = http.StatusServiceUnavailable
	case isValidation(err):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domainErrors.ErrNotFound), errors.Is(err, domainErrors.ErrItemNotFound):
		status = http.StatusNotFound
	case errors.Is(err, domainErrors.ErrUnauthorized):
		status = http.StatusUnauthorized
	case errors.As(err, &tooMany):
		status = http.StatusTooManyRequests
		c.Header("Retry-After", strconv.Itoa(int((tooMany.RetryAfter+time.Second-1)/time.Second)))
	case errors.As(err, &apiErr):
		status = http.StatusBadGateway
	default:
		body.Error = "internal error"
	}

	if status >= http.StatusInternalServerError {
		reqctx.Logger(c.Request.Context(), logger).Error("request failed",
			slog.Int("status", status),
			slog.String("error", err.Error()),
		)
	}
	c.JSON(status, body)
}
