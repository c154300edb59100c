package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrItemNotFound = errors.New("order item not found")
	ErrUnauthorized = errors.New("unauthorized")

	ErrInvalidQuantity         = errors.New("invalid quantity")
	ErrInsufficientStock       = errors.New("insufficient stock")
	ErrEmptyCart               = errors.New("cart is empty")
	ErrInvalidPaymentMethod    = errors.New("invalid payment method")
	ErrShippingAddressRequired = errors.New("shipping address required")

	ErrIllegalTransition       = errors.New("illegal status transition")
	ErrRejectionReasonRequired = errors.New("rejection reason required")
	ErrInvalidShipDate         = errors.New("invalid ship date")
	ErrInvalidRating           = errors.New("rating must be between 1 and 5")
	ErrCommentTooLong          = errors.New("comment too long")
	ErrReviewNotAllowed        = errors.New("order cannot be reviewed")
	ErrReceiptNotAllowed       = errors.New("receipt cannot be confirmed")

	ErrActionInFlight = errors.New("action already in progress")
	ErrRefreshFailed  = errors.New("refresh after action failed")

	ErrCartUnavailable = errors.New("cart unavailable")
)

// InsufficientStockError reports the stock ceiling that rejected a cart mutation.
type InsufficientStockError struct {
	ProductID int64
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock, only %d available", e.Available)
}

func (e *InsufficientStockError) Is(target error) bool {
	return target == ErrInsufficientStock
}

// IsValidation reports whether err was raised before any network call.
func IsValidation(err error) bool {
	for _, target := range []error{
		ErrInvalidQuantity, ErrInsufficientStock, ErrEmptyCart, ErrInvalidPaymentMethod,
		ErrShippingAddressRequired, ErrIllegalTransition, ErrRejectionReasonRequired,
		ErrInvalidShipDate, ErrInvalidRating, ErrCommentTooLong, ErrReviewNotAllowed,
		ErrReceiptNotAllowed,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// APIError is a failure reported by the marketplace API.
// It is recoverable: cached state is left untouched and the action may be retried.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("marketplace api error: status %d", e.Status)
	}
	return fmt.Sprintf("marketplace api error: %s", e.Message)
}
