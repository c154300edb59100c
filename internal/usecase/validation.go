package usecase

import (
	"errors"

	"github.com/go-playground/validator/v10"

	domainErrors "github.com/polkiloo/vinylstore/internal/domain/errors"
)

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

// validationError maps the first failed field onto a domain error.
func validationError(err error) error {
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	switch fields[0].StructField() {
	case "PaymentMethod":
		return domainErrors.ErrInvalidPaymentMethod
	case "Rating":
		return domainErrors.ErrInvalidRating
	case "Comment":
		return domainErrors.ErrCommentTooLong
	}
	return err
}
