package http

import (
	"errors"
	"net/http"

	inErrors "github.com/stylora/marketplace/internal/errors"
)

// StatusCodeFromError maps service errors to HTTP status codes. Anything
// outside the known sentinels is treated as an internal error.
func StatusCodeFromError(err error) int {
	switch {
	case errors.Is(err, inErrors.ErrCouponNotFound),
		errors.Is(err, inErrors.ErrCartItemNotFound),
		errors.Is(err, inErrors.ErrWishlistItemNotFound),
		errors.Is(err, inErrors.ErrProductNotFound),
		errors.Is(err, inErrors.ErrOrderNotFound):
		return http.StatusNotFound
	case errors.Is(err, inErrors.ErrEmptyCouponCode),
		errors.Is(err, inErrors.ErrCouponExpired),
		errors.Is(err, inErrors.ErrCouponBrandMismatch),
		errors.Is(err, inErrors.ErrBelowMinOrderValue),
		errors.Is(err, inErrors.ErrEmptyCart):
		return http.StatusUnprocessableEntity
	case errors.Is(err, inErrors.ErrEmptyAuth),
		errors.Is(err, inErrors.ErrEmptySubject),
		errors.Is(err, inErrors.ErrTokenInvalid):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
