package errors

import (
	"errors"
)

var (
	ErrEmptyAuth    = errors.New("missing authorization")
	ErrEmptySubject = errors.New("missing subject")
	ErrTokenInvalid = errors.New("invalid token")

	ErrEmptyCouponCode     = errors.New("coupon code is required")
	ErrCouponNotFound      = errors.New("coupon not found")
	ErrCouponExpired       = errors.New("coupon is expired")
	ErrCouponBrandMismatch = errors.New("coupon is not applicable to any item in cart")
	ErrBelowMinOrderValue  = errors.New("cart total is below coupon minimum order value")

	ErrEmptyCart            = errors.New("cart is empty")
	ErrCartItemNotFound     = errors.New("cart item not found")
	ErrWishlistItemNotFound = errors.New("wishlist item not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrOrderNotFound        = errors.New("order not found")
)

// IsCouponRejection reports whether err is one of the coupon validation
// failures. Cart mutations drop a stored coupon on these instead of failing
// the mutation itself.
func IsCouponRejection(err error) bool {
	return errors.Is(err, ErrEmptyCouponCode) ||
		errors.Is(err, ErrCouponNotFound) ||
		errors.Is(err, ErrCouponExpired) ||
		errors.Is(err, ErrCouponBrandMismatch) ||
		errors.Is(err, ErrBelowMinOrderValue)
}
