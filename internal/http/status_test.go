package http

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	inErrors "github.com/stylora/marketplace/internal/errors"
)

func TestStatusCodeFromError(t *testing.T) {
	tests := []struct {
		err      error
		expected int
	}{
		{inErrors.ErrCouponNotFound, http.StatusNotFound},
		{inErrors.ErrCartItemNotFound, http.StatusNotFound},
		{inErrors.ErrWishlistItemNotFound, http.StatusNotFound},
		{inErrors.ErrProductNotFound, http.StatusNotFound},
		{inErrors.ErrOrderNotFound, http.StatusNotFound},
		{inErrors.ErrEmptyCouponCode, http.StatusUnprocessableEntity},
		{inErrors.ErrCouponExpired, http.StatusUnprocessableEntity},
		{inErrors.ErrCouponBrandMismatch, http.StatusUnprocessableEntity},
		{inErrors.ErrBelowMinOrderValue, http.StatusUnprocessableEntity},
		{inErrors.ErrEmptyCart, http.StatusUnprocessableEntity},
		{inErrors.ErrEmptyAuth, http.StatusUnauthorized},
		{inErrors.ErrTokenInvalid, http.StatusUnauthorized},
		{fmt.Errorf("boom"), http.StatusInternalServerError},
	}
	for _, test := range tests {
		t.Run(test.err.Error(), func(t *testing.T) {
			assert.Equal(t, test.expected, StatusCodeFromError(test.err))
		})
	}
}

func TestStatusCodeFromWrappedError(t *testing.T) {
	err := fmt.Errorf(
		"failed applying couponCode=SAVE10 with error=%w",
		inErrors.ErrCouponExpired,
	)
	assert.Equal(t, http.StatusUnprocessableEntity, StatusCodeFromError(err))
}
